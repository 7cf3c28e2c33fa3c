package domain

import (
	"time"

	"github.com/google/uuid"
)

type RentalStatus string

const (
	RentalRequested RentalStatus = "requested"
	RentalApproved  RentalStatus = "approved"
	RentalCancelled RentalStatus = "cancelled"
)

type RoomRental struct {
	ID              uuid.UUID
	CustomerID      *int64
	RoomID          int64
	Starts          time.Time
	Ends            time.Time
	Status          RentalStatus
	ValueCents      int64
	BirthdayPackage bool
	CreatedAt       time.Time
}

func (r *RoomRental) IsCancelled() bool {
	return r.Status == RentalCancelled
}

type CleaningStatus string

const CleaningScheduled CleaningStatus = "scheduled"

type CleaningAssignment struct {
	ID         uuid.UUID
	RoomID     int64
	EmployeeID int64
	Starts     time.Time
	Ends       time.Time
	Status     CleaningStatus
}
