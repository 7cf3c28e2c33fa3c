// Package repository declares the persistence boundary of the booking core.
// Services only see these interfaces, bound to a unit of work.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/schedule"
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// UnitOfWork runs fn atomically. Every repository reached through r shares
// the transaction; hooks registered through after run only once it commits.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, r Repos, after func(AfterCommit)) error) error
}

type Repos interface {
	Rooms() RoomRepository
	Sessions() SessionRepository
	Tickets() TicketRepository
	Rentals() RentalRepository
	Cleanings() CleaningRepository
	Catalog() CatalogRepository
	Inventory() Inventory
}

type RoomRepository interface {
	Get(ctx context.Context, id int64) (*domain.Room, error)
	// Lock loads the room and holds it until the unit of work ends. Every
	// mutation of a room timeline takes this lock first.
	Lock(ctx context.Context, id int64) (*domain.Room, error)
	UpdateLayout(ctx context.Context, room *domain.Room) error
	Seats(ctx context.Context, roomID int64) ([]domain.Seat, error)
	ReplaceSeats(ctx context.Context, roomID int64, seats []domain.Seat) ([]domain.Seat, error)
	SetPreferential(ctx context.Context, seatID int64, preferential bool) error
	// Timeline returns sessions, non-cancelled rentals and cleaning
	// assignments of the room overlapping [from, to).
	Timeline(ctx context.Context, roomID int64, from, to time.Time) (schedule.Timeline, error)
}

type SessionRepository interface {
	Get(ctx context.Context, id int64) (*domain.Session, error)
	Details(ctx context.Context, id int64) (*domain.SessionDetails, error)
	// Create stores s, sets s.ID and returns it.
	Create(ctx context.Context, s *domain.Session) (int64, error)
	Update(ctx context.Context, s *domain.Session) error
	// InitSeats copies the room's seats into the session, all available.
	InitSeats(ctx context.Context, sessionID, roomID int64) (int64, error)
	// ResetUnfinishedSeats re-initialises the seats of the room's sessions
	// ending after t.
	ResetUnfinishedSeats(ctx context.Context, roomID int64, t time.Time) error
	// UnfinishedIDs lists the room's sessions ending after t.
	UnfinishedIDs(ctx context.Context, roomID int64, t time.Time) ([]int64, error)
	SeatMap(ctx context.Context, sessionID int64) ([]domain.Seat, error)
	// ReserveSeat flips the seat to taken, failing with ErrSeatsUnavailable
	// if it already is.
	ReserveSeat(ctx context.Context, sessionID, seatID int64) error
	ReleaseSeat(ctx context.Context, sessionID, seatID int64) error
	ActiveTickets(ctx context.Context, sessionID int64) (int64, error)
	// UnfinishedActiveTickets counts non-cancelled tickets of the room's
	// sessions ending after t, including sessions already running.
	UnfinishedActiveTickets(ctx context.Context, roomID int64, t time.Time) (int64, error)
}

type TicketRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	Lock(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	Create(ctx context.Context, t *domain.Ticket) error
	UpdateStatus(ctx context.Context, t *domain.Ticket) error
}

type RentalRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.RoomRental, error)
	Lock(ctx context.Context, id uuid.UUID) (*domain.RoomRental, error)
	Create(ctx context.Context, r *domain.RoomRental) error
	Update(ctx context.Context, r *domain.RoomRental) error
}

type CleaningRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.CleaningAssignment, error)
	Create(ctx context.Context, c *domain.CleaningAssignment) error
	Delete(ctx context.Context, id uuid.UUID) error
	// EmployeeTimeline returns the employee's assignments overlapping
	// [from, to) across all rooms.
	EmployeeTimeline(ctx context.Context, employeeID int64, from, to time.Time) (schedule.Timeline, error)
}

// CatalogRepository resolves the directory entities the core reads.
type CatalogRepository interface {
	Film(ctx context.Context, id int64) (*domain.Film, error)
	Employee(ctx context.Context, id int64) (*domain.Employee, error)
	LockEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	CountStaff(ctx context.Context, cinemaID int64, role domain.Role) (int64, error)
	Customer(ctx context.Context, id int64) (*domain.Customer, error)
	LockCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	SaveCustomerPoints(ctx context.Context, c *domain.Customer) error
}

// Inventory is the concession stock service as the core consumes it.
type Inventory interface {
	Product(ctx context.Context, id int64) (*domain.Product, error)
	CheckAvailability(ctx context.Context, productID int64, qty int) (bool, error)
	Deduct(ctx context.Context, productID int64, qty int) error
	Restock(ctx context.Context, productID int64, qty int) error
}
