// Package schedule detects overlapping bookings on a room timeline.
//
// Sessions, room rentals and cleaning assignments all compete for the same
// room. Each is reduced to a Slot with a half-open window [Start, End), so a
// booking ending at 20:00 and one starting at 20:00 do not conflict.
package schedule

import (
	"fmt"
	"time"

	"github.com/kirinyoku/cinebook/internal/domain"
)

// ErrConflict is reported when a booking would overlap another on the same
// room or employee.
var ErrConflict = fmt.Errorf("%w: schedule conflict", domain.ErrForbidden)

// ConflictError names the booking that blocked a request.
type ConflictError struct {
	With Slot
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict with %s %s (%s - %s)",
		e.With.Kind, e.With.ID,
		e.With.Start.Format(time.RFC3339), e.With.End.Format(time.RFC3339))
}

func (e ConflictError) Unwrap() error {
	return ErrConflict
}

type Kind string

const (
	KindSession  Kind = "session"
	KindRental   Kind = "rental"
	KindCleaning Kind = "cleaning"
)

// Ref identifies one booking across kinds.
type Ref struct {
	Kind Kind
	ID   string
}

type Slot struct {
	Ref
	RoomID     int64
	EmployeeID int64 // set for cleaning only
	Start      time.Time
	End        time.Time
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidWindow reports whether the window is non-empty.
func ValidWindow(start, end time.Time) bool {
	return !start.IsZero() && start.Before(end)
}

// Timeline is the set of bookings a conflict check runs against.
type Timeline []Slot

// FirstConflict returns the first slot on roomID overlapping [start, end),
// skipping the booking referenced by exclude.
func (t Timeline) FirstConflict(roomID int64, start, end time.Time, exclude *Ref) (Slot, bool) {
	for _, s := range t {
		if s.RoomID != roomID || excluded(s, exclude) {
			continue
		}
		if Overlaps(start, end, s.Start, s.End) {
			return s, true
		}
	}
	return Slot{}, false
}

func (t Timeline) HasConflict(roomID int64, start, end time.Time, exclude *Ref) bool {
	_, ok := t.FirstConflict(roomID, start, end, exclude)
	return ok
}

// EmployeeConflict checks the employee axis: a cleaner cannot be in two
// rooms at once.
func (t Timeline) EmployeeConflict(employeeID int64, start, end time.Time, exclude *Ref) (Slot, bool) {
	for _, s := range t {
		if s.Kind != KindCleaning || s.EmployeeID != employeeID || excluded(s, exclude) {
			continue
		}
		if Overlaps(start, end, s.Start, s.End) {
			return s, true
		}
	}
	return Slot{}, false
}

func excluded(s Slot, exclude *Ref) bool {
	return exclude != nil && s.Ref == *exclude
}
