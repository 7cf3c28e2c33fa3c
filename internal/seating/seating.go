package seating

import (
	"fmt"
	"strings"

	"github.com/kirinyoku/cinebook/internal/domain"
)

const (
	DefaultSeatsPerRow = 10

	CoupleSurchargeCents       int64 = 1000
	PreferentialSurchargeCents int64 = 500
)

// ValidateLayout checks the room capacity invariant
// 2*couple + accessible <= capacity.
func ValidateLayout(capacity, couple, accessible int) error {
	const op = "seating.ValidateLayout"

	if capacity <= 0 || couple < 0 || accessible < 0 {
		return fmt.Errorf("%s: %w: capacity must be positive and seat counts non-negative", op, domain.ErrInvalidInput)
	}

	if 2*couple+accessible > capacity {
		return fmt.Errorf(
			"%s: %w: %d couple and %d accessible seats do not fit capacity %d",
			op, domain.ErrInvalidInput, couple, accessible, capacity,
		)
	}

	return nil
}

// Generate lays out the seats of a room. Accessible seats take the front
// rows, couple seats the back rows, normal seats everything in between.
// A couple seat occupies two places, so capacity-couple seats are created.
func Generate(roomID int64, capacity, couple, accessible, seatsPerRow int) ([]domain.Seat, error) {
	const op = "seating.Generate"

	if err := ValidateLayout(capacity, couple, accessible); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if seatsPerRow <= 0 {
		seatsPerRow = DefaultSeatsPerRow
	}

	normal := capacity - 2*couple - accessible
	total := accessible + normal + couple

	seats := make([]domain.Seat, 0, total)
	for i := 0; i < total; i++ {
		class, count := domain.SeatNormal, 1
		switch {
		case i < accessible:
			class = domain.SeatAccessible
		case i >= accessible+normal:
			class, count = domain.SeatCouple, 2
		}

		seats = append(seats, domain.Seat{
			RoomID:    roomID,
			Row:       rowLabel(i / seatsPerRow),
			Number:    i%seatsPerRow + 1,
			Class:     class,
			SeatCount: count,
			Available: true,
		})
	}

	return seats, nil
}

// rowLabel maps 0 -> A, 25 -> Z, 26 -> AA.
func rowLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}

// FindSeat looks a seat up by its printed coordinates.
func FindSeat(seats []domain.Seat, row string, number int) (domain.Seat, error) {
	const op = "seating.FindSeat"

	row = NormalizeRow(row)
	if row == "" || number <= 0 {
		return domain.Seat{}, fmt.Errorf("%s: %w: invalid seat coordinates %q/%d", op, domain.ErrInvalidInput, row, number)
	}

	for _, s := range seats {
		if s.Row == row && s.Number == number {
			return s, nil
		}
	}

	return domain.Seat{}, fmt.Errorf("%s: %w: seat %s%d", op, domain.ErrNotFound, row, number)
}

// NormalizeRow returns the canonical form of a row label.
func NormalizeRow(row string) string {
	return strings.ToUpper(strings.TrimSpace(row))
}

// Reserve marks the seat taken. It is idempotent.
func Reserve(s *domain.Seat) {
	s.Available = false
}

// Release marks the seat available again. It is idempotent.
func Release(s *domain.Seat) {
	s.Available = true
}

// Surcharge is the class surcharge plus the preferential surcharge.
func Surcharge(s domain.Seat) int64 {
	var cents int64
	if s.Class == domain.SeatCouple {
		cents += CoupleSurchargeCents
	}
	if s.Preferential {
		cents += PreferentialSurchargeCents
	}
	return cents
}

// Count tallies availability over a seat map.
func Count(seats []domain.Seat) domain.SeatCounts {
	var c domain.SeatCounts
	for _, s := range seats {
		if s.Available {
			c.Available++
		} else {
			c.Taken++
		}
	}
	c.Total = c.Available + c.Taken
	return c
}
