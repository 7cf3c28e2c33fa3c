package pricing

import (
	"fmt"
	"time"

	"github.com/kirinyoku/cinebook/internal/domain"
)

// RentalValue prices a private room booking: the room class hourly rate
// prorated per started minute, plus the birthday package when requested.
func RentalValue(class domain.RoomClass, start, end time.Time, birthdayPackage bool) (int64, error) {
	const op = "pricing.RentalValue"

	rate, ok := rentalHourlyRate[class]
	if !ok {
		return 0, fmt.Errorf("%s: %w: unknown room class %q", op, domain.ErrInvalidInput, class)
	}

	if !start.Before(end) {
		return 0, fmt.Errorf("%s: %w: empty rental window", op, domain.ErrInvalidInput)
	}

	d := end.Sub(start)
	minutes := int64(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}

	value := (rate*minutes + 30) / 60
	if birthdayPackage {
		value += BirthdayPackageCents
	}

	return value, nil
}
