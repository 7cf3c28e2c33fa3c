package pricing

import (
	"testing"
	"time"

	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentalValue(t *testing.T) {
	start := time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		class    domain.RoomClass
		d        time.Duration
		birthday bool
		want     int64
	}{
		{"standard two hours", domain.RoomStandard, 2 * time.Hour, false, 40000},
		{"vip ninety minutes", domain.RoomVIP, 90 * time.Minute, false, 75000},
		{"xd with birthday package", domain.RoomXD, time.Hour, true, 45000},
		{"4d partial minute rounds up", domain.Room4D, time.Minute + time.Second, false, 1333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RentalValue(tt.class, start, start.Add(tt.d), tt.birthday)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRentalValue_InvalidInput(t *testing.T) {
	start := time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)

	_, err := RentalValue("imax", start, start.Add(time.Hour), false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = RentalValue(domain.RoomStandard, start, start, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
