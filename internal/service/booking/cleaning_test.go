package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleCleaning(t *testing.T) {
	f := newFixture(t)
	cleaner := f.store.AddEmployee(domain.Employee{CinemaID: 1, Name: "Rita", Role: domain.RoleCleaning})
	cashier := f.store.AddEmployee(domain.Employee{CinemaID: 1, Name: "Joao", Role: domain.RoleCashier})
	otherRoom := f.store.AddRoom(domain.Room{CinemaID: 1, Name: "Sala 2", Capacity: 50, Class: domain.RoomStandard})
	session := f.addSession(t, baseNow.Add(48*time.Hour))

	afterSession := session.Ends
	c, err := f.svc.ScheduleCleaning(context.Background(), f.room.ID, cleaner.ID, afterSession, afterSession.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.CleaningScheduled, c.Status)

	t.Run("wrong role", func(t *testing.T) {
		_, err := f.svc.ScheduleCleaning(context.Background(), otherRoom.ID, cashier.ID, afterSession, afterSession.Add(time.Hour))
		assert.ErrorIs(t, err, ErrNotCleaningStaff)
	})

	t.Run("empty window", func(t *testing.T) {
		_, err := f.svc.ScheduleCleaning(context.Background(), otherRoom.ID, cleaner.ID, afterSession, afterSession)
		assert.ErrorIs(t, err, ErrInvalidWindow)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := f.svc.ScheduleCleaning(context.Background(), otherRoom.ID, 999, afterSession, afterSession.Add(time.Hour))
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})

	t.Run("overlaps a session of the room", func(t *testing.T) {
		other := f.store.AddEmployee(domain.Employee{CinemaID: 1, Name: "Lia", Role: domain.RoleCleaning})
		_, err := f.svc.ScheduleCleaning(context.Background(), f.room.ID, other.ID, session.Starts, session.Starts.Add(time.Hour))
		assert.ErrorIs(t, err, schedule.ErrConflict)
	})

	t.Run("employee busy in another room", func(t *testing.T) {
		_, err := f.svc.ScheduleCleaning(context.Background(), otherRoom.ID, cleaner.ID, afterSession.Add(10*time.Minute), afterSession.Add(time.Hour))
		require.ErrorIs(t, err, schedule.ErrConflict)

		var conflict schedule.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, c.ID.String(), conflict.With.ID)
	})

	t.Run("delete frees the employee", func(t *testing.T) {
		require.NoError(t, f.svc.DeleteCleaning(context.Background(), c.ID))
		_, err := f.svc.ScheduleCleaning(context.Background(), otherRoom.ID, cleaner.ID, afterSession.Add(10*time.Minute), afterSession.Add(time.Hour))
		assert.NoError(t, err)

		assert.ErrorIs(t, f.svc.DeleteCleaning(context.Background(), uuid.New()), ErrCleaningNotFound)
	})
}

func TestScheduleCleaning_BlocksLaterSessionOrRental(t *testing.T) {
	f := newFixture(t)
	cleaner := f.store.AddEmployee(domain.Employee{CinemaID: 1, Name: "Rita", Role: domain.RoleCleaning})
	start := baseNow.Add(30 * time.Hour)

	_, err := f.svc.ScheduleCleaning(context.Background(), f.room.ID, cleaner.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = f.svc.RequestRoomRental(context.Background(), RentalRequest{
		RoomID: f.room.ID,
		Starts: start.Add(30 * time.Minute),
		Ends:   start.Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, schedule.ErrConflict)
}
