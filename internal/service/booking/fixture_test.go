package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/pricing"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/repository/memory"
	"github.com/kirinyoku/cinebook/internal/seating"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type recorder struct {
	mu          sync.Mutex
	invalidated []int64
	published   []int64
}

func (r *recorder) InvalidateSession(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, id)
	return nil
}

func (r *recorder) PublishSessionChanged(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, id)
	return nil
}

type fixture struct {
	store  *memory.Store
	svc    *Service
	clock  *clock
	events *recorder

	room     domain.Room
	film     domain.Film
	birthday domain.Customer
	regular  domain.Customer
}

var baseNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:  memory.NewStore(),
		clock:  &clock{t: baseNow},
		events: &recorder{},
	}

	f.room = f.store.AddRoom(domain.Room{
		CinemaID:        1,
		Name:            "Sala VIP",
		Capacity:        30,
		Class:           domain.RoomVIP,
		CoupleSeats:     2,
		AccessibleSeats: 2,
	})
	f.film = f.store.AddFilm(domain.Film{Title: "Orbit", DurationMin: 120, Is3D: true, MinimumAge: 12})
	f.birthday = f.store.AddCustomer(domain.Customer{
		Name:      "Ana",
		BirthDate: time.Date(1990, time.March, 5, 0, 0, 0, 0, time.UTC),
	})
	f.regular = f.store.AddCustomer(domain.Customer{
		Name:      "Bruno",
		BirthDate: time.Date(1988, time.July, 20, 0, 0, 0, 0, time.UTC),
	})

	seats, err := seating.Generate(f.room.ID, f.room.Capacity, f.room.CoupleSeats, f.room.AccessibleSeats, 10)
	require.NoError(t, err)

	err = f.store.Do(context.Background(), func(ctx context.Context, r repository.Repos, _ func(repository.AfterCommit)) error {
		_, err := r.Rooms().ReplaceSeats(ctx, f.room.ID, seats)
		return err
	})
	require.NoError(t, err)

	f.svc = New(f.store, f.events, f.events, nil, Config{Now: f.clock.Now})

	return f
}

// addSession schedules a regular session of the fixture film starting at
// starts, priced from a 20.00 base.
func (f *fixture) addSession(t *testing.T, starts time.Time) domain.Session {
	t.Helper()

	final, err := pricing.SessionPrice(pricing.SessionInput{
		BaseCents: 2000,
		RoomClass: f.room.Class,
		Is3D:      f.film.Is3D,
		Type:      domain.SessionRegular,
	})
	require.NoError(t, err)

	s := domain.Session{
		RoomID:          f.room.ID,
		FilmID:          f.film.ID,
		Starts:          starts,
		Ends:            starts.Add(f.film.Duration()),
		BasePriceCents:  2000,
		FinalPriceCents: final,
		Type:            domain.SessionRegular,
		Language:        "pt-BR",
	}

	err = f.store.Do(context.Background(), func(ctx context.Context, r repository.Repos, _ func(repository.AfterCommit)) error {
		id, err := r.Sessions().Create(ctx, &s)
		if err != nil {
			return err
		}
		_, err = r.Sessions().InitSeats(ctx, id, f.room.ID)
		return err
	})
	require.NoError(t, err)

	return s
}

func (f *fixture) customer(t *testing.T, id int64) *domain.Customer {
	t.Helper()
	c, err := f.store.Repos().Catalog().Customer(context.Background(), id)
	require.NoError(t, err)
	return c
}

func (f *fixture) seat(t *testing.T, sessionID int64, row string, number int) domain.Seat {
	t.Helper()
	seats, err := f.store.Repos().Sessions().SeatMap(context.Background(), sessionID)
	require.NoError(t, err)
	s, err := seating.FindSeat(seats, row, number)
	require.NoError(t, err)
	return s
}
