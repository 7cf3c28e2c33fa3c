package httpgin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/cinebook/internal/domain"
	redisrepo "github.com/kirinyoku/cinebook/internal/repository/redis"
	"github.com/kirinyoku/cinebook/internal/repository/memory"
	"github.com/kirinyoku/cinebook/internal/schedule"
	"github.com/kirinyoku/cinebook/internal/service"
	"github.com/kirinyoku/cinebook/internal/service/admin"
	"github.com/kirinyoku/cinebook/internal/service/booking"
	"github.com/kirinyoku/cinebook/internal/service/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type noopEvents struct{}

func (noopEvents) InvalidateSession(context.Context, int64) error     { return nil }
func (noopEvents) PublishSessionChanged(context.Context, int64) error { return nil }

type memIdem struct {
	mu sync.Mutex
	m  map[string]string
}

func (s *memIdem) GetResult(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := strings.CutPrefix(s.m[key], "RES:")
	return payload, ok, nil
}

func (s *memIdem) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; ok {
		return false, nil
	}
	s.m[key] = "LOCK"
	return true, nil
}

func (s *memIdem) SaveResult(_ context.Context, key string, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = "RES:" + payload
	return nil
}

func (s *memIdem) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (redisrepo.Decision, error) {
	return redisrepo.Decision{Allowed: false, Current: 11, RetryAfter: 1500 * time.Millisecond}, nil
}

type env struct {
	router   *gin.Engine
	session  *domain.Session
	customer domain.Customer
}

func newEnv(t *testing.T, idem IdempotencyStore, limiter RateLimiter) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	room := store.AddRoom(domain.Room{CinemaID: 1, Name: "Sala 2", Capacity: 20, Class: domain.RoomStandard})
	film := store.AddFilm(domain.Film{Title: "Orbit", DurationMin: 90})
	customer := store.AddCustomer(domain.Customer{
		Name:      "Carla",
		BirthDate: time.Date(1995, time.July, 1, 0, 0, 0, 0, time.UTC),
	})

	clock := func() time.Time { return now }
	logger := slog.New(slog.DiscardHandler)
	svcs := &service.Services{
		Booking: booking.New(store, noopEvents{}, noopEvents{}, logger, booking.Config{Now: clock}),
		Admin:   admin.New(store, noopEvents{}, noopEvents{}, logger, admin.Config{Now: clock}),
		Query:   query.New(store.Repos(), nil, query.Config{}),
	}

	ctx := context.Background()
	_, err := svcs.Admin.RegenerateSeats(ctx, room.ID, room.Capacity, 0, 0)
	require.NoError(t, err)

	session, err := svcs.Admin.CreateSession(ctx, admin.SessionRequest{
		RoomID:         room.ID,
		FilmID:         film.ID,
		Starts:         now.Add(48 * time.Hour),
		BasePriceCents: 2000,
		Type:           domain.SessionRegular,
		Language:       "en",
	})
	require.NoError(t, err)

	return &env{
		router:   NewRouter(svcs, idem, limiter, logger),
		session:  session,
		customer: customer,
	}
}

func (e *env) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) saleBody(row string, number int) map[string]any {
	return map[string]any{
		"customer_id":    e.customer.ID,
		"row":            row,
		"number":         number,
		"payment_method": "cash",
		"paid_cents":     5000,
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	e := newEnv(t, nil, nil)
	w := e.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSellTicket(t *testing.T) {
	e := newEnv(t, nil, nil)
	path := fmt.Sprintf("/sessions/%d/tickets", e.session.ID)

	w := e.do(http.MethodPost, path, e.saleBody("a", 1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	ticket := decode[TicketResponse](t, w)
	assert.EqualValues(t, 2000, ticket.PriceCents)
	assert.EqualValues(t, 3000, ticket.ChangeCents)
	assert.Equal(t, map[int64]int{2000: 1, 1000: 1}, ticket.ChangeBreakdown)
	assert.Equal(t, "sold", ticket.Status)

	w = e.do(http.MethodPost, path, e.saleBody("A", 1))
	assert.Equal(t, http.StatusConflict, w.Code)
	errResp := decode[ErrorResponse](t, w)
	assert.Equal(t, "forbidden", errResp.Code)
	assert.Equal(t, "forbidden operation: seat unavailable", errResp.Error)

	w = e.do(http.MethodGet, fmt.Sprintf("/sessions/%d/availability", e.session.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, AvailabilityResponse{Available: 19, Taken: 1, Total: 20}, decode[AvailabilityResponse](t, w))
}

func TestSellTicketRejections(t *testing.T) {
	e := newEnv(t, nil, nil)

	t.Run("half without reason", func(t *testing.T) {
		body := e.saleBody("B", 2)
		body["half"] = true
		w := e.do(http.MethodPost, fmt.Sprintf("/sessions/%d/tickets", e.session.ID), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		w := e.do(http.MethodPost, "/sessions/9999/tickets", e.saleBody("B", 2))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := e.do(http.MethodPost, "/sessions/abc/tickets", e.saleBody("B", 2))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := e.do(http.MethodPost, fmt.Sprintf("/sessions/%d/tickets", e.session.ID), map[string]any{"row": "B"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSellTicketIdempotent(t *testing.T) {
	e := newEnv(t, &memIdem{m: map[string]string{}}, nil)
	path := fmt.Sprintf("/sessions/%d/tickets", e.session.ID)

	first := e.do(http.MethodPost, path, e.saleBody("B", 3), "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := e.do(http.MethodPost, path, e.saleBody("B", 3), "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())
	assert.Equal(t, "k-1", second.Header().Get("Idempotency-Key"))
	assert.Equal(t, decode[TicketResponse](t, first).ID, decode[TicketResponse](t, second).ID)

	w := e.do(http.MethodGet, fmt.Sprintf("/sessions/%d/availability", e.session.ID), nil)
	assert.EqualValues(t, 1, decode[AvailabilityResponse](t, w).Taken)
}

func TestSellTicketRateLimited(t *testing.T) {
	e := newEnv(t, nil, denyAll{})

	w := e.do(http.MethodPost, fmt.Sprintf("/sessions/%d/tickets", e.session.ID), e.saleBody("A", 1))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
}

func TestTicketLifecycle(t *testing.T) {
	e := newEnv(t, nil, nil)

	w := e.do(http.MethodPost, fmt.Sprintf("/sessions/%d/tickets", e.session.ID), e.saleBody("A", 5))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[TicketResponse](t, w).ID

	w = e.do(http.MethodGet, "/tickets/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPost, "/tickets/"+id+"/cancel", nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = e.do(http.MethodGet, "/tickets/"+id, nil)
	assert.Equal(t, "cancelled", decode[TicketResponse](t, w).Status)

	w = e.do(http.MethodPost, "/tickets/"+id+"/check-in", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodGet, "/tickets/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeatMapETag(t *testing.T) {
	e := newEnv(t, nil, nil)
	path := fmt.Sprintf("/sessions/%d/seats", e.session.ID)

	w := e.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	seats := decode[[]SeatResponse](t, w)
	require.Len(t, seats, 20)
	assert.Equal(t, "A1", seats[0].Label)

	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)

	w = e.do(http.MethodGet, path, nil, "If-None-Match", tag)
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestRespondErr(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", fmt.Errorf("op:%w", booking.ErrInvalidWindow), http.StatusBadRequest, "invalid_input"},
		{"not found", fmt.Errorf("op:%w", query.ErrTicketNotFound), http.StatusNotFound, "not_found"},
		{"forbidden", fmt.Errorf("op:%w", booking.ErrCancellationClosed), http.StatusConflict, "forbidden"},
		{"schedule conflict", schedule.ConflictError{With: schedule.Slot{Ref: schedule.Ref{Kind: schedule.KindSession}}}, http.StatusConflict, "forbidden"},
		{"critical", fmt.Errorf("op:%w", booking.ErrIncompleteSession), http.StatusInternalServerError, "internal"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondErr(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decode[ErrorResponse](t, w).Code)
			if tc.status == http.StatusInternalServerError {
				assert.Len(t, c.Errors, 1)
			}
		})
	}
}
