// Package memory is an in-process implementation of the repository
// interfaces. One unit of work runs at a time; a failed one is rolled back by
// restoring the snapshot taken when it began.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/schedule"
)

type state struct {
	nextID       int64
	rooms        map[int64]domain.Room
	seats        map[int64]domain.Seat
	sessions     map[int64]domain.Session
	sessionSeats map[int64]map[int64]bool
	tickets      map[uuid.UUID]domain.Ticket
	rentals      map[uuid.UUID]domain.RoomRental
	cleanings    map[uuid.UUID]domain.CleaningAssignment
	films        map[int64]domain.Film
	employees    map[int64]domain.Employee
	customers    map[int64]domain.Customer
	products     map[int64]domain.Product
}

func newState() state {
	return state{
		rooms:        make(map[int64]domain.Room),
		seats:        make(map[int64]domain.Seat),
		sessions:     make(map[int64]domain.Session),
		sessionSeats: make(map[int64]map[int64]bool),
		tickets:      make(map[uuid.UUID]domain.Ticket),
		rentals:      make(map[uuid.UUID]domain.RoomRental),
		cleanings:    make(map[uuid.UUID]domain.CleaningAssignment),
		films:        make(map[int64]domain.Film),
		employees:    make(map[int64]domain.Employee),
		customers:    make(map[int64]domain.Customer),
		products:     make(map[int64]domain.Product),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s state) clone() state {
	cp := s
	cp.rooms = cloneMap(s.rooms)
	cp.seats = cloneMap(s.seats)
	cp.sessions = cloneMap(s.sessions)
	cp.sessionSeats = make(map[int64]map[int64]bool, len(s.sessionSeats))
	for id, m := range s.sessionSeats {
		cp.sessionSeats[id] = cloneMap(m)
	}
	cp.tickets = cloneMap(s.tickets)
	cp.rentals = cloneMap(s.rentals)
	cp.cleanings = cloneMap(s.cleanings)
	cp.films = cloneMap(s.films)
	cp.employees = cloneMap(s.employees)
	cp.customers = cloneMap(s.customers)
	cp.products = cloneMap(s.products)
	return cp
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

type Store struct {
	mu   sync.Mutex
	data state
}

var _ repository.UnitOfWork = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: newState()}
}

// Do runs fn with exclusive access to the store. If fn fails, every change it
// made is discarded.
func (s *Store) Do(
	ctx context.Context,
	fn func(ctx context.Context, r repository.Repos, after func(repository.AfterCommit)) error,
) error {
	var hooks []repository.AfterCommit

	s.mu.Lock()
	snapshot := s.data.clone()
	err := fn(ctx, repos{s: s}, func(h repository.AfterCommit) {
		hooks = append(hooks, h)
	})
	if err != nil {
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}

// Repos returns repositories that lock the store per call, for reads outside
// a unit of work.
func (s *Store) Repos() repository.Repos {
	return repos{s: s, autolock: true}
}

// Seeding helpers. They assign an id when the given one is zero.

func (s *Store) AddRoom(r domain.Room) domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.data.id()
	}
	s.data.rooms[r.ID] = r
	return r
}

func (s *Store) AddFilm(f domain.Film) domain.Film {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == 0 {
		f.ID = s.data.id()
	}
	s.data.films[f.ID] = f
	return f
}

func (s *Store) AddEmployee(e domain.Employee) domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.data.id()
	}
	s.data.employees[e.ID] = e
	return e
}

func (s *Store) AddCustomer(c domain.Customer) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.data.id()
	}
	s.data.customers[c.ID] = c
	return c
}

func (s *Store) AddProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.data.id()
	}
	s.data.products[p.ID] = p
	return p
}

// DeleteFilm removes a film, leaving sessions that reference it dangling.
func (s *Store) DeleteFilm(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.films, id)
}

type repos struct {
	s        *Store
	autolock bool
}

func (r repos) lock() func() {
	if !r.autolock {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r repos) Rooms() repository.RoomRepository         { return rooms{r} }
func (r repos) Sessions() repository.SessionRepository   { return sessions{r} }
func (r repos) Tickets() repository.TicketRepository     { return tickets{r} }
func (r repos) Rentals() repository.RentalRepository     { return rentals{r} }
func (r repos) Cleanings() repository.CleaningRepository { return cleanings{r} }
func (r repos) Catalog() repository.CatalogRepository    { return catalog{r} }
func (r repos) Inventory() repository.Inventory          { return inventory{r} }

func sortSeats(seats []domain.Seat) {
	sort.Slice(seats, func(i, j int) bool {
		a, b := seats[i], seats[j]
		if len(a.Row) != len(b.Row) {
			return len(a.Row) < len(b.Row)
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Number < b.Number
	})
}

type rooms struct{ repos }

func (r rooms) Get(_ context.Context, id int64) (*domain.Room, error) {
	defer r.lock()()
	rm, ok := r.s.data.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rm, nil
}

func (r rooms) Lock(ctx context.Context, id int64) (*domain.Room, error) {
	return r.Get(ctx, id)
}

func (r rooms) UpdateLayout(_ context.Context, room *domain.Room) error {
	defer r.lock()()
	if _, ok := r.s.data.rooms[room.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.data.rooms[room.ID] = *room
	return nil
}

func (r rooms) Seats(_ context.Context, roomID int64) ([]domain.Seat, error) {
	defer r.lock()()
	var out []domain.Seat
	for _, s := range r.s.data.seats {
		if s.RoomID == roomID {
			s.Available = true
			out = append(out, s)
		}
	}
	sortSeats(out)
	return out, nil
}

func (r rooms) ReplaceSeats(_ context.Context, roomID int64, seats []domain.Seat) ([]domain.Seat, error) {
	defer r.lock()()
	d := &r.s.data
	for id, s := range d.seats {
		if s.RoomID != roomID {
			continue
		}
		delete(d.seats, id)
		for _, m := range d.sessionSeats {
			delete(m, id)
		}
		for tid, t := range d.tickets {
			if t.SeatID == id {
				t.SeatID = 0
				d.tickets[tid] = t
			}
		}
	}

	out := make([]domain.Seat, len(seats))
	for i, s := range seats {
		s.ID = d.id()
		s.RoomID = roomID
		d.seats[s.ID] = s
		out[i] = s
	}
	return out, nil
}

func (r rooms) SetPreferential(_ context.Context, seatID int64, preferential bool) error {
	defer r.lock()()
	s, ok := r.s.data.seats[seatID]
	if !ok {
		return repository.ErrNotFound
	}
	s.Preferential = preferential
	r.s.data.seats[seatID] = s
	return nil
}

func (r rooms) Timeline(_ context.Context, roomID int64, from, to time.Time) (schedule.Timeline, error) {
	defer r.lock()()
	d := r.s.data
	var out schedule.Timeline
	add := func(slot schedule.Slot) {
		if slot.RoomID == roomID && schedule.Overlaps(from, to, slot.Start, slot.End) {
			out = append(out, slot)
		}
	}
	for _, ss := range d.sessions {
		add(schedule.Slot{
			Ref:    schedule.Ref{Kind: schedule.KindSession, ID: strconv.FormatInt(ss.ID, 10)},
			RoomID: ss.RoomID, Start: ss.Starts, End: ss.Ends,
		})
	}
	for _, rr := range d.rentals {
		if rr.IsCancelled() {
			continue
		}
		add(schedule.Slot{
			Ref:    schedule.Ref{Kind: schedule.KindRental, ID: rr.ID.String()},
			RoomID: rr.RoomID, Start: rr.Starts, End: rr.Ends,
		})
	}
	for _, c := range d.cleanings {
		add(schedule.Slot{
			Ref:    schedule.Ref{Kind: schedule.KindCleaning, ID: c.ID.String()},
			RoomID: c.RoomID, EmployeeID: c.EmployeeID, Start: c.Starts, End: c.Ends,
		})
	}
	return out, nil
}

type sessions struct{ repos }

func (r sessions) Get(_ context.Context, id int64) (*domain.Session, error) {
	defer r.lock()()
	s, ok := r.s.data.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r sessions) Details(_ context.Context, id int64) (*domain.SessionDetails, error) {
	defer r.lock()()
	d := r.s.data
	s, ok := d.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := &domain.SessionDetails{Session: s}
	if rm, ok := d.rooms[s.RoomID]; ok {
		out.Room = &rm
	}
	if f, ok := d.films[s.FilmID]; ok {
		out.Film = &f
	}
	return out, nil
}

func (r sessions) Create(_ context.Context, s *domain.Session) (int64, error) {
	defer r.lock()()
	s.ID = r.s.data.id()
	r.s.data.sessions[s.ID] = *s
	return s.ID, nil
}

func (r sessions) Update(_ context.Context, s *domain.Session) error {
	defer r.lock()()
	if _, ok := r.s.data.sessions[s.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.data.sessions[s.ID] = *s
	return nil
}

func (r sessions) initSeats(sessionID, roomID int64, reset bool) int64 {
	d := &r.s.data
	m, ok := d.sessionSeats[sessionID]
	if !ok {
		m = make(map[int64]bool)
		d.sessionSeats[sessionID] = m
	}
	var n int64
	for id, s := range d.seats {
		if s.RoomID != roomID {
			continue
		}
		if _, exists := m[id]; exists && !reset {
			continue
		}
		m[id] = true
		n++
	}
	return n
}

func (r sessions) InitSeats(_ context.Context, sessionID, roomID int64) (int64, error) {
	defer r.lock()()
	return r.initSeats(sessionID, roomID, false), nil
}

func (r sessions) ResetUnfinishedSeats(_ context.Context, roomID int64, t time.Time) error {
	defer r.lock()()
	for id, s := range r.s.data.sessions {
		if s.RoomID == roomID && s.Ends.After(t) {
			r.initSeats(id, roomID, true)
		}
	}
	return nil
}

func (r sessions) UnfinishedIDs(_ context.Context, roomID int64, t time.Time) ([]int64, error) {
	defer r.lock()()
	var out []domain.Session
	for _, s := range r.s.data.sessions {
		if s.RoomID == roomID && s.Ends.After(t) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Starts.Before(out[j].Starts) })
	ids := make([]int64, len(out))
	for i, s := range out {
		ids[i] = s.ID
	}
	return ids, nil
}

func (r sessions) SeatMap(_ context.Context, sessionID int64) ([]domain.Seat, error) {
	defer r.lock()()
	d := r.s.data
	var out []domain.Seat
	for id, available := range d.sessionSeats[sessionID] {
		s, ok := d.seats[id]
		if !ok {
			continue
		}
		s.Available = available
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	sortSeats(out)
	return out, nil
}

func (r sessions) ReserveSeat(_ context.Context, sessionID, seatID int64) error {
	defer r.lock()()
	m := r.s.data.sessionSeats[sessionID]
	if available, ok := m[seatID]; !ok || !available {
		return repository.ErrSeatsUnavailable
	}
	m[seatID] = false
	return nil
}

func (r sessions) ReleaseSeat(_ context.Context, sessionID, seatID int64) error {
	defer r.lock()()
	m := r.s.data.sessionSeats[sessionID]
	if _, ok := m[seatID]; ok {
		m[seatID] = true
	}
	return nil
}

func (r sessions) ActiveTickets(_ context.Context, sessionID int64) (int64, error) {
	defer r.lock()()
	var n int64
	for _, t := range r.s.data.tickets {
		if t.SessionID == sessionID && t.Active() {
			n++
		}
	}
	return n, nil
}

func (r sessions) UnfinishedActiveTickets(_ context.Context, roomID int64, at time.Time) (int64, error) {
	defer r.lock()()
	d := r.s.data
	var n int64
	for _, t := range d.tickets {
		s, ok := d.sessions[t.SessionID]
		if ok && s.RoomID == roomID && s.Ends.After(at) && t.Active() {
			n++
		}
	}
	return n, nil
}

type tickets struct{ repos }

func (r tickets) Get(_ context.Context, id uuid.UUID) (*domain.Ticket, error) {
	defer r.lock()()
	t, ok := r.s.data.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r tickets) Lock(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	return r.Get(ctx, id)
}

func (r tickets) Create(_ context.Context, t *domain.Ticket) error {
	defer r.lock()()
	for _, other := range r.s.data.tickets {
		if other.ID == t.ID ||
			(other.Active() && t.SeatID != 0 && other.SessionID == t.SessionID && other.SeatID == t.SeatID) {
			return repository.ErrConflict
		}
	}
	r.s.data.tickets[t.ID] = *t
	return nil
}

func (r tickets) UpdateStatus(_ context.Context, t *domain.Ticket) error {
	defer r.lock()()
	cur, ok := r.s.data.tickets[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Status = t.Status
	cur.CheckedInAt = t.CheckedInAt
	r.s.data.tickets[t.ID] = cur
	return nil
}

type rentals struct{ repos }

func (r rentals) Get(_ context.Context, id uuid.UUID) (*domain.RoomRental, error) {
	defer r.lock()()
	rr, ok := r.s.data.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rr, nil
}

func (r rentals) Lock(ctx context.Context, id uuid.UUID) (*domain.RoomRental, error) {
	return r.Get(ctx, id)
}

func (r rentals) Create(_ context.Context, rr *domain.RoomRental) error {
	defer r.lock()()
	if _, ok := r.s.data.rentals[rr.ID]; ok {
		return repository.ErrConflict
	}
	r.s.data.rentals[rr.ID] = *rr
	return nil
}

func (r rentals) Update(_ context.Context, rr *domain.RoomRental) error {
	defer r.lock()()
	if _, ok := r.s.data.rentals[rr.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.data.rentals[rr.ID] = *rr
	return nil
}

type cleanings struct{ repos }

func (r cleanings) Get(_ context.Context, id uuid.UUID) (*domain.CleaningAssignment, error) {
	defer r.lock()()
	c, ok := r.s.data.cleanings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r cleanings) Create(_ context.Context, c *domain.CleaningAssignment) error {
	defer r.lock()()
	if _, ok := r.s.data.cleanings[c.ID]; ok {
		return repository.ErrConflict
	}
	r.s.data.cleanings[c.ID] = *c
	return nil
}

func (r cleanings) Delete(_ context.Context, id uuid.UUID) error {
	defer r.lock()()
	if _, ok := r.s.data.cleanings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.cleanings, id)
	return nil
}

func (r cleanings) EmployeeTimeline(_ context.Context, employeeID int64, from, to time.Time) (schedule.Timeline, error) {
	defer r.lock()()
	var out schedule.Timeline
	for _, c := range r.s.data.cleanings {
		if c.EmployeeID != employeeID || !schedule.Overlaps(from, to, c.Starts, c.Ends) {
			continue
		}
		out = append(out, schedule.Slot{
			Ref:        schedule.Ref{Kind: schedule.KindCleaning, ID: c.ID.String()},
			RoomID:     c.RoomID,
			EmployeeID: c.EmployeeID,
			Start:      c.Starts,
			End:        c.Ends,
		})
	}
	return out, nil
}

type catalog struct{ repos }

func (r catalog) Film(_ context.Context, id int64) (*domain.Film, error) {
	defer r.lock()()
	f, ok := r.s.data.films[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r catalog) Employee(_ context.Context, id int64) (*domain.Employee, error) {
	defer r.lock()()
	e, ok := r.s.data.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r catalog) LockEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	return r.Employee(ctx, id)
}

func (r catalog) CountStaff(_ context.Context, cinemaID int64, role domain.Role) (int64, error) {
	defer r.lock()()
	var n int64
	for _, e := range r.s.data.employees {
		if e.CinemaID == cinemaID && e.Role == role {
			n++
		}
	}
	return n, nil
}

func (r catalog) Customer(_ context.Context, id int64) (*domain.Customer, error) {
	defer r.lock()()
	c, ok := r.s.data.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r catalog) LockCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.Customer(ctx, id)
}

func (r catalog) SaveCustomerPoints(_ context.Context, c *domain.Customer) error {
	defer r.lock()()
	cur, ok := r.s.data.customers[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Points = c.Points
	r.s.data.customers[c.ID] = cur
	return nil
}

type inventory struct{ repos }

func (r inventory) Product(_ context.Context, id int64) (*domain.Product, error) {
	defer r.lock()()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r inventory) CheckAvailability(_ context.Context, productID int64, qty int) (bool, error) {
	defer r.lock()()
	p, ok := r.s.data.products[productID]
	if !ok {
		return false, repository.ErrNotFound
	}
	return p.Stock >= qty, nil
}

func (r inventory) Deduct(_ context.Context, productID int64, qty int) error {
	defer r.lock()()
	p, ok := r.s.data.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Stock < qty {
		return repository.ErrOutOfStock
	}
	p.Stock -= qty
	r.s.data.products[productID] = p
	return nil
}

func (r inventory) Restock(_ context.Context, productID int64, qty int) error {
	defer r.lock()()
	p, ok := r.s.data.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock += qty
	r.s.data.products[productID] = p
	return nil
}
