package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TIHeitorDS/SASBApp/internal/domain"
	"github.com/TIHeitorDS/SASBApp/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// fakeCalendar serializes every transaction behind one mutex and applies
// writes only when fn returns nil.
type fakeCalendar struct {
	mu     sync.Mutex
	appts  map[uuid.UUID]domain.Appointment
	locked []uuid.UUID

	inserts int
	updates int

	insertErr error
}

func newFakeCalendar(seed ...domain.Appointment) *fakeCalendar {
	c := &fakeCalendar{appts: make(map[uuid.UUID]domain.Appointment)}
	for _, a := range seed {
		c.appts[a.ID] = a
	}
	return c
}

func (c *fakeCalendar) snapshot(id uuid.UUID) (domain.Appointment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.appts[id]
	return a, ok
}

func (c *fakeCalendar) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	a, ok := c.snapshot(id)
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	return a, nil
}

func (c *fakeCalendar) List(ctx context.Context, filter store.ListFilter) ([]domain.Appointment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := []domain.Appointment{}
	for _, a := range c.appts {
		if filter.StaffID != uuid.Nil && a.StaffID != filter.StaffID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if !a.Overlaps(filter.WindowStart, filter.WindowEnd) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (c *fakeCalendar) InTransaction(ctx context.Context, fn func(ctx context.Context, tx store.CalendarTx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx := &fakeTx{cal: c, pending: make(map[uuid.UUID]domain.Appointment)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for id, a := range tx.pending {
		c.appts[id] = a
	}
	c.inserts += tx.inserts
	c.updates += tx.updates
	return nil
}

type fakeTx struct {
	cal     *fakeCalendar
	pending map[uuid.UUID]domain.Appointment
	inserts int
	updates int
}

func (t *fakeTx) lookup(id uuid.UUID) (domain.Appointment, bool) {
	if a, ok := t.pending[id]; ok {
		return a, true
	}
	a, ok := t.cal.appts[id]
	return a, ok
}

func (t *fakeTx) LockStaffCalendar(ctx context.Context, staffID uuid.UUID) error {
	t.cal.locked = append(t.cal.locked, staffID)
	return nil
}

func (t *fakeTx) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	a, ok := t.lookup(id)
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	return a, nil
}

func (t *fakeTx) FindOverlapping(ctx context.Context, q store.OverlapQuery) ([]domain.Appointment, error) {
	seen := make(map[uuid.UUID]domain.Appointment, len(t.cal.appts)+len(t.pending))
	for id, a := range t.cal.appts {
		seen[id] = a
	}
	for id, a := range t.pending {
		seen[id] = a
	}

	var out []domain.Appointment
	for id, a := range seen {
		if id == q.ExcludeID || a.StaffID != q.StaffID || a.Status != q.Status {
			continue
		}
		if a.Overlaps(q.Start, q.End) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (t *fakeTx) Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if t.cal.insertErr != nil {
		return domain.Appointment{}, t.cal.insertErr
	}
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	if _, ok := t.lookup(appt.ID); ok {
		return domain.Appointment{}, store.ErrIdempotencyConflict
	}
	t.pending[appt.ID] = appt
	t.inserts++
	return appt, nil
}

func (t *fakeTx) Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if _, ok := t.lookup(appt.ID); !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	t.pending[appt.ID] = appt
	t.updates++
	return appt, nil
}

type fakeCatalog struct {
	services map[uuid.UUID]domain.Service
	err      error
}

func (f *fakeCatalog) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	if f.err != nil {
		return domain.Service{}, f.err
	}
	s, ok := f.services[id]
	if !ok {
		return domain.Service{}, store.ErrNotFound
	}
	return s, nil
}

type fakeDirectory struct {
	users map[uuid.UUID]domain.User
	err   error
}

func (f *fakeDirectory) GetStaff(ctx context.Context, id uuid.UUID) (domain.User, error) {
	if f.err != nil {
		return domain.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

type stubRepo struct {
	getFn           func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	listFn          func(ctx context.Context, filter store.ListFilter) ([]domain.Appointment, error)
	inTransactionFn func(ctx context.Context, fn func(ctx context.Context, tx store.CalendarTx) error) error
}

func (s *stubRepo) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if s.getFn == nil {
		panic("Get not configured")
	}
	return s.getFn(ctx, id)
}

func (s *stubRepo) List(ctx context.Context, filter store.ListFilter) ([]domain.Appointment, error) {
	if s.listFn == nil {
		panic("List not configured")
	}
	return s.listFn(ctx, filter)
}

func (s *stubRepo) InTransaction(ctx context.Context, fn func(ctx context.Context, tx store.CalendarTx) error) error {
	if s.inTransactionFn == nil {
		panic("InTransaction not configured")
	}
	return s.inTransactionFn(ctx, fn)
}
