// Package memstore keeps all booking state in process memory. Writes are
// visible to other goroutines before commit; rollback replays an undo log.
// Slot locks taken through GetForUpdate give the same admission guarantees
// as the postgres row locks.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/domain/slot"
	"studio-booking/internal/domain/studio"
	"studio-booking/internal/infra"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"
)

const maxOutboxAttempts = 10

type outboxRow struct {
	ev          shared.OutboxEvent
	publishedAt *time.Time
	lastError   string
}

type Store struct {
	mu       sync.RWMutex
	seq      int64
	studios  map[int64]studio.Studio
	services map[int64]catalog.Service
	slots    map[int64]slot.Slot
	bookings map[int64]booking.Snapshot
	idem     map[string]shared.IdempotencyRecord
	outbox   []*outboxRow

	locksMu   sync.Mutex
	slotLocks map[int64]*sync.Mutex
	outboxMu  sync.Mutex
}

func New() *Store {
	return &Store{
		studios:   make(map[int64]studio.Studio),
		services:  make(map[int64]catalog.Service),
		slots:     make(map[int64]slot.Slot),
		bookings:  make(map[int64]booking.Snapshot),
		idem:      make(map[string]shared.IdempotencyRecord),
		slotLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) slotLock(id int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.slotLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.slotLocks[id] = l
	}
	return l
}

// Within runs fn with a fresh transaction. Locks are released and, on
// error, writes are undone in reverse order.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := &memTx{store: s, held: make(map[int64]*sync.Mutex)}
	defer t.release()

	err := fn(ctx, t)
	if err != nil {
		s.mu.Lock()
		for i := len(t.undo) - 1; i >= 0; i-- {
			t.undo[i]()
		}
		s.mu.Unlock()
	}
	return err
}

// Reset drops all data. Used between tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
	s.studios = make(map[int64]studio.Studio)
	s.services = make(map[int64]catalog.Service)
	s.slots = make(map[int64]slot.Slot)
	s.bookings = make(map[int64]booking.Snapshot)
	s.idem = make(map[string]shared.IdempotencyRecord)
	s.outbox = nil
}

type memTx struct {
	store      *Store
	held       map[int64]*sync.Mutex
	holdOutbox bool
	undo       []func()
}

func (t *memTx) release() {
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
	if t.holdOutbox {
		t.store.outboxMu.Unlock()
		t.holdOutbox = false
	}
}

// lockSlot is reentrant within one transaction.
func (t *memTx) lockSlot(id int64) {
	if _, ok := t.held[id]; ok {
		return
	}
	l := t.store.slotLock(id)
	l.Lock()
	t.held[id] = l
}

func (t *memTx) Studios() shared.StudioRepository         { return studioRepo{t} }
func (t *memTx) Services() shared.ServiceRepository       { return serviceRepo{t} }
func (t *memTx) Slots() shared.SlotRepository             { return slotRepo{t} }
func (t *memTx) Bookings() shared.BookingRepository       { return bookingRepo{t} }
func (t *memTx) Idempotency() shared.IdempotencyRepository { return idemRepo{t} }
func (t *memTx) Outbox() shared.OutboxRepository          { return outboxRepo{t} }

func notFound(msg string, sentinel error) error {
	return infra.WrapRepoErr(msg, sentinel, infra.KindNotFound)
}

// studios

type studioRepo struct{ t *memTx }

func (r studioRepo) Create(_ context.Context, st *studio.Studio) (int64, error) {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	st.ID = id
	s.studios[id] = cloneStudio(*st)
	r.t.undo = append(r.t.undo, func() { delete(s.studios, id) })
	return id, nil
}

func (r studioRepo) GetByID(ctx context.Context, id int64) (*studio.Studio, error) {
	return r.t.store.FindStudio(ctx, id)
}

func (r studioRepo) Update(_ context.Context, st *studio.Studio) error {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.studios[st.ID]
	if !ok {
		return notFound("studio not found", errs.ErrStudioNotFound)
	}
	s.studios[st.ID] = cloneStudio(*st)
	r.t.undo = append(r.t.undo, func() { s.studios[prev.ID] = prev })
	return nil
}

func cloneStudio(st studio.Studio) studio.Studio {
	st.Amenities = append([]string{}, st.Amenities...)
	return st
}

// services

type serviceRepo struct{ t *memTx }

func (r serviceRepo) Create(_ context.Context, svc *catalog.Service) (int64, error) {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.studios[svc.StudioID]; !ok {
		return 0, infra.WrapRepoErr("studio does not exist", errs.ErrStudioNotFound, infra.KindForeignKeyViolated)
	}
	id := s.nextID()
	svc.ID = id
	s.services[id] = *svc
	r.t.undo = append(r.t.undo, func() { delete(s.services, id) })
	return id, nil
}

func (r serviceRepo) GetByID(ctx context.Context, id int64) (*catalog.Service, error) {
	return r.t.store.FindService(ctx, id)
}

// slots

type slotRepo struct{ t *memTx }

func (r slotRepo) Create(_ context.Context, sl *slot.Slot) (int64, error) {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.studios[sl.StudioID]; !ok {
		return 0, infra.WrapRepoErr("studio does not exist", errs.ErrStudioNotFound, infra.KindForeignKeyViolated)
	}
	id := s.nextID()
	sl.ID = id
	s.slots[id] = *sl
	r.t.undo = append(r.t.undo, func() { delete(s.slots, id) })
	return id, nil
}

func (r slotRepo) GetByID(_ context.Context, id int64) (*slot.Slot, error) {
	s := r.t.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[id]
	if !ok {
		return nil, notFound("slot not found", errs.ErrSlotNotFound)
	}
	return &sl, nil
}

func (r slotRepo) GetForUpdate(ctx context.Context, id int64) (*slot.Slot, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	r.t.lockSlot(id)
	// Re-read under the lock.
	return r.GetByID(ctx, id)
}

func (r slotRepo) Update(_ context.Context, sl *slot.Slot) error {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.slots[sl.ID]
	if !ok {
		return notFound("slot not found", errs.ErrSlotNotFound)
	}
	s.slots[sl.ID] = *sl
	r.t.undo = append(r.t.undo, func() { s.slots[prev.ID] = prev })
	return nil
}

// bookings

type bookingRepo struct{ t *memTx }

func (r bookingRepo) Create(_ context.Context, b *booking.Booking) (int64, error) {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := b.Snapshot()
	if _, ok := s.slots[snap.SlotID]; !ok {
		return 0, infra.WrapRepoErr("slot does not exist", errs.ErrSlotNotFound, infra.KindForeignKeyViolated)
	}
	id := s.nextID()
	snap.ID = id
	s.bookings[id] = snap
	r.t.undo = append(r.t.undo, func() { delete(s.bookings, id) })
	return id, nil
}

func (r bookingRepo) GetByID(_ context.Context, id int64) (*booking.Booking, error) {
	s := r.t.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.bookings[id]
	if !ok {
		return nil, notFound("booking not found", errs.ErrBookingNotFound)
	}
	return booking.Reconstruct(snap), nil
}

// GetForUpdate relies on the caller holding the slot lock.
func (r bookingRepo) GetForUpdate(ctx context.Context, id int64) (*booking.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r bookingRepo) GetByCheckoutSession(_ context.Context, sessionID string) (*booking.Booking, error) {
	s := r.t.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, snap := range s.bookings {
		if snap.CheckoutSessionID != nil && *snap.CheckoutSessionID == sessionID {
			return booking.Reconstruct(snap), nil
		}
	}
	return nil, notFound("booking not found", errs.ErrBookingNotFound)
}

func (r bookingRepo) Update(_ context.Context, b *booking.Booking) error {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := b.Snapshot()
	prev, ok := s.bookings[snap.ID]
	if !ok {
		return notFound("booking not found", errs.ErrBookingNotFound)
	}
	if snap.CheckoutSessionID != nil {
		for id, other := range s.bookings {
			if id != snap.ID && other.CheckoutSessionID != nil && *other.CheckoutSessionID == *snap.CheckoutSessionID {
				return infra.WrapRepoErr("checkout session already used", nil, infra.KindDuplicateKey)
			}
		}
	}
	s.bookings[snap.ID] = snap
	r.t.undo = append(r.t.undo, func() { s.bookings[prev.ID] = prev })
	return nil
}

func (r bookingRepo) CountOccupied(ctx context.Context, slotID int64) (int, error) {
	return r.t.store.CountOccupied(ctx, slotID)
}

func (r bookingRepo) ListExpiredPending(_ context.Context, createdBefore time.Time, limit int) ([]shared.BookingRef, error) {
	s := r.t.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var refs []shared.BookingRef
	var created []time.Time
	for _, snap := range s.bookings {
		if snap.Status == booking.StatusPending && snap.PaymentStatus != booking.PaymentPaid && snap.CreatedAt.Before(createdBefore) {
			refs = append(refs, shared.BookingRef{ID: snap.ID, SlotID: snap.SlotID})
			created = append(created, snap.CreatedAt)
		}
	}
	sort.Sort(refsByCreated{refs, created})
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

type refsByCreated struct {
	refs    []shared.BookingRef
	created []time.Time
}

func (r refsByCreated) Len() int { return len(r.refs) }
func (r refsByCreated) Less(i, j int) bool {
	if r.created[i].Equal(r.created[j]) {
		return r.refs[i].ID < r.refs[j].ID
	}
	return r.created[i].Before(r.created[j])
}
func (r refsByCreated) Swap(i, j int) {
	r.refs[i], r.refs[j] = r.refs[j], r.refs[i]
	r.created[i], r.created[j] = r.created[j], r.created[i]
}

// idempotency

type idemRepo struct{ t *memTx }

func idemKey(scope, key string) string { return scope + "\x00" + key }

func (r idemRepo) Claim(_ context.Context, scope, key, requestHash string, now time.Time) (bool, error) {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	k := idemKey(scope, key)
	if _, ok := s.idem[k]; ok {
		return false, nil
	}
	s.idem[k] = shared.IdempotencyRecord{Scope: scope, Key: key, RequestHash: requestHash, CreatedAt: now}
	r.t.undo = append(r.t.undo, func() { delete(s.idem, k) })
	return true, nil
}

func (r idemRepo) Get(_ context.Context, scope, key string) (*shared.IdempotencyRecord, error) {
	s := r.t.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.idem[idemKey(scope, key)]
	if !ok {
		return nil, notFound("idempotency key not found", errs.ErrNotFound)
	}
	return &rec, nil
}

func (r idemRepo) Complete(_ context.Context, scope, key string, resultID int64) error {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	k := idemKey(scope, key)
	prev, ok := s.idem[k]
	if !ok {
		return nil
	}
	next := prev
	next.ResultID = &resultID
	s.idem[k] = next
	r.t.undo = append(r.t.undo, func() { s.idem[k] = prev })
	return nil
}

// outbox

type outboxRepo struct{ t *memTx }

func (r outboxRepo) Enqueue(_ context.Context, ev shared.OutboxEvent) error {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	row := &outboxRow{ev: ev}
	s.outbox = append(s.outbox, row)
	r.t.undo = append(r.t.undo, func() {
		for i, o := range s.outbox {
			if o == row {
				s.outbox = append(s.outbox[:i], s.outbox[i+1:]...)
				return
			}
		}
	})
	return nil
}

// ClaimBatch holds the outbox for the rest of the transaction.
func (r outboxRepo) ClaimBatch(_ context.Context, limit int) ([]shared.OutboxEvent, error) {
	s := r.t.store
	if !r.t.holdOutbox {
		s.outboxMu.Lock()
		r.t.holdOutbox = true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []shared.OutboxEvent
	for _, o := range s.outbox {
		if o.publishedAt != nil || o.ev.Attempts >= maxOutboxAttempts {
			continue
		}
		out = append(out, o.ev)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r outboxRepo) MarkPublished(_ context.Context, ids []string, now time.Time) error {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for _, o := range s.outbox {
		if _, ok := want[o.ev.ID]; !ok {
			continue
		}
		row, prevAt, prevAttempts := o, o.publishedAt, o.ev.Attempts
		at := now
		o.publishedAt = &at
		o.ev.Attempts++
		r.t.undo = append(r.t.undo, func() { row.publishedAt, row.ev.Attempts = prevAt, prevAttempts })
	}
	return nil
}

func (r outboxRepo) MarkFailed(_ context.Context, id string, reason string) error {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.outbox {
		if o.ev.ID != id {
			continue
		}
		row, prevErr, prevAttempts := o, o.lastError, o.ev.Attempts
		o.ev.Attempts++
		o.lastError = reason
		r.t.undo = append(r.t.undo, func() { row.lastError, row.ev.Attempts = prevErr, prevAttempts })
	}
	return nil
}

// Published returns published events in enqueue order.
func (s *Store) Published() []shared.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []shared.OutboxEvent
	for _, o := range s.outbox {
		if o.publishedAt != nil {
			out = append(out, o.ev)
		}
	}
	return out
}

// Pending returns unpublished events in enqueue order.
func (s *Store) Pending() []shared.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []shared.OutboxEvent
	for _, o := range s.outbox {
		if o.publishedAt == nil {
			out = append(out, o.ev)
		}
	}
	return out
}
