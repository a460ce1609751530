//go:build unit

// Package memstore is an in-process implementation of the booking persistence
// ports. Within applies a transaction's writes only when the callback succeeds,
// so commands can be exercised for atomicity without a database.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"eventhub/internal/domain/booking"
	"eventhub/internal/infra"
	sqlc "eventhub/internal/infra/sqlc/generated"
	"eventhub/internal/usecase/queries"
	"eventhub/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Op string

const (
	OpCreateHeader  Op = "create_header"
	OpAddItem       Op = "add_item"
	OpUpdateTotal   Op = "update_total"
	OpReserve       Op = "reserve"
	OpMarkCompleted Op = "mark_completed"
)

type TicketType struct {
	ID       uuid.UUID
	EventID  uuid.UUID
	Name     string
	Price    decimal.Decimal
	Quantity int
}

type BookingRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	EventID   uuid.UUID
	Status    string
	Total     decimal.Decimal
	ExpiresAt time.Time
	CreatedAt time.Time
}

type ItemRow struct {
	ID           uuid.UUID
	BookingID    uuid.UUID
	TicketTypeID uuid.UUID
	Quantity     int
	UnitPrice    decimal.Decimal
	Position     int
}

type idemKey struct {
	key    uuid.UUID
	userID uuid.UUID
}

type state struct {
	ticketTypes map[uuid.UUID]TicketType
	bookings    map[uuid.UUID]BookingRow
	items       map[uuid.UUID][]ItemRow
	idempotency map[idemKey]shared.IdempotencyRecord
}

func newState() *state {
	return &state{
		ticketTypes: map[uuid.UUID]TicketType{},
		bookings:    map[uuid.UUID]BookingRow{},
		items:       map[uuid.UUID][]ItemRow{},
		idempotency: map[idemKey]shared.IdempotencyRecord{},
	}
}

func (s *state) clone() *state {
	c := &state{
		ticketTypes: maps.Clone(s.ticketTypes),
		bookings:    maps.Clone(s.bookings),
		items:       make(map[uuid.UUID][]ItemRow, len(s.items)),
		idempotency: maps.Clone(s.idempotency),
	}
	for k, v := range s.items {
		c.items[k] = slices.Clone(v)
	}
	return c
}

// Store serializes transactions with a single mutex, which is stricter than
// any isolation level Postgres offers.
type Store struct {
	mu           sync.Mutex
	st           *state
	writes       int
	transactions int
	failures     map[Op]error
	lostReclaim  *shared.IdempotencyRecord
}

func New() *Store {
	return &Store{
		st:       newState(),
		failures: map[Op]error{},
	}
}

var (
	_ shared.UnitOfWork        = (*Store)(nil)
	_ queries.BookingReadStore = (*Store)(nil)
)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.transactions++

	tx := &memTx{st: s.st.clone(), failures: s.failures, lostReclaim: s.lostReclaim}
	err := fn(ctx, tx)
	s.lostReclaim = tx.lostReclaim
	s.writes += tx.writes
	if err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

func (s *Store) FindCheckoutView(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.st.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	items := make([]queries.BookingItemView, 0, len(s.st.items[id]))
	for _, it := range s.st.items[id] {
		items = append(items, queries.BookingItemView{
			ID:             it.ID,
			TicketTypeID:   it.TicketTypeID,
			TicketTypeName: s.st.ticketTypes[it.TicketTypeID].Name,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
		})
	}

	return &queries.BookingView{
		ID:          b.ID,
		UserID:      b.UserID,
		EventID:     b.EventID,
		Status:      b.Status,
		TotalAmount: b.Total,
		ExpiresAt:   b.ExpiresAt,
		CreatedAt:   b.CreatedAt,
		Items:       items,
	}, nil
}

func (s *Store) SeedTicketType(tt TicketType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.ticketTypes[tt.ID] = tt
}

func (s *Store) SetTicketTypePrice(id uuid.UUID, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tt := s.st.ticketTypes[id]
	tt.Price = price
	s.st.ticketTypes[id] = tt
}

func (s *Store) SeedBooking(b BookingRow, items ...ItemRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.bookings[b.ID] = b
	s.st.items[b.ID] = slices.Clone(items)
}

// LoseNextReclaim makes the next ReclaimExpired of an expired key report false,
// as if a competing transaction had committed rec for that key first.
func (s *Store) LoseNextReclaim(rec shared.IdempotencyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lostReclaim = &rec
}

// FailOn makes every later call of op return err until cleared with a nil err.
func (s *Store) FailOn(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) TicketType(id uuid.UUID) (TicketType, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tt, ok := s.st.ticketTypes[id]
	return tt, ok
}

func (s *Store) Booking(id uuid.UUID) (BookingRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.bookings[id]
	return b, ok
}

func (s *Store) Items(bookingID uuid.UUID) []ItemRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.items[bookingID])
}

func (s *Store) IdempotencyRecord(key, userID uuid.UUID) (shared.IdempotencyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.st.idempotency[idemKey{key: key, userID: userID}]
	return rec, ok
}

func (s *Store) CountBookings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.bookings)
}

func (s *Store) CountItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, items := range s.st.items {
		n += len(items)
	}
	return n
}

// Writes counts attempted writes, including those later rolled back.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) Transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions
}

type memTx struct {
	st          *state
	failures    map[Op]error
	lostReclaim *shared.IdempotencyRecord
	writes      int
}

func (t *memTx) write(op Op) error {
	t.writes++
	if err, ok := t.failures[op]; ok {
		return infra.WrapRepoErr("injected failure", err)
	}
	return nil
}

func (t *memTx) DB() sqlc.DBTX {
	return nil
}

func (t *memTx) Bookings() shared.BookingRepository {
	return bookingRepo{t}
}

func (t *memTx) TicketTypes() shared.TicketTypeRepository {
	return ticketTypeRepo{t}
}

func (t *memTx) Idempotency() shared.IdempotencyRepository {
	return idempotencyRepo{t}
}

func (t *memTx) Reads() shared.CommandReads {
	return reads{t}
}

type bookingRepo struct{ tx *memTx }

func (r bookingRepo) CreateHeader(_ context.Context, _ sqlc.DBTX, b *booking.Booking) error {
	if err := r.tx.write(OpCreateHeader); err != nil {
		return err
	}
	if _, exists := r.tx.st.bookings[b.ID()]; exists {
		return infra.WrapRepoErr("booking already exists", nil, infra.KindDuplicateKey)
	}
	r.tx.st.bookings[b.ID()] = BookingRow{
		ID:        b.ID(),
		UserID:    b.UserID(),
		EventID:   b.EventID(),
		Status:    b.Status().String(),
		Total:     b.Total().Decimal(),
		ExpiresAt: b.ExpiresAt(),
		CreatedAt: b.CreatedAt(),
	}
	return nil
}

func (r bookingRepo) AddItem(_ context.Context, _ sqlc.DBTX, bookingID uuid.UUID, position int, item booking.Item) error {
	if err := r.tx.write(OpAddItem); err != nil {
		return err
	}
	if _, ok := r.tx.st.bookings[bookingID]; !ok {
		return infra.WrapRepoErr("booking does not exist", nil, infra.KindForeignKeyViolated)
	}
	if _, ok := r.tx.st.ticketTypes[item.TicketTypeID()]; !ok {
		return infra.WrapRepoErr("ticket type does not exist", nil, infra.KindForeignKeyViolated)
	}
	r.tx.st.items[bookingID] = append(r.tx.st.items[bookingID], ItemRow{
		ID:           item.ID(),
		BookingID:    bookingID,
		TicketTypeID: item.TicketTypeID(),
		Quantity:     item.Quantity().Int(),
		UnitPrice:    item.UnitPrice().Decimal(),
		Position:     position,
	})
	return nil
}

func (r bookingRepo) UpdateTotal(_ context.Context, _ sqlc.DBTX, bookingID uuid.UUID, total booking.Money) error {
	if err := r.tx.write(OpUpdateTotal); err != nil {
		return err
	}
	b, ok := r.tx.st.bookings[bookingID]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	b.Total = total.Decimal()
	r.tx.st.bookings[bookingID] = b
	return nil
}

type ticketTypeRepo struct{ tx *memTx }

func (r ticketTypeRepo) Reserve(_ context.Context, _ sqlc.DBTX, id uuid.UUID, qty booking.Quantity) error {
	if err := r.tx.write(OpReserve); err != nil {
		return err
	}
	tt, ok := r.tx.st.ticketTypes[id]
	if !ok || tt.Quantity < qty.Int() {
		return infra.WrapRepoErr("not enough tickets available", nil, infra.KindConflict)
	}
	tt.Quantity -= qty.Int()
	r.tx.st.ticketTypes[id] = tt
	return nil
}

type idempotencyRepo struct{ tx *memTx }

func (r idempotencyRepo) TryInsert(_ context.Context, _ sqlc.DBTX, key, userID uuid.UUID, _ string, requestHash string, expiresAt time.Time) (bool, error) {
	k := idemKey{key: key, userID: userID}
	if _, exists := r.tx.st.idempotency[k]; exists {
		return false, nil
	}
	r.tx.writes++
	r.tx.st.idempotency[k] = shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r idempotencyRepo) ReclaimExpired(_ context.Context, _ sqlc.DBTX, key, userID uuid.UUID, requestHash string, expiresAt, now time.Time) (bool, error) {
	k := idemKey{key: key, userID: userID}
	rec, ok := r.tx.st.idempotency[k]
	if !ok || !rec.ExpiresAt.Before(now) {
		return false, nil
	}
	if lost := r.tx.lostReclaim; lost != nil {
		r.tx.lostReclaim = nil
		winner := *lost
		winner.Key, winner.UserID = key, userID
		r.tx.st.idempotency[k] = winner
		return false, nil
	}
	r.tx.writes++
	r.tx.st.idempotency[k] = shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r idempotencyRepo) MarkCompleted(_ context.Context, _ sqlc.DBTX, key, userID, bookingID uuid.UUID) error {
	if err := r.tx.write(OpMarkCompleted); err != nil {
		return err
	}
	k := idemKey{key: key, userID: userID}
	rec := r.tx.st.idempotency[k]
	rec.Status = shared.IdempotencyStatusCompleted
	id := bookingID
	rec.ResultBookingID = &id
	r.tx.st.idempotency[k] = rec
	return nil
}

type reads struct{ tx *memTx }

func (r reads) TicketTypeByID(_ context.Context, id uuid.UUID) (*shared.TicketTypeSnapshot, error) {
	tt, ok := r.tx.st.ticketTypes[id]
	if !ok {
		return nil, infra.WrapRepoErr("ticket type not found", nil, infra.KindNotFound)
	}
	return &shared.TicketTypeSnapshot{
		ID:       tt.ID,
		EventID:  tt.EventID,
		Name:     tt.Name,
		Price:    tt.Price,
		Quantity: tt.Quantity,
	}, nil
}

func (r reads) IdempotencyByKey(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.tx.st.idempotency[idemKey{key: key, userID: userID}]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}
