package booking

import (
	"errors"
	"time"

	"eventhub/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus   = errors.New("invalid booking status")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrInvalidWindow   = errors.New("hold window must be positive")
)

const DefaultHoldWindow = 10 * time.Minute

type Item struct {
	id           uuid.UUID
	ticketTypeID uuid.UUID
	quantity     Quantity
	unitPrice    Money
}

func ReconstructItem(id, ticketTypeID uuid.UUID, quantity Quantity, unitPrice Money) Item {
	return Item{id: id, ticketTypeID: ticketTypeID, quantity: quantity, unitPrice: unitPrice}
}

func (i Item) ID() uuid.UUID           { return i.id }
func (i Item) TicketTypeID() uuid.UUID { return i.ticketTypeID }
func (i Item) Quantity() Quantity      { return i.quantity }
func (i Item) UnitPrice() Money        { return i.unitPrice }
func (i Item) Subtotal() Money         { return i.unitPrice.Times(i.quantity) }

// Booking is the aggregate root for one checkout attempt. The total is derived
// from the items and cannot be set from outside.
type Booking struct {
	id        uuid.UUID
	userID    uuid.UUID
	eventID   uuid.UUID
	status    Status
	total     Money
	expiresAt time.Time
	createdAt time.Time
	items     []Item
}

func NewBooking(clk clock.Clock, userID, eventID uuid.UUID, holdWindow time.Duration) (*Booking, error) {
	if holdWindow <= 0 {
		return nil, ErrInvalidWindow
	}
	now := clk.Now()
	return &Booking{
		id:        uuid.New(),
		userID:    userID,
		eventID:   eventID,
		status:    StatusPending,
		total:     ZeroMoney(),
		expiresAt: now.Add(holdWindow),
		createdAt: now,
	}, nil
}

func ReconstructBooking(
	id, userID, eventID uuid.UUID,
	status Status,
	total Money,
	expiresAt, createdAt time.Time,
	items []Item,
) *Booking {
	return &Booking{
		id:        id,
		userID:    userID,
		eventID:   eventID,
		status:    status,
		total:     total,
		expiresAt: expiresAt,
		createdAt: createdAt,
		items:     items,
	}
}

// AddItem freezes unitPrice onto a new line and folds its subtotal into the total.
func (b *Booking) AddItem(ticketTypeID uuid.UUID, quantity Quantity, unitPrice Money) Item {
	item := Item{
		id:           uuid.New(),
		ticketTypeID: ticketTypeID,
		quantity:     quantity,
		unitPrice:    unitPrice,
	}
	b.items = append(b.items, item)
	b.total = b.total.Add(item.Subtotal())
	return item
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && b.userID == userID
}

// IsExpiredAt reports whether the hold elapsed strictly before now.
func (b *Booking) IsExpiredAt(now time.Time) bool {
	return !b.expiresAt.IsZero() && b.expiresAt.Before(now)
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) UserID() uuid.UUID    { return b.userID }
func (b *Booking) EventID() uuid.UUID   { return b.eventID }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) Total() Money         { return b.total }
func (b *Booking) ExpiresAt() time.Time { return b.expiresAt }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) Items() []Item        { return append([]Item(nil), b.items...) }
