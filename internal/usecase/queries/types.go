package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingView is what the checkout page renders. Amounts stay decimal end to end.
type BookingView struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	EventID     uuid.UUID
	Status      string
	TotalAmount decimal.Decimal
	ExpiresAt   time.Time
	CreatedAt   time.Time
	Items       []BookingItemView
}

type BookingItemView struct {
	ID             uuid.UUID
	TicketTypeID   uuid.UUID
	TicketTypeName string
	Quantity       int
	UnitPrice      decimal.Decimal
}

func (i BookingItemView) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
