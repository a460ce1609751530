//go:build unit || e2e

package builder

import (
	"time"

	reqdto "eventhub/internal/handler/dto/request"
	sqlc "eventhub/internal/infra/sqlc/generated"
	"eventhub/internal/pkg/pgconv"
	"eventhub/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingLineSpec struct {
	TicketTypeID   uuid.UUID
	TicketTypeName string
	Quantity       int
	UnitPrice      decimal.Decimal
}

type BookingBuilder struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	EventID   uuid.UUID
	Status    string
	Lines     []BookingLineSpec
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewBookingBuilder defaults to two VIP tickets at 500.00 and one Backstage at 1500.00.
func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	return &BookingBuilder{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		EventID: uuid.New(),
		Status:  "PENDING",
		Lines: []BookingLineSpec{
			{TicketTypeID: uuid.New(), TicketTypeName: "VIP", Quantity: 2, UnitPrice: decimal.RequireFromString("500.00")},
			{TicketTypeID: uuid.New(), TicketTypeName: "Backstage", Quantity: 1, UnitPrice: decimal.RequireFromString("1500.00")},
		},
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Minute),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range b.Lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	items := make([]reqdto.BookingItemRequest, len(b.Lines))
	for i, l := range b.Lines {
		items[i] = reqdto.BookingItemRequest{TicketTypeID: l.TicketTypeID, Quantity: l.Quantity}
	}
	return reqdto.CreateBookingRequest{EventID: b.EventID, Items: items}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	items := make([]queries.BookingItemView, len(b.Lines))
	for i, l := range b.Lines {
		items[i] = queries.BookingItemView{
			ID:             uuid.New(),
			TicketTypeID:   l.TicketTypeID,
			TicketTypeName: l.TicketTypeName,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
		}
	}
	return &queries.BookingView{
		ID:          b.ID,
		UserID:      b.UserID,
		EventID:     b.EventID,
		Status:      b.Status,
		TotalAmount: b.Total(),
		ExpiresAt:   b.ExpiresAt,
		CreatedAt:   b.CreatedAt,
		Items:       items,
	}
}

func (b *BookingBuilder) BuildInfra() sqlc.Bookings {
	return sqlc.Bookings{
		ID:          b.ID,
		UserID:      b.UserID,
		EventID:     b.EventID,
		Status:      b.Status,
		TotalAmount: pgconv.DecimalToNumeric(b.Total()),
		ExpiresAt:   pgconv.TimeToPgtype(b.ExpiresAt),
		CreatedAt:   pgconv.TimeToPgtype(b.CreatedAt),
	}
}

func (b *BookingBuilder) BuildInfraItems() []sqlc.ListBookingItemsByBookingIDRow {
	rows := make([]sqlc.ListBookingItemsByBookingIDRow, len(b.Lines))
	for i, l := range b.Lines {
		rows[i] = sqlc.ListBookingItemsByBookingIDRow{
			ID:             uuid.New(),
			BookingID:      b.ID,
			TicketTypeID:   l.TicketTypeID,
			Quantity:       int32(l.Quantity), // #nosec G115 -- test data
			TicketTypeName: l.TicketTypeName,
			UnitPrice:      pgconv.DecimalToNumeric(l.UnitPrice),
		}
	}
	return rows
}
