package repository

import (
	"context"

	"eventhub/internal/domain/booking"
	"eventhub/internal/infra"
	sqlc "eventhub/internal/infra/sqlc/generated"
	"eventhub/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookingWriteQueries interface {
	CreateBooking(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateBookingParams) (uuid.UUID, error)
	CreateBookingItem(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateBookingItemParams) (uuid.UUID, error)
	UpdateBookingTotal(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateBookingTotalParams) (int64, error)
}

type BookingRepository struct {
	queries BookingWriteQueries
	db      sqlc.DBTX
}

func NewBookingRepository(queries BookingWriteQueries, db sqlc.DBTX) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
	}
}

func (r *BookingRepository) CreateHeader(ctx context.Context, tx sqlc.DBTX, b *booking.Booking) error {
	params := sqlc.CreateBookingParams{
		ID:          b.ID(),
		UserID:      b.UserID(),
		EventID:     b.EventID(),
		Status:      b.Status().String(),
		TotalAmount: pgconv.DecimalToNumeric(b.Total().Decimal()),
		ExpiresAt:   pgconv.TimeToPgtype(b.ExpiresAt()),
		CreatedAt:   pgconv.TimeToPgtype(b.CreatedAt()),
	}

	if _, err := r.queries.CreateBooking(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to create booking", err, infra.KindOf(err))
	}
	return nil
}

func (r *BookingRepository) AddItem(ctx context.Context, tx sqlc.DBTX, bookingID uuid.UUID, position int, item booking.Item) error {
	params := sqlc.CreateBookingItemParams{
		ID:           item.ID(),
		BookingID:    bookingID,
		TicketTypeID: item.TicketTypeID(),
		Quantity:     int32(item.Quantity().Int()), // #nosec G115 -- request validation bounds quantity
		UnitPrice:    pgconv.DecimalToNumeric(item.UnitPrice().Decimal()),
		Position:     int32(position), // #nosec G115 -- bounded by request item limit
	}

	if _, err := r.queries.CreateBookingItem(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to create booking item", err, infra.KindOf(err))
	}
	return nil
}

func (r *BookingRepository) UpdateTotal(ctx context.Context, tx sqlc.DBTX, bookingID uuid.UUID, total booking.Money) error {
	params := sqlc.UpdateBookingTotalParams{
		ID:          bookingID,
		TotalAmount: pgconv.DecimalToNumeric(total.Decimal()),
	}

	rows, err := r.queries.UpdateBookingTotal(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking total", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
