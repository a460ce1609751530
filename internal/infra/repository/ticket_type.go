package repository

import (
	"context"

	"eventhub/internal/domain/booking"
	"eventhub/internal/infra"
	sqlc "eventhub/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type TicketTypeWriteQueries interface {
	ReserveTicketTypeQuantity(ctx context.Context, db sqlc.DBTX, arg sqlc.ReserveTicketTypeQuantityParams) (int64, error)
}

type TicketTypeRepository struct {
	queries TicketTypeWriteQueries
	db      sqlc.DBTX
}

func NewTicketTypeRepository(queries TicketTypeWriteQueries, db sqlc.DBTX) *TicketTypeRepository {
	return &TicketTypeRepository{
		queries: queries,
		db:      db,
	}
}

// Reserve is a conditional decrement, so concurrent bookings cannot drive quantity below zero.
func (r *TicketTypeRepository) Reserve(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, qty booking.Quantity) error {
	params := sqlc.ReserveTicketTypeQuantityParams{
		Amount: int32(qty.Int()), // #nosec G115 -- request validation bounds quantity
		ID:     id,
	}

	rows, err := r.queries.ReserveTicketTypeQuantity(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to reserve ticket quantity", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("not enough tickets available", nil, infra.KindConflict)
	}
	return nil
}
