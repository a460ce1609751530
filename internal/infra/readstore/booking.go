package readstore

import (
	"context"

	"eventhub/internal/infra"
	sqlc "eventhub/internal/infra/sqlc/generated"
	"eventhub/internal/pkg/pgconv"
	"eventhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingReadQueries interface {
	GetBookingByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Bookings, error)
	ListBookingItemsByBookingID(ctx context.Context, db sqlc.DBTX, bookingID uuid.UUID) ([]sqlc.ListBookingItemsByBookingIDRow, error)
}

type BookingReadStore struct {
	queries BookingReadQueries
	db      sqlc.DBTX
}

func NewBookingReadStore(queries BookingReadQueries, db sqlc.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

// FindCheckoutView reads header then items. Items are written in the header's
// transaction and never updated, so two statements cannot observe a partial booking.
func (r *BookingReadStore) FindCheckoutView(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	total, err := pgconv.DecimalFromNumeric(row.TotalAmount)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid booking total", err, infra.KindCorruptData)
	}

	itemRows, err := r.queries.ListBookingItemsByBookingID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking items", err)
	}

	items := make([]queries.BookingItemView, 0, len(itemRows))
	for _, ir := range itemRows {
		price, perr := pgconv.DecimalFromNumeric(ir.UnitPrice)
		if perr != nil {
			return nil, infra.WrapRepoErr("invalid booking item price", perr, infra.KindCorruptData)
		}
		items = append(items, queries.BookingItemView{
			ID:             ir.ID,
			TicketTypeID:   ir.TicketTypeID,
			TicketTypeName: ir.TicketTypeName,
			Quantity:       int(ir.Quantity),
			UnitPrice:      price,
		})
	}

	return &queries.BookingView{
		ID:          row.ID,
		UserID:      row.UserID,
		EventID:     row.EventID,
		Status:      row.Status,
		TotalAmount: total,
		ExpiresAt:   pgconv.TimeFromPgtype(row.ExpiresAt),
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		Items:       items,
	}, nil
}
