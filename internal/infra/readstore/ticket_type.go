package readstore

import (
	"context"

	"eventhub/internal/infra"
	sqlc "eventhub/internal/infra/sqlc/generated"
	"eventhub/internal/pkg/pgconv"
	"eventhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type TicketTypeReadQueries interface {
	GetTicketTypeByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetTicketTypeByIDRow, error)
}

type TicketTypeReadStore struct {
	queries TicketTypeReadQueries
	db      sqlc.DBTX
}

func NewTicketTypeReadStore(queries TicketTypeReadQueries, db sqlc.DBTX) *TicketTypeReadStore {
	return &TicketTypeReadStore{
		queries: queries,
		db:      db,
	}
}

// FindByID is the authoritative price lookup; client-supplied prices are never used.
func (r *TicketTypeReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.TicketTypeSnapshot, error) {
	row, err := r.queries.GetTicketTypeByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("ticket type not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ticket type by ID", err)
	}

	price, err := pgconv.DecimalFromNumeric(row.Price)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid ticket type price", err, infra.KindCorruptData)
	}

	return &shared.TicketTypeSnapshot{
		ID:       row.ID,
		EventID:  row.EventID,
		Name:     row.Name,
		Price:    price,
		Quantity: int(row.Quantity),
	}, nil
}
