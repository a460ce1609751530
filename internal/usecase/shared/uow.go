package shared

import (
	"context"
	"time"

	"eventhub/internal/domain/booking"
	sqlc "eventhub/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one transaction: commit when fn returns nil, rollback otherwise.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the write-side repositories bound to the active transaction.
type Tx interface {
	Bookings() BookingRepository
	TicketTypes() TicketTypeRepository
	Idempotency() IdempotencyRepository
	Reads() CommandReads
	DB() sqlc.DBTX
}

// CommandReads are the lookups a command needs inside its own transaction.
type CommandReads interface {
	TicketTypeByID(ctx context.Context, id uuid.UUID) (*TicketTypeSnapshot, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

type BookingRepository interface {
	CreateHeader(ctx context.Context, tx sqlc.DBTX, b *booking.Booking) error
	AddItem(ctx context.Context, tx sqlc.DBTX, bookingID uuid.UUID, position int, item booking.Item) error
	// UpdateTotal must run in the transaction that wrote the booking's items.
	UpdateTotal(ctx context.Context, tx sqlc.DBTX, bookingID uuid.UUID, total booking.Money) error
}

type TicketTypeRepository interface {
	// Reserve decrements available quantity; KindConflict when fewer than qty remain.
	Reserve(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, qty booking.Quantity) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, tx sqlc.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	ReclaimExpired(ctx context.Context, tx sqlc.DBTX, key, userID uuid.UUID, requestHash string, expiresAt, now time.Time) (bool, error)
	MarkCompleted(ctx context.Context, tx sqlc.DBTX, key, userID, bookingID uuid.UUID) error
}
