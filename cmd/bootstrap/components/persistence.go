package components

import (
	"context"
	"log/slog"
	"time"

	"eventhub/internal/infra/readstore"
	"eventhub/internal/infra/repository"
	sqlc "eventhub/internal/infra/sqlc/generated"
	"eventhub/internal/infra/uow"
	"eventhub/internal/usecase/queries"
	"eventhub/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
	fx.Invoke(registerIdempotencyPrune),
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Booking
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.BookingReadQueries)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
	),
)

// Per-transaction repositories are built by the unit of work; only the
// idempotency repository is needed outside a transaction.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// Idempotency
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.IdempotencyWriteQueries)),
		),
		repository.NewIdempotencyRepository,
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}

func registerIdempotencyPrune(lc fx.Lifecycle, repo *repository.IdempotencyRepository, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			count, err := repo.DeleteExpired(ctx)
			if err != nil {
				// a stale key only costs a reclaim on next use
				logger.Warn("Failed to prune expired idempotency keys", "error", err)
				return nil
			}
			logger.Info("Pruned expired idempotency keys", "count", count)
			return nil
		},
	})
}
