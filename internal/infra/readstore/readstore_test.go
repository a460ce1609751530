//go:build unit

package readstore_test

import (
	"context"
	"testing"
	"time"

	"eventhub/internal/infra"
	"eventhub/internal/infra/readstore"
	sqlc "eventhub/internal/infra/sqlc/generated"
	"eventhub/internal/pkg/pgconv"
	"eventhub/internal/usecase/queries"
	"eventhub/tests/common/builder"
	readstoremock "eventhub/tests/mock/readstore"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBookingReadStore_FindCheckoutView(t *testing.T) {
	t.Run("header and items are assembled in order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := readstoremock.NewMockBookingReadQueries(ctrl)
		b := builder.NewBookingBuilder()

		q.EXPECT().GetBookingByID(gomock.Any(), gomock.Any(), b.ID).Return(b.BuildInfra(), nil)
		q.EXPECT().ListBookingItemsByBookingID(gomock.Any(), gomock.Any(), b.ID).Return(b.BuildInfraItems(), nil)

		store := readstore.NewBookingReadStore(q, nil)
		got, err := store.FindCheckoutView(context.Background(), b.ID)
		require.NoError(t, err)

		opts := []cmp.Option{
			cmpopts.IgnoreFields(queries.BookingItemView{}, "ID"),
		}
		if diff := cmp.Diff(b.BuildView(), got, opts...); diff != "" {
			t.Errorf("view mismatch (-want +got):\n%s", diff)
		}
		assert.True(t, decimal.RequireFromString("2500.00").Equal(got.TotalAmount))
	})

	t.Run("missing booking is not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := readstoremock.NewMockBookingReadQueries(ctrl)
		id := uuid.New()
		q.EXPECT().GetBookingByID(gomock.Any(), gomock.Any(), id).Return(sqlc.Bookings{}, pgx.ErrNoRows)

		_, err := readstore.NewBookingReadStore(q, nil).FindCheckoutView(context.Background(), id)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("item query failure surfaces as db failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := readstoremock.NewMockBookingReadQueries(ctrl)
		b := builder.NewBookingBuilder()
		q.EXPECT().GetBookingByID(gomock.Any(), gomock.Any(), b.ID).Return(b.BuildInfra(), nil)
		q.EXPECT().ListBookingItemsByBookingID(gomock.Any(), gomock.Any(), b.ID).Return(nil, assert.AnError)

		_, err := readstore.NewBookingReadStore(q, nil).FindCheckoutView(context.Background(), b.ID)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})

	t.Run("null total is corrupt data", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := readstoremock.NewMockBookingReadQueries(ctrl)
		row := builder.NewBookingBuilder().BuildInfra()
		row.TotalAmount = pgtype.Numeric{}
		q.EXPECT().GetBookingByID(gomock.Any(), gomock.Any(), row.ID).Return(row, nil)

		_, err := readstore.NewBookingReadStore(q, nil).FindCheckoutView(context.Background(), row.ID)
		assert.True(t, infra.IsKind(err, infra.KindCorruptData))
	})
}

func TestTicketTypeReadStore_FindByID(t *testing.T) {
	tests := []struct {
		name     string
		row      sqlc.GetTicketTypeByIDRow
		err      error
		wantKind infra.RepositoryErrorKind
	}{
		{
			name: "found",
			row: sqlc.GetTicketTypeByIDRow{
				Name:     "VIP",
				Price:    pgconv.DecimalToNumeric(decimal.RequireFromString("500.00")),
				Quantity: 40,
			},
		},
		{name: "not found", err: pgx.ErrNoRows, wantKind: infra.KindNotFound},
		{name: "database error", err: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			q := readstoremock.NewMockTicketTypeReadQueries(ctrl)
			id := uuid.New()
			tt.row.ID = id
			q.EXPECT().GetTicketTypeByID(gomock.Any(), gomock.Any(), id).Return(tt.row, tt.err)

			snap, err := readstore.NewTicketTypeReadStore(q, nil).FindByID(context.Background(), id)
			if tt.wantKind != "" {
				assert.True(t, infra.IsKind(err, tt.wantKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "VIP", snap.Name)
			assert.Equal(t, "500.00", snap.Price.StringFixed(2))
			assert.Equal(t, 40, snap.Quantity)
		})
	}
}

func TestIdempotencyReadStore_Get(t *testing.T) {
	t.Run("completed record carries the booking id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := readstoremock.NewMockIdempotencyReadQueries(ctrl)
		key, userID, bookingID := uuid.New(), uuid.New(), uuid.New()
		expires := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)

		q.EXPECT().GetIdempotencyKey(gomock.Any(), gomock.Any(), sqlc.GetIdempotencyKeyParams{Key: key, UserID: userID}).
			Return(sqlc.IdempotencyKeys{
				Key:             key,
				UserID:          userID,
				Status:          "completed",
				RequestHash:     "hash",
				ResultBookingID: pgconv.UUIDToPgtype(bookingID),
				ExpiresAt:       pgconv.TimeToPgtype(expires),
			}, nil)

		rec, err := readstore.NewIdempotencyReadStore(q, nil).Get(context.Background(), key, userID)
		require.NoError(t, err)
		require.NotNil(t, rec.ResultBookingID)
		assert.Equal(t, bookingID, *rec.ResultBookingID)
		assert.Equal(t, "hash", rec.RequestHash)
		assert.True(t, rec.ExpiresAt.Equal(expires))
	})

	t.Run("unknown key is not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := readstoremock.NewMockIdempotencyReadQueries(ctrl)
		q.EXPECT().GetIdempotencyKey(gomock.Any(), gomock.Any(), gomock.Any()).Return(sqlc.IdempotencyKeys{}, pgx.ErrNoRows)

		_, err := readstore.NewIdempotencyReadStore(q, nil).Get(context.Background(), uuid.New(), uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
