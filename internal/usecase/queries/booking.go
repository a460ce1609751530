package queries

import (
	"context"
	"log/slog"

	"eventhub/internal/domain/booking"
	"eventhub/internal/infra"
	"eventhub/internal/pkg/clock"
	"eventhub/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingReadStore interface {
	FindCheckoutView(ctx context.Context, id uuid.UUID) (*BookingView, error)
}

type BookingQueries interface {
	// GetForCheckout returns the booking only to its owner while the hold is live.
	// callerID is uuid.Nil for anonymous requests.
	GetForCheckout(ctx context.Context, callerID, bookingID uuid.UUID) (*BookingView, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
	clock clock.Clock
}

func NewBookingQueries(store BookingReadStore, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{store: store, clock: clk}
}

func (q *bookingQueriesImpl) GetForCheckout(ctx context.Context, callerID, bookingID uuid.UUID) (*BookingView, error) {
	if callerID == uuid.Nil {
		return nil, errs.ErrUnauthorized
	}

	view, err := q.store.FindCheckoutView(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	guard := toGuard(view)
	if !guard.IsOwnedBy(callerID) {
		slog.InfoContext(ctx, "checkout denied for non-owner",
			slog.String("booking_id", bookingID.String()),
			slog.String("caller_id", callerID.String()))
		return nil, errs.ErrBookingNotOwned
	}
	if guard.IsExpiredAt(q.clock.Now()) {
		return nil, errs.ErrBookingExpired
	}

	return view, nil
}

// The header alone carries ownership and expiry; the total is not consulted.
func toGuard(v *BookingView) *booking.Booking {
	return booking.ReconstructBooking(v.ID, v.UserID, v.EventID, booking.Status(v.Status), booking.ZeroMoney(), v.ExpiresAt, v.CreatedAt, nil)
}

// SumItems is the invariant the stored total must satisfy.
func SumItems(items []BookingItemView) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}
