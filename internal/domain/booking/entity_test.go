//go:build unit

package booking_test

import (
	"testing"
	"time"

	"eventhub/internal/domain/booking"
	"eventhub/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(t *testing.T, v int) booking.Quantity {
	t.Helper()
	q, err := booking.NewQuantity(v)
	require.NoError(t, err)
	return q
}

func TestNewBooking(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	userID, eventID := uuid.New(), uuid.New()

	t.Run("success: pending with zero total and hold window expiry", func(t *testing.T) {
		b, err := booking.NewBooking(clk, userID, eventID, booking.DefaultHoldWindow)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, booking.StatusPending, b.Status())
		assert.True(t, b.Total().Decimal().IsZero())
		assert.Equal(t, now, b.CreatedAt())
		assert.Equal(t, now.Add(10*time.Minute), b.ExpiresAt())
		assert.Empty(t, b.Items())
	})

	t.Run("error: non-positive window", func(t *testing.T) {
		_, err := booking.NewBooking(clk, userID, eventID, 0)
		assert.ErrorIs(t, err, booking.ErrInvalidWindow)
	})
}

func TestBooking_AddItem(t *testing.T) {
	clk := clock.NewMockClock(time.Now())

	t.Run("total equals sum of price times quantity", func(t *testing.T) {
		b, err := booking.NewBooking(clk, uuid.New(), uuid.New(), booking.DefaultHoldWindow)
		require.NoError(t, err)

		b.AddItem(uuid.New(), qty(t, 2), booking.MustParseMoney("500.00"))
		b.AddItem(uuid.New(), qty(t, 1), booking.MustParseMoney("1500.00"))

		assert.Equal(t, "2500.00", b.Total().String())
		assert.Len(t, b.Items(), 2)
	})

	t.Run("decimal sum does not drift", func(t *testing.T) {
		b, err := booking.NewBooking(clk, uuid.New(), uuid.New(), booking.DefaultHoldWindow)
		require.NoError(t, err)

		for i := 0; i < 1000; i++ {
			b.AddItem(uuid.New(), qty(t, 1), booking.MustParseMoney("0.1"))
			b.AddItem(uuid.New(), qty(t, 1), booking.MustParseMoney("0.2"))
		}

		assert.True(t, b.Total().Decimal().Equal(decimal.RequireFromString("300")), b.Total().String())
	})

	t.Run("item keeps the price it was added with", func(t *testing.T) {
		b, err := booking.NewBooking(clk, uuid.New(), uuid.New(), booking.DefaultHoldWindow)
		require.NoError(t, err)

		item := b.AddItem(uuid.New(), qty(t, 3), booking.MustParseMoney("12.34"))

		assert.Equal(t, "12.34", item.UnitPrice().String())
		assert.Equal(t, "37.02", item.Subtotal().String())
	})
}

func TestBooking_Guards(t *testing.T) {
	now := time.Now()
	owner := uuid.New()
	b := booking.ReconstructBooking(uuid.New(), owner, uuid.New(), booking.StatusPending,
		booking.ZeroMoney(), now.Add(time.Minute), now, nil)

	assert.True(t, b.IsOwnedBy(owner))
	assert.False(t, b.IsOwnedBy(uuid.New()))
	assert.False(t, b.IsOwnedBy(uuid.Nil))

	assert.False(t, b.IsExpiredAt(now))
	assert.False(t, b.IsExpiredAt(now.Add(time.Minute)), "expiry boundary is exclusive")
	assert.True(t, b.IsExpiredAt(now.Add(time.Minute+time.Nanosecond)))
}

func TestValueObjects(t *testing.T) {
	t.Run("quantity must be positive", func(t *testing.T) {
		for _, v := range []int{0, -1} {
			_, err := booking.NewQuantity(v)
			assert.ErrorIs(t, err, booking.ErrInvalidQuantity)
		}
	})

	t.Run("money rejects negatives", func(t *testing.T) {
		_, err := booking.NewMoney(decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, booking.ErrNegativePrice)

		m, err := booking.NewMoney(decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, "0.00", m.String())
	})

	t.Run("status parsing", func(t *testing.T) {
		s, err := booking.NewStatus("PENDING")
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, s)

		_, err = booking.NewStatus("pending")
		assert.ErrorIs(t, err, booking.ErrInvalidStatus)
	})
}
