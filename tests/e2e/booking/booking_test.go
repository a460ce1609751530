//go:build e2e

package booking_test

import (
	"net/http"
	"sync"
	"testing"

	"eventhub/internal/domain/user"
	"eventhub/internal/handler/dto/request"
	"eventhub/internal/handler/dto/response"
	"eventhub/internal/pkg/config"
	"eventhub/internal/pkg/cookie"
	"eventhub/tests/common/authtest"
	"eventhub/tests/common/dbtest"
	"eventhub/tests/common/httptest"
	"eventhub/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL = "/api/bookings"
)

type BookingSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *BookingSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

type catalogue struct {
	eventID uuid.UUID
	vip     uuid.UUID
	stage   uuid.UUID
}

func (s *BookingSuite) seedCatalogue(t *testing.T) catalogue {
	t.Helper()
	eventID := dbtest.CreateTestEvent(t, s.DB, "Summer Festival")
	return catalogue{
		eventID: eventID,
		vip:     dbtest.CreateTestTicketType(t, s.DB, eventID, "VIP", "500.00", 100),
		stage:   dbtest.CreateTestTicketType(t, s.DB, eventID, "Backstage", "1500.00", 10),
	}
}

func checkoutPath(id uuid.UUID) string {
	return "/api/bookings/" + id.String() + "/checkout"
}

func (s *BookingSuite) createBooking(t *testing.T, token string, body any, headers map[string]string) (int, response.CreateBookingResponse) {
	t.Helper()
	h := map[string]string{"Authorization": "Bearer " + token}
	for k, v := range headers {
		h[k] = v
	}
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, body, h)

	var res response.CreateBookingResponse
	if w.Code < 300 {
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	}
	return w.Code, res
}

// =============================================================================
// TestCreateBooking
// =============================================================================

func (s *BookingSuite) TestCreateBooking() {
	s.Run("Normal case: two VIP and one Backstage total 2500.00", func() {
		t := s.T()
		cat := s.seedCatalogue(t)
		_, token := s.jwt.CreateUserWithToken(t, s.DB, "buyer@example.com", user.RoleCustomer)

		body := request.CreateBookingRequest{
			EventID: cat.eventID,
			Items: []request.BookingItemRequest{
				{TicketTypeID: cat.vip, Quantity: 2},
				{TicketTypeID: cat.stage, Quantity: 1},
			},
		}
		code, created := s.createBooking(t, token, body, nil)
		require.Equal(t, http.StatusCreated, code)
		require.True(t, created.Success)
		require.NotEqual(t, uuid.Nil, created.BookingID)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, checkoutPath(created.BookingID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view response.CheckoutResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))

		expected := response.CheckoutResponse{
			Success:     true,
			ID:          created.BookingID,
			EventID:     cat.eventID,
			Status:      "PENDING",
			TotalAmount: "2500.00",
			Items: []response.CheckoutItemResponse{
				{TicketTypeID: cat.vip, TicketTypeName: "VIP", Quantity: 2, UnitPrice: "500.00", Subtotal: "1000.00"},
				{TicketTypeID: cat.stage, TicketTypeName: "Backstage", Quantity: 1, UnitPrice: "1500.00", Subtotal: "1500.00"},
			},
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.CheckoutResponse{}, "ExpiresAt", "CreatedAt"),
			cmpopts.IgnoreFields(response.CheckoutItemResponse{}, "ID"),
		}
		if diff := cmp.Diff(expected, view, opts...); diff != "" {
			t.Errorf("checkout mismatch (-want +got):\n%s", diff)
		}
		require.True(t, view.ExpiresAt.After(view.CreatedAt))
		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "bookings"))
	})

	s.Run("Error case: unknown ticket type rolls back the whole booking", func() {
		t := s.T()
		cat := s.seedCatalogue(t)
		_, token := s.jwt.CreateUserWithToken(t, s.DB, "buyer@example.com", user.RoleCustomer)

		body := request.CreateBookingRequest{
			EventID: cat.eventID,
			Items: []request.BookingItemRequest{
				{TicketTypeID: cat.vip, Quantity: 2},
				{TicketTypeID: uuid.New(), Quantity: 1},
			},
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, token)
		httptest.AssertErrorResponse(t, w, http.StatusInternalServerError, "failed to create booking")

		require.Equal(t, 0, dbtest.CountRows(t, s.DB, "bookings"))
		require.Equal(t, 0, dbtest.CountRows(t, s.DB, "booking_items"))
	})

	s.Run("Error case: empty selection writes nothing", func() {
		t := s.T()
		cat := s.seedCatalogue(t)
		_, token := s.jwt.CreateUserWithToken(t, s.DB, "buyer@example.com", user.RoleCustomer)

		body := map[string]any{"eventId": cat.eventID, "items": []any{}}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "no tickets selected")
		require.Equal(t, 0, dbtest.CountRows(t, s.DB, "bookings"))
	})

	s.Run("Error case: ticket type of another event is rejected", func() {
		t := s.T()
		cat := s.seedCatalogue(t)
		other := s.seedCatalogue(t)
		_, token := s.jwt.CreateUserWithToken(t, s.DB, "buyer@example.com", user.RoleCustomer)

		body := request.CreateBookingRequest{
			EventID: cat.eventID,
			Items:   []request.BookingItemRequest{{TicketTypeID: other.vip, Quantity: 1}},
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, token)
		httptest.AssertErrorResponse(t, w, http.StatusInternalServerError, "failed to create booking")
		require.Equal(t, 0, dbtest.CountRows(t, s.DB, "bookings"))
	})

	s.Run("Error case: unauthenticated and expired tokens are rejected", func() {
		t := s.T()
		cat := s.seedCatalogue(t)
		body := request.CreateBookingRequest{
			EventID: cat.eventID,
			Items:   []request.BookingItemRequest{{TicketTypeID: cat.vip, Quantity: 1}},
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized")

		expired := s.jwt.CreateExpiredToken(t, uuid.New(), user.RoleCustomer)
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, expired)
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "invalid or expired token")
	})
}

// =============================================================================
// TestPriceFreezing
// =============================================================================

func (s *BookingSuite) TestPriceFreezing() {
	t := s.T()
	cat := s.seedCatalogue(t)
	_, token := s.jwt.CreateUserWithToken(t, s.DB, "buyer@example.com", user.RoleCustomer)

	body := request.CreateBookingRequest{
		EventID: cat.eventID,
		Items:   []request.BookingItemRequest{{TicketTypeID: cat.vip, Quantity: 3}},
	}
	code, created := s.createBooking(t, token, body, nil)
	require.Equal(t, http.StatusCreated, code)

	dbtest.SetTicketTypePrice(t, s.DB, cat.vip, "750.00")

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, checkoutPath(created.BookingID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var view response.CheckoutResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
	require.Equal(t, "1500.00", view.TotalAmount)
	require.Equal(t, "500.00", view.Items[0].UnitPrice)
}

// =============================================================================
// TestCheckoutGuard
// =============================================================================

func (s *BookingSuite) TestCheckoutGuard() {
	setup := func(t *testing.T) (uuid.UUID, string) {
		cat := s.seedCatalogue(t)
		_, token := s.jwt.CreateUserWithToken(t, s.DB, "owner@example.com", user.RoleCustomer)
		body := request.CreateBookingRequest{
			EventID: cat.eventID,
			Items:   []request.BookingItemRequest{{TicketTypeID: cat.vip, Quantity: 1}},
		}
		code, created := s.createBooking(t, token, body, nil)
		require.Equal(t, http.StatusCreated, code)
		return created.BookingID, token
	}

	s.Run("anonymous caller gets 401", func() {
		t := s.T()
		id, _ := setup(t)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, checkoutPath(id), nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("owner authenticated by cookie gets the view", func() {
		t := s.T()
		id, token := setup(t)
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodGet, checkoutPath(id), nil, nil,
			&http.Cookie{Name: cookie.AccessTokenCookieName, Value: token})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("unknown booking gets 404", func() {
		t := s.T()
		_, token := setup(t)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, checkoutPath(uuid.New()), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "booking not found")
	})

	s.Run("another user gets 403", func() {
		t := s.T()
		id, _ := setup(t)
		_, intruder := s.jwt.CreateUserWithToken(t, s.DB, "intruder@example.com", user.RoleCustomer)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, checkoutPath(id), nil, intruder)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "this booking is not yours")
	})

	s.Run("expired hold gets 410", func() {
		t := s.T()
		id, token := setup(t)
		dbtest.ExpireBooking(t, s.DB, id)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, checkoutPath(id), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusGone, "booking expired")
	})
}

// =============================================================================
// TestIdempotency
// =============================================================================

func (s *BookingSuite) TestIdempotency() {
	s.Run("same key and body replays the first booking", func() {
		t := s.T()
		cat := s.seedCatalogue(t)
		_, token := s.jwt.CreateUserWithToken(t, s.DB, "buyer@example.com", user.RoleCustomer)
		key := map[string]string{"Idempotency-Key": uuid.NewString()}
		body := request.CreateBookingRequest{
			EventID: cat.eventID,
			Items:   []request.BookingItemRequest{{TicketTypeID: cat.vip, Quantity: 2}},
		}

		code, first := s.createBooking(t, token, body, key)
		require.Equal(t, http.StatusCreated, code)
		code, second := s.createBooking(t, token, body, key)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, first.BookingID, second.BookingID)
		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "bookings"))
	})

	s.Run("same key with a different body conflicts", func() {
		t := s.T()
		cat := s.seedCatalogue(t)
		_, token := s.jwt.CreateUserWithToken(t, s.DB, "buyer@example.com", user.RoleCustomer)
		key := uuid.NewString()
		body := request.CreateBookingRequest{
			EventID: cat.eventID,
			Items:   []request.BookingItemRequest{{TicketTypeID: cat.vip, Quantity: 2}},
		}
		code, _ := s.createBooking(t, token, body, map[string]string{"Idempotency-Key": key})
		require.Equal(t, http.StatusCreated, code)

		body.Items[0].Quantity = 3
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, body, map[string]string{
			"Authorization":   "Bearer " + token,
			"Idempotency-Key": key,
		})
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "idempotency key reused with a different request")
		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "bookings"))
	})

	s.Run("concurrent duplicates create a single booking", func() {
		t := s.T()
		cat := s.seedCatalogue(t)
		_, token := s.jwt.CreateUserWithToken(t, s.DB, "buyer@example.com", user.RoleCustomer)
		headers := map[string]string{
			"Authorization":   "Bearer " + token,
			"Idempotency-Key": uuid.NewString(),
		}
		body := request.CreateBookingRequest{
			EventID: cat.eventID,
			Items:   []request.BookingItemRequest{{TicketTypeID: cat.stage, Quantity: 1}},
		}

		const workers = 8
		codes := make([]int, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, body, headers)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		created := 0
		for _, c := range codes {
			require.Contains(t, []int{http.StatusCreated, http.StatusOK, http.StatusConflict}, c)
			if c == http.StatusCreated {
				created++
			}
		}
		require.Equal(t, 1, created)
		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "bookings"))
	})
}

// =============================================================================
// InventorySuite runs with stock enforcement switched on
// =============================================================================

type InventorySuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *InventorySuite) SetupSuite() {
	s.ConfigOverride = func(c *config.Config) {
		c.Booking.EnforceInventory = true
	}
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func TestInventorySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(InventorySuite))
}

func (s *InventorySuite) TestReserve() {
	t := s.T()
	eventID := dbtest.CreateTestEvent(t, s.DB, "Club Night")
	ticket := dbtest.CreateTestTicketType(t, s.DB, eventID, "Early Bird", "20.00", 2)
	_, token := s.jwt.CreateUserWithToken(t, s.DB, "buyer@example.com", user.RoleCustomer)

	tooMany := request.CreateBookingRequest{
		EventID: eventID,
		Items:   []request.BookingItemRequest{{TicketTypeID: ticket, Quantity: 3}},
	}
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, tooMany, token)
	httptest.AssertErrorResponse(t, w, http.StatusConflict, "not enough tickets available")
	require.Equal(t, 2, dbtest.TicketTypeQuantity(t, s.DB, ticket))
	require.Equal(t, 0, dbtest.CountRows(t, s.DB, "bookings"))

	exact := request.CreateBookingRequest{
		EventID: eventID,
		Items:   []request.BookingItemRequest{{TicketTypeID: ticket, Quantity: 2}},
	}
	w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, exact, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, 0, dbtest.TicketTypeQuantity(t, s.DB, ticket))
}
