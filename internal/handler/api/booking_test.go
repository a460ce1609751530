//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"eventhub/internal/domain/booking"
	"eventhub/internal/domain/user"
	"eventhub/internal/handler/api"
	"eventhub/internal/handler/middleware"
	resdto "eventhub/internal/handler/dto/response"
	"eventhub/internal/pkg/errs"
	"eventhub/internal/usecase/commands"
	"eventhub/tests/common/builder"
	"eventhub/tests/common/httptest"
	"eventhub/tests/common/testutil"
	commandsmock "eventhub/tests/mock/commands"
	queriesmock "eventhub/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	userID       uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// any bearer token authenticates as s.userID
	requireAuth := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleCustomer)
		c.Next()
	}
	optionalAuth := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", s.userID)
			c.Set("user_role", user.RoleCustomer)
		}
		c.Next()
	}

	s.router.POST("/api/bookings", requireAuth, s.handler.Create)
	s.router.POST("/unguarded/bookings", s.handler.Create)
	s.router.GET("/api/bookings/:id/checkout", optionalAuth, s.handler.Checkout)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/api/bookings"

	b := builder.NewBookingBuilder()
	reqBody := b.BuildCreateRequestDTO()
	bookingID := uuid.New()

	s.Run("success: returns 201 with bookingId", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.CreateBookingInput) (*commands.CreateBookingResult, error) {
				s.Equal(s.userID, in.UserID)
				s.Equal(b.EventID, in.EventID)
				s.Require().Len(in.Items, 2)
				s.Equal(b.Lines[0].TicketTypeID, in.Items[0].TicketTypeID)
				s.Equal(2, in.Items[0].Quantity)
				s.Equal(b.Lines[1].TicketTypeID, in.Items[1].TicketTypeID)
				s.Nil(in.IdempotencyKey)
				return &commands.CreateBookingResult{BookingID: bookingID}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.CreateBookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.True(body.Success)
		s.Equal(bookingID, body.BookingID)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/bookings/" + bookingID.String() + "/checkout"})
	})

	s.Run("success: replay returns 200 with the original bookingId", func() {
		key := uuid.New()
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.CreateBookingInput) (*commands.CreateBookingResult, error) {
				s.Require().NotNil(in.IdempotencyKey)
				s.Equal(key, *in.IdempotencyKey)
				return &commands.CreateBookingResult{BookingID: bookingID, Replayed: true}, nil
			}).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, map[string]string{
			"Authorization":   "Bearer token",
			"Idempotency-Key": key.String(),
		})

		var body resdto.CreateBookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(bookingID, body.BookingID)
	})

	s.Run("error: 400 on malformed idempotency key", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, map[string]string{
			"Authorization":   "Bearer token",
			"Idempotency-Key": "not-a-uuid",
		})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid idempotency key")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		validationCases := []testCaseBooking{
			{name: "missing eventId", mutate: testutil.Field("eventId", nil), expectCode: http.StatusBadRequest},
			{name: "eventId not a uuid", mutate: testutil.Field("eventId", "abc"), expectCode: http.StatusBadRequest},
			{name: "quantity zero", mutate: testutil.Field("items", []map[string]any{{"ticketTypeId": uuid.NewString(), "quantity": 0}}), expectCode: http.StatusBadRequest},
			{name: "quantity negative", mutate: testutil.Field("items", []map[string]any{{"ticketTypeId": uuid.NewString(), "quantity": -1}}), expectCode: http.StatusBadRequest},
			{name: "quantity above limit", mutate: testutil.Field("items", []map[string]any{{"ticketTypeId": uuid.NewString(), "quantity": 101}}), expectCode: http.StatusBadRequest},
			{name: "missing ticketTypeId", mutate: testutil.Field("items", []map[string]any{{"quantity": 1}}), expectCode: http.StatusBadRequest},
			{name: "quantity boundary OK (1)", mutate: testutil.Field("items", []map[string]any{{"ticketTypeId": uuid.NewString(), "quantity": 1}}), expectCode: http.StatusCreated},
			{name: "quantity boundary OK (100)", mutate: testutil.Field("items", []map[string]any{{"ticketTypeId": uuid.NewString(), "quantity": 100}}), expectCode: http.StatusCreated},
		}

		for _, tc := range validationCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

				if tc.expectCode == http.StatusCreated {
					s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
						Return(&commands.CreateBookingResult{BookingID: bookingID}, nil).Times(1)
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				if tc.expectCode == http.StatusCreated {
					httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
				} else {
					httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "invalid request")
				}
			})
		}
	})

	s.Run("error: empty items reach the usecase and return no tickets selected", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("items", []any{}))
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.CreateBookingInput) (*commands.CreateBookingResult, error) {
				s.Empty(in.Items)
				return nil, errs.ErrNoTicketsSelected
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "no tickets selected")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("error: 401 when no identity reached the handler", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/unguarded/bookings", reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		storageFailure := errs.Mark(errors.New("connection reset"), errs.ErrBookingCreation)
		missingTicket := errs.Mark(errs.Mark(errors.New("no rows"), errs.ErrTicketTypeNotFound), errs.ErrBookingCreation)

		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "unauthorized", commandsError: errs.ErrUnauthorized, expectedStatus: http.StatusUnauthorized, expectedMsg: "unauthorized"},
			{name: "invalid quantity", commandsError: booking.ErrInvalidQuantity, expectedStatus: http.StatusBadRequest, expectedMsg: "quantity"},
			{name: "insufficient inventory", commandsError: errs.ErrInsufficientTickets, expectedStatus: http.StatusConflict, expectedMsg: "not enough tickets available"},
			{name: "idempotency key reused", commandsError: errs.ErrIdempotencyKeyReused, expectedStatus: http.StatusConflict, expectedMsg: "idempotency key reused"},
			{name: "idempotency in progress", commandsError: commands.ErrIdempotencyInProgress, expectedStatus: http.StatusConflict, expectedMsg: "still in progress"},
			{name: "missing ticket type", commandsError: missingTicket, expectedStatus: http.StatusInternalServerError, expectedMsg: "failed to create booking"},
			{name: "storage failure", commandsError: storageFailure, expectedStatus: http.StatusInternalServerError, expectedMsg: "failed to create booking"},
			{name: "unexpected error", commandsError: errors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedMsg: "failed to create booking"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
				s.NotContains(rec.Body.String(), "connection reset")
			})
		}
	})
}

// ================================================================================
// TestCheckout
// ================================================================================

func (s *BookingHandlerTestSuite) TestCheckout() {
	b := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.ExpiresAt = time.Now().Add(5 * time.Minute).UTC().Truncate(time.Second)
	})
	url := "/api/bookings/" + b.ID.String() + "/checkout"

	s.Run("success: returns 200 with decimal strings", func() {
		view := b.BuildView()
		view.UserID = s.userID
		s.mockQueries.EXPECT().GetForCheckout(gomock.Any(), s.userID, b.ID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Success)
		s.Equal(b.ID, body.ID)
		s.Equal("2500.00", body.TotalAmount)
		s.Require().Len(body.Items, 2)
		s.Equal("VIP", body.Items[0].TicketTypeName)
		s.Equal("500.00", body.Items[0].UnitPrice)
		s.Equal("1000.00", body.Items[0].Subtotal)
		s.Equal("1500.00", body.Items[1].UnitPrice)
		s.True(b.ExpiresAt.Equal(body.ExpiresAt))
	})

	s.Run("anonymous caller is passed as uuid.Nil", func() {
		s.mockQueries.EXPECT().GetForCheckout(gomock.Any(), uuid.Nil, b.ID).
			Return(nil, errs.ErrUnauthorized).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("error: invalid id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/nope/checkout", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid booking id")
	})

	s.Run("error: invalid id from anonymous caller is unauthorized first", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/nope/checkout", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("error: maps guard errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "not found", queriesError: errs.ErrBookingNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "booking not found"},
			{name: "not owned", queriesError: errs.ErrBookingNotOwned, expectedStatus: http.StatusForbidden, expectedMsg: "this booking is not yours"},
			{name: "expired", queriesError: errs.ErrBookingExpired, expectedStatus: http.StatusGone, expectedMsg: "booking expired"},
			{name: "storage", queriesError: errs.Mark(errors.New("db"), errs.ErrDatabaseOperationFailed), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().GetForCheckout(gomock.Any(), s.userID, b.ID).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
