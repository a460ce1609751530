package api

import (
	"net/http"

	"eventhub/internal/domain/booking"
	reqdto "eventhub/internal/handler/dto/request"
	resdto "eventhub/internal/handler/dto/response"
	"eventhub/internal/handler/httperr"
	"eventhub/internal/handler/middleware"
	"eventhub/internal/infra/metrics"
	"eventhub/internal/pkg/errs"
	"eventhub/internal/usecase/commands"
	"eventhub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Create a pending booking priced from the server-side ticket catalogue
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key (UUID)"
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Success 200 {object} resdto.CreateBookingResponse "Replayed idempotent request"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		metrics.IncBookingFailure("unauthorized")
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthorized, "unauthorized", nil)
		return
	}

	key, err := parseIdempotencyKey(c)
	if err != nil {
		metrics.IncBookingFailure("validation")
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid idempotency key", nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncBookingFailure("validation")
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid request", nil)
		return
	}

	in, err := req.ToInput(userID, key)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid request", nil)
		return
	}

	result, err := h.cmds.CreateBooking(c.Request.Context(), in)
	if err != nil {
		status, reason, msg := createBookingError(err)
		metrics.IncBookingFailure(reason)
		httperr.AbortWithError(c, status, err, msg, nil)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	} else {
		metrics.IncBookingCreated()
	}
	c.Header("Location", "/api/bookings/"+result.BookingID.String()+"/checkout")
	c.JSON(status, resdto.CreateBookingResponse{Success: true, BookingID: result.BookingID})
}

// @Summary Checkout booking
// @Description Load a pending booking for its owner while the hold is live
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /bookings/{id}/checkout [get]
func (h *BookingHandler) Checkout(c *gin.Context) {
	// anonymous callers reach the guard with uuid.Nil
	callerID, _ := middleware.GetUserID(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		if callerID == uuid.Nil {
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthorized, "unauthorized", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid booking id", nil)
		return
	}

	view, err := h.q.GetForCheckout(c.Request.Context(), callerID, bookingID)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrUnauthorized):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "unauthorized", nil)
		case errs.Is(err, errs.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "booking not found", nil)
		case errs.Is(err, errs.ErrBookingNotOwned):
			httperr.AbortWithError(c, http.StatusForbidden, err, "this booking is not yours", nil)
		case errs.Is(err, errs.ErrBookingExpired):
			httperr.AbortWithError(c, http.StatusGone, err, "booking expired", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// createBookingError returns status, metric reason and public message.
// Failures inside the transaction never leak their cause.
func createBookingError(err error) (int, string, string) {
	switch {
	case errs.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "unauthorized"
	case errs.Is(err, errs.ErrNoTicketsSelected):
		return http.StatusBadRequest, "validation", "no tickets selected"
	case errs.Is(err, booking.ErrInvalidQuantity):
		return http.StatusBadRequest, "validation", "quantity must be at least 1"
	case errs.Is(err, errs.ErrInsufficientTickets):
		return http.StatusConflict, "insufficient_inventory", "not enough tickets available"
	case errs.Is(err, errs.ErrIdempotencyKeyReused):
		return http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different request"
	case errs.Is(err, commands.ErrIdempotencyInProgress):
		return http.StatusConflict, "idempotency_in_progress", "request with this idempotency key is still in progress"
	case errs.Is(err, errs.ErrTicketTypeNotFound):
		return http.StatusInternalServerError, "ticket_type_not_found", "failed to create booking"
	default:
		return http.StatusInternalServerError, "storage", "failed to create booking"
	}
}

func parseIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	raw := c.GetHeader(idempotencyKeyHeader)
	if raw == "" {
		return nil, nil
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
