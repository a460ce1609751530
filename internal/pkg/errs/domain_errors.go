package errs

import "errors"

// Domain-specific sentinel errors shared by the HTTP and usecase layers
var (
	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingNotOwned      = errors.New("this booking is not yours")
	ErrBookingExpired       = errors.New("booking expired")
	ErrBookingCreation      = errors.New("failed to create booking")
	ErrNoTicketsSelected    = errors.New("no tickets selected")
	ErrTicketTypeNotFound   = errors.New("ticket type not found")
	ErrInsufficientTickets  = errors.New("not enough tickets available")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrIdempotencyKeyReused = errors.New("idempotency key reused with a different request")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
