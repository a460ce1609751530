package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

// Write-side snapshots keep commands independent of read-side view types
type TicketTypeSnapshot struct {
	ID       uuid.UUID
	EventID  uuid.UUID
	Name     string
	Price    decimal.Decimal
	Quantity int
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}
