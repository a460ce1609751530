package response

import (
	"time"

	"eventhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateBookingResponse struct {
	Success   bool      `json:"success"`
	BookingID uuid.UUID `json:"bookingId"`
}

// Amounts are fixed two-decimal strings so clients never see float rounding.
type CheckoutResponse struct {
	Success     bool                   `json:"success"`
	ID          uuid.UUID              `json:"id"`
	EventID     uuid.UUID              `json:"eventId"`
	Status      string                 `json:"status"`
	TotalAmount string                 `json:"totalAmount"`
	ExpiresAt   time.Time              `json:"expiresAt"`
	CreatedAt   time.Time              `json:"createdAt"`
	Items       []CheckoutItemResponse `json:"items"`
}

type CheckoutItemResponse struct {
	ID             uuid.UUID `json:"id"`
	TicketTypeID   uuid.UUID `json:"ticketTypeId"`
	TicketTypeName string    `json:"ticketTypeName"`
	Quantity       int       `json:"quantity"`
	UnitPrice      string    `json:"unitPrice"`
	Subtotal       string    `json:"subtotal"`
}

func FromBookingView(v *queries.BookingView) *CheckoutResponse {
	items := make([]CheckoutItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = CheckoutItemResponse{
			ID:             it.ID,
			TicketTypeID:   it.TicketTypeID,
			TicketTypeName: it.TicketTypeName,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice.StringFixed(2),
			Subtotal:       it.Subtotal().StringFixed(2),
		}
	}
	return &CheckoutResponse{
		Success:     true,
		ID:          v.ID,
		EventID:     v.EventID,
		Status:      v.Status,
		TotalAmount: v.TotalAmount.StringFixed(2),
		ExpiresAt:   v.ExpiresAt,
		CreatedAt:   v.CreatedAt,
		Items:       items,
	}
}
