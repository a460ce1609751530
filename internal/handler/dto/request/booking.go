package request

import (
	"eventhub/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Items is left unconstrained on presence so an empty selection reaches the
// usecase and is reported as "no tickets selected".
type CreateBookingRequest struct {
	EventID uuid.UUID            `json:"eventId" binding:"required"`
	Items   []BookingItemRequest `json:"items" binding:"max=50,dive"`
}

type BookingItemRequest struct {
	TicketTypeID uuid.UUID `json:"ticketTypeId" binding:"required"`
	Quantity     int       `json:"quantity" binding:"min=1,max=100"`
}

func (r CreateBookingRequest) ToInput(userID uuid.UUID, idempotencyKey *uuid.UUID) (commands.CreateBookingInput, error) {
	in := commands.CreateBookingInput{
		UserID:         userID,
		EventID:        r.EventID,
		IdempotencyKey: idempotencyKey,
	}
	if len(r.Items) > 0 {
		in.Items = make([]commands.BookingLine, 0, len(r.Items))
		if err := copier.Copy(&in.Items, &r.Items); err != nil {
			return commands.CreateBookingInput{}, err
		}
	}
	return in, nil
}
