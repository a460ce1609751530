package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"eventhub/internal/domain/booking"
	"eventhub/internal/infra"
	"eventhub/internal/pkg/clock"
	"eventhub/internal/pkg/config"
	"eventhub/internal/pkg/errs"
	"eventhub/internal/usecase/shared"

	"github.com/google/uuid"
)

const createBookingEndpoint = "POST /api/bookings"

var (
	ErrIdempotencyInProgress = errs.New("request with this idempotency key is still in progress")
	errReplayMissingResult   = errs.New("completed idempotency key has no booking")
)

type BookingLine struct {
	TicketTypeID uuid.UUID `json:"ticketTypeId"`
	Quantity     int       `json:"quantity"`
}

type CreateBookingInput struct {
	UserID         uuid.UUID
	EventID        uuid.UUID
	Items          []BookingLine
	IdempotencyKey *uuid.UUID
}

type CreateBookingResult struct {
	BookingID uuid.UUID
	Replayed  bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error)
}

type bookingUseCaseImpl struct {
	uow              shared.UnitOfWork
	clock            clock.Clock
	holdWindow       time.Duration
	idempotencyTTL   time.Duration
	enforceInventory bool
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) BookingCommands {
	holdWindow := cfg.Booking.HoldWindow
	if holdWindow <= 0 {
		holdWindow = booking.DefaultHoldWindow
	}
	return &bookingUseCaseImpl{
		uow:              uow,
		clock:            clk,
		holdWindow:       holdWindow,
		idempotencyTTL:   cfg.Booking.IdempotencyTTL,
		enforceInventory: cfg.Booking.EnforceInventory,
	}
}

// CreateBooking writes the header, one frozen-price item per line, and the
// final total in a single transaction. Validation errors are returned as is;
// anything that fails after the transaction opens is marked ErrBookingCreation,
// except outcomes the caller can act on (inventory, idempotency conflicts).
func (uc *bookingUseCaseImpl) CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	if in.UserID == uuid.Nil {
		return nil, errs.ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, errs.ErrNoTicketsSelected
	}
	quantities := make([]booking.Quantity, len(in.Items))
	for i, line := range in.Items {
		q, err := booking.NewQuantity(line.Quantity)
		if err != nil {
			return nil, err
		}
		quantities[i] = q
	}

	var result CreateBookingResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = CreateBookingResult{}

		if in.IdempotencyKey != nil {
			replayID, err := uc.claimIdempotencyKey(ctx, tx, *in.IdempotencyKey, in.UserID, requestHash(in))
			if err != nil {
				return err
			}
			if replayID != nil {
				result = CreateBookingResult{BookingID: *replayID, Replayed: true}
				return nil
			}
		}

		b, err := booking.NewBooking(uc.clock, in.UserID, in.EventID, uc.holdWindow)
		if err != nil {
			return err
		}
		if err = tx.Bookings().CreateHeader(ctx, tx.DB(), b); err != nil {
			return err
		}

		for i, line := range in.Items {
			price, perr := uc.lookupPrice(ctx, tx, in.EventID, line.TicketTypeID)
			if perr != nil {
				return perr
			}
			if uc.enforceInventory {
				if rerr := tx.TicketTypes().Reserve(ctx, tx.DB(), line.TicketTypeID, quantities[i]); rerr != nil {
					if infra.IsKind(rerr, infra.KindConflict) {
						return errs.ErrInsufficientTickets
					}
					return rerr
				}
			}
			item := b.AddItem(line.TicketTypeID, quantities[i], price)
			if aerr := tx.Bookings().AddItem(ctx, tx.DB(), b.ID(), i, item); aerr != nil {
				return aerr
			}
		}

		if err = tx.Bookings().UpdateTotal(ctx, tx.DB(), b.ID(), b.Total()); err != nil {
			return err
		}

		if in.IdempotencyKey != nil {
			if err = tx.Idempotency().MarkCompleted(ctx, tx.DB(), *in.IdempotencyKey, in.UserID, b.ID()); err != nil {
				return err
			}
		}

		result.BookingID = b.ID()
		return nil
	})
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrInsufficientTickets),
			errs.Is(err, errs.ErrIdempotencyKeyReused),
			errs.Is(err, ErrIdempotencyInProgress):
			return nil, err
		}
		slog.ErrorContext(ctx, "booking creation failed",
			slog.String("user_id", in.UserID.String()),
			slog.String("event_id", in.EventID.String()),
			slog.Int("items", len(in.Items)),
			slog.String("error", err.Error()))
		return nil, errs.Mark(err, errs.ErrBookingCreation)
	}

	if result.Replayed {
		slog.InfoContext(ctx, "booking replayed from idempotency key",
			slog.String("booking_id", result.BookingID.String()))
	}
	return &result, nil
}

// lookupPrice resolves the authoritative unit price. A ticket type from another
// event is treated as missing.
func (uc *bookingUseCaseImpl) lookupPrice(ctx context.Context, tx shared.Tx, eventID, ticketTypeID uuid.UUID) (booking.Money, error) {
	snap, err := tx.Reads().TicketTypeByID(ctx, ticketTypeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			slog.WarnContext(ctx, "ticket type not found", slog.String("ticket_type_id", ticketTypeID.String()))
			return booking.Money{}, errs.Mark(err, errs.ErrTicketTypeNotFound)
		}
		return booking.Money{}, err
	}
	if snap.EventID != eventID {
		slog.WarnContext(ctx, "ticket type belongs to another event",
			slog.String("ticket_type_id", ticketTypeID.String()),
			slog.String("event_id", eventID.String()))
		return booking.Money{}, errs.ErrTicketTypeNotFound
	}
	return booking.NewMoney(snap.Price)
}

// claimIdempotencyKey returns a booking id when the request is a replay of a
// completed one, nil when this transaction now owns the key.
func (uc *bookingUseCaseImpl) claimIdempotencyKey(ctx context.Context, tx shared.Tx, key, userID uuid.UUID, hash string) (*uuid.UUID, error) {
	now := uc.clock.Now()
	expiresAt := now.Add(uc.idempotencyTTL)

	inserted, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, userID, createBookingEndpoint, hash, expiresAt)
	if err != nil {
		return nil, err
	}
	if inserted {
		return nil, nil
	}

	existing, err := tx.Reads().IdempotencyByKey(ctx, key, userID)
	if err != nil {
		return nil, err
	}

	if existing.ExpiresAt.Before(now) {
		reclaimed, rerr := tx.Idempotency().ReclaimExpired(ctx, tx.DB(), key, userID, hash, expiresAt, now)
		if rerr != nil {
			return nil, rerr
		}
		if reclaimed {
			return nil, nil
		}
		// another transaction reclaimed it first
		existing, err = tx.Reads().IdempotencyByKey(ctx, key, userID)
		if err != nil {
			return nil, err
		}
	}

	if existing.RequestHash != hash {
		return nil, errs.ErrIdempotencyKeyReused
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultBookingID == nil {
			return nil, errReplayMissingResult
		}
		return existing.ResultBookingID, nil
	default:
		return nil, ErrIdempotencyInProgress
	}
}

func requestHash(in CreateBookingInput) string {
	data, _ := json.Marshal(struct {
		EventID uuid.UUID     `json:"eventId"`
		Items   []BookingLine `json:"items"`
	}{in.EventID, in.Items})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
