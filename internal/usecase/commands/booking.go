package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"turnos-core/internal/domain/booking"
	"turnos-core/internal/domain/schedule"
	reqdto "turnos-core/internal/handler/dto/request"
	"turnos-core/internal/infra"
	"turnos-core/internal/pkg/clock"
	"turnos-core/internal/pkg/errs"
	"turnos-core/internal/usecase/queries"
	"turnos-core/internal/usecase/shared"

	"github.com/google/uuid"
)

const createBookingEndpoint = "POST /bookings"

var (
	ErrResourceNotFound        = errs.New("resource not found")
	ErrServiceNotFound         = errs.New("service not found")
	ErrServiceMismatch         = errs.New("service does not belong to business")
	ErrEmployeeNotEligible     = errs.New("employee cannot perform this service")
	ErrInvalidTimeSlot         = errs.New("invalid time slot")
	ErrSlotInPast              = errs.New("slot is in the past")
	ErrOutsideOpeningHours     = errs.New("slot is outside opening hours")
	ErrBookingConflict         = errs.New("booking conflict")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrInvalidTransition       = errs.New("invalid status transition")
	ErrDuplicateBooking        = errs.New("idempotency key reused with different request")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, businessID, id uuid.UUID) error
	UpdateBookingStatus(ctx context.Context, businessID, id uuid.UUID, next string) error
}

type bookingUseCaseImpl struct {
	uow            shared.UnitOfWork
	catalog        shared.CatalogReads
	bookingQueries queries.BookingQueries
	clock          clock.Clock
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	catalog shared.CatalogReads,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:            uow,
		catalog:        catalog,
		bookingQueries: bookingQueries,
		clock:          clk,
	}
}

func (u *bookingUseCaseImpl) CreateBooking(
	ctx context.Context,
	req reqdto.CreateBookingRequest,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	requestHash := calculateRequestHash(req)
	expiresAt := u.clock.Now().Add(24 * time.Hour)

	replayed, err := u.handleIdempotency(ctx, idempotencyKey, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateBookingResult{Booking: replayed, IsReplayed: true}, nil
	}

	view, err := u.createNewBooking(ctx, req, idempotencyKey)
	if err != nil {
		// A failed attempt must not leave the claim in 'processing'.
		u.releaseClaim(ctx, idempotencyKey)
		return nil, err
	}
	return &CreateBookingResult{Booking: view, IsReplayed: false}, nil
}

// releaseClaim is best effort: a leftover claim still self-heals once
// expires_at passes.
func (u *bookingUseCaseImpl) releaseClaim(ctx context.Context, idempotencyKey uuid.UUID) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Delete(ctx, tx.DB(), idempotencyKey, createBookingEndpoint)
	})
	if err != nil {
		slog.Warn("failed to release idempotency claim",
			"idempotency_key", idempotencyKey,
			"error", err.Error(),
		)
	}
}

func (u *bookingUseCaseImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.BookingView, error) {
	var (
		claimed bool
		record  *shared.IdempotencyRecord
	)
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		won, err := tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, createBookingEndpoint, requestHash, expiresAt)
		if err != nil {
			return err
		}
		claimed = won
		if claimed {
			return nil
		}
		rec, err := tx.Idempotency().Get(ctx, tx.DB(), idempotencyKey, createBookingEndpoint)
		if err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	if record.RequestHash != requestHash {
		return nil, ErrDuplicateBooking
	}

	switch record.Status {
	case "completed":
		if record.ResultBookingID == nil {
			return nil, errs.New("completed request missing result booking ID")
		}
		return u.bookingQueries.GetByID(ctx, *record.ResultBookingID)

	case "processing":
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (u *bookingUseCaseImpl) createNewBooking(
	ctx context.Context,
	req reqdto.CreateBookingRequest,
	idempotencyKey uuid.UUID,
) (*queries.BookingView, error) {
	svc, resource, err := u.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	slot, err := u.buildSlot(ctx, req.StartsAt, svc.DurationMinutes, resource)
	if err != nil {
		return nil, err
	}

	client, err := booking.NewClientInfo(req.ClientName, req.ClientEmail, req.ClientPhone)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	entity, err := booking.NewBooking(
		resource.ID, svc.ID, slot, client, req.Note,
		svc.PriceCents, svc.Currency, resource.AutoConfirm, u.clock.Now(),
	)
	if err != nil {
		if errors.Is(err, booking.ErrSlotInPast) {
			return nil, ErrSlotInPast
		}
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var bookingID uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Bookings().Create(ctx, tx.DB(), entity)
		if err != nil {
			return err
		}
		bookingID = id

		payload, err := json.Marshal(map[string]any{
			"booking_id":  id,
			"resource_id": resource.ID,
			"status":      entity.Status().String(),
		})
		if err != nil {
			return err
		}
		if err := tx.Notifications().CreateJob(ctx, tx.DB(), "email", "booking_created", payload, u.clock.Now()); err != nil {
			return err
		}

		return tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, createBookingEndpoint, id)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrBookingConflict
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Read-after-write so the response carries the joined view
	view, err := u.bookingQueries.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (u *bookingUseCaseImpl) resolveTarget(
	ctx context.Context,
	req reqdto.CreateBookingRequest,
) (*shared.ServiceSnapshot, *shared.ResourceSnapshot, error) {
	svc, err := u.catalog.ServiceByID(ctx, req.ServiceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrServiceNotFound
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if svc.BusinessID != req.BusinessID {
		return nil, nil, ErrServiceMismatch
	}

	targetID := req.BusinessID
	if req.EmployeeID != nil {
		targetID = *req.EmployeeID
		if !serviceAllows(svc, *req.EmployeeID) {
			return nil, nil, ErrEmployeeNotEligible
		}
	}

	resource, err := u.catalog.ResourceByID(ctx, targetID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrResourceNotFound
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if resource.BusinessID != req.BusinessID {
		return nil, nil, ErrResourceNotFound
	}
	return svc, resource, nil
}

// buildSlot anchors the requested start in the resource's timezone and
// checks the full [start, end) range sits inside one open interval of
// that day's schedule.
func (u *bookingUseCaseImpl) buildSlot(ctx context.Context, startsAt time.Time, durationMin int, resource *shared.ResourceSnapshot) (booking.TimeSlot, error) {
	var zero booking.TimeSlot

	loc, err := time.LoadLocation(resource.Timezone)
	if err != nil {
		return zero, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	start := startsAt.In(loc)
	end := start.Add(time.Duration(durationMin) * time.Minute)

	slot, err := booking.NewTimeSlot(start, end)
	if err != nil {
		return zero, ErrInvalidTimeSlot
	}

	date := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	weekly, err := u.catalog.WeeklyHours(ctx, resource.ID)
	if err != nil {
		return zero, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	overrides, err := u.catalog.Overrides(ctx, resource.ID, date, date)
	if err != nil {
		return zero, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	sched, err := schedule.New(weekly, overrides)
	if err != nil {
		return zero, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	for _, iv := range sched.OpenIntervalsFor(date) {
		open := iv.Start.At(date, loc)
		close := iv.End.At(date, loc)
		if !start.Before(open) && !end.After(close) {
			return slot, nil
		}
	}
	return zero, ErrOutsideOpeningHours
}

func serviceAllows(svc *shared.ServiceSnapshot, employeeID uuid.UUID) bool {
	if len(svc.EligibleEmployeeIDs) == 0 {
		return true
	}
	for _, id := range svc.EligibleEmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

// CancelBooking is idempotent: cancelling an already cancelled booking
// succeeds without emitting another event. Staff can only touch
// bookings whose resource belongs to their own business.
func (u *bookingUseCaseImpl) CancelBooking(ctx context.Context, businessID, id uuid.UUID) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), id)
		if err != nil {
			return err
		}
		if err := u.checkOwnership(ctx, entity.ResourceID(), businessID); err != nil {
			return err
		}

		now := u.clock.Now()
		changed, err := entity.Cancel(now)
		if err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if !changed {
			return nil
		}

		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), id, booking.StatusCancelled, now); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]any{
			"booking_id": id,
			"status":     booking.StatusCancelled.String(),
		})
		if err != nil {
			return err
		}
		return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "booking_cancelled", payload, now)
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || infra.IsKind(err, infra.KindNotFound) {
			return ErrBookingNotFound
		}
		if errors.Is(err, ErrInvalidTransition) {
			return ErrInvalidTransition
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *bookingUseCaseImpl) UpdateBookingStatus(ctx context.Context, businessID, id uuid.UUID, next string) error {
	nextStatus, err := booking.NewStatus(next)
	if err != nil {
		return ErrInvalidTransition
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), id)
		if err != nil {
			return err
		}
		if err := u.checkOwnership(ctx, entity.ResourceID(), businessID); err != nil {
			return err
		}

		now := u.clock.Now()
		if err := entity.TransitionTo(nextStatus, now); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), id, nextStatus, now); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]any{
			"booking_id": id,
			"status":     nextStatus.String(),
		})
		if err != nil {
			return err
		}
		return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "booking_status_changed", payload, now)
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || infra.IsKind(err, infra.KindNotFound) {
			return ErrBookingNotFound
		}
		if errors.Is(err, ErrInvalidTransition) {
			return ErrInvalidTransition
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

// checkOwnership resolves the booked resource's business and refuses a
// cross-tenant caller; the mismatch surfaces as a missing booking.
func (u *bookingUseCaseImpl) checkOwnership(ctx context.Context, resourceID, businessID uuid.UUID) error {
	owner, err := u.catalog.ResourceByID(ctx, resourceID)
	if err != nil {
		return err
	}
	if owner.BusinessID != businessID {
		return ErrBookingNotFound
	}
	return nil
}

func calculateRequestHash(req reqdto.CreateBookingRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
