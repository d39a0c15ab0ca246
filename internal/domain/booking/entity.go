package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSlotInPast = errors.New("slot starts in the past")

type Booking struct {
	id         uuid.UUID
	resourceID uuid.UUID
	serviceID  uuid.UUID
	slot       TimeSlot
	client     ClientInfo
	note       string
	status     Status
	priceCents int64
	currency   string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewBooking creates a booking in PENDING or, when the business
// auto-confirms, CONFIRMED. Price and currency are captured from the
// service at reservation time.
func NewBooking(
	resourceID, serviceID uuid.UUID,
	slot TimeSlot,
	client ClientInfo,
	note string,
	priceCents int64,
	currency string,
	autoConfirm bool,
	now time.Time,
) (*Booking, error) {
	if slot.Start().Before(now) {
		return nil, ErrSlotInPast
	}

	status := StatusPending
	if autoConfirm {
		status = StatusConfirmed
	}

	return &Booking{
		id:         uuid.New(),
		resourceID: resourceID,
		serviceID:  serviceID,
		slot:       slot,
		client:     client,
		note:       note,
		status:     status,
		priceCents: priceCents,
		currency:   currency,
	}, nil
}

func Reconstruct(
	id, resourceID, serviceID uuid.UUID,
	slot TimeSlot,
	client ClientInfo,
	note string,
	status Status,
	priceCents int64,
	currency string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		resourceID: resourceID,
		serviceID:  serviceID,
		slot:       slot,
		client:     client,
		note:       note,
		status:     status,
		priceCents: priceCents,
		currency:   currency,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) ResourceID() uuid.UUID { return b.resourceID }
func (b *Booking) ServiceID() uuid.UUID  { return b.serviceID }
func (b *Booking) Slot() TimeSlot        { return b.slot }
func (b *Booking) Client() ClientInfo    { return b.client }
func (b *Booking) Note() string          { return b.note }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) PriceCents() int64     { return b.priceCents }
func (b *Booking) Currency() string      { return b.currency }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }

// TransitionTo enforces the status state machine. Transitions out of a
// terminal state fail; use Cancel for the idempotent cancel path.
func (b *Booking) TransitionTo(next Status, now time.Time) error {
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	b.status = next
	b.updatedAt = now
	return nil
}

// Cancel is idempotent: cancelling an already-cancelled booking succeeds
// without touching the row. Returns whether state actually changed so
// callers emit at most one cancellation event.
func (b *Booking) Cancel(now time.Time) (changed bool, err error) {
	if b.status == StatusCancelled {
		return false, nil
	}
	if err := b.TransitionTo(StatusCancelled, now); err != nil {
		return false, err
	}
	return true, nil
}
