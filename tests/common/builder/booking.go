package builder

import (
	"time"

	"turnos-core/internal/domain/booking"

	"github.com/google/uuid"
)

// BookingBuilder assembles a valid booking by default; tests mutate the
// parts they care about.
type BookingBuilder struct {
	resourceID  uuid.UUID
	serviceID   uuid.UUID
	start       time.Time
	end         time.Time
	clientName  string
	clientEmail string
	clientPhone string
	note        string
	priceCents  int64
	currency    string
	autoConfirm bool
	now         time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		resourceID:  uuid.New(),
		serviceID:   uuid.New(),
		start:       now.Add(2 * time.Hour),
		end:         now.Add(2*time.Hour + 45*time.Minute),
		clientName:  "Ana Torres",
		clientEmail: "ana@example.com",
		clientPhone: "+34 600 000 000",
		note:        "first visit",
		priceCents:  3500,
		currency:    "EUR",
		now:         now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	if mutate != nil {
		mutate(b)
	}
	return b
}

func (b *BookingBuilder) WithTarget(resourceID, serviceID uuid.UUID) *BookingBuilder {
	b.resourceID, b.serviceID = resourceID, serviceID
	return b
}

func (b *BookingBuilder) WithSlot(start, end time.Time) *BookingBuilder {
	b.start, b.end = start, end
	return b
}

func (b *BookingBuilder) WithClient(name, email, phone string) *BookingBuilder {
	b.clientName, b.clientEmail, b.clientPhone = name, email, phone
	return b
}

func (b *BookingBuilder) WithAutoConfirm(on bool) *BookingBuilder {
	b.autoConfirm = on
	return b
}

func (b *BookingBuilder) WithNow(now time.Time) *BookingBuilder {
	b.now = now
	return b
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	slot, err := booking.NewTimeSlot(b.start, b.end)
	if err != nil {
		return nil, err
	}
	client, err := booking.NewClientInfo(b.clientName, b.clientEmail, b.clientPhone)
	if err != nil {
		return nil, err
	}
	return booking.NewBooking(
		b.resourceID, b.serviceID, slot, client, b.note,
		b.priceCents, b.currency, b.autoConfirm, b.now,
	)
}
