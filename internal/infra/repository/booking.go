package repository

import (
	"context"
	"time"

	"turnos-core/internal/domain/booking"
	"turnos-core/internal/infra"
	"turnos-core/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

// Create inserts the booking. An overlapping non-cancelled booking on the
// same resource trips the bookings_no_overlap exclusion constraint, which
// classify() surfaces as KindConflict.
func (r *BookingRepository) Create(ctx context.Context, dbx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbx.QueryRow(ctx, `
		INSERT INTO bookings
			(id, resource_id, service_id, client_name, client_email, client_phone,
			 note, during, status, price_cents, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, tstzrange($8, $9, '[)'), $10, $11, $12)
		RETURNING id
	`,
		b.ID(), b.ResourceID(), b.ServiceID(),
		b.Client().Name(), b.Client().Email(), b.Client().Phone(),
		b.Note(), b.Slot().Start(), b.Slot().End(),
		b.Status().String(), b.PriceCents(), b.Currency(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

// FindForUpdate locks the row for the remainder of the transaction so
// status transitions never race each other.
func (r *BookingRepository) FindForUpdate(ctx context.Context, dbx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	var (
		bID, resourceID, serviceID           uuid.UUID
		clientName, clientEmail, clientPhone string
		note, status, currency               string
		start, end, createdAt, updatedAt     time.Time
		priceCents                           int64
	)

	err := dbx.QueryRow(ctx, `
		SELECT id, resource_id, service_id, client_name, client_email, client_phone,
			note, lower(during), upper(during), status, price_cents, currency,
			created_at, updated_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(
		&bID, &resourceID, &serviceID, &clientName, &clientEmail, &clientPhone,
		&note, &start, &end, &status, &priceCents, &currency,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	slot, err := booking.NewTimeSlot(start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid slot", err, infra.KindDBFailure)
	}
	client, err := booking.NewClientInfo(clientName, clientEmail, clientPhone)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid client info", err, infra.KindDBFailure)
	}
	st, err := booking.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid status", err, infra.KindDBFailure)
	}

	return booking.Reconstruct(
		bID, resourceID, serviceID, slot, client, note, st,
		priceCents, currency, createdAt, updatedAt,
	), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, dbx db.DBTX, id uuid.UUID, status booking.Status, now time.Time) error {
	tag, err := dbx.Exec(ctx, `
		UPDATE bookings
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, status.String(), now)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
