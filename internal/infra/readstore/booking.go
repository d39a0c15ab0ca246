package readstore

import (
	"context"
	"time"

	"turnos-core/internal/infra"
	"turnos-core/internal/infra/db"
	"turnos-core/internal/usecase/queries"
	"turnos-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbx}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	view := queries.BookingView{}
	err := r.db.QueryRow(ctx, `
		SELECT b.id, r.business_id, b.resource_id, r.name, b.service_id, s.name,
			b.client_name, b.client_email, b.client_phone, b.note,
			lower(b.during), upper(b.during), b.status, b.price_cents, b.currency,
			b.created_at, b.updated_at
		FROM bookings b
		JOIN resources r ON r.id = b.resource_id
		JOIN services s ON s.id = b.service_id
		WHERE b.id = $1
	`, id).Scan(
		&view.ID, &view.BusinessID, &view.ResourceID, &view.ResourceName,
		&view.ServiceID, &view.ServiceName,
		&view.ClientName, &view.ClientEmail, &view.ClientPhone, &view.Note,
		&view.StartTime, &view.EndTime, &view.Status, &view.PriceCents, &view.Currency,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}
	return &view, nil
}

func (r *BookingReadStore) FindByBusinessBetween(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.resource_id, r.name, s.name, b.client_name,
			lower(b.during), upper(b.during), b.status
		FROM bookings b
		JOIN resources r ON r.id = b.resource_id
		JOIN services s ON s.id = b.service_id
		WHERE r.business_id = $1
			AND lower(b.during) < $3 AND upper(b.during) > $2
		ORDER BY lower(b.during), r.name
	`, businessID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		item := queries.BookingListItem{}
		if err := rows.Scan(
			&item.ID, &item.ResourceID, &item.ResourceName, &item.ServiceName,
			&item.ClientName, &item.StartTime, &item.EndTime, &item.Status,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return items, nil
}

// BusyIntervals returns occupied [start, end) ranges overlapping
// [from, to). Cancelled bookings never block a slot.
func (r *BookingReadStore) BusyIntervals(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]shared.BusyInterval, error) {
	rows, err := r.db.Query(ctx, `
		SELECT lower(during), upper(during)
		FROM bookings
		WHERE resource_id = $1
			AND status <> 'CANCELLED'
			AND lower(during) < $3 AND upper(during) > $2
		ORDER BY lower(during)
	`, resourceID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load busy intervals", err)
	}
	defer rows.Close()

	var busy []shared.BusyInterval
	for rows.Next() {
		var iv shared.BusyInterval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, infra.WrapRepoErr("failed to scan busy interval", err)
		}
		busy = append(busy, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate busy intervals", err)
	}
	return busy, nil
}
