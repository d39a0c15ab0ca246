package queries

import (
	"context"
	"time"

	"turnos-core/internal/infra"
	"turnos-core/internal/pkg/errs"
	"turnos-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound  = errs.New("booking not found")
	ErrBusinessNotFound = errs.New("business not found")
)

// Read models (DTO for the read side)
type BookingView struct {
	ID           uuid.UUID `json:"id"`
	BusinessID   uuid.UUID `json:"business_id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	ServiceID    uuid.UUID `json:"service_id"`
	ServiceName  string    `json:"service_name"`
	ClientName   string    `json:"client_name"`
	ClientEmail  string    `json:"client_email"`
	ClientPhone  string    `json:"client_phone"`
	Note         string    `json:"note"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	PriceCents   int64     `json:"price_cents"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	ServiceName  string    `json:"service_name"`
	ClientName   string    `json:"client_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByBusinessDay(ctx context.Context, businessID uuid.UUID, day time.Time) ([]*BookingListItem, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByBusinessBetween(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo    BookingViewRepo
	catalog shared.CatalogReads
}

func NewBookingQueries(repo BookingViewRepo, catalog shared.CatalogReads) BookingQueries {
	return &bookingQueriesImpl{repo: repo, catalog: catalog}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

// ListByBusinessDay covers the calendar day in the business's own
// timezone, so late-evening local bookings stay on the right agenda.
func (q *bookingQueriesImpl) ListByBusinessDay(ctx context.Context, businessID uuid.UUID, day time.Time) ([]*BookingListItem, error) {
	biz, err := q.catalog.ResourceByID(ctx, businessID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	loc, err := time.LoadLocation(biz.Timezone)
	if err != nil {
		return nil, err
	}

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return q.repo.FindByBusinessBetween(ctx, businessID, from, from.AddDate(0, 0, 1))
}
