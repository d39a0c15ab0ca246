package shared

import (
	"context"
	"time"

	"turnos-core/internal/domain/booking"
	"turnos-core/internal/domain/schedule"
	"turnos-core/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbx db.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	DB() db.DBTX
}

type BookingRepository interface {
	Create(ctx context.Context, dbx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	FindForUpdate(ctx context.Context, dbx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, dbx db.DBTX, id uuid.UUID, status booking.Status, now time.Time) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key. claimed is false when another request
	// already holds it; records past their expiry are reclaimed.
	TryInsert(ctx context.Context, dbx db.DBTX, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (claimed bool, err error)
	Get(ctx context.Context, dbx db.DBTX, key uuid.UUID, endpoint string) (*IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, dbx db.DBTX, key uuid.UUID, endpoint string, resultBookingID uuid.UUID) error
	// Delete releases a still-processing claim; completed records stay.
	Delete(ctx context.Context, dbx db.DBTX, key uuid.UUID, endpoint string) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, dbx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

// CatalogReads exposes the booking-relevant slice of business
// configuration. Calendars are read-only from this service's
// perspective; the management collaborator mutates them.
type CatalogReads interface {
	ResourceByID(ctx context.Context, id uuid.UUID) (*ResourceSnapshot, error)
	ServiceByID(ctx context.Context, id uuid.UUID) (*ServiceSnapshot, error)
	WeeklyHours(ctx context.Context, resourceID uuid.UUID) (schedule.Weekly, error)
	Overrides(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]schedule.Override, error)
}

type BookingReads interface {
	BusyIntervals(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]BusyInterval, error)
}

type ResourceSnapshot struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	Kind        string
	Name        string
	Timezone    string
	AutoConfirm bool
}

type ServiceSnapshot struct {
	ID                  uuid.UUID
	BusinessID          uuid.UUID
	Name                string
	DurationMinutes     int
	PriceCents          int64
	Currency            string
	EligibleEmployeeIDs []uuid.UUID
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	Endpoint        string
	RequestHash     string
	Status          string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

// BusyInterval is an occupied [Start, End) range on a resource.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}
