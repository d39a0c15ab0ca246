package queries

import (
	"context"
	"time"

	"turnos-core/internal/domain/schedule"
	"turnos-core/internal/infra"
	"turnos-core/internal/pkg/clock"
	"turnos-core/internal/pkg/errs"
	"turnos-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrResourceNotFound    = errs.New("resource not found")
	ErrServiceNotFound     = errs.New("service not found")
	ErrServiceMismatch     = errs.New("service does not belong to business")
	ErrEmployeeNotEligible = errs.New("employee cannot perform this service")
	ErrInvalidDate         = errs.New("invalid date")
	ErrInvalidStep         = errs.New("invalid slot step")
	ErrInvalidSchedule     = errs.New("stored schedule is invalid")
)

type AvailabilityQuery struct {
	BusinessID uuid.UUID
	ServiceID  uuid.UUID
	EmployeeID *uuid.UUID
	Date       string // schedule.DateLayout
	// StepMinutes <= 0 selects the default grid.
	StepMinutes int
}

type DayAvailability struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type AvailabilityQueries interface {
	GetDaySlots(ctx context.Context, q AvailabilityQuery) (*DayAvailability, error)
}

type availabilityQueriesImpl struct {
	catalog  shared.CatalogReads
	bookings shared.BookingReads
	clock    clock.Clock
}

func NewAvailabilityQueries(catalog shared.CatalogReads, bookings shared.BookingReads, clk clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{catalog: catalog, bookings: bookings, clock: clk}
}

// GetDaySlots resolves the day's open intervals, generates candidate
// slots and filters out conflicts. Slot generation itself never looks at
// the current time or at bookings; both filters are applied here so the
// generator stays a pure transform.
func (a *availabilityQueriesImpl) GetDaySlots(ctx context.Context, q AvailabilityQuery) (*DayAvailability, error) {
	svc, resource, err := resolveBookingTarget(ctx, a.catalog, q.BusinessID, q.ServiceID, q.EmployeeID)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(resource.Timezone)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSchedule)
	}
	date, err := time.ParseInLocation(schedule.DateLayout, q.Date, loc)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDate)
	}

	sched, err := loadSchedule(ctx, a.catalog, resource.ID, date)
	if err != nil {
		return nil, err
	}

	step := q.StepMinutes
	if step == 0 {
		step = schedule.DefaultStepMinutes
	}

	open := sched.OpenIntervalsFor(date)
	candidates, err := schedule.Slots(open, svc.DurationMinutes, step)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidStep)
	}

	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)
	busy, err := a.bookings.BusyIntervals(ctx, resource.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	duration := time.Duration(svc.DurationMinutes) * time.Minute

	slots := make([]string, 0, len(candidates))
	for _, c := range candidates {
		cm, err := schedule.ParseClock(c)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidSchedule)
		}
		start := cm.At(date, loc)
		if start.Before(now) {
			continue
		}
		if overlapsAny(start, start.Add(duration), busy) {
			continue
		}
		slots = append(slots, c)
	}

	return &DayAvailability{Date: q.Date, Slots: slots}, nil
}

// Half-open overlap: [start,end) intersects [b.Start,b.End) iff
// start < b.End && b.Start < end.
func overlapsAny(start, end time.Time, busy []shared.BusyInterval) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}

// resolveBookingTarget validates the (business, service, employee?)
// triple and picks the resource whose calendar governs the booking:
// the employee when one is requested, otherwise the business itself.
// Which concrete employee absorbs a no-preference booking is the calling
// layer's policy, not ours.
func resolveBookingTarget(
	ctx context.Context,
	catalog shared.CatalogReads,
	businessID, serviceID uuid.UUID,
	employeeID *uuid.UUID,
) (*shared.ServiceSnapshot, *shared.ResourceSnapshot, error) {
	svc, err := catalog.ServiceByID(ctx, serviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrServiceNotFound
		}
		return nil, nil, err
	}
	if svc.BusinessID != businessID {
		return nil, nil, ErrServiceMismatch
	}

	targetID := businessID
	if employeeID != nil {
		targetID = *employeeID
		if !eligible(svc, *employeeID) {
			return nil, nil, ErrEmployeeNotEligible
		}
	}

	resource, err := catalog.ResourceByID(ctx, targetID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrResourceNotFound
		}
		return nil, nil, err
	}
	if resource.BusinessID != businessID {
		return nil, nil, ErrResourceNotFound
	}

	return svc, resource, nil
}

func eligible(svc *shared.ServiceSnapshot, employeeID uuid.UUID) bool {
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

func loadSchedule(ctx context.Context, catalog shared.CatalogReads, resourceID uuid.UUID, date time.Time) (*schedule.Schedule, error) {
	weekly, err := catalog.WeeklyHours(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	overrides, err := catalog.Overrides(ctx, resourceID, date, date)
	if err != nil {
		return nil, err
	}
	sched, err := schedule.New(weekly, overrides)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSchedule)
	}
	return sched, nil
}
