package readstore

import (
	"context"
	"encoding/json"
	"time"

	"turnos-core/internal/domain/catalog"
	"turnos-core/internal/domain/schedule"
	"turnos-core/internal/infra"
	"turnos-core/internal/infra/db"
	"turnos-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbx}
}

// ResourceByID joins the owning business row so employee resources carry
// the business's auto-confirm policy. Rows are hydrated through the
// domain constructor so garbage stored configuration (unknown kind, bad
// timezone) surfaces here instead of deep in slot math.
func (r *CatalogReadStore) ResourceByID(ctx context.Context, id uuid.UUID) (*shared.ResourceSnapshot, error) {
	var (
		resourceID  uuid.UUID
		businessID  uuid.UUID
		kind        string
		name        string
		timezone    string
		autoConfirm bool
	)
	err := r.db.QueryRow(ctx, `
		SELECT r.id, r.business_id, r.kind, r.name, r.timezone, b.auto_confirm
		FROM resources r
		JOIN resources b ON b.id = r.business_id
		WHERE r.id = $1
	`, id).Scan(&resourceID, &businessID, &kind, &name, &timezone, &autoConfirm)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find resource", err)
	}

	entity, err := catalog.NewResource(resourceID, businessID, catalog.ResourceKind(kind), name, timezone, autoConfirm)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored resource configuration", err, infra.KindDBFailure)
	}

	return &shared.ResourceSnapshot{
		ID:          entity.ID(),
		BusinessID:  entity.BusinessID(),
		Kind:        string(entity.Kind()),
		Name:        entity.Name(),
		Timezone:    timezone,
		AutoConfirm: entity.AutoConfirm(),
	}, nil
}

func (r *CatalogReadStore) ServiceByID(ctx context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error) {
	var (
		serviceID       uuid.UUID
		businessID      uuid.UUID
		name            string
		durationMinutes int
		priceCents      int64
		currency        string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, business_id, name, duration_minutes, price_cents, currency
		FROM services
		WHERE id = $1
	`, id).Scan(&serviceID, &businessID, &name, &durationMinutes, &priceCents, &currency)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find service", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT resource_id FROM service_employees WHERE service_id = $1
	`, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load service eligibility", err)
	}
	defer rows.Close()

	var eligible []uuid.UUID
	for rows.Next() {
		var employeeID uuid.UUID
		if err := rows.Scan(&employeeID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan service eligibility", err)
		}
		eligible = append(eligible, employeeID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate service eligibility", err)
	}

	entity, err := catalog.NewService(serviceID, businessID, name, durationMinutes, priceCents, currency, eligible)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid stored service configuration", err, infra.KindDBFailure)
	}

	return &shared.ServiceSnapshot{
		ID:                  entity.ID(),
		BusinessID:          entity.BusinessID(),
		Name:                entity.Name(),
		DurationMinutes:     entity.DurationMinutes(),
		PriceCents:          entity.PriceCents(),
		Currency:            entity.Currency(),
		EligibleEmployeeIDs: eligible,
	}, nil
}

func (r *CatalogReadStore) WeeklyHours(ctx context.Context, resourceID uuid.UUID) (schedule.Weekly, error) {
	rows, err := r.db.Query(ctx, `
		SELECT weekday, start_min, end_min
		FROM weekly_hours
		WHERE resource_id = $1
		ORDER BY weekday, start_min
	`, resourceID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load weekly hours", err)
	}
	defer rows.Close()

	weekly := schedule.Weekly{}
	for rows.Next() {
		var weekday, startMin, endMin int
		if err := rows.Scan(&weekday, &startMin, &endMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan weekly hours", err)
		}
		day := time.Weekday(weekday)
		weekly[day] = append(weekly[day], schedule.Interval{
			Start: schedule.ClockMinutes(startMin),
			End:   schedule.ClockMinutes(endMin),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate weekly hours", err)
	}
	return weekly, nil
}

type overrideInterval struct {
	StartMin int `json:"start_min"`
	EndMin   int `json:"end_min"`
}

func (r *CatalogReadStore) Overrides(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]schedule.Override, error) {
	rows, err := r.db.Query(ctx, `
		SELECT on_date, closed, intervals
		FROM schedule_overrides
		WHERE resource_id = $1 AND on_date BETWEEN $2 AND $3
		ORDER BY on_date
	`, resourceID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load schedule overrides", err)
	}
	defer rows.Close()

	var overrides []schedule.Override
	for rows.Next() {
		var (
			onDate    time.Time
			closed    bool
			intervals []byte
		)
		if err := rows.Scan(&onDate, &closed, &intervals); err != nil {
			return nil, infra.WrapRepoErr("failed to scan schedule override", err)
		}

		ov := schedule.Override{Date: onDate.Format(schedule.DateLayout), Closed: closed}
		if !closed {
			var raw []overrideInterval
			if err := json.Unmarshal(intervals, &raw); err != nil {
				return nil, infra.WrapRepoErr("malformed override intervals", err, infra.KindDBFailure)
			}
			for _, iv := range raw {
				ov.Intervals = append(ov.Intervals, schedule.Interval{
					Start: schedule.ClockMinutes(iv.StartMin),
					End:   schedule.ClockMinutes(iv.EndMin),
				})
			}
		}
		overrides = append(overrides, ov)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate schedule overrides", err)
	}
	return overrides, nil
}
