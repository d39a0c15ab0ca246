//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"turnos-core/internal/domain/schedule"
	"turnos-core/internal/pkg/clock"
	"turnos-core/internal/usecase/queries"
	"turnos-core/internal/usecase/shared"
	sharedmock "turnos-core/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type availabilityFixture struct {
	ctrl     *gomock.Controller
	catalog  *sharedmock.MockCatalogReads
	bookings *sharedmock.MockBookingReads
	clock    *clock.MockClock
	sut      queries.AvailabilityQueries

	businessID uuid.UUID
	serviceID  uuid.UUID
}

// Monday 2026-03-02, open 09:00-19:00, 45-minute service, UTC resource.
func newAvailabilityFixture(t *testing.T) *availabilityFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &availabilityFixture{
		ctrl:       ctrl,
		catalog:    sharedmock.NewMockCatalogReads(ctrl),
		bookings:   sharedmock.NewMockBookingReads(ctrl),
		clock:      clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		businessID: uuid.New(),
		serviceID:  uuid.New(),
	}
	f.sut = queries.NewAvailabilityQueries(f.catalog, f.bookings, f.clock)
	return f
}

func (f *availabilityFixture) expectCatalog(weekly schedule.Weekly, overrides []schedule.Override) {
	f.catalog.EXPECT().ServiceByID(gomock.Any(), f.serviceID).Return(&shared.ServiceSnapshot{
		ID:              f.serviceID,
		BusinessID:      f.businessID,
		Name:            "Haircut",
		DurationMinutes: 45,
		PriceCents:      3500,
		Currency:        "EUR",
	}, nil)
	f.catalog.EXPECT().ResourceByID(gomock.Any(), f.businessID).Return(&shared.ResourceSnapshot{
		ID:         f.businessID,
		BusinessID: f.businessID,
		Kind:       "business",
		Name:       "Salon Luna",
		Timezone:   "UTC",
	}, nil)
	f.catalog.EXPECT().WeeklyHours(gomock.Any(), f.businessID).Return(weekly, nil)
	f.catalog.EXPECT().Overrides(gomock.Any(), f.businessID, gomock.Any(), gomock.Any()).Return(overrides, nil)
}

func mondayHours(t *testing.T) schedule.Weekly {
	t.Helper()
	open, err := schedule.ParseClock("09:00")
	require.NoError(t, err)
	close, err := schedule.ParseClock("19:00")
	require.NoError(t, err)
	return schedule.Weekly{time.Monday: {{Start: open, End: close}}}
}

func TestGetDaySlots(t *testing.T) {
	query := func(f *availabilityFixture, step int) queries.AvailabilityQuery {
		return queries.AvailabilityQuery{
			BusinessID:  f.businessID,
			ServiceID:   f.serviceID,
			Date:        "2026-03-02",
			StepMinutes: step,
		}
	}

	t.Run("45-minute service on a 09:00-19:00 day ends at 18:00", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectCatalog(mondayHours(t), nil)
		f.bookings.EXPECT().BusyIntervals(gomock.Any(), f.businessID, gomock.Any(), gomock.Any()).Return(nil, nil)

		got, err := f.sut.GetDaySlots(context.Background(), query(f, 30))
		require.NoError(t, err)

		require.NotEmpty(t, got.Slots)
		assert.Equal(t, "09:00", got.Slots[0])
		assert.Equal(t, "18:00", got.Slots[len(got.Slots)-1])
		assert.NotContains(t, got.Slots, "18:30")
	})

	t.Run("existing booking removes overlapping candidates only", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectCatalog(mondayHours(t), nil)

		// 10:00-10:45 booked
		day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		f.bookings.EXPECT().BusyIntervals(gomock.Any(), f.businessID, gomock.Any(), gomock.Any()).Return([]shared.BusyInterval{
			{Start: day.Add(10 * time.Hour), End: day.Add(10*time.Hour + 45*time.Minute)},
		}, nil)

		got, err := f.sut.GetDaySlots(context.Background(), query(f, 30))
		require.NoError(t, err)

		assert.NotContains(t, got.Slots, "09:30") // would run into 10:00
		assert.NotContains(t, got.Slots, "10:00")
		assert.NotContains(t, got.Slots, "10:30") // starts inside the booking
		assert.Contains(t, got.Slots, "09:00")
		assert.Contains(t, got.Slots, "11:00") // 10:45 end boundary frees 11:00
	})

	t.Run("booking ending at a slot start does not block it", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectCatalog(mondayHours(t), nil)

		day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		f.bookings.EXPECT().BusyIntervals(gomock.Any(), f.businessID, gomock.Any(), gomock.Any()).Return([]shared.BusyInterval{
			{Start: day.Add(9 * time.Hour), End: day.Add(9*time.Hour + 30*time.Minute)},
		}, nil)

		got, err := f.sut.GetDaySlots(context.Background(), query(f, 30))
		require.NoError(t, err)
		assert.NotContains(t, got.Slots, "09:00")
		assert.Contains(t, got.Slots, "09:30")
	})

	t.Run("past slots are filtered for today", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectCatalog(mondayHours(t), nil)
		f.bookings.EXPECT().BusyIntervals(gomock.Any(), f.businessID, gomock.Any(), gomock.Any()).Return(nil, nil)

		// Mid-morning on the requested day
		f.clock.Set(time.Date(2026, 3, 2, 11, 10, 0, 0, time.UTC))

		got, err := f.sut.GetDaySlots(context.Background(), query(f, 30))
		require.NoError(t, err)

		assert.NotContains(t, got.Slots, "09:00")
		assert.NotContains(t, got.Slots, "11:00")
		assert.Contains(t, got.Slots, "11:30")
	})

	t.Run("closed override yields empty slot list", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectCatalog(mondayHours(t), []schedule.Override{{Date: "2026-03-02", Closed: true}})
		f.bookings.EXPECT().BusyIntervals(gomock.Any(), f.businessID, gomock.Any(), gomock.Any()).Return(nil, nil)

		got, err := f.sut.GetDaySlots(context.Background(), query(f, 30))
		require.NoError(t, err)
		assert.Empty(t, got.Slots)
	})

	t.Run("zero step uses the default grid", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectCatalog(mondayHours(t), nil)
		f.bookings.EXPECT().BusyIntervals(gomock.Any(), f.businessID, gomock.Any(), gomock.Any()).Return(nil, nil)

		got, err := f.sut.GetDaySlots(context.Background(), query(f, 0))
		require.NoError(t, err)
		require.Greater(t, len(got.Slots), 1)
		assert.Equal(t, "09:00", got.Slots[0])
		assert.Equal(t, "09:30", got.Slots[1])
	})

	t.Run("service from another business is not found", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.catalog.EXPECT().ServiceByID(gomock.Any(), f.serviceID).Return(&shared.ServiceSnapshot{
			ID:         f.serviceID,
			BusinessID: uuid.New(),
		}, nil)

		_, err := f.sut.GetDaySlots(context.Background(), query(f, 30))
		require.ErrorIs(t, err, queries.ErrServiceMismatch)
	})

	t.Run("employee outside eligibility list is rejected", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		eligible := uuid.New()
		outsider := uuid.New()
		f.catalog.EXPECT().ServiceByID(gomock.Any(), f.serviceID).Return(&shared.ServiceSnapshot{
			ID:                  f.serviceID,
			BusinessID:          f.businessID,
			DurationMinutes:     45,
			EligibleEmployeeIDs: []uuid.UUID{eligible},
		}, nil)

		q := query(f, 30)
		q.EmployeeID = &outsider
		_, err := f.sut.GetDaySlots(context.Background(), q)
		require.ErrorIs(t, err, queries.ErrEmployeeNotEligible)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.catalog.EXPECT().ServiceByID(gomock.Any(), f.serviceID).Return(&shared.ServiceSnapshot{
			ID:              f.serviceID,
			BusinessID:      f.businessID,
			DurationMinutes: 45,
		}, nil)
		f.catalog.EXPECT().ResourceByID(gomock.Any(), f.businessID).Return(&shared.ResourceSnapshot{
			ID:         f.businessID,
			BusinessID: f.businessID,
			Timezone:   "UTC",
		}, nil)

		q := query(f, 30)
		q.Date = "03/02/2026"
		_, err := f.sut.GetDaySlots(context.Background(), q)
		require.ErrorIs(t, err, queries.ErrInvalidDate)
	})
}
