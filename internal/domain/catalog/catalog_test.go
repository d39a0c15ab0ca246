//go:build unit

package catalog_test

import (
	"testing"

	"turnos-core/internal/domain/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	businessID := uuid.New()

	t.Run("valid service", func(t *testing.T) {
		s, err := catalog.NewService(uuid.New(), businessID, "Haircut", 45, 3500, "EUR", nil)
		require.NoError(t, err)
		assert.Equal(t, 45, s.DurationMinutes())
	})

	cases := []struct {
		name     string
		duration int
		price    int64
		currency string
		errIs    error
	}{
		{name: "zero duration", duration: 0, price: 0, currency: "EUR", errIs: catalog.ErrInvalidDuration},
		{name: "negative duration", duration: -30, price: 0, currency: "EUR", errIs: catalog.ErrInvalidDuration},
		{name: "duration above cap", duration: catalog.MaxDurationMinutes + 1, price: 0, currency: "EUR", errIs: catalog.ErrInvalidDuration},
		{name: "duration at cap", duration: catalog.MaxDurationMinutes, price: 0, currency: "EUR"},
		{name: "negative price", duration: 30, price: -1, currency: "EUR", errIs: catalog.ErrNegativePrice},
		{name: "bad currency", duration: 30, price: 0, currency: "EURO", errIs: catalog.ErrInvalidCurrency},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := catalog.NewService(uuid.New(), businessID, "Haircut", c.duration, c.price, c.currency, nil)
			if c.errIs == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestCanBePerformedBy(t *testing.T) {
	businessID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	t.Run("empty eligibility allows anyone", func(t *testing.T) {
		s, err := catalog.NewService(uuid.New(), businessID, "Haircut", 45, 0, "EUR", nil)
		require.NoError(t, err)
		assert.True(t, s.CanBePerformedBy(alice))
	})

	t.Run("restricted eligibility", func(t *testing.T) {
		s, err := catalog.NewService(uuid.New(), businessID, "Coloring", 90, 0, "EUR", []uuid.UUID{alice})
		require.NoError(t, err)
		assert.True(t, s.CanBePerformedBy(alice))
		assert.False(t, s.CanBePerformedBy(bob))
	})
}

func TestNewResource(t *testing.T) {
	id := uuid.New()

	t.Run("business resource references itself", func(t *testing.T) {
		r, err := catalog.NewResource(id, id, catalog.KindBusiness, "Salon Luna", "Europe/Madrid", true)
		require.NoError(t, err)
		assert.Equal(t, r.ID(), r.BusinessID())
		assert.True(t, r.AutoConfirm())
		assert.Equal(t, "Europe/Madrid", r.Location().String())
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := catalog.NewResource(uuid.New(), id, "room", "Room 1", "UTC", false)
		require.ErrorIs(t, err, catalog.ErrInvalidResourceKind)
	})

	t.Run("rejects bad timezone", func(t *testing.T) {
		_, err := catalog.NewResource(uuid.New(), id, catalog.KindEmployee, "Alice", "Mars/Olympus", false)
		require.ErrorIs(t, err, catalog.ErrInvalidTimezone)
	})
}
