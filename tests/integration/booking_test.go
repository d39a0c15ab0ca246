//go:build integration

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"turnos-core/internal/domain/booking"
	"turnos-core/internal/infra"
	"turnos-core/internal/infra/repository"
	"turnos-core/internal/infra/uow"
	"turnos-core/internal/usecase/shared"
	"turnos-core/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slotBase = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newBooking(t *testing.T, resourceID, serviceID uuid.UUID, start time.Time, durationMin int) *booking.Booking {
	t.Helper()
	b, err := builder.NewBookingBuilder().
		WithTarget(resourceID, serviceID).
		WithSlot(start, start.Add(time.Duration(durationMin)*time.Minute)).
		WithNow(start.Add(-24 * time.Hour)).
		BuildDomain()
	require.NoError(t, err)
	return b
}

func createBooking(ctx context.Context, u shared.UnitOfWork, b *booking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Bookings().Create(ctx, tx.DB(), b)
		if err != nil {
			return err
		}
		id = got
		return nil
	})
	return id, err
}

func TestBookingOverlapExclusion(t *testing.T) {
	t.Parallel()
	pool := setupPool(t)
	resourceID, serviceID := seedCatalog(t, pool, false)
	u := uow.NewPostgresUoW(pool)
	ctx := context.Background()

	_, err := createBooking(ctx, u, newBooking(t, resourceID, serviceID, slotBase, 45))
	require.NoError(t, err)

	t.Run("overlapping range is rejected by the store", func(t *testing.T) {
		_, err := createBooking(ctx, u, newBooking(t, resourceID, serviceID, slotBase.Add(30*time.Minute), 45))
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindConflict), "expected conflict, got %v", err)
	})

	t.Run("back-to-back booking shares only the boundary instant", func(t *testing.T) {
		_, err := createBooking(ctx, u, newBooking(t, resourceID, serviceID, slotBase.Add(45*time.Minute), 45))
		require.NoError(t, err)
	})

	t.Run("another resource is independent", func(t *testing.T) {
		otherResource, otherService := seedCatalog(t, pool, false)
		_, err := createBooking(ctx, u, newBooking(t, otherResource, otherService, slotBase, 45))
		require.NoError(t, err)
	})
}

func TestCancelledBookingFreesTheSlot(t *testing.T) {
	t.Parallel()
	pool := setupPool(t)
	resourceID, serviceID := seedCatalog(t, pool, false)
	u := uow.NewPostgresUoW(pool)
	ctx := context.Background()

	id, err := createBooking(ctx, u, newBooking(t, resourceID, serviceID, slotBase, 45))
	require.NoError(t, err)

	err = u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().UpdateStatus(ctx, tx.DB(), id, booking.StatusCancelled, time.Now())
	})
	require.NoError(t, err)

	_, err = createBooking(ctx, u, newBooking(t, resourceID, serviceID, slotBase, 45))
	require.NoError(t, err)
}

// The reservation race from concurrent clients: all contenders insert the
// same range, the exclusion constraint lets exactly one commit.
func TestConcurrentReserveRace(t *testing.T) {
	t.Parallel()
	pool := setupPool(t)
	resourceID, serviceID := seedCatalog(t, pool, false)
	u := uow.NewPostgresUoW(pool)

	const contenders = 8
	results := make(chan error, contenders)

	var wg sync.WaitGroup
	for range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := createBooking(context.Background(), u, newBooking(t, resourceID, serviceID, slotBase, 45))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case infra.IsKind(err, infra.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one contender must win the slot")
	assert.Equal(t, contenders-1, conflicts)
}

func TestFindForUpdateRoundTrip(t *testing.T) {
	t.Parallel()
	pool := setupPool(t)
	resourceID, serviceID := seedCatalog(t, pool, false)
	u := uow.NewPostgresUoW(pool)
	ctx := context.Background()

	entity := newBooking(t, resourceID, serviceID, slotBase, 45)
	id, err := createBooking(ctx, u, entity)
	require.NoError(t, err)

	err = u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), id)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, got.Status())
		assert.Equal(t, resourceID, got.ResourceID())
		assert.True(t, got.Slot().Start().Equal(slotBase))
		assert.Equal(t, "Ana Torres", got.Client().Name())

		return tx.Bookings().UpdateStatus(ctx, tx.DB(), id, booking.StatusConfirmed, time.Now())
	})
	require.NoError(t, err)

	err = u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), id)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, got.Status())
		return nil
	})
	require.NoError(t, err)

	t.Run("unknown id reports not found", func(t *testing.T) {
		err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			_, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), uuid.New())
			return err
		})
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestIdempotencyClaimRace(t *testing.T) {
	t.Parallel()
	pool := setupPool(t)
	u := uow.NewPostgresUoW(pool)

	key := uuid.New()
	const contenders = 8
	claims := make(chan bool, contenders)

	var wg sync.WaitGroup
	for range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := u.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
				claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, "POST /bookings", "hash", time.Now().Add(24*time.Hour))
				if err != nil {
					return err
				}
				claims <- claimed
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	close(claims)

	var claimed int
	for won := range claims {
		if won {
			claimed++
		}
	}
	assert.Equal(t, 1, claimed, "exactly one request may claim the key")

	err := u.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Idempotency().Get(ctx, tx.DB(), key, "POST /bookings")
		require.NoError(t, err)
		assert.Equal(t, "processing", rec.Status)
		assert.Equal(t, "hash", rec.RequestHash)
		return nil
	})
	require.NoError(t, err)
}

func TestIdempotencyCompletion(t *testing.T) {
	t.Parallel()
	pool := setupPool(t)
	u := uow.NewPostgresUoW(pool)
	ctx := context.Background()

	key := uuid.New()
	bookingID := uuid.New()

	err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, "POST /bookings", "hash", time.Now().Add(24*time.Hour))
		require.NoError(t, err)
		require.True(t, claimed)
		return tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), key, "POST /bookings", bookingID)
	})
	require.NoError(t, err)

	err = u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Idempotency().Get(ctx, tx.DB(), key, "POST /bookings")
		require.NoError(t, err)
		assert.Equal(t, "completed", rec.Status)
		require.NotNil(t, rec.ResultBookingID)
		assert.Equal(t, bookingID, *rec.ResultBookingID)
		return nil
	})
	require.NoError(t, err)
}

func TestIdempotencyReleaseAllowsRetry(t *testing.T) {
	t.Parallel()
	pool := setupPool(t)
	u := uow.NewPostgresUoW(pool)
	ctx := context.Background()

	key := uuid.New()

	err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, "POST /bookings", "hash", time.Now().Add(24*time.Hour))
		require.NoError(t, err)
		require.True(t, claimed)
		return nil
	})
	require.NoError(t, err)

	err = u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Delete(ctx, tx.DB(), key, "POST /bookings")
	})
	require.NoError(t, err)

	err = u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, "POST /bookings", "hash", time.Now().Add(24*time.Hour))
		require.NoError(t, err)
		assert.True(t, claimed, "released key must be claimable again")
		return nil
	})
	require.NoError(t, err)

	t.Run("completed record survives a release attempt", func(t *testing.T) {
		completedKey := uuid.New()
		bookingID := uuid.New()

		err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), completedKey, "POST /bookings", "hash", time.Now().Add(24*time.Hour))
			require.NoError(t, err)
			require.True(t, claimed)
			if err := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), completedKey, "POST /bookings", bookingID); err != nil {
				return err
			}
			return tx.Idempotency().Delete(ctx, tx.DB(), completedKey, "POST /bookings")
		})
		require.NoError(t, err)

		err = u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			rec, err := tx.Idempotency().Get(ctx, tx.DB(), completedKey, "POST /bookings")
			require.NoError(t, err)
			assert.Equal(t, "completed", rec.Status)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestIdempotencyExpiredClaimIsReclaimed(t *testing.T) {
	t.Parallel()
	pool := setupPool(t)
	u := uow.NewPostgresUoW(pool)
	ctx := context.Background()

	key := uuid.New()

	err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, "POST /bookings", "stale-hash", time.Now().Add(-time.Minute))
		require.NoError(t, err)
		require.True(t, claimed)
		return nil
	})
	require.NoError(t, err)

	err = u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, "POST /bookings", "fresh-hash", time.Now().Add(24*time.Hour))
		require.NoError(t, err)
		assert.True(t, claimed, "expired claim must be reclaimable")

		rec, err := tx.Idempotency().Get(ctx, tx.DB(), key, "POST /bookings")
		require.NoError(t, err)
		assert.Equal(t, "processing", rec.Status)
		assert.Equal(t, "fresh-hash", rec.RequestHash)
		return nil
	})
	require.NoError(t, err)

	t.Run("unexpired claim stays held", func(t *testing.T) {
		heldKey := uuid.New()
		err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), heldKey, "POST /bookings", "hash", time.Now().Add(24*time.Hour))
			require.NoError(t, err)
			require.True(t, claimed)

			again, err := tx.Idempotency().TryInsert(ctx, tx.DB(), heldKey, "POST /bookings", "hash", time.Now().Add(24*time.Hour))
			require.NoError(t, err)
			assert.False(t, again)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestOutboxClaimLifecycle(t *testing.T) {
	t.Parallel()
	pool := setupPool(t)
	u := uow.NewPostgresUoW(pool)
	repo := repository.NewNotificationRepository()
	ctx := context.Background()

	enqueue := func(topic string, runAt time.Time) {
		err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Notifications().CreateJob(ctx, tx.DB(), "email", topic, []byte(`{}`), runAt)
		})
		require.NoError(t, err)
	}

	now := time.Now()
	enqueue("booking_created", now.Add(-time.Minute))
	enqueue("booking_created", now.Add(time.Hour)) // not due yet

	var due []repository.Job
	err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		jobs, err := repo.ClaimDue(ctx, tx.DB(), now, 10)
		if err != nil {
			return err
		}
		due = jobs
		for _, j := range jobs {
			if err := repo.MarkSent(ctx, tx.DB(), j.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, due, 1, "only the due job is claimed")
	assert.Equal(t, "booking_created", due[0].Topic)

	err = u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		jobs, err := repo.ClaimDue(ctx, tx.DB(), now, 10)
		require.NoError(t, err)
		assert.Empty(t, jobs, "sent jobs are not re-claimed")
		return nil
	})
	require.NoError(t, err)
}

func TestOutboxFailureParksJobAfterMaxAttempts(t *testing.T) {
	t.Parallel()
	pool := setupPool(t)
	u := uow.NewPostgresUoW(pool)
	repo := repository.NewNotificationRepository()
	ctx := context.Background()

	err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "booking_created", []byte(`{}`), time.Now().Add(-time.Minute))
	})
	require.NoError(t, err)

	const maxAttempts = 2
	for attempt := range maxAttempts {
		claimTime := time.Now().Add(time.Duration(attempt+1) * time.Minute)
		err = u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			jobs, err := repo.ClaimDue(ctx, tx.DB(), claimTime, 10)
			require.NoError(t, err)
			require.Len(t, jobs, 1)
			return repo.MarkFailed(ctx, tx.DB(), jobs[0].ID, "smtp unreachable", maxAttempts, claimTime)
		})
		require.NoError(t, err)
	}

	var status string
	var attempts int
	require.NoError(t, pool.QueryRow(ctx, `SELECT status, attempts FROM notification_jobs`).Scan(&status, &attempts))
	assert.Equal(t, "failed", status)
	assert.Equal(t, maxAttempts, attempts)
}
