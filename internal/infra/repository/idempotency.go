package repository

import (
	"context"
	"time"

	"turnos-core/internal/infra"
	"turnos-core/internal/infra/db"
	"turnos-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

// TryInsert claims the key if nobody holds it. The insert is race-free;
// RowsAffected tells us who won. A conflicting record whose expires_at
// has passed is reclaimed as a fresh 'processing' claim.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, dbx db.DBTX, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := dbx.Exec(ctx, `
		INSERT INTO booking_idempotency_keys (key, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, 'processing', $4)
		ON CONFLICT (key, endpoint) DO UPDATE
		SET request_hash = EXCLUDED.request_hash,
			status = 'processing',
			result_booking_id = NULL,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()
		WHERE booking_idempotency_keys.expires_at <= now()
	`, key, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, dbx db.DBTX, key uuid.UUID, endpoint string) (*shared.IdempotencyRecord, error) {
	rec := shared.IdempotencyRecord{}
	err := dbx.QueryRow(ctx, `
		SELECT key, endpoint, request_hash, status, result_booking_id, expires_at
		FROM booking_idempotency_keys
		WHERE key = $1 AND endpoint = $2
	`, key, endpoint).Scan(
		&rec.Key, &rec.Endpoint, &rec.RequestHash, &rec.Status,
		&rec.ResultBookingID, &rec.ExpiresAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read idempotency key", err)
	}
	return &rec, nil
}

// Delete only removes a claim that is still processing, so a completed
// record keeps replaying its stored result.
func (r *IdempotencyRepository) Delete(ctx context.Context, dbx db.DBTX, key uuid.UUID, endpoint string) error {
	_, err := dbx.Exec(ctx, `
		DELETE FROM booking_idempotency_keys
		WHERE key = $1 AND endpoint = $2 AND status = 'processing'
	`, key, endpoint)
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, dbx db.DBTX, key uuid.UUID, endpoint string, resultBookingID uuid.UUID) error {
	_, err := dbx.Exec(ctx, `
		UPDATE booking_idempotency_keys
		SET status = 'completed', result_booking_id = $3, updated_at = now()
		WHERE key = $1 AND endpoint = $2
	`, key, endpoint, resultBookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	return nil
}
