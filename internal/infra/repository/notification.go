package repository

import (
	"context"
	"time"

	"turnos-core/internal/infra"
	"turnos-core/internal/infra/db"

	"github.com/google/uuid"
)

// Job is a pending outbox entry.
type Job struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
}

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// CreateJob enqueues an outbox entry. Called inside the booking
// transaction so the event commits iff the booking does.
func (r *NotificationRepository) CreateJob(ctx context.Context, dbx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := dbx.Exec(ctx, `
		INSERT INTO notification_jobs (id, kind, topic, payload, run_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), kind, topic, payload, runAt)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}

// ClaimDue locks a batch of due jobs. SKIP LOCKED lets multiple
// dispatcher instances drain the queue without stepping on each other.
func (r *NotificationRepository) ClaimDue(ctx context.Context, dbx db.DBTX, now time.Time, limit int) ([]Job, error) {
	rows, err := dbx.Query(ctx, `
		SELECT id, kind, topic, payload, attempts
		FROM notification_jobs
		WHERE status = 'queued' AND run_at <= $1
		ORDER BY run_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, dbx db.DBTX, id uuid.UUID, now time.Time) error {
	_, err := dbx.Exec(ctx, `
		UPDATE notification_jobs
		SET status = 'sent', updated_at = $2
		WHERE id = $1
	`, id, now)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

// MarkFailed requeues with backoff until maxAttempts, then parks the job
// as failed for operator inspection.
func (r *NotificationRepository) MarkFailed(ctx context.Context, dbx db.DBTX, id uuid.UUID, cause string, maxAttempts int, now time.Time) error {
	_, err := dbx.Exec(ctx, `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
			last_error = $2,
			status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'queued' END,
			run_at = $4,
			updated_at = $4
		WHERE id = $1
	`, id, cause, maxAttempts, now.Add(30*time.Second))
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
