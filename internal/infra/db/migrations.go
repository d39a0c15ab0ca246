package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The bookings_no_overlap exclusion constraint is the single
// serialization point for reservations: two transactions inserting
// overlapping ranges for the same resource cannot both commit, which is
// what makes check-then-insert safe across process instances.
const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS btree_gist;

CREATE TABLE IF NOT EXISTS resources (
	id UUID PRIMARY KEY,
	business_id UUID NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('business', 'employee')),
	name TEXT NOT NULL,
	timezone TEXT NOT NULL DEFAULT 'UTC',
	auto_confirm BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_resources_business ON resources(business_id);

CREATE TABLE IF NOT EXISTS services (
	id UUID PRIMARY KEY,
	business_id UUID NOT NULL,
	name TEXT NOT NULL,
	duration_minutes INT NOT NULL CHECK (duration_minutes > 0 AND duration_minutes <= 480),
	price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
	currency CHAR(3) NOT NULL DEFAULT 'ARS',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_services_business ON services(business_id);

CREATE TABLE IF NOT EXISTS service_employees (
	service_id UUID NOT NULL REFERENCES services(id) ON DELETE CASCADE,
	resource_id UUID NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
	PRIMARY KEY (service_id, resource_id)
);

CREATE TABLE IF NOT EXISTS weekly_hours (
	resource_id UUID NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
	weekday SMALLINT NOT NULL CHECK (weekday BETWEEN 0 AND 6),
	start_min SMALLINT NOT NULL CHECK (start_min >= 0),
	end_min SMALLINT NOT NULL CHECK (end_min <= 1440),
	CHECK (start_min < end_min),
	PRIMARY KEY (resource_id, weekday, start_min)
);

CREATE TABLE IF NOT EXISTS schedule_overrides (
	resource_id UUID NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
	on_date DATE NOT NULL,
	closed BOOLEAN NOT NULL DEFAULT false,
	intervals JSONB NOT NULL DEFAULT '[]',
	PRIMARY KEY (resource_id, on_date)
);

CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	resource_id UUID NOT NULL REFERENCES resources(id),
	service_id UUID NOT NULL REFERENCES services(id),
	client_name TEXT NOT NULL,
	client_email TEXT NOT NULL,
	client_phone TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT '',
	during TSTZRANGE NOT NULL,
	status TEXT NOT NULL CHECK (status IN ('PENDING', 'CONFIRMED', 'COMPLETED', 'CANCELLED', 'NO_SHOW')),
	price_cents BIGINT NOT NULL,
	currency CHAR(3) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
		resource_id WITH =,
		during WITH &&
	) WHERE (status <> 'CANCELLED')
);

CREATE INDEX IF NOT EXISTS idx_bookings_resource_during ON bookings USING gist (resource_id, during);

CREATE TABLE IF NOT EXISTS booking_idempotency_keys (
	key UUID NOT NULL,
	endpoint TEXT NOT NULL,
	request_hash TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'processing' CHECK (status IN ('processing', 'completed')),
	result_booking_id UUID,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (key, endpoint)
);

CREATE TABLE IF NOT EXISTS notification_jobs (
	id UUID PRIMARY KEY,
	kind TEXT NOT NULL,
	topic TEXT NOT NULL,
	payload JSONB NOT NULL,
	run_at TIMESTAMPTZ NOT NULL,
	attempts INT NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'queued' CHECK (status IN ('queued', 'sent', 'failed')),
	last_error TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_notification_jobs_due ON notification_jobs(run_at) WHERE status = 'queued';
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
