package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createParkingSpacesTable,
		createParkingSessionsTable,
		createNotificationsTable,
		createWalletTransactionsTable,
		createManagerInvitesTable,
		createSessionIndexes,
		createWalletCreditIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    full_name VARCHAR(200) NOT NULL,
    phone VARCHAR(30) NOT NULL DEFAULT '',
    user_type VARCHAR(20) NOT NULL DEFAULT 'driver',
    vehicle_plate VARCHAR(20) NOT NULL DEFAULT '',
    wallet_balance BIGINT NOT NULL DEFAULT 0,
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    discount_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
    bonus_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (user_type IN ('driver', 'operator', 'both', 'admin')),
    CHECK (discount_percentage >= 0 AND discount_percentage <= 100)
);`

const createParkingSpacesTable = `
CREATE TABLE IF NOT EXISTS parking_spaces (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    name VARCHAR(200) NOT NULL,
    area VARCHAR(100) NOT NULL,
    address VARCHAR(500) NOT NULL,
    phone VARCHAR(30) NOT NULL DEFAULT '',
    total_spaces INTEGER NOT NULL,
    available_spaces INTEGER NOT NULL,
    amenities TEXT[] NOT NULL DEFAULT '{}',
    price_per_hour BIGINT NOT NULL,
    latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
    longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
    qr_code VARCHAR(100) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    operator_id UUID NOT NULL REFERENCES users(id),
    image_url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('active', 'inactive')),
    CHECK (available_spaces >= 0 AND available_spaces <= total_spaces)
);`

const createParkingSessionsTable = `
CREATE TABLE IF NOT EXISTS parking_sessions (
    id UUID PRIMARY KEY,
    parking_space_id UUID NOT NULL REFERENCES parking_spaces(id),
    parking_space_name VARCHAR(200) NOT NULL,
    parking_space_address VARCHAR(500) NOT NULL,
    driver_id UUID NOT NULL REFERENCES users(id),
    driver_name VARCHAR(200) NOT NULL,
    driver_email VARCHAR(255) NOT NULL,
    driver_phone VARCHAR(30) NOT NULL DEFAULT '',
    vehicle_plate VARCHAR(20) NOT NULL,
    operator_id UUID NOT NULL REFERENCES users(id),
    operator_email VARCHAR(255) NOT NULL DEFAULT '',
    booking_code VARCHAR(50) UNIQUE NOT NULL,
    reserved_at TIMESTAMPTZ NOT NULL,
    check_in_time TIMESTAMPTZ,
    check_out_time TIMESTAMPTZ,
    pause_time TIMESTAMPTZ,
    resume_time TIMESTAMPTZ,
    cancellation_time TIMESTAMPTZ,
    total_paused_duration_ms BIGINT NOT NULL DEFAULT 0,
    hourly_rate BIGINT NOT NULL,
    total_hours INTEGER NOT NULL DEFAULT 0,
    total_amount BIGINT NOT NULL DEFAULT 0,
    discount_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
    discount_amount BIGINT NOT NULL DEFAULT 0,
    final_amount BIGINT NOT NULL DEFAULT 0,
    platform_commission BIGINT NOT NULL DEFAULT 0,
    operator_earnings BIGINT NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'reserved',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('reserved', 'active', 'paused', 'completed', 'cancelled')),
    CHECK (payment_status IN ('pending', 'paid'))
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
    id SERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id),
    title VARCHAR(200) NOT NULL,
    message TEXT NOT NULL,
    type VARCHAR(30) NOT NULL,
    link VARCHAR(200),
    read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createWalletTransactionsTable = `
CREATE TABLE IF NOT EXISTS wallet_transactions (
    id SERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id),
    amount BIGINT NOT NULL,
    type VARCHAR(10) NOT NULL,
    method VARCHAR(30) NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    reference VARCHAR(100) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'completed',
    balance_after BIGINT NOT NULL,
    session_id UUID REFERENCES parking_sessions(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (type IN ('credit', 'debit'))
);`

// At most one settlement credit per session. Consumers see session
// events at least once, so a redelivered settlement must not pay twice.
const createWalletCreditIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS wallet_transactions_session_credit_idx
    ON wallet_transactions (session_id)
    WHERE type = 'credit' AND method = 'session';`

const createManagerInvitesTable = `
CREATE TABLE IF NOT EXISTS manager_invites (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    operator_id UUID NOT NULL REFERENCES users(id),
    operator_name VARCHAR(200) NOT NULL DEFAULT '',
    email VARCHAR(255) NOT NULL,
    parking_space_ids UUID[] NOT NULL DEFAULT '{}',
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    invite_code VARCHAR(64) UNIQUE NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    accepted_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('pending', 'accepted', 'expired'))
);`

const createSessionIndexes = `
CREATE INDEX IF NOT EXISTS parking_sessions_driver_status_idx
ON parking_sessions (driver_id, status);
CREATE INDEX IF NOT EXISTS parking_sessions_space_idx
ON parking_sessions (parking_space_id);
CREATE INDEX IF NOT EXISTS notifications_user_idx
ON notifications (user_id, read);`
