package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"classifieds-bot-backend/internal/common/logger"
)

// schema is declarative: every statement is idempotent, so startup always
// converges from any known prior version to the current one.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		external_id BIGINT NOT NULL UNIQUE,
		handle TEXT NOT NULL DEFAULT '',
		given_name TEXT NOT NULL DEFAULT '',
		family_name TEXT NOT NULL DEFAULT '',
		phone TEXT,
		language TEXT NOT NULL DEFAULT 'uk',
		balance NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		agreement_accepted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		icon TEXT NOT NULL DEFAULT '',
		parent_id BIGINT REFERENCES categories(id),
		sort_order INT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS listings (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		price_display TEXT NOT NULL DEFAULT '',
		currency TEXT NOT NULL DEFAULT 'EUR',
		category_id BIGINT NOT NULL REFERENCES categories(id),
		location TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT 'hamburg',
		images_json TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'pending_moderation',
		moderation_status TEXT NOT NULL DEFAULT 'pending',
		rejection_reason TEXT NOT NULL DEFAULT '',
		publication_tariffs_json TEXT NOT NULL DEFAULT '["standard"]',
		payment_status TEXT NOT NULL DEFAULT 'pending',
		channel_message_ids_json TEXT NOT NULL DEFAULT '[]',
		published_at TIMESTAMPTZ,
		moderated_at TIMESTAMPTZ,
		moderated_by BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		local_id TEXT NOT NULL,
		invoice_id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		target_listing_id BIGINT NOT NULL REFERENCES listings(id),
		amount NUMERIC(12,2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		purpose TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS referrals (
		id BIGSERIAL PRIMARY KEY,
		referrer_external_id BIGINT NOT NULL,
		referred_external_id BIGINT NOT NULL UNIQUE,
		reward_paid BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		reward_paid_at TIMESTAMPTZ
	)`,
	// Admin ids live in the external messenger id space: operators are
	// configured by Telegram id and may never have messaged the bot, so no
	// FK into users.
	`CREATE TABLE IF NOT EXISTS admins (
		user_id BIGINT PRIMARY KEY,
		added_by BIGINT NOT NULL,
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_superadmin BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`ALTER TABLE admins DROP CONSTRAINT IF EXISTS admins_user_id_fkey`,
	`CREATE TABLE IF NOT EXISTS links (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		click_count INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS link_visits (
		id BIGSERIAL PRIMARY KEY,
		source_kind TEXT NOT NULL,
		source_id BIGINT NOT NULL,
		visitor_external_id BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_status_created ON listings (status, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_user_status ON listings (user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments (status)`,
	`CREATE INDEX IF NOT EXISTS idx_referrals_referrer ON referrals (referrer_external_id)`,
	`CREATE INDEX IF NOT EXISTS idx_referrals_reward ON referrals (reward_paid)`,
}

// Migrate applies the schema and upgrades legacy rows. Safe to run on every
// startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// One-shot upgrade of legacy channel_message_ids_json scalars into
	// arrays. The neighbour-probe deletion path stays only for scalar rows
	// read before this migration ran.
	res, err := db.ExecContext(ctx, `
		UPDATE listings
		SET channel_message_ids_json = '[' || channel_message_ids_json || ']'
		WHERE channel_message_ids_json ~ '^[0-9]+$'`)
	if err != nil {
		return fmt.Errorf("migrate legacy channel ids: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger.Info().Int64("rows", n).Msg("Upgraded legacy channel message id rows")
	}

	return nil
}
