package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/keyhold/leaseback-service/internal/utils"
)

// Bootstraps the leaseback schema. Encrypted columns are TEXT: the
// repositories store base64 AES-GCM blobs, with hash/sort-key shadows where
// a column must stay searchable.
func main() {
	utils.InitLogger("create-schema")

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		utils.Logger.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		utils.Logger.Fatal("Failed to connect to database: ", err)
	}
	defer pool.Close()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS seller_profiles (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			email_hash TEXT NOT NULL,
			date_of_birth TEXT NOT NULL DEFAULT '',
			dob_sort_key TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_seller_profiles_user_id ON seller_profiles (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_seller_profiles_email_hash ON seller_profiles (email_hash)`,

		`CREATE TABLE IF NOT EXISTS properties (
			id UUID PRIMARY KEY,
			property_type TEXT NOT NULL DEFAULT '',
			tenure TEXT NOT NULL DEFAULT '',
			lease_years_remaining TEXT NOT NULL DEFAULT '',
			bedrooms TEXT NOT NULL,
			bathrooms TEXT NOT NULL,
			floor_area_sqm TEXT NOT NULL DEFAULT '',
			condition TEXT NOT NULL DEFAULT '',
			estimated_value TEXT NOT NULL DEFAULT '',
			address_line1 TEXT NOT NULL DEFAULT '',
			address_line2 TEXT NOT NULL DEFAULT '',
			address_city TEXT NOT NULL DEFAULT '',
			address_postcode TEXT NOT NULL DEFAULT '',
			document_names TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			row_version BIGINT NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS property_ownership (
			property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			seller_profile_id UUID NOT NULL REFERENCES seller_profiles(id) ON DELETE CASCADE,
			percentage DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (property_id, seller_profile_id)
		)`,

		`CREATE TABLE IF NOT EXISTS application_reviews (
			id UUID PRIMARY KEY,
			property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			checklist TEXT NOT NULL,
			considerations TEXT NOT NULL,
			status TEXT NOT NULL,
			superseded BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_property_created
			ON application_reviews (property_id, created_at DESC, id DESC)`,
		// Closes the concurrent-create race: only one live review per property.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_reviews_live_per_property
			ON application_reviews (property_id) WHERE superseded = FALSE`,

		`CREATE TABLE IF NOT EXISTS offers (
			id UUID PRIMARY KEY,
			property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			purchase_price TEXT NOT NULL,
			monthly_rent TEXT NOT NULL,
			lease_term_years TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_property_created
			ON offers (property_id, created_at DESC, id DESC)`,

		`CREATE TABLE IF NOT EXISTS completion_statuses (
			id UUID PRIMARY KEY,
			property_id UUID NOT NULL UNIQUE REFERENCES properties(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS buy_boxes (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			created_by UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS buy_box_properties (
			buy_box_id UUID NOT NULL REFERENCES buy_boxes(id) ON DELETE CASCADE,
			property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (buy_box_id, property_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			utils.Logger.Fatalf("Schema statement failed: %v\n%s", err, stmt)
		}
	}
	utils.Logger.Info("Schema created")
}
