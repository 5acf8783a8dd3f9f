package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS business_listings (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		business_name VARCHAR(255) NOT NULL,
		business_type VARCHAR(255) NOT NULL,
		address TEXT NOT NULL,
		phone VARCHAR(50),
		email VARCHAR(255),
		website VARCHAR(255),
		description TEXT,
		google_place_id VARCHAR(255),
		latitude DECIMAL(10, 8),
		longitude DECIMAL(11, 8),
		status VARCHAR(50) DEFAULT 'pending',
		is_premium BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		stripe_subscription_id VARCHAR(255) UNIQUE,
		status VARCHAR(50) NOT NULL,
		plan_type VARCHAR(50) NOT NULL,
		current_period_start TIMESTAMP,
		current_period_end TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_business_listings_user_id ON business_listings (user_id)`,
}

// InitSchema creates the tables when they are missing. Safe to run repeatedly.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
