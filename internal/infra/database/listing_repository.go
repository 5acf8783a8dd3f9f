package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

type ListingRepository struct {
	DB *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{DB: db}
}

func (r *ListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	query := `
		INSERT INTO business_listings (
			user_id,
			business_name,
			business_type,
			address,
			phone,
			email,
			website,
			description,
			google_place_id,
			latitude,
			longitude,
			status,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12, $13, $14)
		RETURNING id, status, is_premium
	`

	var status string
	err := r.DB.QueryRowContext(ctx, query,
		l.OwnerUserID,
		l.BusinessName,
		l.BusinessType,
		l.Address,
		l.Phone,
		l.Email,
		l.Website,
		l.Description,
		l.ExternalPlaceID,
		nullFloat(l.Latitude),
		nullFloat(l.Longitude),
		string(l.Status),
		l.CreatedAt,
		l.UpdatedAt,
	).Scan(&l.ID, &status, &l.IsPremium)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}

	l.Status = entity.ListingStatus(status)
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id int64) (*entity.Listing, error) {
	query := `
		SELECT
			id, user_id, business_name, business_type, address,
			COALESCE(phone, ''), COALESCE(email, ''), COALESCE(website, ''), COALESCE(description, ''),
			COALESCE(google_place_id, ''), latitude, longitude, status, is_premium,
			created_at, updated_at
		FROM business_listings
		WHERE id = $1
	`

	var (
		l        entity.Listing
		status   string
		lat, lng sql.NullFloat64
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&l.ID,
		&l.OwnerUserID,
		&l.BusinessName,
		&l.BusinessType,
		&l.Address,
		&l.Phone,
		&l.Email,
		&l.Website,
		&l.Description,
		&l.ExternalPlaceID,
		&lat,
		&lng,
		&status,
		&l.IsPremium,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrListingNotFound
		}
		return nil, fmt.Errorf("select listing: %w", err)
	}

	l.Status = entity.ListingStatus(status)
	if lat.Valid {
		l.Latitude = &lat.Float64
	}
	if lng.Valid {
		l.Longitude = &lng.Float64
	}
	return &l, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
