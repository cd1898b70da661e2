package repository

import (
	"context"
	"fmt"

	"geosearch-api/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the reference location table from PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// LoadLocations reads every reference location row. It is called once at
// startup; the result seeds the in-memory store and is never re-read.
func (r *Repository) LoadLocations(ctx context.Context) ([]models.LocationRecord, error) {
	sql := `
		SELECT
			name,
			COALESCE(name_variants, '{}'),
			latitude,
			longitude,
			country_code,
			region,
			COALESCE(district, ''),
			COALESCE(population, 0),
			location_type,
			COALESCE(postal_codes, '{}')
		FROM locations
		ORDER BY population DESC
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query locations: %w", err)
	}
	defer rows.Close()

	var records []models.LocationRecord
	for rows.Next() {
		var (
			rec          models.LocationRecord
			locationType string
		)
		err := rows.Scan(
			&rec.Name,
			&rec.NameVariants,
			&rec.Coordinates.Lat,
			&rec.Coordinates.Lng,
			&rec.CountryCode,
			&rec.Region,
			&rec.District,
			&rec.Population,
			&locationType,
			&rec.PostalCodes,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan location: %w", err)
		}
		rec.Type = models.LocationType(locationType)
		rec.Country = models.CountryName(rec.CountryCode)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return records, nil
}
