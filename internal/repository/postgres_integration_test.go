//go:build integration

package repository

import (
	"context"
	"testing"

	"geosearch-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections"),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	_, err = pool.Exec(ctx, `
		CREATE TABLE locations (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			name_variants TEXT[],
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			country_code CHAR(2) NOT NULL,
			region VARCHAR(255) NOT NULL,
			district VARCHAR(255),
			population BIGINT,
			location_type VARCHAR(32) NOT NULL,
			postal_codes TEXT[]
		);

		CREATE INDEX locations_name_idx ON locations (lower(name));

		-- Insert test data
		INSERT INTO locations (name, name_variants, latitude, longitude, country_code, region, district, population, location_type, postal_codes) VALUES
		('Berlin', NULL, 52.5200, 13.4050, 'DE', 'Berlin', NULL, 3769000, 'city', '{10115,10117}'),
		('Munich', '{München,Muenchen}', 48.1351, 11.5820, 'DE', 'Bavaria', NULL, 1472000, 'city', '{80331}');
	`)
	require.NoError(t, err)

	return pool
}

func TestRepository_LoadLocations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	records, err := repo.LoadLocations(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Ordered by population descending.
	berlin := records[0]
	assert.Equal(t, models.LocationRecord{
		Name:         "Berlin",
		NameVariants: []string{},
		Coordinates:  models.Coordinates{Lat: 52.5200, Lng: 13.4050},
		Country:      "Germany",
		CountryCode:  "DE",
		Region:       "Berlin",
		Population:   3769000,
		Type:         models.LocationTypeCity,
		PostalCodes:  []string{"10115", "10117"},
	}, berlin)

	munich := records[1]
	assert.Equal(t, "Munich", munich.Name)
	assert.Equal(t, []string{"München", "Muenchen"}, munich.NameVariants)
	assert.Equal(t, "Germany", munich.Country)
}
