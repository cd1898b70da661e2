package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"geosearch-api/internal/config"
	"geosearch-api/internal/models"

	"github.com/jackc/pgx/v5"
)

// Expected tab-separated columns, GeoNames-style:
// name, alternate names (comma separated), latitude, longitude,
// country code, region, district, population, location type,
// postal codes (comma separated).
const columnCount = 10

func main() {
	file := flag.String("file", "", "Path to the TSV file to import")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	records, err := parseTSV(*file)
	if err != nil {
		fmt.Printf("Error parsing TSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(records))

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Connect to DB
	conn, err := pgx.Connect(context.Background(), cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	// Ensure table exists
	err = createTableIfNotExists(conn)
	if err != nil {
		fmt.Printf("Error creating table: %v\n", err)
		os.Exit(1)
	}

	// Insert records
	err = insertRecords(conn, records)
	if err != nil {
		fmt.Printf("Error inserting records: %v\n", err)
		os.Exit(1)
	}

	// Verify data
	err = verifyImport(conn, len(records))
	if err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d records\n", len(records))
}

func parseTSV(filePath string) ([]models.LocationRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var records []models.LocationRecord

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < columnCount {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", line, columnCount, len(fields))
		}

		lat, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude: %s", line, fields[2])
		}

		lng, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude: %s", line, fields[3])
		}

		population := int64(0)
		if fields[7] != "" {
			population, err = strconv.ParseInt(fields[7], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid population: %s", line, fields[7])
			}
		}

		records = append(records, models.LocationRecord{
			Name:         fields[0],
			NameVariants: splitList(fields[1]),
			Coordinates:  models.Coordinates{Lat: lat, Lng: lng},
			CountryCode:  strings.ToUpper(fields[4]),
			Region:       fields[5],
			District:     fields[6],
			Population:   population,
			Type:         models.LocationType(fields[8]),
			PostalCodes:  splitList(fields[9]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return records, nil
}

func splitList(field string) []string {
	if field == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}

func createTableIfNotExists(conn *pgx.Conn) error {
	query := `
	CREATE TABLE IF NOT EXISTS locations (
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
	CREATE INDEX IF NOT EXISTS locations_name_idx ON locations (lower(name));
	CREATE INDEX IF NOT EXISTS locations_country_code_idx ON locations (country_code);
	`
	_, err := conn.Exec(context.Background(), query)
	return err
}

func insertRecords(conn *pgx.Conn, records []models.LocationRecord) error {
	// Use CopyFrom for bulk insert
	_, err := conn.CopyFrom(
		context.Background(),
		pgx.Identifier{"locations"},
		[]string{"name", "name_variants", "latitude", "longitude", "country_code", "region", "district", "population", "location_type", "postal_codes"},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			r := records[i]
			return []interface{}{r.Name, r.NameVariants, r.Coordinates.Lat, r.Coordinates.Lng, r.CountryCode, r.Region, r.District, r.Population, string(r.Type), r.PostalCodes}, nil
		}),
	)
	return err
}

func verifyImport(conn *pgx.Conn, expectedCount int) error {
	var count int
	err := conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM locations").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if count != expectedCount {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expectedCount, count)
	}

	var sample string
	err = conn.QueryRow(context.Background(), "SELECT name FROM locations ORDER BY population DESC LIMIT 1").Scan(&sample)
	if err != nil {
		return fmt.Errorf("failed to check sample row: %w", err)
	}

	fmt.Printf("Largest imported location: %s\n", sample)
	return nil
}
