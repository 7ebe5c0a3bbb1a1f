package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/clinicatlas/places-sync/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Migrate() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(s.db, "internal/db/migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// GetClinicForSync retrieves the syncable fields of a clinic by id.
// Returns nil without error when the clinic does not exist.
func (s *PostgresStore) GetClinicForSync(ctx context.Context, id int64) (*models.Clinic, error) {
	var c models.Clinic
	var reviewsJSON, hoursJSON []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(state, ''), COALESCE(state_abbr, ''),
			place_id, rating, review_count, featured_reviews, opening_hours,
			phone, website, latitude, longitude, formatted_address, maps_url,
			created_at, updated_at
		FROM clinics
		WHERE id = $1
	`, id).Scan(
		&c.ID, &c.Name, &c.State, &c.StateAbbr,
		&c.PlaceID, &c.Rating, &c.ReviewCount, &reviewsJSON, &hoursJSON,
		&c.Phone, &c.Website, &c.Latitude, &c.Longitude, &c.FormattedAddress, &c.MapsURL,
		&c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}

	if len(reviewsJSON) > 0 {
		if err := json.Unmarshal(reviewsJSON, &c.FeaturedReviews); err != nil {
			return nil, fmt.Errorf("failed to unmarshal featured reviews: %w", err)
		}
	}
	if len(hoursJSON) > 0 {
		if err := json.Unmarshal(hoursJSON, &c.OpeningHours); err != nil {
			return nil, fmt.Errorf("failed to unmarshal opening hours: %w", err)
		}
	}

	return &c, nil
}

// UpdateClinicFields writes only the fields present in the patch.
// A patch with no fields set is a no-op.
func (s *PostgresStore) UpdateClinicFields(ctx context.Context, id int64, patch models.ClinicPatch) error {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Rating.Set {
		add("rating", patch.Rating.Value)
	}
	if patch.ReviewCount.Set {
		add("review_count", patch.ReviewCount.Value)
	}
	if patch.FeaturedReviews.Set {
		data, err := json.Marshal(patch.FeaturedReviews.Value)
		if err != nil {
			return fmt.Errorf("failed to marshal featured reviews: %w", err)
		}
		add("featured_reviews", data)
	}
	if patch.OpeningHours.Set {
		data, err := json.Marshal(patch.OpeningHours.Value)
		if err != nil {
			return fmt.Errorf("failed to marshal opening hours: %w", err)
		}
		add("opening_hours", data)
	}
	if patch.Phone.Set {
		add("phone", patch.Phone.Value)
	}
	if patch.Website.Set {
		add("website", patch.Website.Value)
	}
	if patch.Latitude.Set {
		add("latitude", patch.Latitude.Value)
	}
	if patch.Longitude.Set {
		add("longitude", patch.Longitude.Value)
	}
	if patch.FormattedAddress.Set {
		add("formatted_address", patch.FormattedAddress.Value)
	}
	if patch.MapsURL.Set {
		add("maps_url", patch.MapsURL.Value)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE clinics SET %s, updated_at = NOW() WHERE id = $%d",
		joinSets(sets), len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update clinic fields: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("clinic not found: %d", id)
	}

	return nil
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}

// ListClinicIDsWithPlaceID returns ids of all sync-eligible clinics,
// optionally filtered by state name or abbreviation.
func (s *PostgresStore) ListClinicIDsWithPlaceID(ctx context.Context, stateFilter string) ([]int64, error) {
	query := `
		SELECT id FROM clinics
		WHERE place_id IS NOT NULL AND place_id <> ''`
	var args []interface{}

	if stateFilter != "" {
		query += ` AND (state = $1 OR state_abbr = $1)`
		args = append(args, stateFilter)
	}
	query += ` ORDER BY id`

	return s.queryIDs(ctx, query, args...)
}

// ListClinicIDsMissingData returns sync-eligible clinics with at least one
// core synced field still unpopulated.
func (s *PostgresStore) ListClinicIDsMissingData(ctx context.Context) ([]int64, error) {
	query := `
		SELECT id FROM clinics
		WHERE place_id IS NOT NULL AND place_id <> ''
			AND (rating IS NULL OR review_count IS NULL OR opening_hours IS NULL OR phone IS NULL)
		ORDER BY id`

	return s.queryIDs(ctx, query)
}

func (s *PostgresStore) queryIDs(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clinic ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan clinic id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clinic ids: %w", err)
	}

	return ids, nil
}
