package database

import (
	"encoding/json"
	"fmt"
	"time"

	"landsale/server/internal/models"
)

// GetListingsWithoutCoordinates returns active listings that have a city or
// district but no coordinates yet, oldest first.
func (d *Database) GetListingsWithoutCoordinates(limit int) ([]models.Listing, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.db.Query(`
		SELECT `+listingColumns+`
		FROM listings
		WHERE status = 'active'
		AND latitude IS NULL
		AND (city != '' OR district != '')
		ORDER BY created_at
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings without coordinates: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// UpdateListingCoordinates stores geocoded coordinates for a listing.
func (d *Database) UpdateListingCoordinates(id int64, latitude, longitude float64) error {
	_, err := d.db.Exec(`
		UPDATE listings
		SET latitude = ?, longitude = ?, updated_at = ?
		WHERE id = ?
	`, latitude, longitude, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update listing coordinates: %w", err)
	}
	return nil
}

// ExpireListings marks active listings older than maxAge as expired and
// returns how many were affected.
func (d *Database) ExpireListings(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)

	result, err := d.db.Exec(`
		UPDATE listings
		SET status = 'expired', updated_at = ?
		WHERE status = 'active'
		AND created_at < ?
	`, time.Now().UTC().Format(time.RFC3339), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire listings: %w", err)
	}
	return result.RowsAffected()
}

// DistrictHull is a stored district boundary as a GeoJSON feature.
type DistrictHull struct {
	District   string          `json:"district"`
	Feature    json.RawMessage `json:"feature"`
	PointCount int             `json:"point_count"`
	UpdatedAt  string          `json:"updated_at"`
}

// GetDistrictHulls returns every stored district boundary.
func (d *Database) GetDistrictHulls() ([]DistrictHull, error) {
	rows, err := d.db.Query(`
		SELECT district, feature, point_count, COALESCE(updated_at, '')
		FROM district_hulls
		ORDER BY district
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query district hulls: %w", err)
	}
	defer rows.Close()

	var hulls []DistrictHull
	for rows.Next() {
		var h DistrictHull
		var feature string
		if err := rows.Scan(&h.District, &feature, &h.PointCount, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan district hull: %w", err)
		}
		h.Feature = json.RawMessage(feature)
		hulls = append(hulls, h)
	}
	return hulls, rows.Err()
}
