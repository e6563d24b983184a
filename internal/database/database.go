package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"landsale/server/internal/models"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// listingURL is the shareable path for a stored listing.
func listingURL(id int64) string {
	return fmt.Sprintf("/properties/%d", id)
}

// CreateListing stores a new listing and returns it with its assigned id
// and url.
func (d *Database) CreateListing(input models.CreateListingInput) (*models.Listing, error) {
	features, err := json.Marshal(input.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode features: %w", err)
	}
	images, err := json.Marshal(input.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode images: %w", err)
	}

	now := time.Now().UTC()
	result, err := d.db.Exec(`
		INSERT INTO listings
		(user_id, title, description, property_type, price, price_unit,
		 district, city, address, land_size, land_unit, bedrooms, bathrooms,
		 features, images, contact_phone, contact_whatsapp, status,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		input.UserID,
		input.Title,
		input.Description,
		string(input.PropertyType),
		input.Price,
		string(input.PriceUnit),
		input.District,
		input.City,
		input.Address,
		input.LandSize,
		string(input.LandUnit),
		input.Bedrooms,
		input.Bathrooms,
		string(features),
		string(images),
		input.ContactPhone,
		input.ContactWhatsApp,
		"active",
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get listing id: %w", err)
	}

	listing := &models.Listing{
		ID:              id,
		UserID:          input.UserID,
		Title:           input.Title,
		Description:     input.Description,
		PropertyType:    input.PropertyType,
		Price:           input.Price,
		PriceUnit:       input.PriceUnit,
		District:        input.District,
		City:            input.City,
		Address:         input.Address,
		LandSize:        input.LandSize,
		LandUnit:        input.LandUnit,
		Bedrooms:        input.Bedrooms,
		Bathrooms:       input.Bathrooms,
		Features:        input.Features,
		Images:          input.Images,
		ContactPhone:    input.ContactPhone,
		ContactWhatsApp: input.ContactWhatsApp,
		Status:          "active",
		CreatedAt:       now,
		UpdatedAt:       now,
		URL:             listingURL(id),
	}
	return listing, nil
}

const listingColumns = `
	id, user_id, title, description, property_type, price, price_unit,
	COALESCE(district, ''), COALESCE(city, ''), COALESCE(address, ''),
	latitude, longitude,
	land_size, COALESCE(land_unit, ''), bedrooms, bathrooms,
	COALESCE(features, '[]'), COALESCE(images, '[]'),
	COALESCE(contact_phone, ''), COALESCE(contact_whatsapp, ''),
	COALESCE(status, 'active'),
	COALESCE(created_at, ''), COALESCE(updated_at, '')`

func scanListing(rows interface{ Scan(...interface{}) error }) (models.Listing, error) {
	var l models.Listing
	var propType, priceUnit, landUnit string
	var latitude, longitude sql.NullFloat64
	var landSize sql.NullFloat64
	var bedrooms, bathrooms sql.NullInt64
	var features, images string
	var createdAt, updatedAt string

	err := rows.Scan(
		&l.ID,
		&l.UserID,
		&l.Title,
		&l.Description,
		&propType,
		&l.Price,
		&priceUnit,
		&l.District,
		&l.City,
		&l.Address,
		&latitude,
		&longitude,
		&landSize,
		&landUnit,
		&bedrooms,
		&bathrooms,
		&features,
		&images,
		&l.ContactPhone,
		&l.ContactWhatsApp,
		&l.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return l, err
	}

	l.PropertyType = models.PropertyType(propType)
	l.PriceUnit = models.PriceUnit(priceUnit)
	l.LandUnit = models.LandUnit(landUnit)

	if latitude.Valid {
		v := latitude.Float64
		l.Latitude = &v
	}
	if longitude.Valid {
		v := longitude.Float64
		l.Longitude = &v
	}
	if landSize.Valid {
		v := landSize.Float64
		l.LandSize = &v
	}
	if bedrooms.Valid {
		v := int(bedrooms.Int64)
		l.Bedrooms = &v
	}
	if bathrooms.Valid {
		v := int(bathrooms.Int64)
		l.Bathrooms = &v
	}

	// Feature and image lists are stored as JSON arrays
	if err := json.Unmarshal([]byte(features), &l.Features); err != nil {
		l.Features = nil
	}
	if err := json.Unmarshal([]byte(images), &l.Images); err != nil {
		l.Images = nil
	}

	if createdAt != "" {
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			l.CreatedAt = t
		}
	}
	if updatedAt != "" {
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			l.UpdatedAt = t
		}
	}

	l.URL = listingURL(l.ID)
	return l, nil
}

// GetListing returns a single listing by id, or nil when it does not exist.
func (d *Database) GetListing(id int64) (*models.Listing, error) {
	row := d.db.QueryRow(`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	listing, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query listing: %w", err)
	}
	return &listing, nil
}

// GetListings returns active listings matching the filter, newest first.
func (d *Database) GetListings(filter models.ListingFilter) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE status = 'active'`
	var args []interface{}

	if filter.District != "" {
		query += " AND LOWER(district) = LOWER(?)"
		args = append(args, filter.District)
	}
	if filter.City != "" {
		query += " AND LOWER(city) = LOWER(?)"
		args = append(args, filter.City)
	}
	if filter.PropertyType != "" {
		query += " AND property_type = ?"
		args = append(args, string(filter.PropertyType))
	}
	if filter.MinPrice != nil {
		query += " AND price >= ?"
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query += " AND price <= ?"
		args = append(args, *filter.MaxPrice)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += " LIMIT ?"
	args = append(args, limit)

	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
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

// GetRecentListings returns the most recently published listings.
func (d *Database) GetRecentListings(limit int) ([]models.Listing, error) {
	if limit <= 0 {
		limit = 10
	}
	return d.GetListings(models.ListingFilter{Limit: limit})
}

// GetListingStats summarises the active listings, optionally restricted to
// one district.
func (d *Database) GetListingStats(district string) (models.ListingStats, error) {
	var stats models.ListingStats

	err := d.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(AVG(price), 0),
			COALESCE(SUM(CASE WHEN property_type = 'land' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN property_type = 'house' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(
				CASE
					WHEN price_unit = 'per_perch' THEN price
					WHEN land_unit = 'perches' AND land_size > 0 THEN price / land_size
				END
			), 0)
		FROM listings
		WHERE status = 'active'
		AND (? = '' OR LOWER(district) = LOWER(?))
	`, district, district).Scan(
		&stats.TotalListings,
		&stats.AveragePrice,
		&stats.TotalLand,
		&stats.TotalHouses,
		&stats.AvgPricePerPerch,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to query listing stats: %w", err)
	}

	median, err := d.medianPrice(district)
	if err != nil {
		return stats, err
	}
	stats.MedianPrice = median

	return stats, nil
}

// medianPrice computes the median asking price in Go; SQLite has no
// built-in median.
func (d *Database) medianPrice(district string) (float64, error) {
	rows, err := d.db.Query(`
		SELECT price FROM listings
		WHERE status = 'active'
		AND (? = '' OR LOWER(district) = LOWER(?))
		ORDER BY price
	`, district, district)
	if err != nil {
		return 0, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var prices []float64
	for rows.Next() {
		var p float64
		if err := rows.Scan(&p); err != nil {
			return 0, err
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	return median(prices), nil
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// GetDistrictMedianPricePerPerch returns the median per-perch price of
// active land listings in a district. Returns 0 when the district has no
// usable listings.
func (d *Database) GetDistrictMedianPricePerPerch(district string) (float64, error) {
	rows, err := d.db.Query(`
		SELECT
			CASE
				WHEN price_unit = 'per_perch' THEN price
				ELSE price / land_size
			END
		FROM listings
		WHERE status = 'active'
		AND property_type = 'land'
		AND land_unit = 'perches'
		AND land_size > 0
		AND LOWER(district) = LOWER(?)
	`, district)
	if err != nil {
		return 0, fmt.Errorf("failed to query district prices: %w", err)
	}
	defer rows.Close()

	var prices []float64
	for rows.Next() {
		var p float64
		if err := rows.Scan(&p); err != nil {
			return 0, err
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	return median(prices), nil
}
