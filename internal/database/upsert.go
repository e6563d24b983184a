package database

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"landsale/server/internal/models"
)

// UpsertListings inserts or updates a batch of imported listings inside the
// given transaction, keyed by their external reference.
//
// Rows are built by hand rather than from the model structs: the listings
// table stores timestamps as RFC3339 strings, and letting the driver bind
// time.Time values would write its own space-separated layout into the same
// column.
func UpsertListings(tx *gorm.DB, batch []*models.Listing) error {
	if len(batch) == 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	rows := make([]map[string]interface{}, 0, len(batch))
	for _, listing := range batch {
		if listing.Reference == "" {
			return fmt.Errorf("imported listing %q has no reference", listing.Title)
		}
		if listing.Status == "" {
			listing.Status = "active"
		}

		features, err := json.Marshal(listing.Features)
		if err != nil {
			return fmt.Errorf("failed to encode features: %w", err)
		}
		images, err := json.Marshal(listing.Images)
		if err != nil {
			return fmt.Errorf("failed to encode images: %w", err)
		}

		createdAt := now
		if !listing.CreatedAt.IsZero() {
			createdAt = listing.CreatedAt.UTC().Format(time.RFC3339)
		}

		rows = append(rows, map[string]interface{}{
			"user_id":          listing.UserID,
			"title":            listing.Title,
			"description":      listing.Description,
			"property_type":    string(listing.PropertyType),
			"price":            listing.Price,
			"price_unit":       string(listing.PriceUnit),
			"district":         listing.District,
			"city":             listing.City,
			"address":          listing.Address,
			"latitude":         listing.Latitude,
			"longitude":        listing.Longitude,
			"land_size":        listing.LandSize,
			"land_unit":        string(listing.LandUnit),
			"bedrooms":         listing.Bedrooms,
			"bathrooms":        listing.Bathrooms,
			"features":         string(features),
			"images":           string(images),
			"contact_phone":    listing.ContactPhone,
			"contact_whatsapp": listing.ContactWhatsApp,
			"reference":        listing.Reference,
			"status":           listing.Status,
			"created_at":       createdAt,
			"updated_at":       now,
		})
	}

	// The conflict target must repeat the partial index predicate or
	// sqlite will not match the index.
	return tx.Table("listings").Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "reference"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "reference != ''"}}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "property_type", "price", "price_unit",
			"district", "city", "address", "latitude", "longitude",
			"land_size", "land_unit",
			"bedrooms", "bathrooms", "features", "images",
			"contact_phone", "contact_whatsapp", "status", "updated_at",
		}),
	}).Create(rows).Error
}
