package models

import "time"

// Listing is a published property listing as stored by the persistence
// layer. Location, contact and attribute details are kept as typed fields
// here; the store is responsible for its own column encoding.
type Listing struct {
	ID              int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          string       `json:"user_id" gorm:"column:user_id;index"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	PropertyType    PropertyType `json:"property_type" gorm:"column:property_type;index"`
	Price           float64      `json:"price"`
	PriceUnit       PriceUnit    `json:"price_unit" gorm:"column:price_unit"`
	District        string       `json:"district" gorm:"index"`
	City            string       `json:"city" gorm:"index"`
	Address         string       `json:"address"`
	Latitude        *float64     `json:"latitude"`
	Longitude       *float64     `json:"longitude"`
	LandSize        *float64     `json:"land_size" gorm:"column:land_size"`
	LandUnit        LandUnit     `json:"land_unit" gorm:"column:land_unit"`
	Bedrooms        *int         `json:"bedrooms"`
	Bathrooms       *int         `json:"bathrooms"`
	Features        []string     `json:"features" gorm:"serializer:json"`
	Images          []string     `json:"images" gorm:"serializer:json"`
	ContactPhone    string       `json:"contact_phone" gorm:"column:contact_phone"`
	ContactWhatsApp string       `json:"contact_whatsapp" gorm:"column:contact_whatsapp"`
	// Reference identifies an imported listing in its source system and is
	// the conflict key for bulk upserts.
	Reference string    `json:"reference,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// URL is the shareable path of the listing, derived from the id.
	// It is never stored.
	URL string `json:"url" gorm:"-"`
}

// TableName keeps gorm on the same table the raw SQL store manages.
func (Listing) TableName() string {
	return "listings"
}

// CreateListingInput is the shape the persistence collaborator accepts.
type CreateListingInput struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	PropertyType    PropertyType `json:"property_type"`
	Price           float64      `json:"price"`
	PriceUnit       PriceUnit    `json:"price_unit"`
	District        string       `json:"district"`
	City            string       `json:"city"`
	Address         string       `json:"address"`
	LandSize        *float64     `json:"land_size"`
	LandUnit        LandUnit     `json:"land_unit"`
	Bedrooms        *int         `json:"bedrooms"`
	Bathrooms       *int         `json:"bathrooms"`
	Features        []string     `json:"features"`
	Images          []string     `json:"images"`
	ContactPhone    string       `json:"contact_phone"`
	ContactWhatsApp string       `json:"contact_whatsapp"`
	UserID          string       `json:"user_id"`
}

// ListingFilter narrows listing queries.
type ListingFilter struct {
	District     string       `form:"district"`
	City         string       `form:"city"`
	PropertyType PropertyType `form:"property_type"`
	MinPrice     *float64     `form:"min_price"`
	MaxPrice     *float64     `form:"max_price"`
	Limit        int          `form:"limit"`
	Offset       int          `form:"offset"`
}

// ListingStats summarises the published listings for a district or the
// whole marketplace.
type ListingStats struct {
	TotalListings    int     `json:"total_listings"`
	AveragePrice     float64 `json:"average_price"`
	MedianPrice      float64 `json:"median_price"`
	AvgPricePerPerch float64 `json:"avg_price_per_perch"`
	TotalLand        int     `json:"total_land"`
	TotalHouses      int     `json:"total_houses"`
}
