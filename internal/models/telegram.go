package models

import "time"

// TelegramConfig stores the bot credentials and basic settings
type TelegramConfig struct {
	ID        int64     `json:"id"`
	IsEnabled bool      `json:"is_enabled"`
	BotToken  string    `json:"bot_token"`
	ChatID    string    `json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TelegramConfigRequest is used when updating the configuration
type TelegramConfigRequest struct {
	IsEnabled bool   `json:"is_enabled"`
	BotToken  string `json:"bot_token"`
	ChatID    string `json:"chat_id"`
}

// TelegramFilters stores the notification filter settings
type TelegramFilters struct {
	MinPrice      *float64       `json:"min_price"`
	MaxPrice      *float64       `json:"max_price"`
	MinLandSize   *float64       `json:"min_land_size"`
	MaxLandSize   *float64       `json:"max_land_size"`
	Districts     []string       `json:"districts"`
	PropertyTypes []PropertyType `json:"property_types"`
}

// IsListingAllowed checks if a listing matches the filter criteria
func (f *TelegramFilters) IsListingAllowed(listing *Listing) bool {
	if f == nil {
		return true // No filters means allow all
	}

	// Check price range
	if f.MinPrice != nil && listing.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && listing.Price > *f.MaxPrice {
		return false
	}

	// Check land size range
	if listing.LandSize != nil {
		if f.MinLandSize != nil && *listing.LandSize < *f.MinLandSize {
			return false
		}
		if f.MaxLandSize != nil && *listing.LandSize > *f.MaxLandSize {
			return false
		}
	} else if f.MinLandSize != nil || f.MaxLandSize != nil {
		return false // Filter requires land size but listing has none
	}

	// Check district
	if len(f.Districts) > 0 {
		allowed := false
		for _, district := range f.Districts {
			if district == listing.District {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	// Check property type
	if len(f.PropertyTypes) > 0 {
		allowed := false
		for _, pt := range f.PropertyTypes {
			if pt == listing.PropertyType {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	return true
}
