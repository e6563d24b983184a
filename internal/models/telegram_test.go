package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestIsListingAllowed(t *testing.T) {
	size := 20.0
	listing := &Listing{
		PropertyType: PropertyTypeLand,
		Price:        4_500_000,
		District:     "Colombo",
		LandSize:     &size,
	}

	tests := []struct {
		name    string
		filters *TelegramFilters
		allowed bool
	}{
		{"nil filters allow everything", nil, true},
		{"empty filters allow everything", &TelegramFilters{}, true},
		{"price below minimum", &TelegramFilters{MinPrice: floatPtr(5_000_000)}, false},
		{"price above maximum", &TelegramFilters{MaxPrice: floatPtr(4_000_000)}, false},
		{"price within range", &TelegramFilters{MinPrice: floatPtr(1_000_000), MaxPrice: floatPtr(5_000_000)}, true},
		{"land size below minimum", &TelegramFilters{MinLandSize: floatPtr(40)}, false},
		{"land size within range", &TelegramFilters{MinLandSize: floatPtr(10), MaxLandSize: floatPtr(25)}, true},
		{"district matches", &TelegramFilters{Districts: []string{"Gampaha", "Colombo"}}, true},
		{"district does not match", &TelegramFilters{Districts: []string{"Galle"}}, false},
		{"property type matches", &TelegramFilters{PropertyTypes: []PropertyType{PropertyTypeLand}}, true},
		{"property type does not match", &TelegramFilters{PropertyTypes: []PropertyType{PropertyTypeHouse}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.filters.IsListingAllowed(listing))
		})
	}
}

func TestIsListingAllowed_SizeFilterRequiresLandSize(t *testing.T) {
	house := &Listing{
		PropertyType: PropertyTypeHouse,
		Price:        30_000_000,
		District:     "Colombo",
	}

	assert.False(t, (&TelegramFilters{MinLandSize: floatPtr(5)}).IsListingAllowed(house))
	assert.True(t, (&TelegramFilters{MaxPrice: floatPtr(40_000_000)}).IsListingAllowed(house))
}
