package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landsale/server/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	return db
}

func testInput(title string) models.CreateListingInput {
	return models.CreateListingInput{
		Title:        title,
		Description:  "Beautiful 20 perches land for sale in Colombo.",
		PropertyType: models.PropertyTypeLand,
		Price:        4_500_000,
		PriceUnit:    models.PriceUnitTotal,
		District:     "Colombo",
		City:         "Kadawatha",
		LandSize:     floatPtr(20),
		LandUnit:     models.LandUnitPerches,
		Features:     []string{"Clear Title", "Water Supply"},
		Images:       []string{},
		ContactPhone: "0771234567",
		UserID:       "user-1",
	}
}

func TestCreateAndGetListing(t *testing.T) {
	db := newTestDatabase(t)

	created, err := db.CreateListing(testInput("20 perches Land for Sale in Colombo"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "/properties/1", created.URL)
	assert.Equal(t, "active", created.Status)

	got, err := db.GetListing(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, models.PropertyTypeLand, got.PropertyType)
	assert.Equal(t, 4_500_000.0, got.Price)
	assert.Equal(t, "Kadawatha", got.City)
	require.NotNil(t, got.LandSize)
	assert.Equal(t, 20.0, *got.LandSize)
	assert.Equal(t, []string{"Clear Title", "Water Supply"}, got.Features)
	assert.Equal(t, created.URL, got.URL)
	assert.Nil(t, got.Bedrooms)
	assert.Nil(t, got.Latitude)
}

func TestGetListing_NotFound(t *testing.T) {
	db := newTestDatabase(t)

	got, err := db.GetListing(12345)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetListings_Filters(t *testing.T) {
	db := newTestDatabase(t)

	colombo := testInput("Colombo land")
	_, err := db.CreateListing(colombo)
	require.NoError(t, err)

	galle := testInput("Galle house")
	galle.District = "Galle"
	galle.City = "Galle"
	galle.PropertyType = models.PropertyTypeHouse
	galle.Price = 30_000_000
	_, err = db.CreateListing(galle)
	require.NoError(t, err)

	listings, err := db.GetListings(models.ListingFilter{District: "galle"})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Galle house", listings[0].Title)

	listings, err = db.GetListings(models.ListingFilter{PropertyType: models.PropertyTypeLand})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Colombo land", listings[0].Title)

	listings, err = db.GetListings(models.ListingFilter{MaxPrice: floatPtr(10_000_000)})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Colombo land", listings[0].Title)

	listings, err = db.GetListings(models.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, listings, 2)
}

func TestGetListingStats(t *testing.T) {
	db := newTestDatabase(t)

	land := testInput("land one")
	land.Price = 4_000_000
	_, err := db.CreateListing(land)
	require.NoError(t, err)

	house := testInput("house one")
	house.PropertyType = models.PropertyTypeHouse
	house.Price = 30_000_000
	_, err = db.CreateListing(house)
	require.NoError(t, err)

	stats, err := db.GetListingStats("")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalListings)
	assert.Equal(t, 1, stats.TotalLand)
	assert.Equal(t, 1, stats.TotalHouses)
	assert.Equal(t, 17_000_000.0, stats.AveragePrice)
	assert.Equal(t, 17_000_000.0, stats.MedianPrice)
}

func TestGetListingStats_EmptyDatabase(t *testing.T) {
	db := newTestDatabase(t)

	stats, err := db.GetListingStats("")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalListings)
	assert.Equal(t, 0.0, stats.MedianPrice)
}

func TestGetDistrictMedianPricePerPerch(t *testing.T) {
	db := newTestDatabase(t)

	perPerch := testInput("per perch listing")
	perPerch.Price = 1_000_000
	perPerch.PriceUnit = models.PriceUnitPerPerch
	_, err := db.CreateListing(perPerch)
	require.NoError(t, err)

	total := testInput("total price listing")
	total.Price = 40_000_000
	total.LandSize = floatPtr(20)
	_, err = db.CreateListing(total)
	require.NoError(t, err)

	median, err := db.GetDistrictMedianPricePerPerch("Colombo")
	require.NoError(t, err)
	// Per-perch values are 1,000,000 and 2,000,000
	assert.Equal(t, 1_500_000.0, median)

	median, err = db.GetDistrictMedianPricePerPerch("Jaffna")
	require.NoError(t, err)
	assert.Equal(t, 0.0, median)
}

func TestExpireListings(t *testing.T) {
	db := newTestDatabase(t)

	created, err := db.CreateListing(testInput("old listing"))
	require.NoError(t, err)
	_, err = db.CreateListing(testInput("fresh listing"))
	require.NoError(t, err)

	// Age the first listing past the cutoff
	old := time.Now().UTC().Add(-120 * 24 * time.Hour).Format(time.RFC3339)
	_, err = db.GetDB().Exec(`UPDATE listings SET created_at = ? WHERE id = ?`, old, created.ID)
	require.NoError(t, err)

	expired, err := db.ExpireListings(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	listings, err := db.GetListings(models.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "fresh listing", listings[0].Title)
}

func TestListingCoordinates(t *testing.T) {
	db := newTestDatabase(t)

	created, err := db.CreateListing(testInput("needs geocoding"))
	require.NoError(t, err)

	pending, err := db.GetListingsWithoutCoordinates(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)

	require.NoError(t, db.UpdateListingCoordinates(created.ID, 6.9271, 79.8612))

	pending, err = db.GetListingsWithoutCoordinates(10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	got, err := db.GetListing(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Latitude)
	assert.InDelta(t, 6.9271, *got.Latitude, 1e-9)
	require.NotNil(t, got.Longitude)
	assert.InDelta(t, 79.8612, *got.Longitude, 1e-9)
}

func TestTelegramConfigRoundtrip(t *testing.T) {
	db := newTestDatabase(t)

	config, err := db.GetTelegramConfig()
	require.NoError(t, err)
	assert.Nil(t, config)

	err = db.UpdateTelegramConfig(&models.TelegramConfigRequest{
		IsEnabled: true,
		BotToken:  "123456789:ABCDEF-ghijklmnop",
		ChatID:    "-100200300",
	})
	require.NoError(t, err)

	config, err = db.GetTelegramConfig()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.True(t, config.IsEnabled)
	assert.Equal(t, "-100200300", config.ChatID)

	// A second update replaces the single config row
	err = db.UpdateTelegramConfig(&models.TelegramConfigRequest{
		IsEnabled: false,
		BotToken:  "123456789:ABCDEF-ghijklmnop",
		ChatID:    "-100200301",
	})
	require.NoError(t, err)

	config, err = db.GetTelegramConfig()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.False(t, config.IsEnabled)
	assert.Equal(t, "-100200301", config.ChatID)
}
