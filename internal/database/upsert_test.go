package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"landsale/server/internal/models"
)

func newTestGorm(t *testing.T) (*Database, *gorm.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	gormDB, err := gorm.Open(sqlitedriver.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, gormDB
}

func importedListing(reference, title string, price float64) *models.Listing {
	size := 20.0
	return &models.Listing{
		UserID:       "import",
		Title:        title,
		PropertyType: models.PropertyTypeLand,
		Price:        price,
		PriceUnit:    models.PriceUnitTotal,
		District:     "Colombo",
		City:         "Kadawatha",
		LandSize:     &size,
		LandUnit:     models.LandUnitPerches,
		Features:     []string{"Clear Title"},
		Images:       []string{},
		Reference:    reference,
		Status:       "active",
	}
}

func TestUpsertListings_InsertThenUpdate(t *testing.T) {
	db, gormDB := newTestGorm(t)

	batch := []*models.Listing{
		importedListing("ext-1", "First import", 4_000_000),
		importedListing("ext-2", "Second import", 6_000_000),
	}
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertListings(tx, batch)
	})
	require.NoError(t, err)

	listings, err := db.GetListings(models.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, listings, 2)

	// Re-importing the same reference updates in place
	updated := []*models.Listing{
		importedListing("ext-1", "First import updated", 5_000_000),
	}
	err = gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertListings(tx, updated)
	})
	require.NoError(t, err)

	listings, err = db.GetListings(models.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	var titles []string
	for _, l := range listings {
		titles = append(titles, l.Title)
	}
	assert.Contains(t, titles, "First import updated")
	assert.NotContains(t, titles, "First import")
}

func TestUpsertListings_TimestampsRoundTrip(t *testing.T) {
	db, gormDB := newTestGorm(t)

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertListings(tx, []*models.Listing{importedListing("ext-1", "Imported", 4_000_000)})
	})
	require.NoError(t, err)

	listings, err := db.GetListings(models.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, listings, 1)

	assert.False(t, listings[0].CreatedAt.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), listings[0].CreatedAt, 10*time.Second)
	assert.WithinDuration(t, time.Now().UTC(), listings[0].UpdatedAt, 10*time.Second)

	// The stored column is the same RFC3339 text the chat-publish path writes
	var raw string
	require.NoError(t, db.GetDB().QueryRow(
		`SELECT created_at FROM listings WHERE reference = 'ext-1'`).Scan(&raw))
	_, err = time.Parse(time.RFC3339, raw)
	assert.NoError(t, err)
}

func TestUpsertListings_RecencyOrderAcrossSources(t *testing.T) {
	db, gormDB := newTestGorm(t)

	older := importedListing("ext-old", "Imported earlier", 4_000_000)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertListings(tx, []*models.Listing{older})
	})
	require.NoError(t, err)

	_, err = db.CreateListing(models.CreateListingInput{
		Title:        "Published just now",
		PropertyType: models.PropertyTypeLand,
		Price:        5_000_000,
		PriceUnit:    models.PriceUnitTotal,
		District:     "Colombo",
		UserID:       "chat",
	})
	require.NoError(t, err)

	listings, err := db.GetRecentListings(10)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "Published just now", listings[0].Title)
	assert.Equal(t, "Imported earlier", listings[1].Title)
}

func TestUpsertListings_ImportedListingsExpire(t *testing.T) {
	db, gormDB := newTestGorm(t)

	stale := importedListing("ext-stale", "Old import", 3_000_000)
	stale.CreatedAt = time.Now().UTC().Add(-200 * 24 * time.Hour)
	fresh := importedListing("ext-fresh", "New import", 4_000_000)

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertListings(tx, []*models.Listing{stale, fresh})
	})
	require.NoError(t, err)

	expired, err := db.ExpireListings(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	listings, err := db.GetListings(models.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "New import", listings[0].Title)
}

func TestUpsertListings_RequiresReference(t *testing.T) {
	_, gormDB := newTestGorm(t)

	batch := []*models.Listing{importedListing("", "No reference", 1_000_000)}
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertListings(tx, batch)
	})
	assert.Error(t, err)
}

func TestUpsertListings_EmptyBatch(t *testing.T) {
	_, gormDB := newTestGorm(t)

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return UpsertListings(tx, nil)
	})
	assert.NoError(t, err)
}
