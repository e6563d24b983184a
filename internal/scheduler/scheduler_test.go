package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landsale/server/config"
	"landsale/server/internal/database"
	"landsale/server/internal/geocoding"
	"landsale/server/internal/geometry"
	"landsale/server/internal/models"
)

func newTestScheduler(t *testing.T) (*Scheduler, *database.Database) {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	logger := logrus.New()
	cfg := &config.Config{}
	cfg.Maintenance.ListingTTLDays = 90
	cfg.Maintenance.GeocodeBatchSize = 10

	geocoder := geocoding.NewGeocoder(logger, t.TempDir())
	districts := geometry.NewDistrictManager(db.GetDB(), logger)

	return NewScheduler(db, geocoder, districts, cfg, logger), db
}

func TestJobTypeString(t *testing.T) {
	assert.Equal(t, "geocode", JobTypeGeocode.String())
	assert.Equal(t, "expire", JobTypeExpire.String())
	assert.Equal(t, "hulls", JobTypeHulls.String())
}

func TestScheduler_SkipsScheduledJobsDuringStartup(t *testing.T) {
	s, db := newTestScheduler(t)

	listing, err := db.CreateListing(models.CreateListingInput{
		Title:        "Stale land",
		PropertyType: models.PropertyTypeLand,
		Price:        4_000_000,
		PriceUnit:    models.PriceUnitTotal,
		District:     "Colombo",
		UserID:       "seed",
	})
	require.NoError(t, err)
	require.NoError(t, db.UpdateListingCoordinates(listing.ID, 6.9271, 79.8612))

	aged := time.Now().UTC().Add(-200 * 24 * time.Hour).Format(time.RFC3339)
	_, err = db.GetDB().Exec(`UPDATE listings SET created_at = ? WHERE id = ?`, aged, listing.ID)
	require.NoError(t, err)

	expireTick := time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC)

	// Ticks that arrive while the startup jobs are still running do nothing
	s.executeScheduledJobs(expireTick)
	listings, err := db.GetListings(models.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, listings, 1)

	s.isStartupRun.Store(false)
	s.executeScheduledJobs(expireTick)
	listings, err = db.GetListings(models.ListingFilter{})
	require.NoError(t, err)
	assert.Empty(t, listings)
}
