package geometry

import (
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landsale/server/internal/database"
	"landsale/server/internal/models"
)

func TestGenerateConvexHull(t *testing.T) {
	// A 2x2 square with one interior point
	points := []orb.Point{
		{0, 0}, {2, 0}, {2, 2}, {0, 2}, {1, 1},
	}

	hull := generateConvexHull(points)
	require.NotNil(t, hull)
	assert.GreaterOrEqual(t, len(hull), 5)

	// The ring is closed
	assert.Equal(t, hull[0], hull[len(hull)-1])

	// All four corners survive; the interior point does not stretch the ring
	bound := hull.Bound()
	assert.InDelta(t, 0, bound.Min[0], 0.05)
	assert.InDelta(t, 0, bound.Min[1], 0.05)
	assert.InDelta(t, 2, bound.Max[0], 0.05)
	assert.InDelta(t, 2, bound.Max[1], 0.05)
}

func TestBufferHull_StaysNearTheOriginalRing(t *testing.T) {
	// A 0.1-degree square, roughly a district-sized ring
	square := orb.Ring{
		{0, 0}, {0.1, 0}, {0.1, 0.1}, {0, 0.1}, {0, 0},
	}
	buffer := 0.005

	buffered := bufferHull(square, buffer)
	require.GreaterOrEqual(t, len(buffered), len(square))

	// Interpolation and corner rounding never push a point further than
	// the buffer distance outside the original square
	for _, p := range buffered {
		assert.GreaterOrEqual(t, p[0], -buffer)
		assert.LessOrEqual(t, p[0], 0.1+buffer)
		assert.GreaterOrEqual(t, p[1], -buffer)
		assert.LessOrEqual(t, p[1], 0.1+buffer)
	}
}

func TestGenerateConvexHull_TooFewPoints(t *testing.T) {
	assert.Nil(t, generateConvexHull([]orb.Point{{0, 0}, {1, 1}}))
}

func seedListing(t *testing.T, db *database.Database, district string, lat, lon float64) {
	t.Helper()

	size := 20.0
	listing, err := db.CreateListing(models.CreateListingInput{
		Title:        "seed",
		PropertyType: models.PropertyTypeLand,
		Price:        1_000_000,
		PriceUnit:    models.PriceUnitTotal,
		District:     district,
		City:         district,
		LandSize:     &size,
		LandUnit:     models.LandUnitPerches,
		UserID:       "seed",
	})
	require.NoError(t, err)
	require.NoError(t, db.UpdateListingCoordinates(listing.ID, lat, lon))
}

func TestUpdateDistrictHulls(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())

	// Four spread-out Colombo listings plus one district with too few points
	seedListing(t, db, "Colombo", 6.90, 79.85)
	seedListing(t, db, "Colombo", 6.95, 79.86)
	seedListing(t, db, "Colombo", 6.93, 79.90)
	seedListing(t, db, "Colombo", 6.88, 79.88)
	seedListing(t, db, "Galle", 6.03, 80.22)

	dm := NewDistrictManager(db.GetDB(), logrus.New())
	require.NoError(t, dm.UpdateDistrictHulls())

	hulls, err := db.GetDistrictHulls()
	require.NoError(t, err)
	require.Len(t, hulls, 1)
	assert.Equal(t, "Colombo", hulls[0].District)
	assert.Equal(t, 4, hulls[0].PointCount)
	assert.Contains(t, string(hulls[0].Feature), "Polygon")

	// Regenerating replaces rather than duplicates
	require.NoError(t, dm.UpdateDistrictHulls())
	hulls, err = db.GetDistrictHulls()
	require.NoError(t, err)
	assert.Len(t, hulls, 1)
}

func TestCollectDistrictPoints_DeduplicatesCoordinates(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())

	seedListing(t, db, "Kandy", 7.2906, 80.6337)
	seedListing(t, db, "Kandy", 7.2906, 80.6337)

	dm := NewDistrictManager(db.GetDB(), logrus.New())
	districts, err := dm.CollectDistrictPoints()
	require.NoError(t, err)

	require.Contains(t, districts, "Kandy")
	assert.Len(t, districts["Kandy"].Points, 1)
}
