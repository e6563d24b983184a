package geometry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

// District collects the coordinates of a district's active listings and the
// boundary hull derived from them.
type District struct {
	Name   string
	Points []orb.Point
	Hull   *geojson.Feature
}

// DistrictManager derives district boundaries from listing coordinates and
// keeps them in the district_hulls table for the map frontend.
type DistrictManager struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewDistrictManager(db *sql.DB, logger *logrus.Logger) *DistrictManager {
	return &DistrictManager{
		db:     db,
		logger: logger,
	}
}

// CollectDistrictPoints gathers the coordinates of geocoded active listings
// grouped by district. Duplicate coordinates are collapsed so clusters of
// listings at the same geocoded city center count once.
func (dm *DistrictManager) CollectDistrictPoints() (map[string]*District, error) {
	rows, err := dm.db.Query(`
		SELECT district, longitude, latitude
		FROM listings
		WHERE status = 'active'
		AND district != ''
		AND latitude IS NOT NULL
		AND longitude IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query district points: %v", err)
	}
	defer rows.Close()

	districts := make(map[string]*District)
	seen := make(map[string]bool)

	for rows.Next() {
		var name string
		var lon, lat float64
		if err := rows.Scan(&name, &lon, &lat); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}

		key := fmt.Sprintf("%s|%.6f,%.6f", name, lat, lon)
		if seen[key] {
			continue
		}
		seen[key] = true

		district, ok := districts[name]
		if !ok {
			district = &District{Name: name}
			districts[name] = district
		}
		district.Points = append(district.Points, orb.Point{lon, lat})
	}

	return districts, rows.Err()
}

func angle(center, p orb.Point) float64 {
	return math.Atan2(p[1]-center[1], p[0]-center[0])
}

// sortPointsByAngle orders points counterclockwise around the center, the
// sweep order the Graham scan expects.
func sortPointsByAngle(points []orb.Point, center orb.Point) {
	sort.Slice(points, func(i, j int) bool {
		angleI := angle(center, points[i])
		angleJ := angle(center, points[j])
		return angleI < angleJ
	})
}

func distance(p1, p2 orb.Point) float64 {
	dx := p2[0] - p1[0]
	dy := p2[1] - p1[1]
	return dx*dx + dy*dy
}

func interpolatePoints(p1, p2 orb.Point, t float64) orb.Point {
	return orb.Point{
		p1[0] + t*(p2[0]-p1[0]),
		p1[1] + t*(p2[1]-p1[1]),
	}
}

func bufferHull(hull orb.Ring, bufferDistance float64) orb.Ring {
	if len(hull) < 4 {
		return hull
	}

	// Create a new ring with interpolated points
	var buffered []orb.Point
	numPoints := len(hull)

	for i := 0; i < numPoints-1; i++ {
		p1 := hull[i]
		p2 := hull[(i+1)%numPoints]

		// Add original point
		buffered = append(buffered, p1)

		// Calculate distance between points
		dist := distance(p1, p2)
		if dist > bufferDistance*bufferDistance*4 {
			// Add interpolated points if points are far apart
			numInterpolated := int(dist / (bufferDistance * bufferDistance))
			for j := 1; j < numInterpolated; j++ {
				t := float64(j) / float64(numInterpolated)
				buffered = append(buffered, interpolatePoints(p1, p2, t))
			}
		}
	}

	// Close the ring
	buffered = append(buffered, buffered[0])

	// Smooth the corners
	smoothed := make([]orb.Point, 0, len(buffered))
	for i := 0; i < len(buffered)-1; i++ {
		p1 := buffered[i]
		p2 := buffered[(i+1)%len(buffered)]
		p3 := buffered[(i+2)%len(buffered)]

		// Add the current point
		smoothed = append(smoothed, p1)

		// Add rounded corner points
		v1x := p2[0] - p1[0]
		v1y := p2[1] - p1[1]
		v2x := p3[0] - p2[0]
		v2y := p3[1] - p2[1]

		// Normalize vectors; distance returns the squared length
		v1len := math.Sqrt(distance(p1, p2))
		v2len := math.Sqrt(distance(p2, p3))
		if v1len > 0 && v2len > 0 {
			v1x /= v1len
			v1y /= v1len
			v2x /= v2len
			v2y /= v2len

			// Calculate angle between vectors
			dot := v1x*v2x + v1y*v2y
			if dot < 0.9 { // Only round sharp corners
				// Add arc points
				numArcPoints := 5
				for j := 1; j < numArcPoints; j++ {
					t := float64(j) / float64(numArcPoints)
					smoothed = append(smoothed, orb.Point{
						p2[0] + bufferDistance*(-v1x*t+v2x*(1-t)),
						p2[1] + bufferDistance*(-v1y*t+v2y*(1-t)),
					})
				}
			}
		}
	}

	// Close the ring
	smoothed = append(smoothed, smoothed[0])

	return orb.Ring(smoothed)
}

func generateConvexHull(points []orb.Point) orb.Ring {
	if len(points) < 3 {
		return nil
	}

	// Find the leftmost point
	leftmost := points[0]
	leftmostIdx := 0
	for i := 1; i < len(points); i++ {
		if points[i][0] < leftmost[0] {
			leftmost = points[i]
			leftmostIdx = i
		}
	}

	// Move leftmost point to first position
	points[0], points[leftmostIdx] = points[leftmostIdx], points[0]

	// Sort remaining points by angle
	sortPointsByAngle(points[1:], points[0])

	// Graham scan
	hull := []orb.Point{points[0], points[1]}
	for i := 2; i < len(points); i++ {
		for len(hull) > 1 {
			n := len(hull)
			// Calculate cross product
			v1x := hull[n-1][0] - hull[n-2][0]
			v1y := hull[n-1][1] - hull[n-2][1]
			v2x := points[i][0] - hull[n-2][0]
			v2y := points[i][1] - hull[n-2][1]
			cross := v1x*v2y - v1y*v2x

			if cross >= 0 {
				break
			}
			hull = hull[:n-1]
		}
		hull = append(hull, points[i])
	}

	// Close the ring
	if len(hull) > 2 {
		hull = append(hull, hull[0])
	}

	// Buffer the hull to create smoother boundaries
	return bufferHull(orb.Ring(hull), 0.001)
}

// GenerateHulls computes a buffered convex hull for every district with at
// least three distinct listing coordinates.
func (dm *DistrictManager) GenerateHulls(districts map[string]*District) error {
	for name, district := range districts {
		if len(district.Points) < 3 {
			dm.logger.Warnf("Not enough points for district %s (minimum 3 required)", name)
			continue
		}

		points := make([]orb.Point, len(district.Points))
		copy(points, district.Points)

		hull := generateConvexHull(points)
		if hull == nil {
			continue
		}

		feature := geojson.NewFeature(hull)
		feature.Properties = geojson.Properties{
			"district":      district.Name,
			"point_count":   len(district.Points),
			"geometry_type": "hull",
			"hull_type":     "convex",
		}

		district.Hull = feature
	}

	return nil
}

// SaveDistrictHulls stores the generated hulls, replacing any previous
// boundary for each district.
func (dm *DistrictManager) SaveDistrictHulls(districts map[string]*District) error {
	now := time.Now().UTC().Format(time.RFC3339)

	saved := 0
	for _, district := range districts {
		if district.Hull == nil {
			continue
		}

		feature, err := json.Marshal(district.Hull)
		if err != nil {
			return fmt.Errorf("failed to encode hull for %s: %v", district.Name, err)
		}

		_, err = dm.db.Exec(`
			INSERT INTO district_hulls (district, feature, point_count, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(district) DO UPDATE SET
				feature = excluded.feature,
				point_count = excluded.point_count,
				updated_at = excluded.updated_at
		`, district.Name, string(feature), len(district.Points), now)
		if err != nil {
			return fmt.Errorf("failed to save hull for %s: %v", district.Name, err)
		}
		saved++
	}

	dm.logger.Infof("Saved %d district hulls", saved)
	return nil
}

// UpdateDistrictHulls regenerates every district boundary from the current
// listing coordinates.
func (dm *DistrictManager) UpdateDistrictHulls() error {
	districts, err := dm.CollectDistrictPoints()
	if err != nil {
		return fmt.Errorf("failed to collect district points: %v", err)
	}

	if err := dm.GenerateHulls(districts); err != nil {
		return fmt.Errorf("failed to generate hulls: %v", err)
	}

	return dm.SaveDistrictHulls(districts)
}
