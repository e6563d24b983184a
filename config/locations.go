package config

import (
	"strings"

	"github.com/paulmach/orb"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Districts lists the 25 administrative districts of Sri Lanka, lowercase,
// in the order the extractor scans them.
var Districts = []string{
	"colombo", "gampaha", "kalutara", "kandy", "matale", "nuwara eliya",
	"galle", "matara", "hambantota", "jaffna", "kilinochchi", "mannar",
	"vavuniya", "mullaitivu", "batticaloa", "ampara", "trincomalee",
	"kurunegala", "puttalam", "anuradhapura", "polonnaruwa", "badulla",
	"monaragala", "ratnapura", "kegalle",
}

// PopularCities lists well-known cities and towns, lowercase, in scan order.
// City matches take precedence over district matches.
var PopularCities = []string{
	"colombo", "negombo", "kandy", "galle", "jaffna", "batticaloa",
	"moratuwa", "dehiwala", "mount lavinia", "kotte", "nugegoda",
	"maharagama", "kaduwela", "panadura", "ratnapura", "matara",
	"anuradhapura", "kurunegala", "trincomalee", "weligama", "hikkaduwa",
	"bentota", "unawatuna", "ella", "nuwara eliya", "bandarawela",
}

var titleCaser = cases.Title(language.English)

// TitleCase normalizes a lowercase location token for display,
// e.g. "nuwara eliya" -> "Nuwara Eliya".
func TitleCase(name string) string {
	return titleCaser.String(name)
}

// NormalizeLocation lowercases and trims a location for vocabulary lookup.
func NormalizeLocation(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsKnownDistrict reports whether name is one of the 25 districts.
func IsKnownDistrict(name string) bool {
	name = NormalizeLocation(name)
	for _, d := range Districts {
		if d == name {
			return true
		}
	}
	return false
}

// Area is a map viewport configuration for a district or city
type Area struct {
	Name      string    `json:"name"`
	Center    orb.Point `json:"center"`
	ZoomLevel int       `json:"zoom_level"`
}

// MapAreas is a list of areas the frontend map can jump to
var MapAreas = []Area{
	{
		Name:      "colombo",
		Center:    orb.Point{79.8612, 6.9271},
		ZoomLevel: 12,
	},
	{
		Name:      "gampaha",
		Center:    orb.Point{79.9990, 7.0917},
		ZoomLevel: 12,
	},
	{
		Name:      "kandy",
		Center:    orb.Point{80.6337, 7.2906},
		ZoomLevel: 13,
	},
	{
		Name:      "galle",
		Center:    orb.Point{80.2170, 6.0329},
		ZoomLevel: 13,
	},
	{
		Name:      "jaffna",
		Center:    orb.Point{80.0255, 9.6615},
		ZoomLevel: 13,
	},
	{
		Name:      "negombo",
		Center:    orb.Point{79.8358, 7.2083},
		ZoomLevel: 13,
	},
	{
		Name:      "anuradhapura",
		Center:    orb.Point{80.4037, 8.3114},
		ZoomLevel: 13,
	},
	// Add more areas here as needed
}

// GetAreaNames returns a list of configured area names
func GetAreaNames() []string {
	names := make([]string, len(MapAreas))
	for i, area := range MapAreas {
		names[i] = area.Name
	}
	return names
}

// GetAreaByName returns an area configuration by name
func GetAreaByName(name string) *Area {
	name = NormalizeLocation(name)
	for _, area := range MapAreas {
		if area.Name == name {
			return &area
		}
	}
	return nil
}

// DefaultBound returns the bounding box enclosing all configured area
// centers, used as the default map viewport.
func DefaultBound() orb.Bound {
	points := make(orb.MultiPoint, len(MapAreas))
	for i, area := range MapAreas {
		points[i] = area.Center
	}
	return points.Bound()
}
