package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleCase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Single word",
			input:    "colombo",
			expected: "Colombo",
		},
		{
			name:     "Two words",
			input:    "nuwara eliya",
			expected: "Nuwara Eliya",
		},
		{
			name:     "Already cased",
			input:    "Mount Lavinia",
			expected: "Mount Lavinia",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleCase(tt.input))
		})
	}
}

func TestIsKnownDistrict(t *testing.T) {
	assert.True(t, IsKnownDistrict("gampaha"))
	assert.True(t, IsKnownDistrict("  Nuwara Eliya "))
	assert.False(t, IsKnownDistrict("nugegoda")) // city, not a district
	assert.False(t, IsKnownDistrict(""))
}

func TestDistrictVocabulary(t *testing.T) {
	// Sri Lanka has exactly 25 administrative districts
	assert.Len(t, Districts, 25)

	seen := make(map[string]bool)
	for _, d := range Districts {
		assert.Equal(t, NormalizeLocation(d), d, "district entries must be lowercase")
		assert.False(t, seen[d], "duplicate district: %s", d)
		seen[d] = true
	}
}

func TestGetAreaByName(t *testing.T) {
	area := GetAreaByName("Colombo")
	assert.NotNil(t, area)
	assert.Equal(t, "colombo", area.Name)
	assert.InDelta(t, 79.8612, area.Center.Lon(), 0.001)
	assert.InDelta(t, 6.9271, area.Center.Lat(), 0.001)

	assert.Nil(t, GetAreaByName("atlantis"))
}

func TestDefaultBound(t *testing.T) {
	bound := DefaultBound()

	// Every configured area center must fall inside the default viewport
	for _, area := range MapAreas {
		assert.True(t, bound.Contains(area.Center),
			"area %s outside default bound", area.Name)
	}
}
