package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"no spaces", "London", "London"},
		{"single space", "New York", "New%20York"},
		{"multiple spaces", "Rio de Janeiro", "Rio%20de%20Janeiro"},
		{"leading and trailing spaces", " Oslo ", "%20Oslo%20"},
		{"empty", "", ""},
		{"already escaped input is untouched", "New%20York", "New%20York"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLocation(tt.raw))
		})
	}
}

func TestNormalizeLocation_SpaceAndEscapeConverge(t *testing.T) {
	// Raw inputs differing only by space vs %20 map to the same key.
	assert.Equal(t, NormalizeLocation("New York"), NormalizeLocation("New%20York"))
}

func TestNormalizeLocation_Deterministic(t *testing.T) {
	raw := "San  Francisco"
	assert.Equal(t, NormalizeLocation(raw), NormalizeLocation(raw))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "weather:New%20York", CacheKey("New York"))
	assert.Equal(t, "weather:", CacheKey(""))
}
