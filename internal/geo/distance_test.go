package geo_test

import (
	"testing"
	"waveBackend/internal/geo"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lon1 float64
		lat2, lon2 float64
		expectedKm float64
		delta      float64
	}{
		{
			name:       "same point - zero distance",
			lat1:       0, lon1: 0, lat2: 0, lon2: 0,
			expectedKm: 0,
			delta:      0.0001,
		},
		{
			name:       "0.09 degrees longitude on equator - about 10 km",
			lat1:       0, lon1: 0, lat2: 0, lon2: 0.09,
			expectedKm: 10.007,
			delta:      0.01,
		},
		{
			name:       "one degree latitude - about 111 km",
			lat1:       0, lon1: 0, lat2: 1, lon2: 0,
			expectedKm: 111.19,
			delta:      0.05,
		},
		{
			name:       "moscow to saint petersburg",
			lat1:       55.7558, lon1: 37.6173, lat2: 59.9343, lon2: 30.3351,
			expectedKm: 634,
			delta:      2,
		},
		{
			name:       "symmetric in arguments",
			lat1:       10, lon1: 20, lat2: -5, lon2: 40,
			expectedKm: geo.Haversine(-5, 40, 10, 20),
			delta:      0.0000001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geo.Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expectedKm, got, tt.delta)
		})
	}
}
