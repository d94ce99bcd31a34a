package aprs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridSquareToLatLon(t *testing.T) {
	lat, lon, err := GridSquareToLatLon("EN91")
	require.NoError(t, err)
	assert.InDelta(t, 41.5, lat, 1e-9)
	assert.InDelta(t, -81.0, lon, 1e-9)

	lat, lon, err = GridSquareToLatLon("fn31pr")
	require.NoError(t, err)
	assert.InDelta(t, 41.729167, lat, 1e-6)
	assert.InDelta(t, -72.708333, lon, 1e-6)
}

func TestGridSquareToLatLonErrors(t *testing.T) {
	for _, grid := range []string{"", "EN9", "ZZ99", "ENAA", "EN91zz", "EN91k"} {
		_, _, err := GridSquareToLatLon(grid)
		assert.Error(t, err, grid)
	}
}
