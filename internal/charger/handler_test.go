package charger

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geoContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/chargers"+query, nil)
	return c
}

func TestParseGeoFilterAbsent(t *testing.T) {
	geo, err := parseGeoFilter(geoContext(t, ""))
	require.NoError(t, err)
	assert.Nil(t, geo)
}

func TestParseGeoFilterAtOrigin(t *testing.T) {
	geo, err := parseGeoFilter(geoContext(t, "?latitude=0&longitude=0&radius_km=5"))
	require.NoError(t, err)
	require.NotNil(t, geo)
	assert.Equal(t, 0.0, geo.Latitude)
	assert.Equal(t, 0.0, geo.Longitude)
	assert.Equal(t, 5.0, geo.RadiusKm)
}

func TestParseGeoFilterHalfPair(t *testing.T) {
	_, err := parseGeoFilter(geoContext(t, "?latitude=18.52"))
	assert.Error(t, err)
}

func TestParseGeoFilterBadNumber(t *testing.T) {
	_, err := parseGeoFilter(geoContext(t, "?latitude=north&longitude=73.85"))
	assert.Error(t, err)
}
