package geo

import (
	"math"
	"testing"

	"washx/models"
	"washx/utils"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	oneDegree := 2 * math.Pi * EarthRadiusKm / 360

	tests := []struct {
		name string
		a, b models.LatLng
		want float64
	}{
		{name: "same point", a: models.LatLng{Lat: 10, Lng: 10}, b: models.LatLng{Lat: 10, Lng: 10}, want: 0},
		{name: "one degree of latitude", a: models.LatLng{Lat: 0, Lng: 20}, b: models.LatLng{Lat: 1, Lng: 20}, want: oneDegree},
		{name: "one degree on equator", a: models.LatLng{Lat: 0, Lng: 179.5}, b: models.LatLng{Lat: 0, Lng: -179.5}, want: oneDegree},
		{name: "antipodes", a: models.LatLng{Lat: 0, Lng: 0}, b: models.LatLng{Lat: 0, Lng: 180}, want: math.Pi * EarthRadiusKm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Haversine(tt.a, tt.b), 1e-6)
			assert.InDelta(t, tt.want, Haversine(tt.b, tt.a), 1e-6)
		})
	}
}

func TestValidateQuery(t *testing.T) {
	ok := models.LatLng{Lat: 40.7128, Lng: -74.0060}
	tests := []struct {
		name    string
		q       models.NearbyQuery
		wantErr bool
	}{
		{name: "valid", q: models.NearbyQuery{Point: ok, RadiusKm: 2}},
		{name: "negative radius", q: models.NearbyQuery{Point: ok, RadiusKm: -1}, wantErr: true},
		{name: "zero radius", q: models.NearbyQuery{Point: ok, RadiusKm: 0}, wantErr: true},
		{name: "NaN radius", q: models.NearbyQuery{Point: ok, RadiusKm: math.NaN()}, wantErr: true},
		{name: "lat too large", q: models.NearbyQuery{Point: models.LatLng{Lat: 91}, RadiusKm: 1}, wantErr: true},
		{name: "lng too small", q: models.NearbyQuery{Point: models.LatLng{Lng: -180.5}, RadiusKm: 1}, wantErr: true},
		{name: "negative limit", q: models.NearbyQuery{Point: ok, RadiusKm: 1, Limit: -2}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.q)
			if tt.wantErr {
				assert.True(t, utils.IsKind(err, utils.KindValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}
