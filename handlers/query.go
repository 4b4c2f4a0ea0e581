package handlers

import (
	"strconv"
	"strings"

	"washx/models"
	"washx/utils"

	"github.com/gin-gonic/gin"
)

// NearbyDefaults fill in radius queries that omit radius or limit.
type NearbyDefaults struct {
	RadiusKm float64
	Limit    int
	MaxLimit int
}

func queryFloat(c *gin.Context, key string) (value float64, present bool, err error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, utils.ValidationError("%s must be a number", key)
	}
	return value, true, nil
}

func queryInt(c *gin.Context, key string) (value int, present bool, err error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, utils.ValidationError("%s must be an integer", key)
	}
	return value, true, nil
}

// queryPoint reads lat/lng. Both or neither must be supplied.
func queryPoint(c *gin.Context) (*models.LatLng, error) {
	lat, hasLat, err := queryFloat(c, "lat")
	if err != nil {
		return nil, err
	}
	lng, hasLng, err := queryFloat(c, "lng")
	if err != nil {
		return nil, err
	}
	if hasLat != hasLng {
		return nil, utils.ValidationError("lat and lng must be supplied together")
	}
	if !hasLat {
		return nil, nil
	}
	return &models.LatLng{Lat: lat, Lng: lng}, nil
}

// includeInactive honours the flag for admins only.
func includeInactive(c *gin.Context) bool {
	if !isAdmin(c) {
		return false
	}
	v, err := strconv.ParseBool(c.Query("includeInactive"))
	return err == nil && v
}

func parseNearbyQuery(c *gin.Context, defaults NearbyDefaults) (models.NearbyQuery, error) {
	point, err := queryPoint(c)
	if err != nil {
		return models.NearbyQuery{}, err
	}
	if point == nil {
		return models.NearbyQuery{}, utils.ValidationError("lat and lng are required")
	}
	radius, hasRadius, err := queryFloat(c, "radius")
	if err != nil {
		return models.NearbyQuery{}, err
	}
	if !hasRadius {
		radius = defaults.RadiusKm
	}
	limit, hasLimit, err := queryInt(c, "limit")
	if err != nil {
		return models.NearbyQuery{}, err
	}
	if !hasLimit {
		limit = defaults.Limit
	}
	if limit < 1 && hasLimit {
		return models.NearbyQuery{}, utils.ValidationError("limit must be at least 1")
	}
	if defaults.MaxLimit > 0 && limit > defaults.MaxLimit {
		limit = defaults.MaxLimit
	}
	return models.NearbyQuery{
		Point:           *point,
		RadiusKm:        radius,
		Limit:           limit,
		IncludeInactive: includeInactive(c),
	}, nil
}

func parseDiscoveryQuery(c *gin.Context) (models.DiscoveryQuery, error) {
	point, err := queryPoint(c)
	if err != nil {
		return models.DiscoveryQuery{}, err
	}
	minRating, _, err := queryFloat(c, "minRating")
	if err != nil {
		return models.DiscoveryQuery{}, err
	}
	maxDistance, _, err := queryFloat(c, "maxDistance")
	if err != nil {
		return models.DiscoveryQuery{}, err
	}
	limit, _, err := queryInt(c, "limit")
	if err != nil {
		return models.DiscoveryQuery{}, err
	}
	return models.DiscoveryQuery{
		Point:           point,
		Search:          c.Query("search"),
		MinRating:       minRating,
		MaxDistanceKm:   maxDistance,
		ServiceCategory: c.Query("serviceType"),
		SortBy:          models.SortKey(c.Query("sortBy")),
		Limit:           limit,
		IncludeInactive: includeInactive(c),
	}, nil
}
