package provider

import (
	"context"
	"testing"

	"washx/database/repository/memory"
	"washx/models"
	"washx/services/geo"
	"washx/services/rating"
	"washx/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nairobi = models.LatLng{Lat: -1.2921, Lng: 36.8219}

func newService() *DefaultProviderService {
	providers := memory.NewProviderRepo()
	reviews := memory.NewReviewRepo()
	return &DefaultProviderService{
		Repo:     providers,
		Services: memory.NewServiceRepo(),
		Reviews:  reviews,
		Index:    geo.NewMemoryIndex(),
		Ratings:  rating.NewAggregator(providers, reviews, rating.NewKeyedMutex(), 3),
	}
}

func register(t *testing.T, s *DefaultProviderService, email string, at *models.LatLng) *models.Provider {
	t.Helper()
	p, err := s.Register(context.Background(), models.ProviderRegistration{Name: "Suds " + email, Email: email, Location: at})
	require.NoError(t, err)
	return p
}

func verify(t *testing.T, s *DefaultProviderService, id string) {
	t.Helper()
	yes := true
	_, err := s.SetStatus(context.Background(), id, models.ProviderStatusUpdate{Verified: &yes})
	require.NoError(t, err)
}

func TestRegister(t *testing.T) {
	s := newService()
	p := register(t, s, "Owner@Example.com", &nairobi)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "owner@example.com", p.Email)
	assert.True(t, p.Active)
	assert.False(t, p.Verified)
	assert.Equal(t, models.Rating{}, p.Rating)

	_, err := s.Register(context.Background(), models.ProviderRegistration{Name: "Dup", Email: "owner@example.com"})
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	_, err = s.Register(context.Background(), models.ProviderRegistration{Name: "x", Email: "not-an-email"})
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = s.Register(context.Background(), models.ProviderRegistration{Name: "x", Email: "x@y.io", Location: &models.LatLng{Lat: 200}})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestNearbyRespectsVerification(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := register(t, s, "a@x.io", &nairobi)

	q := models.NearbyQuery{Point: nairobi, RadiusKm: 1}
	out, err := s.Nearby(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, out, "unverified providers are hidden")

	verify(t, s, p.ID)
	out, err = s.Nearby(ctx, q)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, p.ID, out[0].Provider.ID)
	assert.InDelta(t, 0, out[0].DistanceKm, 1e-9)

	_, err = s.Nearby(ctx, models.NearbyQuery{Point: nairobi, RadiusKm: -1})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestUpdateLocationReindexes(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := register(t, s, "a@x.io", nil)
	verify(t, s, p.ID)

	q := models.NearbyQuery{Point: nairobi, RadiusKm: 2}
	out, err := s.Nearby(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, out)

	updated, err := s.UpdateLocation(ctx, p.ID, &nairobi)
	require.NoError(t, err)
	assert.NotNil(t, updated.Location)
	out, err = s.Nearby(ctx, q)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = s.UpdateLocation(ctx, p.ID, nil)
	require.NoError(t, err)
	out, err = s.Nearby(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = s.UpdateLocation(ctx, "ghost", &nairobi)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestSetStatus(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := register(t, s, "a@x.io", &nairobi)
	verify(t, s, p.ID)

	no := false
	updated, err := s.SetStatus(ctx, p.ID, models.ProviderStatusUpdate{Active: &no})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.True(t, updated.Verified)

	out, err := s.Nearby(ctx, models.NearbyQuery{Point: nairobi, RadiusKm: 1})
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = s.Nearby(ctx, models.NearbyQuery{Point: nairobi, RadiusKm: 1, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = s.SetStatus(ctx, p.ID, models.ProviderStatusUpdate{})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestCatalogue(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := register(t, s, "a@x.io", nil)

	svc, err := s.AddService(ctx, p.ID, models.ServiceInput{
		Name: "Duvet", Category: "specialty", Price: 12, PriceUnit: "per-item", TurnaroundTime: 48,
	})
	require.NoError(t, err)
	assert.True(t, svc.Active)

	services, err := s.ListServices(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, svc.ID, services[0].ID)

	stored, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{svc.ID}, stored.ServicesOffered)

	_, err = s.AddService(ctx, p.ID, models.ServiceInput{Name: "Bad", Category: "sorcery", Price: 1, PriceUnit: "per-kg", TurnaroundTime: 1})
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = s.AddService(ctx, "ghost", models.ServiceInput{Name: "Duvet", Category: "specialty", Price: 12, PriceUnit: "per-item", TurnaroundTime: 48})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestListReviewsAndRecompute(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := register(t, s, "a@x.io", nil)

	_, err := s.ListReviews(ctx, "ghost", 10)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	reviews, err := s.ListReviews(ctx, p.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	r, err := s.RecomputeRating(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Count)
}
