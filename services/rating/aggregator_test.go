package rating

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"washx/database"
	"washx/database/repository/memory"
	"washx/models"
	"washx/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	providers *memory.ProviderRepo
	reviews   *memory.ReviewRepo
	agg       *Aggregator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{providers: memory.NewProviderRepo(), reviews: memory.NewReviewRepo()}
	require.NoError(t, f.providers.Create(context.Background(), &models.Provider{
		ID: "prov-1", Name: "Bubbles", Email: "bubbles@example.com", Active: true, Verified: true,
	}))
	f.agg = NewAggregator(f.providers, f.reviews, NewKeyedMutex(), 5)
	return f
}

func (f *fixture) addReview(t *testing.T, id string, score int) models.Review {
	t.Helper()
	r := models.Review{ID: id, BookingID: "booking-" + id, CustomerID: "cust", ProviderID: "prov-1", Rating: score, Comment: "ok"}
	assert.NoError(t, f.reviews.Create(context.Background(), &r))
	return r
}

func (f *fixture) stored(t *testing.T) models.Rating {
	t.Helper()
	p, err := f.providers.GetByID(context.Background(), "prov-1")
	require.NoError(t, err)
	return p.Rating
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		stats models.RatingStats
		want  models.Rating
	}{
		{name: "no reviews", stats: models.RatingStats{}, want: models.Rating{}},
		{name: "single", stats: models.RatingStats{Sum: 4, Count: 1}, want: models.Rating{Average: 4, Count: 1}},
		{name: "mean", stats: models.RatingStats{Sum: 9, Count: 3}, want: models.Rating{Average: 3, Count: 3}},
		{name: "fractional", stats: models.RatingStats{Sum: 9, Count: 2}, want: models.Rating{Average: 4.5, Count: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.stats))
		})
	}
}

func TestOnReviewCreated_FirstAndThird(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := f.addReview(t, "r1", 4)
	got, err := f.agg.OnReviewCreated(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Average)
	assert.Equal(t, 1, got.Count)

	_, err = f.agg.OnReviewCreated(ctx, f.addReview(t, "r2", 2))
	require.NoError(t, err)
	got, err = f.agg.OnReviewCreated(ctx, f.addReview(t, "r3", 3))
	require.NoError(t, err)

	stored := f.stored(t)
	assert.Equal(t, 3.0, stored.Average)
	assert.Equal(t, 3, stored.Count)
	assert.Equal(t, got.Version, stored.Version)
}

func TestRecompute_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addReview(t, "r1", 5)
	f.addReview(t, "r2", 2)

	first, err := f.agg.Recompute(ctx, "prov-1")
	require.NoError(t, err)
	second, err := f.agg.Recompute(ctx, "prov-1")
	require.NoError(t, err)

	assert.Equal(t, first.Average, second.Average)
	assert.Equal(t, first.Count, second.Count)
	assert.Equal(t, 3.5, second.Average)
}

func TestOnReviewDeleted_ResetsToZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.addReview(t, "r1", 5)
	_, err := f.agg.OnReviewCreated(ctx, r)
	require.NoError(t, err)

	_, err = f.reviews.Delete(ctx, r.ID)
	require.NoError(t, err)
	got, err := f.agg.OnReviewDeleted(ctx, r)
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.Average)
	assert.Equal(t, 0, got.Count)
	stored := f.stored(t)
	assert.Equal(t, 0.0, stored.Average)
	assert.Equal(t, 0, stored.Count)
}

func TestRecompute_ProviderMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.agg.Recompute(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	_, err = f.agg.Recompute(context.Background(), "")
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestConcurrentReviews_NoLostUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i, score := range []int{5, 3} {
		wg.Add(1)
		go func(id string, score int) {
			defer wg.Done()
			r := f.addReview(t, id, score)
			_, err := f.agg.OnReviewCreated(ctx, r)
			assert.NoError(t, err)
		}(fmt.Sprintf("r%d", i), score)
	}
	wg.Wait()

	stored := f.stored(t)
	assert.Equal(t, 4.0, stored.Average)
	assert.Equal(t, 2, stored.Count)
}

// noopLocker leaves serialization entirely to the version check.
type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

func TestConcurrentReviews_VersionCheckAlone(t *testing.T) {
	f := newFixture(t)
	const n = 20
	f.agg = NewAggregator(f.providers, f.reviews, noopLocker{}, n+5)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := f.addReview(t, fmt.Sprintf("r%02d", i), i%5+1)
			_, err := f.agg.OnReviewCreated(ctx, r)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored := f.stored(t)
	assert.Equal(t, n, stored.Count)
	assert.Equal(t, 3.0, stored.Average)
}

type conflictingProviders struct {
	*memory.ProviderRepo
	conflicts int
	writes    int
}

func (c *conflictingProviders) UpdateRating(ctx context.Context, id string, r models.Rating, v int) error {
	c.writes++
	if c.conflicts > 0 {
		c.conflicts--
		return fmt.Errorf("stub: %w", database.ErrVersionConflict)
	}
	return c.ProviderRepo.UpdateRating(ctx, id, r, v)
}

func TestRecompute_RetriesVersionConflicts(t *testing.T) {
	f := newFixture(t)
	f.addReview(t, "r1", 4)

	stub := &conflictingProviders{ProviderRepo: f.providers, conflicts: 2}
	agg := NewAggregator(stub, f.reviews, NewKeyedMutex(), 3)

	got, err := agg.Recompute(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stub.writes)
	assert.Equal(t, 4.0, got.Average)
}

func TestRecompute_GivesUpWithConflict(t *testing.T) {
	f := newFixture(t)
	f.addReview(t, "r1", 4)

	stub := &conflictingProviders{ProviderRepo: f.providers, conflicts: 10}
	agg := NewAggregator(stub, f.reviews, NewKeyedMutex(), 3)

	_, err := agg.Recompute(context.Background(), "prov-1")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Equal(t, 3, stub.writes)
	assert.Equal(t, 0, f.stored(t).Count)
}

func TestRecompute_LockTimeoutIsConflict(t *testing.T) {
	f := newFixture(t)
	locker := NewKeyedMutex()
	agg := NewAggregator(f.providers, f.reviews, locker, 3)

	unlock, err := locker.Lock(context.Background(), "prov-1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = agg.Recompute(ctx, "prov-1")
	assert.True(t, utils.IsKind(err, utils.KindConflict))
}
