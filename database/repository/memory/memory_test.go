package memory

import (
	"context"
	"testing"

	"washx/database"
	bookingRepo "washx/database/repository/booking"
	providerRepo "washx/database/repository/provider"
	"washx/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderRepo_UpdateRatingVersioned(t *testing.T) {
	ctx := context.Background()
	repo := NewProviderRepo()
	require.NoError(t, repo.Create(ctx, &models.Provider{ID: "p1", Name: "Suds", Email: "a@b.c"}))

	require.NoError(t, repo.UpdateRating(ctx, "p1", models.Rating{Average: 4, Count: 1}, 0))

	err := repo.UpdateRating(ctx, "p1", models.Rating{Average: 5, Count: 1}, 0)
	assert.ErrorIs(t, err, database.ErrVersionConflict)

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.Rating{Average: 4, Count: 1, Version: 1}, p.Rating)

	err = repo.UpdateRating(ctx, "missing", models.Rating{}, 0)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestProviderRepo_ListHidesInvisible(t *testing.T) {
	ctx := context.Background()
	repo := NewProviderRepo()
	require.NoError(t, repo.Create(ctx, &models.Provider{ID: "b", Email: "b@x.io", Active: true, Verified: true}))
	require.NoError(t, repo.Create(ctx, &models.Provider{ID: "a", Email: "a@x.io", Active: true}))

	visible, err := repo.List(ctx, providerRepo.ListFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "b", visible[0].ID)

	all, err := repo.List(ctx, providerRepo.ListFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
}

func TestProviderRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewProviderRepo()
	require.NoError(t, repo.Create(ctx, &models.Provider{ID: "p1", Email: "x@y.z"}))
	assert.ErrorIs(t, repo.Create(ctx, &models.Provider{ID: "p2", Email: "x@y.z"}), database.ErrDuplicate)
}

func TestReviewRepo_StatsAndUniqueBooking(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepo()
	for i, score := range []int{4, 2, 3} {
		require.NoError(t, repo.Create(ctx, &models.Review{
			ID: string(rune('a' + i)), BookingID: string(rune('k' + i)), ProviderID: "p1", Rating: score,
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.Review{ID: "z", BookingID: "other", ProviderID: "p2", Rating: 1}))

	stats, err := repo.RatingStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.RatingStats{Sum: 9, Count: 3}, stats)

	err = repo.Create(ctx, &models.Review{ID: "dup", BookingID: "k", ProviderID: "p1", Rating: 5})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	_, err = repo.Delete(ctx, "a")
	require.NoError(t, err)
	stats, err = repo.RatingStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.RatingStats{Sum: 5, Count: 2}, stats)
}

func TestBookingRepo_UpdateStatusCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo()
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b1", Status: models.StatusPending}))

	change := bookingRepo.StatusChange{From: models.StatusPending, To: models.StatusConfirmed,
		History: models.StatusChange{From: models.StatusPending, To: models.StatusConfirmed}}
	updated, err := repo.UpdateStatus(ctx, "b1", change)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Len(t, updated.StatusHistory, 1)

	_, err = repo.UpdateStatus(ctx, "b1", change)
	assert.ErrorIs(t, err, database.ErrVersionConflict)

	_, err = repo.UpdateStatus(ctx, "nope", change)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestServiceRepo_ListByProviders(t *testing.T) {
	ctx := context.Background()
	repo := NewServiceRepo()
	require.NoError(t, repo.Create(ctx, &models.Service{ID: "s2", ProviderID: "p1", Active: true}))
	require.NoError(t, repo.Create(ctx, &models.Service{ID: "s1", ProviderID: "p1", Active: true}))
	require.NoError(t, repo.Create(ctx, &models.Service{ID: "s3", ProviderID: "p1", Active: false}))
	require.NoError(t, repo.Create(ctx, &models.Service{ID: "s4", ProviderID: "p2", Active: true}))

	grouped, err := repo.ListByProviders(ctx, []string{"p1"}, true)
	require.NoError(t, err)
	require.Len(t, grouped["p1"], 2)
	assert.Equal(t, "s1", grouped["p1"][0].ID)
	assert.NotContains(t, grouped, "p2")
}
