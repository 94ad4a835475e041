package repository

import (
	"context"
	"testing"
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListing(owner string, images ...string) *domain.Listing {
	return &domain.Listing{
		Title:         "Room near campus",
		Description:   "Quiet, furnished",
		AvailableFrom: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Gender:        "female",
		Rent:          4500,
		Location:      "Gate 2",
		Images:        images,
		OwnerID:       owner,
	}
}

func TestListingRepository_CreateAndFind(t *testing.T) {
	repo := NewListingRepository(newTestDB(t))
	ctx := context.Background()

	l := newListing("s1", "listing-images/1-aaaaaaaaaaaa.png", "listing-images/2-bbbbbbbbbbbb.png")
	require.NoError(t, repo.CreateListing(ctx, l))
	require.NotZero(t, l.ID)

	got, err := repo.FindListingByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Images, got.Images)
	assert.Equal(t, "2026-01-15", got.AvailableFrom.Format(domain.DateLayout))
	assert.Equal(t, 4500.0, got.Rent)

	_, err = repo.FindListingByID(ctx, l.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListingRepository_ListByOwner(t *testing.T) {
	repo := NewListingRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.CreateListing(ctx, newListing("s1", "listing-images/1-aaaaaaaaaaaa.png")))
	require.NoError(t, repo.CreateListing(ctx, newListing("s2", "listing-images/2-bbbbbbbbbbbb.png")))
	require.NoError(t, repo.CreateListing(ctx, newListing("s1", "listing-images/3-cccccccccccc.png")))

	all, err := repo.ListListings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	own, err := repo.ListByOwner(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, l := range own {
		assert.Equal(t, "s1", l.OwnerID)
	}

	none, err := repo.ListByOwner(ctx, "s9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListingRepository_UpdateOwned(t *testing.T) {
	repo := NewListingRepository(newTestDB(t))
	ctx := context.Background()
	l := newListing("s1", "listing-images/1-aaaaaaaaaaaa.png")
	require.NoError(t, repo.CreateListing(ctx, l))

	update := newListing("s1", "listing-images/9-ffffffffffff.png", "listing-images/1-aaaaaaaaaaaa.png")
	update.ID = l.ID
	update.Title = "Updated"
	require.NoError(t, repo.UpdateOwned(ctx, update))

	got, err := repo.FindListingByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Title)
	assert.Equal(t, update.Images, got.Images)

	t.Run("other owner touches nothing", func(t *testing.T) {
		foreign := newListing("s2", "listing-images/7-dddddddddddd.png")
		foreign.ID = l.ID
		foreign.Title = "Hijacked"
		assert.ErrorIs(t, repo.UpdateOwned(ctx, foreign), domain.ErrNotFound)

		got, err := repo.FindListingByID(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated", got.Title)
	})
	t.Run("missing id", func(t *testing.T) {
		missing := newListing("s1")
		missing.ID = l.ID + 50
		assert.ErrorIs(t, repo.UpdateOwned(ctx, missing), domain.ErrNotFound)
	})
}

func TestListingRepository_Delete(t *testing.T) {
	repo := NewListingRepository(newTestDB(t))
	ctx := context.Background()
	a := newListing("s1", "listing-images/1-aaaaaaaaaaaa.png")
	b := newListing("s1", "listing-images/2-bbbbbbbbbbbb.png")
	require.NoError(t, repo.CreateListing(ctx, a))
	require.NoError(t, repo.CreateListing(ctx, b))

	assert.ErrorIs(t, repo.DeleteOwned(ctx, a.ID, "s2"), domain.ErrNotFound)
	require.NoError(t, repo.DeleteOwned(ctx, a.ID, "s1"))
	require.NoError(t, repo.DeleteListing(ctx, b.ID))
	assert.ErrorIs(t, repo.DeleteListing(ctx, b.ID), domain.ErrNotFound)

	all, err := repo.ListListings(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
