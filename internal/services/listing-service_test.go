package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SundayYogurt/bachelor-point/internal/blobstore"
	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/dto"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateListing_PendingForbidden(t *testing.T) {
	f := newFixture(t)
	pending := f.register(t, "6510001", "female", false)

	_, err := f.listingSvc.Create(context.Background(), pending, listingRequest(image("a")))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, err.Error(), "pending approval")
	assert.Equal(t, 0, countBlobs(t, f.fs, blobstore.ListingImages))
}

func TestCreateListing_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "6510001", "female", true)

	req := listingRequest(image("a"), image("b"), image("c"))
	created, err := f.listingSvc.Create(ctx, owner, req)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := f.listingSvc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, req.Title, got.Title)
	assert.Equal(t, req.Description, got.Description)
	assert.Equal(t, req.Rent, got.Rent)
	assert.Equal(t, req.Location, got.Location)
	assert.Equal(t, "female", got.Gender)
	assert.Equal(t, req.AvailableFrom, got.AvailableFrom.Format(domain.DateLayout))
	assert.Equal(t, "6510001", got.OwnerID)
	require.Len(t, got.Images, 3)
	assert.Equal(t, created.Images, got.Images)

	for i, want := range []string{"a", "b", "c"} {
		data, err := afero.ReadFile(f.fs, got.Images[i])
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
	assert.Equal(t, 1, f.producer.Count(domain.EventListingCreated))
}

func TestCreateListing_Validation(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "6510001", "female", true)

	cases := map[string]func(r *dto.ListingRequest){
		"missing title":     func(r *dto.ListingRequest) { r.Title = "" },
		"missing location":  func(r *dto.ListingRequest) { r.Location = " " },
		"bad date":          func(r *dto.ListingRequest) { r.AvailableFrom = "01/02/2026" },
		"zero rent":         func(r *dto.ListingRequest) { r.Rent = 0 },
		"no images":         func(r *dto.ListingRequest) { r.Images = nil },
		"blank image":       func(r *dto.ListingRequest) { r.Images = []string{image("a"), ""} },
		"malformed image":   func(r *dto.ListingRequest) { r.Images = []string{image("a"), "data:image/png;base64,***"} },
		"missing gender":    func(r *dto.ListingRequest) { r.Gender = "" },
		"missing narrative": func(r *dto.ListingRequest) { r.Description = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := listingRequest(image("a"))
			mutate(&req)
			_, err := f.listingSvc.Create(context.Background(), owner, req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	// the malformed case wrote one image before failing and must have removed it
	assert.Equal(t, 0, countBlobs(t, f.fs, blobstore.ListingImages))
}

func TestCreateListing_InsertFailureRemovesAllBlobs(t *testing.T) {
	f := newFixture(t)
	repo := new(mockListingRepository)
	boom := errors.New("disk full")
	repo.On("CreateListing", mock.Anything, mock.Anything).Return(boom)
	svc := NewListingService(repo, f.store, nil, f.producer, nil, nil, ListingOptions{})

	approved := domain.Principal{StudentID: "6510001", Status: domain.StatusApproved}
	_, err := svc.Create(context.Background(), approved, listingRequest(image("a"), image("b")))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countBlobs(t, f.fs, blobstore.ListingImages))
	assert.Equal(t, 0, f.producer.Count(domain.EventListingCreated))
	repo.AssertExpectations(t)
}

func TestListAndListOwn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "6510001", "female", true)
	b := f.register(t, "6510002", "male", true)
	pending := f.register(t, "6510003", "male", false)

	_, err := f.listingSvc.Create(ctx, a, listingRequest(image("a")))
	require.NoError(t, err)
	_, err = f.listingSvc.Create(ctx, b, listingRequest(image("b")))
	require.NoError(t, err)

	all, err := f.listingSvc.List(ctx, a)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := f.listingSvc.ListOwn(ctx, b)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "6510002", own[0].OwnerID)

	_, err = f.listingSvc.List(ctx, pending)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.listingSvc.ListOwn(ctx, pending)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.listingSvc.Get(ctx, pending, own[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.listingSvc.Get(ctx, a, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateListing_MixesReferencesAndNewImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "6510001", "female", true)
	created, err := f.listingSvc.Create(ctx, owner, listingRequest(image("a"), image("b")))
	require.NoError(t, err)

	req := listingRequest(created.Images[1], image("new"), created.Images[0])
	req.Title = "Renovated room"
	updated, err := f.listingSvc.Update(ctx, owner, created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, "Renovated room", updated.Title)
	require.Len(t, updated.Images, 3)
	assert.Equal(t, created.Images[1], updated.Images[0])
	assert.Equal(t, created.Images[0], updated.Images[2])
	data, err := afero.ReadFile(f.fs, updated.Images[1])
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.Equal(t, 3, countBlobs(t, f.fs, blobstore.ListingImages))
}

func TestUpdateListing_NonOwnerIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "6510001", "female", true)
	other := f.register(t, "6510002", "female", true)
	created, err := f.listingSvc.Create(ctx, owner, listingRequest(image("a")))
	require.NoError(t, err)

	req := listingRequest(image("intruder"))
	req.Title = "Hijacked"
	_, err = f.listingSvc.Update(ctx, other, created.ID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrForbidden)

	got, err := f.listingSvc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Room near campus", got.Title)
	// the image stored for the rejected update was removed
	assert.Equal(t, 1, countBlobs(t, f.fs, blobstore.ListingImages))
}

func TestUpdateListing_UnknownReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "6510001", "female", true)
	created, err := f.listingSvc.Create(ctx, owner, listingRequest(image("a")))
	require.NoError(t, err)

	for _, ref := range []string{
		"listing-images/0-000000000000.png",
		"identity-documents/" + created.Images[0][len("listing-images/"):],
		"../secrets.png",
	} {
		_, err = f.listingSvc.Update(ctx, owner, created.ID, listingRequest(image("b"), ref))
		assert.ErrorIs(t, err, domain.ErrValidation, ref)
	}
	assert.Equal(t, 1, countBlobs(t, f.fs, blobstore.ListingImages))
}

func TestDeleteListing(t *testing.T) {
	ctx := context.Background()

	t.Run("unscoped by default", func(t *testing.T) {
		f := newFixture(t)
		owner := f.register(t, "6510001", "female", true)
		other := f.register(t, "6510002", "female", true)
		created, err := f.listingSvc.Create(ctx, owner, listingRequest(image("a")))
		require.NoError(t, err)

		require.NoError(t, f.listingSvc.Delete(ctx, other, created.ID))
		assert.ErrorIs(t, f.listingSvc.Delete(ctx, owner, created.ID), domain.ErrNotFound)
		assert.Equal(t, 1, f.producer.Count(domain.EventListingDeleted))
	})

	t.Run("owner scoped", func(t *testing.T) {
		f := newFixture(t)
		f.listingSvc = NewListingService(f.listings, f.store, nil, f.producer, nil, nil, ListingOptions{OwnerScopedDelete: true})
		owner := f.register(t, "6510001", "female", true)
		other := f.register(t, "6510002", "female", true)
		created, err := f.listingSvc.Create(ctx, owner, listingRequest(image("a")))
		require.NoError(t, err)

		assert.ErrorIs(t, f.listingSvc.Delete(ctx, other, created.ID), domain.ErrNotFound)
		require.NoError(t, f.listingSvc.Delete(ctx, owner, created.ID))
	})
}

func TestGetListing_ReadsThroughCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "6510001", "female", true)
	created, err := f.listingSvc.Create(ctx, owner, listingRequest(image("a")))
	require.NoError(t, err)

	cache := new(mockListingCache)
	svc := NewListingService(f.listings, f.store, cache, f.producer, nil, nil, ListingOptions{})

	cache.On("GetListing", mock.Anything, created.ID).Return(nil, nil).Once()
	cache.On("SetListing", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool { return l.ID == created.ID })).Return(nil).Once()
	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	cached := &domain.Listing{ID: created.ID, Title: "from cache"}
	cache.On("GetListing", mock.Anything, created.ID).Return(cached, nil).Once()
	got, err = svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "from cache", got.Title)

	cache.On("GetListing", mock.Anything, created.ID).Return(nil, errors.New("redis down")).Once()
	cache.On("SetListing", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
	got, err = svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	cache.On("DeleteListing", mock.Anything, created.ID).Return(nil).Twice()
	_, err = svc.Update(ctx, owner, created.ID, listingRequest(created.Images[0]))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner, created.ID))

	cache.AssertExpectations(t)
}
