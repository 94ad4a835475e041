package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/blobstore"
	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/dto"
	"github.com/SundayYogurt/bachelor-point/internal/helper"
	"github.com/SundayYogurt/bachelor-point/internal/interfaces"
	"github.com/SundayYogurt/bachelor-point/internal/repository"
	"github.com/SundayYogurt/bachelor-point/pkg/metrics"
	"go.uber.org/zap"
)

type ListingService interface {
	Create(ctx context.Context, p domain.Principal, input dto.ListingRequest) (*domain.Listing, error)
	List(ctx context.Context, p domain.Principal) ([]domain.Listing, error)
	ListOwn(ctx context.Context, p domain.Principal) ([]domain.Listing, error)
	Get(ctx context.Context, p domain.Principal, id uint) (*domain.Listing, error)
	Update(ctx context.Context, p domain.Principal, id uint, input dto.ListingRequest) (*domain.Listing, error)
	Delete(ctx context.Context, p domain.Principal, id uint) error
}

type ListingOptions struct {
	// OwnerScopedDelete restricts Delete to the caller's own listings.
	OwnerScopedDelete bool
}

type listingService struct {
	repo     repository.ListingRepository
	store    interfaces.BlobStore
	cache    interfaces.ListingCache
	producer interfaces.ProducerHandler
	logger   *zap.Logger
	metrics  *metrics.Metrics
	opts     ListingOptions
}

// NewListingService accepts a nil cache.
func NewListingService(
	repo repository.ListingRepository,
	store interfaces.BlobStore,
	cache interfaces.ListingCache,
	producer interfaces.ProducerHandler,
	logger *zap.Logger,
	m *metrics.Metrics,
	opts ListingOptions,
) ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &listingService{
		repo:     repo,
		store:    store,
		cache:    cache,
		producer: producer,
		logger:   logger.Named("listings"),
		metrics:  m,
		opts:     opts,
	}
}

// listingFields is a validated ListingRequest minus its images.
type listingFields struct {
	title         string
	description   string
	availableFrom time.Time
	gender        string
	rent          float64
	location      string
}

func validateListing(input dto.ListingRequest) (listingFields, error) {
	f := listingFields{
		title:       strings.TrimSpace(input.Title),
		description: strings.TrimSpace(input.Description),
		gender:      helper.NormalizeGender(input.Gender),
		rent:        input.Rent,
		location:    strings.TrimSpace(input.Location),
	}
	if f.title == "" || f.description == "" || f.gender == "" || f.location == "" ||
		strings.TrimSpace(input.AvailableFrom) == "" {
		return f, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}
	date, err := time.Parse(domain.DateLayout, strings.TrimSpace(input.AvailableFrom))
	if err != nil {
		return f, fmt.Errorf("%w: availableFrom must be YYYY-MM-DD", domain.ErrValidation)
	}
	f.availableFrom = date
	if f.rent <= 0 {
		return f, fmt.Errorf("%w: rent must be positive", domain.ErrValidation)
	}
	if len(input.Images) == 0 {
		return f, fmt.Errorf("%w: at least one image is required", domain.ErrValidation)
	}
	for _, img := range input.Images {
		if strings.TrimSpace(img) == "" {
			return f, fmt.Errorf("%w: images must not be empty", domain.ErrValidation)
		}
	}
	return f, nil
}

func (f listingFields) apply(l *domain.Listing) {
	l.Title = f.title
	l.Description = f.description
	l.AvailableFrom = f.availableFrom
	l.Gender = f.gender
	l.Rent = f.rent
	l.Location = f.location
}

func requireApproved(p domain.Principal) error {
	if !p.IsApproved() {
		return fmt.Errorf("%w: account is pending approval", domain.ErrForbidden)
	}
	return nil
}

// Create removes every blob it wrote when any later step fails.
func (s *listingService) Create(ctx context.Context, p domain.Principal, input dto.ListingRequest) (*domain.Listing, error) {
	if err := requireApproved(p); err != nil {
		return nil, err
	}
	fields, err := validateListing(input)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(input.Images))
	for i, img := range input.Images {
		ref, err := s.store.Store(ctx, img, blobstore.ListingImages)
		if err != nil {
			compensate(ctx, s.store, s.metrics, s.logger, "create_listing", refs...)
			return nil, asValidation(err, fmt.Sprintf("images[%d]", i))
		}
		refs = append(refs, ref)
	}

	listing := &domain.Listing{OwnerID: p.StudentID, Images: refs}
	fields.apply(listing)
	if err := s.repo.CreateListing(ctx, listing); err != nil {
		compensate(ctx, s.store, s.metrics, s.logger, "create_listing", refs...)
		return nil, err
	}

	s.logger.Info("listing created", zap.Uint("id", listing.ID), zap.String("owner", p.StudentID))
	s.publish(domain.EventListingCreated, listing, p)
	return listing, nil
}

func (s *listingService) List(ctx context.Context, p domain.Principal) ([]domain.Listing, error) {
	if err := requireApproved(p); err != nil {
		return nil, err
	}
	return s.repo.ListListings(ctx)
}

func (s *listingService) ListOwn(ctx context.Context, p domain.Principal) ([]domain.Listing, error) {
	if err := requireApproved(p); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, p.StudentID)
}

func (s *listingService) Get(ctx context.Context, p domain.Principal, id uint) (*domain.Listing, error) {
	if err := requireApproved(p); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.GetListing(ctx, id)
		if err != nil {
			s.logger.Debug("listing cache read", zap.Uint("id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	listing, err := s.repo.FindListingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetListing(ctx, listing); err != nil {
			s.logger.Debug("listing cache write", zap.Uint("id", id), zap.Error(err))
		}
	}
	return listing, nil
}

// Update only touches a listing owned by p; anything else is reported as not found.
func (s *listingService) Update(ctx context.Context, p domain.Principal, id uint, input dto.ListingRequest) (*domain.Listing, error) {
	fields, err := validateListing(input)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(input.Images))
	var stored []string
	for i, img := range input.Images {
		ref, err := s.store.Resolve(ctx, img, blobstore.ListingImages)
		if err != nil {
			compensate(ctx, s.store, s.metrics, s.logger, "update_listing", stored...)
			return nil, asValidation(err, fmt.Sprintf("images[%d]", i))
		}
		if blobstore.IsEncoded(img) {
			stored = append(stored, ref)
		}
		refs = append(refs, ref)
	}

	listing := &domain.Listing{ID: id, OwnerID: p.StudentID, Images: refs}
	fields.apply(listing)
	if err := s.repo.UpdateOwned(ctx, listing); err != nil {
		compensate(ctx, s.store, s.metrics, s.logger, "update_listing", stored...)
		return nil, err
	}
	s.invalidate(ctx, id)

	updated, err := s.repo.FindListingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("listing updated", zap.Uint("id", id), zap.String("owner", p.StudentID))
	s.publish(domain.EventListingUpdated, updated, p)
	return updated, nil
}

// Delete is scoped to the caller's listings only when OwnerScopedDelete is set.
func (s *listingService) Delete(ctx context.Context, p domain.Principal, id uint) error {
	listing, err := s.repo.FindListingByID(ctx, id)
	if err != nil {
		return err
	}

	if s.opts.OwnerScopedDelete {
		err = s.repo.DeleteOwned(ctx, id, p.StudentID)
	} else {
		err = s.repo.DeleteListing(ctx, id)
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)

	s.logger.Info("listing deleted", zap.Uint("id", id), zap.String("actor", p.StudentID))
	s.publish(domain.EventListingDeleted, listing, p)
	return nil
}

func (s *listingService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteListing(ctx, id); err != nil {
		s.logger.Warn("listing cache invalidate", zap.Uint("id", id), zap.Error(err))
	}
}

func (s *listingService) publish(event string, l *domain.Listing, actor domain.Principal) {
	publish(s.producer, s.logger, event, dto.ListingEvent{
		Event:      event,
		ListingID:  l.ID,
		OwnerID:    l.OwnerID,
		ActorID:    actor.StudentID,
		Images:     len(l.Images),
		OccurredAt: time.Now().UTC(),
	})
}
