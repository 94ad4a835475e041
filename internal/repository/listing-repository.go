package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"gorm.io/gorm"
)

var listingColumns = []string{"title", "description", "available_from", "gender", "rent", "location", "images"}

type ListingRepository interface {
	CreateListing(ctx context.Context, listing *domain.Listing) error
	ListListings(ctx context.Context) ([]domain.Listing, error)
	FindListingByID(ctx context.Context, id uint) (*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error)
	// UpdateOwned writes listing only when both its ID and OwnerID match a row.
	UpdateOwned(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id uint) error
	DeleteOwned(ctx context.Context, id uint, ownerID string) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) CreateListing(ctx context.Context, listing *domain.Listing) error {
	if listing == nil {
		return errors.New("nil listing")
	}
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return translate(err, "create listing")
	}
	return nil
}

func (r *listingRepository) ListListings(ctx context.Context) ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&listings).Error; err != nil {
		return nil, translate(err, "list listings")
	}
	return listings, nil
}

func (r *listingRepository) FindListingByID(ctx context.Context, id uint) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, translate(err, "find listing")
	}
	return &listing, nil
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&listings).Error; err != nil {
		return nil, translate(err, "list listings by owner")
	}
	return listings, nil
}

func (r *listingRepository) UpdateOwned(ctx context.Context, listing *domain.Listing) error {
	if listing == nil || listing.ID == 0 || listing.OwnerID == "" {
		return fmt.Errorf("update listing: %w", domain.ErrNotFound)
	}
	res := r.db.WithContext(ctx).
		Model(listing).
		Where("owner_id = ?", listing.OwnerID).
		Select(listingColumns).
		Updates(listing)
	if res.Error != nil {
		return translate(res.Error, "update listing")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update listing: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *listingRepository) DeleteListing(ctx context.Context, id uint) error {
	return r.delete(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *listingRepository) DeleteOwned(ctx context.Context, id uint, ownerID string) error {
	return r.delete(r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID))
}

func (r *listingRepository) delete(scoped *gorm.DB) error {
	res := scoped.Delete(&domain.Listing{})
	if res.Error != nil {
		return translate(res.Error, "delete listing")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete listing: %w", domain.ErrNotFound)
	}
	return nil
}
