package interfaces

import (
	"context"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
)

// ListingCache is implemented by the redis cache; GetListing returns nil, nil on a miss.
type ListingCache interface {
	GetListing(ctx context.Context, id uint) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id uint) error
}
