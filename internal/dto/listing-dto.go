package dto

import (
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
)

// ListingRequest is shared by create and update. On update each image is
// either a new base64 payload or a reference returned earlier.
type ListingRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	AvailableFrom string   `json:"availableFrom"` // YYYY-MM-DD
	Gender        string   `json:"gender"`
	Rent          float64  `json:"rent"`
	Location      string   `json:"location"`
	Images        []string `json:"images"`
}

type ListingResponse struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	AvailableFrom string   `json:"availableFrom"`
	Gender        string   `json:"gender"`
	Rent          float64  `json:"rent"`
	Location      string   `json:"location"`
	Images        []string `json:"images"`
	OwnerID       string   `json:"ownerId"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

func ToListingResponse(l *domain.Listing) ListingResponse {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return ListingResponse{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		AvailableFrom: l.AvailableFrom.Format(domain.DateLayout),
		Gender:        l.Gender,
		Rent:          l.Rent,
		Location:      l.Location,
		Images:        images,
		OwnerID:       l.OwnerID,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     l.UpdatedAt.Format(time.RFC3339),
	}
}

func ToListingResponses(listings []domain.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, ToListingResponse(&listings[i]))
	}
	return out
}
