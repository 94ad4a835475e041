package dto

import (
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
)

type UpdateProfileRequest struct {
	Bio   string `json:"bio"`
	Photo string `json:"photo"` // base64 or data URI
}

type AccountResponse struct {
	StudentID        string  `json:"studentId"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Gender           string  `json:"gender"`
	IdentityDocument string  `json:"identityDocument"`
	Bio              *string `json:"bio,omitempty"`
	ProfilePhoto     *string `json:"profilePhoto,omitempty"`
	Role             string  `json:"role"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"createdAt"`
}

// ContactResponse is all that is disclosed about a listing owner.
type ContactResponse struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	StudentID string `json:"studentId"`
}

func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		StudentID:        a.StudentID,
		Name:             a.Name,
		Email:            a.Email,
		Gender:           a.Gender,
		IdentityDocument: a.IdentityDocument,
		Bio:              a.Bio,
		ProfilePhoto:     a.ProfilePhoto,
		Role:             a.Role,
		Status:           a.Status,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	}
}

func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, ToAccountResponse(&accounts[i]))
	}
	return out
}
