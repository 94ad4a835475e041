package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusPending  = "pending"
	StatusApproved = "approved"
)

type Account struct {
	StudentID        string    `gorm:"primaryKey;type:varchar(64)" json:"studentId"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"not null" json:"-"`
	Gender           string    `gorm:"type:varchar(20);not null" json:"gender"`
	IdentityDocument string    `gorm:"type:text;not null" json:"identityDocument"`
	Bio              *string   `gorm:"type:text" json:"bio,omitempty"`
	ProfilePhoto     *string   `gorm:"type:text" json:"profilePhoto,omitempty"`
	Role             string    `gorm:"type:varchar(20);not null;default:user" json:"role"`
	Status           string    `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Principal returns the identity the account acts as.
func (a *Account) Principal() Principal {
	return Principal{
		StudentID: a.StudentID,
		Email:     a.Email,
		Role:      a.Role,
		Status:    a.Status,
	}
}
