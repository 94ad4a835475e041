package domain

import "time"

// DateLayout is the wire format of Listing.AvailableFrom.
const DateLayout = "2006-01-02"

type Listing struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	AvailableFrom time.Time `gorm:"type:date;not null" json:"availableFrom"`
	Gender        string    `gorm:"type:varchar(20);not null" json:"gender"`
	Rent          float64   `gorm:"not null" json:"rent"`
	Location      string    `gorm:"type:varchar(255);not null" json:"location"`
	Images        []string  `gorm:"type:text;serializer:json" json:"images"`
	OwnerID       string    `gorm:"type:varchar(64);not null;index" json:"ownerId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
