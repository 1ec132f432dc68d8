package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostStatus string

const (
	StatusActive  PostStatus = "active"
	StatusFlagged PostStatus = "flagged"
	StatusRemoved PostStatus = "removed"
)

// Post is the single domain record: an uploaded image reference combined
// with a required coordinate pair. OwnerID is always stored; IsAnonymous
// only controls display-name masking on the read path.
type Post struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     string         `gorm:"type:uuid;not null;index" json:"owner_id"`
	DisplayName string         `gorm:"type:varchar(255)" json:"display_name"`
	ImageURL    string         `gorm:"type:varchar(500);not null" json:"image_url"`
	ImagePath   string         `gorm:"type:varchar(500);not null" json:"image_path"`
	Latitude    float64        `gorm:"not null" json:"latitude"`
	Longitude   float64        `gorm:"not null" json:"longitude"`
	Description string         `gorm:"type:varchar(500)" json:"description"`
	IsAnonymous bool           `gorm:"default:false" json:"is_anonymous"`
	Status      PostStatus     `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
