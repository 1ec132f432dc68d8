package entity

import "time"

type PostStatus string

const (
	StatusActive  PostStatus = "active"
	StatusFlagged PostStatus = "flagged"
	StatusRemoved PostStatus = "removed"
)

// AnonymousDisplayName replaces the owner's display name on the read path
// when a post is anonymous. The owner id is still stored.
const AnonymousDisplayName = "Anonymous"

const MaxDescriptionLength = 500

type Post struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	DisplayName string     `json:"display_name"`
	ImageURL    string     `json:"image_url"`
	ImagePath   string     `json:"image_path"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Description string     `json:"description"`
	IsAnonymous bool       `json:"is_anonymous"`
	Status      PostStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PublicDisplayName masks the owner label for anonymous posts.
func (p *Post) PublicDisplayName() string {
	if p.IsAnonymous {
		return AnonymousDisplayName
	}
	return p.DisplayName
}
