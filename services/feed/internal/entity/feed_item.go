package entity

import "time"

// MaxFeedSize caps how many posts a single feed read may return.
const MaxFeedSize = 50

// FeedItem is the read-side view of a post. The display name is already
// masked for anonymous posts; the owner id never leaves the post service.
type FeedItem struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	ImageURL    string    `json:"image_url"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}
