package models

// Channel represents a YouTube channel
type Channel struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Subscribers int64  `json:"subscriberCount"`
	ViewCount   int64  `json:"viewCount"`
	VideoCount  int64  `json:"videoCount"`
	Thumbnail   string `json:"thumbnailUrl"`
}
