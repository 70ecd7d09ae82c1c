package models

import (
	"sort"
	"time"
)

// Video represents a YouTube video
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
	PublishedAt time.Time `json:"publishedAt"`
	Duration    string    `json:"duration"`
	Thumbnail   string    `json:"thumbnailUrl"`
}

// VideoSortOption represents the available sorting options
type VideoSortOption string

const (
	SortByViews   VideoSortOption = "views"
	SortByLikes   VideoSortOption = "likes"
	SortByRecency VideoSortOption = "recency"
)

// DefaultMaxVideos is the page size used when a request does not set one.
const DefaultMaxVideos = 50

// VideoFilter represents the filter options for videos
type VideoFilter struct {
	SortBy    VideoSortOption `json:"sortBy"`
	MaxVideos int             `json:"maxVideos"`
	MinViews  int64           `json:"minViews"`
	MinLikes  int64           `json:"minLikes"`
}

// Apply filters videos by the minimum thresholds, sorts them and caps the
// result at MaxVideos. The input slice is not modified.
func (f VideoFilter) Apply(videos []Video) []Video {
	out := make([]Video, 0, len(videos))
	for _, v := range videos {
		if v.Views < f.MinViews || v.Likes < f.MinLikes {
			continue
		}
		out = append(out, v)
	}

	switch f.SortBy {
	case SortByViews:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	case SortByLikes:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Likes > out[j].Likes })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	}

	if f.MaxVideos > 0 && len(out) > f.MaxVideos {
		out = out[:f.MaxVideos]
	}
	return out
}
