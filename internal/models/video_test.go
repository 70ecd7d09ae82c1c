package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVideoFilter_Apply(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	videos := []Video{
		{ID: "a", Views: 100, Likes: 10, PublishedAt: base},
		{ID: "b", Views: 500, Likes: 5, PublishedAt: base.Add(48 * time.Hour)},
		{ID: "c", Views: 300, Likes: 30, PublishedAt: base.Add(24 * time.Hour)},
		{ID: "d", Views: 10, Likes: 1, PublishedAt: base.Add(72 * time.Hour)},
	}

	ids := func(vs []Video) []string {
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			out = append(out, v.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter VideoFilter
		want   []string
	}{
		{
			name:   "recency by default",
			filter: VideoFilter{},
			want:   []string{"d", "b", "c", "a"},
		},
		{
			name:   "views",
			filter: VideoFilter{SortBy: SortByViews},
			want:   []string{"b", "c", "a", "d"},
		},
		{
			name:   "likes",
			filter: VideoFilter{SortBy: SortByLikes},
			want:   []string{"c", "a", "b", "d"},
		},
		{
			name:   "thresholds",
			filter: VideoFilter{SortBy: SortByViews, MinViews: 100, MinLikes: 10},
			want:   []string{"c", "a"},
		},
		{
			name:   "max videos",
			filter: VideoFilter{SortBy: SortByRecency, MaxVideos: 2},
			want:   []string{"d", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(videos)))
		})
	}

	assert.Equal(t, "a", videos[0].ID, "input must not be reordered")
}
