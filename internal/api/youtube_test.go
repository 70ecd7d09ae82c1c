package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yt-insights/ideator/internal/logger"
	"github.com/yt-insights/ideator/internal/models"
	"google.golang.org/api/option"
)

type fakeVideo struct {
	id, title, category, published string
	views, likes                   int
}

// fakeYouTube serves the subset of the Data API the service calls.
type fakeYouTube struct {
	mu       sync.Mutex
	requests []string

	videos          []fakeVideo
	failCategories  bool
	failLookups     bool
	playlistPageLen int
}

func newFakeYouTube() *fakeYouTube {
	return &fakeYouTube{
		playlistPageLen: 2,
		videos: []fakeVideo{
			{id: "v1", title: "Building a walnut desk", category: "26", published: "2025-03-03T10:00:00Z", views: 500, likes: 50},
			{id: "v2", title: "Hand-cut dovetails", category: "26", published: "2025-03-02T10:00:00Z", views: 900, likes: 20},
			{id: "v3", title: "Wood movement explained", category: "27", published: "2025-03-01T10:00:00Z", views: 100, likes: 90},
		},
	}
}

func (f *fakeYouTube) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	f.mu.Unlock()

	q := r.URL.Query()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case f.failLookups && (strings.HasSuffix(r.URL.Path, "/channels") || strings.HasSuffix(r.URL.Path, "/search")):
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"quota"}}`)

	case strings.HasSuffix(r.URL.Path, "/channels"):
		switch {
		case q.Get("forHandle") == "woodshop":
			fmt.Fprint(w, `{"items":[{"id":"UChandle"}]}`)
			return
		case q.Get("forUsername") == "legacyname":
			fmt.Fprint(w, `{"items":[{"id":"UCuser"}]}`)
			return
		case q.Get("id") != "UC1":
			fmt.Fprint(w, `{"items":[]}`)
			return
		}
		fmt.Fprint(w, `{"items":[{
			"id":"UC1",
			"snippet":{"title":"Weekend Woodshop","description":"Small-shop furniture builds","thumbnails":{"default":{"url":"https://img.example/uc1.jpg"}}},
			"statistics":{"subscriberCount":"1200","viewCount":"56000","videoCount":"3"},
			"contentDetails":{"relatedPlaylists":{"uploads":"UU1"}}
		}]}`)

	case strings.HasSuffix(r.URL.Path, "/playlistItems"):
		start := 0
		if tok := q.Get("pageToken"); tok != "" {
			fmt.Sscanf(tok, "p%d", &start)
		}
		end := min(start+f.playlistPageLen, len(f.videos))
		items := make([]map[string]any, 0)
		for _, v := range f.videos[start:end] {
			items = append(items, map[string]any{"contentDetails": map[string]string{"videoId": v.id}})
		}
		resp := map[string]any{"items": items}
		if end < len(f.videos) {
			resp["nextPageToken"] = fmt.Sprintf("p%d", end)
		}
		_ = json.NewEncoder(w).Encode(resp)

	case strings.HasSuffix(r.URL.Path, "/videos"):
		wanted := map[string]bool{}
		for _, id := range q["id"] {
			for _, part := range strings.Split(id, ",") {
				wanted[part] = true
			}
		}
		items := make([]map[string]any, 0)
		// Reverse order: the service must restore playlist order.
		for i := len(f.videos) - 1; i >= 0; i-- {
			v := f.videos[i]
			if !wanted[v.id] {
				continue
			}
			items = append(items, map[string]any{
				"id":             v.id,
				"snippet":        map[string]string{"title": v.title, "categoryId": v.category, "publishedAt": v.published},
				"statistics":     map[string]string{"viewCount": fmt.Sprint(v.views), "likeCount": fmt.Sprint(v.likes), "commentCount": "1"},
				"contentDetails": map[string]string{"duration": "PT10M"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})

	case strings.HasSuffix(r.URL.Path, "/search"):
		if q.Get("q") == "@searchonly" && q.Get("type") == "channel" {
			fmt.Fprint(w, `{"items":[{"id":{"kind":"youtube#channel","channelId":"UCsearch"}}]}`)
			return
		}
		fmt.Fprint(w, `{"items":[]}`)

	case strings.HasSuffix(r.URL.Path, "/videoCategories"):
		if f.failCategories {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"code":403,"message":"quota"}}`)
			return
		}
		fmt.Fprint(w, `{"items":[
			{"id":"26","snippet":{"title":"Howto & Style"}},
			{"id":"27","snippet":{"title":"Education"}}
		]}`)

	default:
		http.NotFound(w, r)
	}
}

func newTestYouTubeAPI(t *testing.T, fake *fakeYouTube) *YouTubeAPI {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	y, err := NewYouTubeAPI(context.Background(), "test-key", logger.NewNop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return y
}

func TestLoadProfile(t *testing.T) {
	y := newTestYouTubeAPI(t, newFakeYouTube())

	profile, err := y.LoadProfile(context.Background(), "UC1", 20)
	require.NoError(t, err)

	assert.Equal(t, models.ChannelProfile{
		Title:       "Weekend Woodshop",
		Description: "Small-shop furniture builds",
		VideoTitles: []string{"Building a walnut desk", "Hand-cut dovetails", "Wood movement explained"},
		Categories: []models.CategoryShare{
			{Name: "Howto & Style", Percentage: 66.7},
			{Name: "Education", Percentage: 33.3},
		},
	}, profile)
}

func TestLoadProfile_RespectsLimit(t *testing.T) {
	y := newTestYouTubeAPI(t, newFakeYouTube())

	profile, err := y.LoadProfile(context.Background(), "UC1", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"Building a walnut desk"}, profile.VideoTitles)
	assert.Equal(t, []models.CategoryShare{{Name: "Howto & Style", Percentage: 100}}, profile.Categories)
}

func TestLoadProfile_CategoryLookupFailureKeepsIDs(t *testing.T) {
	fake := newFakeYouTube()
	fake.failCategories = true
	y := newTestYouTubeAPI(t, fake)

	profile, err := y.LoadProfile(context.Background(), "UC1", 20)
	require.NoError(t, err)

	assert.Equal(t, []models.CategoryShare{
		{Name: "26", Percentage: 66.7},
		{Name: "27", Percentage: 33.3},
	}, profile.Categories)
}

func TestLoadProfile_UnknownChannel(t *testing.T) {
	y := newTestYouTubeAPI(t, newFakeYouTube())

	_, err := y.LoadProfile(context.Background(), "UCmissing", 20)
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestCategoryBreakdown(t *testing.T) {
	names := map[string]string{"10": "Music", "20": "Gaming"}

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, []models.CategoryShare{}, categoryBreakdown(nil, names))
	})

	t.Run("ties sort by name", func(t *testing.T) {
		got := categoryBreakdown([]string{"20", "10"}, names)
		assert.Equal(t, []models.CategoryShare{
			{Name: "Gaming", Percentage: 50},
			{Name: "Music", Percentage: 50},
		}, got)
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		got := categoryBreakdown([]string{"10", "10", "10", "10", "10", "20", "99"}, names)
		assert.Equal(t, []models.CategoryShare{
			{Name: "Music", Percentage: 71.4},
			{Name: "99", Percentage: 14.3},
			{Name: "Gaming", Percentage: 14.3},
		}, got)
	})
}

func setupYouTubeRouter(y *YouTubeAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/channel/url", y.GetChannelByURL)
	router.GET("/channel/:id", y.GetChannelByID)
	router.GET("/channel/:id/videos", y.GetChannelVideos)
	return router
}

func TestGetChannelByID(t *testing.T) {
	router := setupYouTubeRouter(newTestYouTubeAPI(t, newFakeYouTube()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channel/UC1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got models.Channel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.Channel{
		ID:          "UC1",
		Title:       "Weekend Woodshop",
		Description: "Small-shop furniture builds",
		Subscribers: 1200,
		ViewCount:   56000,
		VideoCount:  3,
		Thumbnail:   "https://img.example/uc1.jpg",
	}, got)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channel/UCmissing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetChannelByURL(t *testing.T) {
	router := setupYouTubeRouter(newTestYouTubeAPI(t, newFakeYouTube()))

	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "channel path", url: "https://www.youtube.com/channel/UC1", want: http.StatusOK},
		{name: "missing url", url: "", want: http.StatusBadRequest},
		{name: "video host", url: "https://youtu.be/abc", want: http.StatusBadRequest},
		{name: "unknown channel", url: "https://www.youtube.com/channel/UCmissing", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/channel/url?url="+tt.url, nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGetChannelVideos(t *testing.T) {
	router := setupYouTubeRouter(newTestYouTubeAPI(t, newFakeYouTube()))

	get := func(t *testing.T, query string) []models.Video {
		t.Helper()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channel/UC1/videos"+query, nil))
		require.Equal(t, http.StatusOK, w.Code)
		var videos []models.Video
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &videos))
		return videos
	}
	ids := func(vs []models.Video) []string {
		out := []string{}
		for _, v := range vs {
			out = append(out, v.ID)
		}
		return out
	}

	assert.Equal(t, []string{"v1", "v2", "v3"}, ids(get(t, "")))
	assert.Equal(t, []string{"v2", "v1", "v3"}, ids(get(t, "?sortBy=views")))
	assert.Equal(t, []string{"v3", "v1"}, ids(get(t, "?sortBy=likes&minLikes=50")))
	assert.Equal(t, []string{"v2"}, ids(get(t, "?sortBy=views&maxVideos=1")))

	videos := get(t, "?maxVideos=1")
	require.Len(t, videos, 1)
	assert.Equal(t, models.Video{
		ID:          "v1",
		Title:       "Building a walnut desk",
		CategoryID:  "26",
		Views:       500,
		Likes:       50,
		Comments:    1,
		PublishedAt: time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
		Duration:    "PT10M",
	}, videos[0])
}

func TestParseVideoFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		want  models.VideoFilter
	}{
		{"", models.VideoFilter{SortBy: models.SortByRecency, MaxVideos: 50}},
		{"?sortBy=likes&maxVideos=5&minViews=10&minLikes=2", models.VideoFilter{SortBy: models.SortByLikes, MaxVideos: 5, MinViews: 10, MinLikes: 2}},
		{"?sortBy=bogus&maxVideos=-1&minViews=x", models.VideoFilter{SortBy: models.SortByRecency, MaxVideos: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/channel/UC1/videos"+tt.query, nil)
			assert.Equal(t, tt.want, parseVideoFilter(c))
		})
	}
}
