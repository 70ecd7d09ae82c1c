package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yt-insights/ideator/internal/logger"
	"github.com/yt-insights/ideator/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// maxResultsPerPage is the YouTube Data API page and batch limit.
const maxResultsPerPage = 50

// YouTubeAPI handles YouTube API interactions
type YouTubeAPI struct {
	service  *youtube.Service
	resolver *channelResolver
	log      logger.Logger
}

// NewYouTubeAPI creates a new YouTube API handler. Extra options are applied
// after the API key, so tests can redirect the endpoint.
func NewYouTubeAPI(ctx context.Context, apiKey string, log logger.Logger, opts ...option.ClientOption) (*YouTubeAPI, error) {
	service, err := youtube.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &YouTubeAPI{
		service:  service,
		resolver: newChannelResolver(service),
		log:      log,
	}, nil
}

// LoadProfile builds the generator input for a channel from its title,
// description and most recent uploads.
func (y *YouTubeAPI) LoadProfile(ctx context.Context, channelID string, limit int) (models.ChannelProfile, error) {
	channel, err := y.getChannelInfo(ctx, channelID)
	if err != nil {
		return models.ChannelProfile{}, err
	}

	videos, err := y.getUploads(ctx, channel, limit)
	if err != nil {
		return models.ChannelProfile{}, err
	}

	titles := make([]string, 0, len(videos))
	categoryIDs := make([]string, 0, len(videos))
	for _, v := range videos {
		titles = append(titles, v.Title)
		if v.CategoryID != "" {
			categoryIDs = append(categoryIDs, v.CategoryID)
		}
	}

	names, err := y.getCategoryNames(ctx, categoryIDs)
	if err != nil {
		// The breakdown degrades to raw IDs rather than failing the profile.
		y.log.Warn("Failed to resolve video categories",
			logger.String("channel_id", channelID),
			logger.Error(err),
		)
	}

	return models.ChannelProfile{
		Title:       channel.Snippet.Title,
		Description: channel.Snippet.Description,
		VideoTitles: titles,
		Categories:  categoryBreakdown(categoryIDs, names),
	}, nil
}

// categoryBreakdown converts per-video category IDs into share-of-uploads
// percentages rounded to one decimal, largest first. IDs missing from names
// are reported as-is.
func categoryBreakdown(categoryIDs []string, names map[string]string) []models.CategoryShare {
	if len(categoryIDs) == 0 {
		return []models.CategoryShare{}
	}

	counts := make(map[string]int)
	for _, id := range categoryIDs {
		name := names[id]
		if name == "" {
			name = id
		}
		counts[name]++
	}

	total := float64(len(categoryIDs))
	shares := make([]models.CategoryShare, 0, len(counts))
	for name, n := range counts {
		shares = append(shares, models.CategoryShare{
			Name:       name,
			Percentage: math.Round(float64(n)/total*1000) / 10,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percentage != shares[j].Percentage {
			return shares[i].Percentage > shares[j].Percentage
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}

func (y *YouTubeAPI) getChannelInfo(ctx context.Context, channelID string) (*youtube.Channel, error) {
	response, err := y.service.Channels.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("error fetching channel info: %w", err)
	}

	if len(response.Items) == 0 || response.Items[0].Snippet == nil {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}

	return response.Items[0], nil
}

// getUploads returns the channel's uploads newest first. limit <= 0 fetches
// the whole uploads playlist.
func (y *YouTubeAPI) getUploads(ctx context.Context, channel *youtube.Channel, limit int) ([]models.Video, error) {
	if channel.ContentDetails == nil || channel.ContentDetails.RelatedPlaylists == nil ||
		channel.ContentDetails.RelatedPlaylists.Uploads == "" {
		return nil, fmt.Errorf("uploads playlist not found for channel %s", channel.Id)
	}
	playlistID := channel.ContentDetails.RelatedPlaylists.Uploads

	var videoIDs []string
	nextPageToken := ""
	for {
		call := y.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(maxResultsPerPage).
			Context(ctx)
		if nextPageToken != "" {
			call = call.PageToken(nextPageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("error fetching playlist items: %w", err)
		}

		for _, item := range response.Items {
			if item != nil && item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
				videoIDs = append(videoIDs, item.ContentDetails.VideoId)
			}
		}

		if (limit > 0 && len(videoIDs) >= limit) || response.NextPageToken == "" {
			break
		}
		nextPageToken = response.NextPageToken
	}

	if limit > 0 && len(videoIDs) > limit {
		videoIDs = videoIDs[:limit]
	}

	byID := make(map[string]models.Video, len(videoIDs))
	for start := 0; start < len(videoIDs); start += maxResultsPerPage {
		end := min(start+maxResultsPerPage, len(videoIDs))

		response, err := y.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Id(videoIDs[start:end]...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("error fetching video details: %w", err)
		}

		for _, item := range response.Items {
			if v, ok := toVideo(item); ok {
				byID[v.ID] = v
			}
		}
	}

	// Keep playlist order; videos.list does not promise it.
	videos := make([]models.Video, 0, len(byID))
	for _, id := range videoIDs {
		if v, ok := byID[id]; ok {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func toVideo(v *youtube.Video) (models.Video, bool) {
	if v == nil || v.Snippet == nil {
		return models.Video{}, false
	}

	video := models.Video{
		ID:          v.Id,
		Title:       v.Snippet.Title,
		Description: v.Snippet.Description,
		CategoryID:  v.Snippet.CategoryId,
	}
	if published, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
		video.PublishedAt = published
	}
	if v.Snippet.Thumbnails != nil && v.Snippet.Thumbnails.Default != nil {
		video.Thumbnail = v.Snippet.Thumbnails.Default.Url
	}
	if v.Statistics != nil {
		video.Views = int64(v.Statistics.ViewCount)
		video.Likes = int64(v.Statistics.LikeCount)
		video.Comments = int64(v.Statistics.CommentCount)
	}
	if v.ContentDetails != nil {
		video.Duration = v.ContentDetails.Duration
	}
	return video, true
}

func (y *YouTubeAPI) getCategoryNames(ctx context.Context, categoryIDs []string) (map[string]string, error) {
	unique := make([]string, 0, len(categoryIDs))
	seen := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	names := make(map[string]string, len(unique))
	if len(unique) == 0 {
		return names, nil
	}

	response, err := y.service.VideoCategories.List([]string{"snippet"}).
		Id(unique...).
		Context(ctx).
		Do()
	if err != nil {
		return names, fmt.Errorf("error fetching video categories: %w", err)
	}

	for _, item := range response.Items {
		if item != nil && item.Snippet != nil {
			names[item.Id] = item.Snippet.Title
		}
	}
	return names, nil
}

func toChannel(item *youtube.Channel) *models.Channel {
	channel := &models.Channel{
		ID:          item.Id,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
	}
	if item.Statistics != nil {
		channel.Subscribers = int64(item.Statistics.SubscriberCount)
		channel.ViewCount = int64(item.Statistics.ViewCount)
		channel.VideoCount = int64(item.Statistics.VideoCount)
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
		channel.Thumbnail = item.Snippet.Thumbnails.Default.Url
	}
	return channel
}

// respondError writes err as {"error": ...} with a status derived from it.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrChannelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrUnsupportedURL):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// GetChannelByID handles GET /channel/:id.
func (y *YouTubeAPI) GetChannelByID(c *gin.Context) {
	channelID := c.Param("id")
	if channelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Channel ID is required"})
		return
	}

	item, err := y.getChannelInfo(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChannel(item))
}

// GetChannelByURL handles GET /channel/url?url=.
func (y *YouTubeAPI) GetChannelByURL(c *gin.Context) {
	channelURL := c.Query("url")
	if channelURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "YouTube URL is required"})
		return
	}

	channelID, err := y.resolver.ExtractChannelIDFromURL(c.Request.Context(), channelURL)
	if err != nil {
		respondError(c, err)
		return
	}

	item, err := y.getChannelInfo(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChannel(item))
}

// GetChannelVideos handles GET /channel/:id/videos.
func (y *YouTubeAPI) GetChannelVideos(c *gin.Context) {
	channelID := c.Param("id")
	if channelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Channel ID is required"})
		return
	}

	filter := parseVideoFilter(c)

	channel, err := y.getChannelInfo(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	videos, err := y.getUploads(c.Request.Context(), channel, 0)
	if err != nil {
		y.log.Error("Failed to fetch uploads",
			logger.String("channel_id", channelID),
			logger.Error(err),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, filter.Apply(videos))
}

func parseVideoFilter(c *gin.Context) models.VideoFilter {
	filter := models.VideoFilter{
		SortBy:    models.SortByRecency,
		MaxVideos: models.DefaultMaxVideos,
	}

	switch models.VideoSortOption(c.Query("sortBy")) {
	case models.SortByViews:
		filter.SortBy = models.SortByViews
	case models.SortByLikes:
		filter.SortBy = models.SortByLikes
	}

	if n, err := strconv.Atoi(c.Query("maxVideos")); err == nil && n > 0 {
		filter.MaxVideos = n
	}
	if n, err := strconv.ParseInt(c.Query("minViews"), 10, 64); err == nil {
		filter.MinViews = n
	}
	if n, err := strconv.ParseInt(c.Query("minLikes"), 10, 64); err == nil {
		filter.MinLikes = n
	}

	return filter
}
