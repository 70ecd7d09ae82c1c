package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yt-insights/ideator/internal/ai"
	"github.com/yt-insights/ideator/internal/logger"
	"github.com/yt-insights/ideator/internal/models"
)

// cacheHeader reports whether insights were served from the cache.
const cacheHeader = "X-Insights-Cache"

// ProfileLoader builds the generator input for a channel.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, channelID string, limit int) (models.ChannelProfile, error)
}

// ContentGenerator produces content ideas and recommendations for a profile.
type ContentGenerator interface {
	Generate(ctx context.Context, profile models.ChannelProfile) models.GeneratedContent
}

// EngagementStore caches generated results per channel.
type EngagementStore interface {
	GetLatestEngagement(channelID string, engagementType models.EngagementType) (*models.ChannelEngagement, error)
	StoreEngagement(engagement *models.ChannelEngagement) error
}

// InsightsHandler serves generated content ideas and recommendations.
type InsightsHandler struct {
	profiles   ProfileLoader
	generator  ContentGenerator
	store      EngagementStore
	log        logger.Logger
	timeout    time.Duration
	videoLimit int
	now        func() time.Time
}

// NewInsightsHandler creates an InsightsHandler. store may be nil, which
// disables caching. timeout bounds each generation including profile
// loading; videoLimit caps the uploads fed into the prompt.
func NewInsightsHandler(profiles ProfileLoader, generator ContentGenerator, store EngagementStore, log logger.Logger, timeout time.Duration, videoLimit int) *InsightsHandler {
	return &InsightsHandler{
		profiles:   profiles,
		generator:  generator,
		store:      store,
		log:        log,
		timeout:    timeout,
		videoLimit: videoLimit,
		now:        time.Now,
	}
}

// GetChannelInsights handles GET /channel/:id/insights. A result cached
// today is returned as-is unless refresh=true.
func (h *InsightsHandler) GetChannelInsights(c *gin.Context) {
	channelID := c.Param("id")
	if channelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Channel ID is required"})
		return
	}

	log := h.log.With(logger.String("channel_id", channelID))

	refresh := c.Query("refresh") == "true"
	if h.store != nil && !refresh {
		if cached, ok := h.cachedInsights(channelID, log); ok {
			c.Header(cacheHeader, "hit")
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	profile, err := h.profiles.LoadProfile(ctx, channelID, h.videoLimit)
	if err != nil {
		log.Error("Failed to load channel profile", logger.Error(err))
		respondError(c, err)
		return
	}

	content := h.generator.Generate(ctx, profile)
	fallback := ai.IsFallback(content)
	log.Info("Insights generated",
		logger.Bool("refresh", refresh),
		logger.Bool("fallback", fallback),
		logger.Int("ideas", len(content.ContentIdeas)),
	)

	if h.store != nil && !fallback {
		h.storeInsights(channelID, content, log)
	}

	c.Header(cacheHeader, "miss")
	c.JSON(http.StatusOK, content)
}

// GenerateInsights handles POST /insights with a ChannelProfile body.
func (h *InsightsHandler) GenerateInsights(c *gin.Context) {
	var profile models.ChannelProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	c.JSON(http.StatusOK, h.generator.Generate(ctx, profile))
}

func (h *InsightsHandler) cachedInsights(channelID string, log logger.Logger) (models.GeneratedContent, bool) {
	engagement, err := h.store.GetLatestEngagement(channelID, models.EngagementTypeInsights)
	if err != nil {
		if !errors.Is(err, models.ErrEngagementNotFound) {
			log.Warn("Error fetching cached insights", logger.Error(err))
		}
		return models.GeneratedContent{}, false
	}

	if !engagement.UpdatedOn(h.now()) {
		log.Debug("Cached insights are from a different day",
			logger.Time("updated", engagement.UpdateDate),
		)
		return models.GeneratedContent{}, false
	}

	var content models.GeneratedContent
	if err := json.Unmarshal(engagement.JSONResponse, &content); err != nil {
		log.Warn("Failed to unmarshal cached insights", logger.Error(err))
		return models.GeneratedContent{}, false
	}
	return content, true
}

func (h *InsightsHandler) storeInsights(channelID string, content models.GeneratedContent, log logger.Logger) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Error("Failed to marshal insights", logger.Error(err))
		return
	}

	err = h.store.StoreEngagement(&models.ChannelEngagement{
		ChannelID:      channelID,
		EngagementType: models.EngagementTypeInsights,
		JSONResponse:   data,
	})
	if err != nil {
		log.Error("Failed to store insights", logger.Error(err))
	}
}
