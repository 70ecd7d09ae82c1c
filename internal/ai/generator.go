package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yt-insights/ideator/internal/logger"
	"github.com/yt-insights/ideator/internal/models"
)

// Generator turns a channel profile into content ideas and recommendations.
// It holds no per-call state and is safe for concurrent use.
type Generator struct {
	provider Provider
	log      logger.Logger
}

// NewGenerator creates a Generator backed by provider.
func NewGenerator(provider Provider, log logger.Logger) *Generator {
	return &Generator{provider: provider, log: log}
}

// Generate makes one model call for the profile and returns a result with at
// most IdeaCount ideas and exactly RecommendationCount recommendations. Any
// failure is logged and answered with FallbackContent; Generate never fails.
func (g *Generator) Generate(ctx context.Context, profile models.ChannelProfile) models.GeneratedContent {
	content, err := g.generate(ctx, profile)
	if err != nil {
		fields := []logger.Field{
			logger.String("channel_title", profile.Title),
			logger.Error(err),
		}
		var tagErr *models.UnknownTagError
		if errors.As(err, &tagErr) {
			fields = append(fields, logger.String("unknown_tag", tagErr.Tag))
		}
		g.log.Error("Content generation failed, serving fallback", fields...)
		return FallbackContent()
	}
	return content
}

func (g *Generator) generate(ctx context.Context, profile models.ChannelProfile) (models.GeneratedContent, error) {
	system, user := BuildPrompt(profile)

	text, err := g.provider.CompleteJSON(ctx, system, user)
	if err != nil {
		return models.GeneratedContent{}, fmt.Errorf("model call: %w", err)
	}

	content, err := parseGeneratedContent(text)
	if err != nil {
		return models.GeneratedContent{}, err
	}

	return normalize(content), nil
}

// generatedContentWire distinguishes a missing array from an empty one.
type generatedContentWire struct {
	ContentIdeas    *[]models.ContentIdea    `json:"contentIdeas"`
	Recommendations *[]models.Recommendation `json:"recommendations"`
}

func parseGeneratedContent(text string) (models.GeneratedContent, error) {
	var wire generatedContentWire
	if err := json.Unmarshal([]byte(extractJSON(text)), &wire); err != nil {
		return models.GeneratedContent{}, fmt.Errorf("parsing model response: %w", err)
	}
	if wire.ContentIdeas == nil {
		return models.GeneratedContent{}, errors.New("parsing model response: missing contentIdeas")
	}
	if wire.Recommendations == nil {
		return models.GeneratedContent{}, errors.New("parsing model response: missing recommendations")
	}

	// Entries without a type never reach the enum decoders.
	for i, idea := range *wire.ContentIdeas {
		if idea.IdeaType == "" {
			return models.GeneratedContent{}, fmt.Errorf("parsing model response: contentIdeas[%d] has no ideaType", i)
		}
	}
	for i, rec := range *wire.Recommendations {
		if rec.Type == "" {
			return models.GeneratedContent{}, fmt.Errorf("parsing model response: recommendations[%d] has no type", i)
		}
	}

	return models.GeneratedContent{
		ContentIdeas:    *wire.ContentIdeas,
		Recommendations: *wire.Recommendations,
	}, nil
}

// normalize caps ideas at IdeaCount and brings recommendations to exactly
// RecommendationCount: surplus entries are cut from the end, and missing
// types are filled in canonical order.
func normalize(content models.GeneratedContent) models.GeneratedContent {
	if len(content.ContentIdeas) > IdeaCount {
		content.ContentIdeas = content.ContentIdeas[:IdeaCount]
	}

	recs := content.Recommendations
	switch {
	case len(recs) > RecommendationCount:
		recs = recs[:RecommendationCount]
	case len(recs) < RecommendationCount:
		present := make(map[models.RecommendationType]bool, len(recs))
		for _, r := range recs {
			present[r.Type] = true
		}
		for _, t := range models.RecommendationTypes {
			if len(recs) >= RecommendationCount {
				break
			}
			if !present[t] {
				recs = append(recs, fillerRecommendation(t))
			}
		}
	}
	content.Recommendations = recs

	return content
}

func fillerRecommendation(t models.RecommendationType) models.Recommendation {
	return models.Recommendation{
		Title: Humanize(string(t)) + " Strategy",
		Content: fmt.Sprintf("Based on your channel's content, we recommend focusing on %s to improve your channel performance.",
			strings.ReplaceAll(string(t), "_", " ")),
		Type: t,
	}
}

// Humanize turns a snake_case tag into space-separated words with the first
// letter of each capitalized: "audience_growth" becomes "Audience Growth".
func Humanize(tag string) string {
	words := strings.Split(tag, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
