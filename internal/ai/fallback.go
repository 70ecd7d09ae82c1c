package ai

import "github.com/yt-insights/ideator/internal/models"

const fallbackMessage = "There was an error connecting to our AI service. Please try again later."

// fallbackContent is returned whenever a generation fails.
var fallbackContent = models.GeneratedContent{
	ContentIdeas: []models.ContentIdea{
		{
			Title:       "Unable to generate content ideas",
			Description: fallbackMessage,
			Potential:   "N/A",
			IdeaType:    models.IdeaTypeTrending,
		},
	},
	Recommendations: []models.Recommendation{
		{
			Title:   "Audience Growth Strategy",
			Content: fallbackMessage,
			Type:    models.RecommendationAudienceGrowth,
		},
		{
			Title:   "Content Optimization",
			Content: fallbackMessage,
			Type:    models.RecommendationContentOptimization,
		},
		{
			Title:   "Audience Engagement",
			Content: fallbackMessage,
			Type:    models.RecommendationAudienceEngagement,
		},
	},
}

// FallbackContent returns a copy of the result served when the model is
// unavailable or misbehaves.
func FallbackContent() models.GeneratedContent {
	return models.GeneratedContent{
		ContentIdeas:    append([]models.ContentIdea(nil), fallbackContent.ContentIdeas...),
		Recommendations: append([]models.Recommendation(nil), fallbackContent.Recommendations...),
	}
}

// IsFallback reports whether content is the fallback result.
func IsFallback(content models.GeneratedContent) bool {
	if len(content.ContentIdeas) != len(fallbackContent.ContentIdeas) ||
		len(content.Recommendations) != len(fallbackContent.Recommendations) {
		return false
	}
	for i, idea := range content.ContentIdeas {
		if idea != fallbackContent.ContentIdeas[i] {
			return false
		}
	}
	for i, rec := range content.Recommendations {
		if rec != fallbackContent.Recommendations[i] {
			return false
		}
	}
	return true
}
