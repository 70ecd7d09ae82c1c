package ai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yt-insights/ideator/internal/models"
)

const (
	// IdeaCount is how many content ideas are requested and the most returned.
	IdeaCount = 8
	// RecommendationCount is how many recommendations every result carries.
	RecommendationCount = 3
)

const systemPrompt = "You are a YouTube content strategist who helps creators optimize their channel and generate engaging content ideas. You provide data-driven insights to help creators grow."

const userPromptTmpl = `Please analyze this YouTube channel and generate content ideas and recommendations:

Channel name: %s
Channel description: %s

Recent video titles:
%s

Content categories:
%s

Based on this data, please generate:

1. Eight content ideas that would perform well for this channel
2. Three strategic recommendations for channel growth

Respond with JSON in this format:
{
  "contentIdeas": [
    {
      "title": "Title of the video idea",
      "description": "Brief description of what the video would cover",
      "potential": "Estimated potential viewership (e.g., 'Est. views: 150K+')",
      "ideaType": "One of: %s"
    }
  ],
  "recommendations": [
    {
      "title": "Title of recommendation",
      "content": "Detailed explanation of the recommendation",
      "type": "One of: %s"
    }
  ]
}`

// BuildPrompt returns the system instruction and the user prompt for a
// channel. Profile fields are embedded verbatim.
func BuildPrompt(profile models.ChannelProfile) (system string, user string) {
	titles := make([]string, 0, len(profile.VideoTitles))
	for _, title := range profile.VideoTitles {
		titles = append(titles, "- "+title)
	}

	categories := make([]string, 0, len(profile.Categories))
	for _, cat := range profile.Categories {
		categories = append(categories, fmt.Sprintf("- %s: %s%%", cat.Name, formatPercentage(cat.Percentage)))
	}

	ideaTypes := make([]string, 0, len(models.IdeaTypes))
	for _, t := range models.IdeaTypes {
		ideaTypes = append(ideaTypes, string(t))
	}

	recTypes := make([]string, 0, len(models.RecommendationTypes))
	for _, t := range models.RecommendationTypes {
		recTypes = append(recTypes, string(t))
	}

	user = fmt.Sprintf(userPromptTmpl,
		profile.Title,
		profile.Description,
		strings.Join(titles, "\n"),
		strings.Join(categories, "\n"),
		strings.Join(ideaTypes, ", "),
		strings.Join(recTypes, ", "),
	)
	return systemPrompt, user
}

// formatPercentage prints the shortest exact representation, so 40 renders
// as "40" and 12.5 as "12.5".
func formatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
