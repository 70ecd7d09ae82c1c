package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IdeaType classifies a content idea.
type IdeaType string

const (
	IdeaTypeTrending        IdeaType = "trending"
	IdeaTypeHighEngagement  IdeaType = "high_engagement"
	IdeaTypeQuickWin        IdeaType = "quick_win"
	IdeaTypeAudienceRequest IdeaType = "audience_request"
)

// IdeaTypes lists every idea type in prompt order.
var IdeaTypes = []IdeaType{
	IdeaTypeTrending,
	IdeaTypeHighEngagement,
	IdeaTypeQuickWin,
	IdeaTypeAudienceRequest,
}

// RecommendationType classifies a growth recommendation.
type RecommendationType string

const (
	RecommendationAudienceGrowth      RecommendationType = "audience_growth"
	RecommendationContentOptimization RecommendationType = "content_optimization"
	RecommendationAudienceEngagement  RecommendationType = "audience_engagement"
)

// RecommendationTypes lists every recommendation type in canonical order.
// Missing types are filled in this order.
var RecommendationTypes = []RecommendationType{
	RecommendationAudienceGrowth,
	RecommendationContentOptimization,
	RecommendationAudienceEngagement,
}

// UnknownTagError reports a type tag outside the closed set.
type UnknownTagError struct {
	Kind string // "idea type" or "recommendation type"
	Tag  string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Tag)
}

// ParseIdeaType maps a model-supplied tag to an IdeaType. Case, surrounding
// space, and space or hyphen separators are tolerated.
func ParseIdeaType(s string) (IdeaType, error) {
	tag := normalizeTag(s)
	for _, t := range IdeaTypes {
		if string(t) == tag {
			return t, nil
		}
	}
	return "", &UnknownTagError{Kind: "idea type", Tag: s}
}

// ParseRecommendationType maps a model-supplied tag to a RecommendationType
// with the same leniency as ParseIdeaType.
func ParseRecommendationType(s string) (RecommendationType, error) {
	tag := normalizeTag(s)
	for _, t := range RecommendationTypes {
		if string(t) == tag {
			return t, nil
		}
	}
	return "", &UnknownTagError{Kind: "recommendation type", Tag: s}
}

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func (t *IdeaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseIdeaType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t *RecommendationType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRecommendationType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// CategoryShare is one entry of a channel's content category breakdown.
// Percentages are not required to sum to 100.
type CategoryShare struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// ChannelProfile is the channel description a generation runs on.
type ChannelProfile struct {
	Title       string          `json:"channelTitle"`
	Description string          `json:"channelDescription"`
	VideoTitles []string        `json:"videoTitles"`
	Categories  []CategoryShare `json:"categories"`
}

// ContentIdea is one proposed video topic.
type ContentIdea struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Potential   string   `json:"potential"`
	IdeaType    IdeaType `json:"ideaType"`
}

// Recommendation is one strategic suggestion.
type Recommendation struct {
	Title   string             `json:"title"`
	Content string             `json:"content"`
	Type    RecommendationType `json:"type"`
}

// GeneratedContent is the result of one generation.
type GeneratedContent struct {
	ContentIdeas    []ContentIdea    `json:"contentIdeas"`
	Recommendations []Recommendation `json:"recommendations"`
}
