package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrEngagementNotFound is returned when no cached record exists.
var ErrEngagementNotFound = errors.New("engagement not found")

// EngagementType represents the type of engagement data
type EngagementType string

const (
	EngagementTypeInsights EngagementType = "insights"
)

// sqliteTimestamp is the layout of CURRENT_TIMESTAMP values.
const sqliteTimestamp = "2006-01-02 15:04:05"

// ChannelEngagement represents a record in the channel_engagement table
type ChannelEngagement struct {
	ID             int64           `json:"id"`
	ChannelID      string          `json:"channel_id"`
	EngagementType EngagementType  `json:"engagement_type"`
	CreateDate     time.Time       `json:"create_date"`
	UpdateDate     time.Time       `json:"update_date"`
	JSONResponse   json.RawMessage `json:"json_response"`
}

// UpdatedOn reports whether the record was last written on the same UTC day
// as now.
func (e *ChannelEngagement) UpdatedOn(now time.Time) bool {
	return e.UpdateDate.UTC().Format(time.DateOnly) == now.UTC().Format(time.DateOnly)
}

// StoreEngagement inserts the record or replaces the payload of the existing
// one for the same channel and type.
func (d *Database) StoreEngagement(engagement *ChannelEngagement) error {
	sql := `INSERT INTO channel_engagement (channel_id, engagement_type, json_response)
			VALUES (?, ?, ?)
			ON CONFLICT(channel_id, engagement_type)
			DO UPDATE SET json_response = excluded.json_response, update_date = CURRENT_TIMESTAMP`

	err := d.db.ExecuteArray(sql, []interface{}{
		engagement.ChannelID,
		string(engagement.EngagementType),
		string(engagement.JSONResponse),
	})
	if err != nil {
		return fmt.Errorf("failed to store engagement for channel %s: %w", engagement.ChannelID, err)
	}
	return nil
}

// GetLatestEngagement retrieves the latest engagement record for a channel
// and type. It returns ErrEngagementNotFound when there is none.
func (d *Database) GetLatestEngagement(channelID string, engagementType EngagementType) (*ChannelEngagement, error) {
	sql := `SELECT CAST(id AS TEXT), create_date, update_date, json_response
			FROM channel_engagement
			WHERE channel_id = ? AND engagement_type = ?
			ORDER BY update_date DESC LIMIT 1`

	result, err := d.db.SelectArray(sql, []interface{}{channelID, string(engagementType)})
	if err != nil {
		return nil, fmt.Errorf("failed to get latest engagement: %w", err)
	}

	if result.GetNumberOfRows() == 0 {
		return nil, ErrEngagementNotFound
	}

	idStr, err := result.GetStringValue(0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read id: %w", err)
	}
	createStr, err := result.GetStringValue(0, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to read create_date: %w", err)
	}
	updateStr, err := result.GetStringValue(0, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to read update_date: %w", err)
	}
	payload, err := result.GetStringValue(0, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to read json_response: %w", err)
	}

	return parseEngagementRow(channelID, engagementType, idStr, createStr, updateStr, payload)
}

func parseEngagementRow(channelID string, engagementType EngagementType, idStr, createStr, updateStr, payload string) (*ChannelEngagement, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse id: %w", err)
	}

	createDate, err := time.Parse(sqliteTimestamp, createStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse create_date: %w", err)
	}

	updateDate, err := time.Parse(sqliteTimestamp, updateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse update_date: %w", err)
	}

	return &ChannelEngagement{
		ID:             id,
		ChannelID:      channelID,
		EngagementType: engagementType,
		CreateDate:     createDate,
		UpdateDate:     updateDate,
		JSONResponse:   json.RawMessage(payload),
	}, nil
}
