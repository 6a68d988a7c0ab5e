package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"leadscout-go-pipeline/internal/models"
)

// parseScoreJSON extracts the JSON object from a model reply, repairing it
// when the model wraps it in prose or emits slightly broken JSON.
func parseScoreJSON(text string) (models.LeadScore, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return models.LeadScore{}, fmt.Errorf("no JSON object in model reply")
	}
	raw := text[start : end+1]

	var score models.LeadScore
	if err := json.Unmarshal([]byte(raw), &score); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return models.LeadScore{}, fmt.Errorf("unparseable model reply: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &score); err != nil {
			return models.LeadScore{}, fmt.Errorf("unparseable model reply: %w", err)
		}
	}

	if score.Score < 0 {
		score.Score = 0
	}
	if score.Score > 100 {
		score.Score = 100
	}
	switch strings.ToLower(score.Tier) {
	case "hot", "warm", "cold":
		score.Tier = strings.ToLower(score.Tier)
	default:
		score.Tier = tierFromScore(score.Score)
	}
	return score, nil
}

func tierFromScore(n int) string {
	switch {
	case n >= 70:
		return "hot"
	case n >= 40:
		return "warm"
	default:
		return "cold"
	}
}
