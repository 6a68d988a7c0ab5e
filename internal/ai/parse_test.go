package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoreJSON(t *testing.T) {
	score, err := parseScoreJSON(`{"score": 82, "tier": "hot", "reasons": ["no tracking", "no booking"]}`)
	require.NoError(t, err)
	assert.Equal(t, 82, score.Score)
	assert.Equal(t, "hot", score.Tier)
	assert.Len(t, score.Reasons, 2)
}

func TestParseScoreJSONWrappedInProse(t *testing.T) {
	score, err := parseScoreJSON("Sure! Here is my assessment:\n```json\n" +
		`{"score": 55, "tier": "Warm", "reasons": ["some tracking"]}` + "\n```\nLet me know.")
	require.NoError(t, err)
	assert.Equal(t, 55, score.Score)
	assert.Equal(t, "warm", score.Tier)
}

func TestParseScoreJSONRepaired(t *testing.T) {
	// trailing comma is a common model slip
	score, err := parseScoreJSON(`{"score": 40, "tier": "warm", "reasons": ["thin site",]}`)
	require.NoError(t, err)
	assert.Equal(t, 40, score.Score)
}

func TestParseScoreJSONClampsAndDefaults(t *testing.T) {
	score, err := parseScoreJSON(`{"score": 120, "tier": "scorching"}`)
	require.NoError(t, err)
	assert.Equal(t, 100, score.Score)
	assert.Equal(t, "hot", score.Tier)

	score, err = parseScoreJSON(`{"score": -5}`)
	require.NoError(t, err)
	assert.Equal(t, 0, score.Score)
	assert.Equal(t, "cold", score.Tier)
}

func TestParseScoreJSONNoObject(t *testing.T) {
	_, err := parseScoreJSON("I cannot score this lead.")
	assert.Error(t, err)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("mystery", "")
	assert.Error(t, err)
}
