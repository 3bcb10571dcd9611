package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qatbot/internal/models"
)

func TestParseTestQuestion(t *testing.T) {
	question, answer, err := parseTestQuestion("What are the main components? The main components are A and B.")
	require.NoError(t, err)
	assert.Equal(t, "What are the main components?", question)
	assert.Equal(t, "The main components are A and B.", answer)
}

func TestParseTestQuestionSplitsOnFirstMark(t *testing.T) {
	question, answer, err := parseTestQuestion("How many parts? Two? Maybe three.")
	require.NoError(t, err)
	assert.Equal(t, "How many parts?", question)
	assert.Equal(t, "Two? Maybe three.", answer)
}

func TestParseTestQuestionWithoutMark(t *testing.T) {
	_, _, err := parseTestQuestion("This output has no question mark at all.")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMalformedGeneration)
}

func TestParseBulletPoints(t *testing.T) {
	points := parseBulletPoints("First key detail.-\nSecond key detail.-\nThird key detail.")
	assert.Equal(t, []string{
		"First key detail.",
		"Second key detail.",
		"Third key detail.",
	}, points)
}

func TestParseBulletPointsDropsEmptyArtifacts(t *testing.T) {
	points := parseBulletPoints("Only point.-\n")
	assert.Equal(t, []string{"Only point."}, points)
}

func TestParseVerdictLiteralContract(t *testing.T) {
	assert.True(t, parseVerdict("True"))
	assert.True(t, parseVerdict("  True\n"))
	// anything but the literal "True" counts as false
	assert.False(t, parseVerdict("true"))
	assert.False(t, parseVerdict("Yes"))
	assert.False(t, parseVerdict("False"))
	assert.False(t, parseVerdict(""))
}

func TestParseConfidence(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want int
	}{
		{"85", 85},
		{" 42\n", 42},
		{"Score: 85", 85},
		{"Confidence: rating: 7", 7},
	} {
		got, err := parseConfidence(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestParseConfidenceMalformed(t *testing.T) {
	for _, raw := range []string{"", "high", "Score: very high"} {
		_, err := parseConfidence(raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, models.ErrMalformedGeneration, raw)
	}
}
