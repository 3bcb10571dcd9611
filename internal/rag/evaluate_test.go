package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qatbot/internal/models"
)

// evalGenerator scripts the two evaluation stages independently.
type evalGenerator struct {
	verdict       string
	confidence    string
	verdictErr    error
	confidenceErr error
}

func (g *evalGenerator) Generate(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "Respond with 'True'"):
		return g.verdict, g.verdictErr
	case strings.Contains(prompt, "Rate the user's confidence"):
		return g.confidence, g.confidenceErr
	default:
		return "", models.ErrGenerationService
	}
}

func TestEvaluateUnderstood(t *testing.T) {
	e := NewEvaluator(&evalGenerator{verdict: "True", confidence: "Score: 92"})

	result, err := e.Evaluate(context.Background(), "What is X?", "X is Y", "X is Y")
	require.NoError(t, err)
	assert.True(t, result.KnowledgeUnderstood)
	assert.Equal(t, 92, result.KnowledgeConfidence)
}

func TestEvaluateNotUnderstood(t *testing.T) {
	e := NewEvaluator(&evalGenerator{verdict: "False", confidence: "12"})

	result, err := e.Evaluate(context.Background(), "q", "wrong", "right")
	require.NoError(t, err)
	assert.False(t, result.KnowledgeUnderstood)
	assert.Equal(t, 12, result.KnowledgeConfidence)
}

func TestEvaluateNonLiteralVerdictIsFalse(t *testing.T) {
	e := NewEvaluator(&evalGenerator{verdict: "true", confidence: "50"})

	result, err := e.Evaluate(context.Background(), "q", "a", "a")
	require.NoError(t, err)
	assert.False(t, result.KnowledgeUnderstood)
}

func TestEvaluateMalformedConfidence(t *testing.T) {
	e := NewEvaluator(&evalGenerator{verdict: "True", confidence: "very confident"})

	_, err := e.Evaluate(context.Background(), "q", "a", "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMalformedGeneration)
}

func TestEvaluateStageFailureAbortsBoth(t *testing.T) {
	e := NewEvaluator(&evalGenerator{
		verdict:       "True",
		confidence:    "80",
		confidenceErr: models.ErrGenerationService,
	})

	result, err := e.Evaluate(context.Background(), "q", "a", "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrGenerationService)
	assert.Nil(t, result)
}
