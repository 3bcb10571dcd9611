package rag

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"qatbot/internal/llmservice"
	"qatbot/internal/models"
)

// Evaluator scores a user's free-text answer against the stored reference
// answer with two independent generation stages.
type Evaluator struct {
	gen llmservice.Generator
}

func NewEvaluator(gen llmservice.Generator) *Evaluator {
	return &Evaluator{gen: gen}
}

// Evaluate runs the understanding and confidence stages concurrently. Both
// must succeed before a result is returned; a failure in either aborts the
// whole evaluation. Nothing is persisted.
func (e *Evaluator) Evaluate(ctx context.Context, question, userAnswer, correctAnswer string) (*models.EvaluationResult, error) {
	var rawVerdict, rawConfidence string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawVerdict, err = e.gen.Generate(gctx, fmt.Sprintf(models.EvaluationPromptTemplate, question, correctAnswer, userAnswer))
		return err
	})
	g.Go(func() error {
		var err error
		rawConfidence, err = e.gen.Generate(gctx, fmt.Sprintf(models.ConfidencePromptTemplate, question, correctAnswer, userAnswer))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	confidence, err := parseConfidence(rawConfidence)
	if err != nil {
		return nil, err
	}
	return &models.EvaluationResult{
		KnowledgeUnderstood: parseVerdict(rawVerdict),
		KnowledgeConfidence: confidence,
	}, nil
}
