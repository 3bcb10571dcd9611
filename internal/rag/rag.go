// Package rag orchestrates retrieval-augmented generation: it turns a user
// question into an answer bundle with a test question, and scores a user's
// answer to that test question.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"qatbot/internal/llmservice"
	"qatbot/internal/models"
)

// Retriever answers nearest-neighbor queries over the active index.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]string, error)
}

// Recorder persists generated test questions for later evaluation.
type Recorder interface {
	Put(ctx context.Context, id, question, answer string) error
}

// Pipeline runs the three generation stages for one user question. All
// stages share a single retrieved context; the test-question and
// bullet-point stages additionally consume the answer stage's output, so
// they start only after it completes and then run concurrently.
type Pipeline struct {
	store  Retriever
	gen    llmservice.Generator
	ledger Recorder
	topK   int
}

func NewPipeline(store Retriever, gen llmservice.Generator, ledger Recorder, topK int) *Pipeline {
	return &Pipeline{store: store, gen: gen, ledger: ledger, topK: topK}
}

// Query produces the full response bundle and records the minted test
// question in the ledger. Any stage failure aborts the whole call: a
// partially populated response is never returned.
func (p *Pipeline) Query(ctx context.Context, question string) (*models.QueryResponse, error) {
	docs, err := p.store.Query(ctx, question, p.topK)
	if err != nil {
		return nil, err
	}
	contextText := strings.Join(docs, "\n\n")

	answer, err := p.gen.Generate(ctx, fmt.Sprintf(models.AnswerPromptTemplate, contextText, question))
	if err != nil {
		return nil, err
	}

	var rawTest, rawBullets string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawTest, err = p.gen.Generate(gctx, fmt.Sprintf(models.TestQuestionPromptTemplate, question, contextText, answer))
		return err
	})
	g.Go(func() error {
		var err error
		rawBullets, err = p.gen.Generate(gctx, fmt.Sprintf(models.BulletPointPromptTemplate, question, contextText, answer))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	testQuestion, testAnswer, err := parseTestQuestion(rawTest)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if err := p.ledger.Put(ctx, id, testQuestion, testAnswer); err != nil {
		return nil, fmt.Errorf("failed to save test question: %w", err)
	}
	log.Debug().Str("test_question_id", id).Msg("Test question recorded")

	return &models.QueryResponse{
		Answer:         answer,
		BulletPoints:   parseBulletPoints(rawBullets),
		TestQuestion:   testQuestion,
		TestAnswer:     testAnswer,
		TestQuestionID: id,
	}, nil
}
