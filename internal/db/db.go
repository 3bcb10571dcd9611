package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"

	"qatbot/internal/models"
)

// TestQuestion is one row of the test-question ledger. Rows are written once
// by the generation pipeline and read by the evaluation pipeline; they are
// never updated or deleted.
type TestQuestion struct {
	bun.BaseModel `bun:"table:test_questions,alias:tq"`
	ID            string `bun:"id,pk"`
	Question      string `bun:"test_question,notnull"`
	Answer        string `bun:"test_answer,notnull"`
}

// Connect opens (or creates) the sqlite database at path, creating parent
// directories as needed.
func Connect(path string, debug bool) (*bun.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %v", err)
		}
	}
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	if _, err := sqldb.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to enable WAL: %v", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

// InitDB creates the test_questions table if it does not exist.
func InitDB(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*TestQuestion)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Ledger persists the (id, question, answer) triple of every generated test
// question.
type Ledger struct {
	db *bun.DB
}

func NewLedger(db *bun.DB) *Ledger {
	return &Ledger{db: db}
}

// Put stores a new record. Inserting an id that already exists is refused:
// ids are minted fresh per query, so a collision means a bug upstream.
func (l *Ledger) Put(ctx context.Context, id, question, answer string) error {
	exists, err := l.db.NewSelect().
		Model((*TestQuestion)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", models.ErrDuplicateID, id)
	}

	record := &TestQuestion{ID: id, Question: question, Answer: answer}
	_, err = l.db.NewInsert().Model(record).Exec(ctx)
	return err
}

// Question returns the stored test question for id, or ErrNotFound.
func (l *Ledger) Question(ctx context.Context, id string) (string, error) {
	record, err := l.get(ctx, id)
	if err != nil {
		return "", err
	}
	return record.Question, nil
}

// Answer returns the stored reference answer for id, or ErrNotFound.
func (l *Ledger) Answer(ctx context.Context, id string) (string, error) {
	record, err := l.get(ctx, id)
	if err != nil {
		return "", err
	}
	return record.Answer, nil
}

func (l *Ledger) get(ctx context.Context, id string) (*TestQuestion, error) {
	var record TestQuestion
	err := l.db.NewSelect().
		Model(&record).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: test question %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
