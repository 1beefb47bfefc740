package store

import (
	"context"
	"time"
)

// CatalogWriter defines bulk loads of the immutable reference data.
type CatalogWriter interface {
	InsertQuestions(ctx context.Context, questions []*Question) error
	InsertModels(ctx context.Context, models []*Model) error
	InsertJudgeModels(ctx context.Context, judges []*JudgeModel) error
}

// PipelineWriter defines the per-item writes the pipeline stages make.
type PipelineWriter interface {
	CreateTestRun(ctx context.Context, run *TestRun) error
	InsertAnswer(ctx context.Context, answer *Answer) error
	InsertRating(ctx context.Context, rating *Rating) error
}

// PipelineReader defines the idempotency and lookup queries that make
// repeated pipeline invocations safe.
type PipelineReader interface {
	ListQuestions(ctx context.Context) ([]*Question, error)
	ListModels(ctx context.Context) ([]*Model, error)
	ListJudgeModels(ctx context.Context) ([]*JudgeModel, error)
	ListTestRuns(ctx context.Context) ([]*TestRun, error)
	LatestTestRunID(ctx context.Context) (int64, error)
	AnswersByModelRun(ctx context.Context, modelID, testRunID int64) ([]*Answer, error)
	UnansweredQuestions(ctx context.Context, modelID, testRunID int64) ([]*Question, error)
	UnratedAnswers(ctx context.Context, modelID, testRunID int64, judgeName string) ([]*Answer, error)
}

// Reporting defines read-only aggregate access for display.
type Reporting interface {
	EvaluationRows(ctx context.Context, testRunID int64) ([]*EvaluationRow, error)
}

// Store is the single source of truth for the benchmark pipeline.
type Store interface {
	CatalogWriter
	PipelineWriter
	PipelineReader
	Reporting
	Reset(ctx context.Context) error
	Close() error
}

// Question is one quiz item: the model must produce a question for the
// clue. Immutable once loaded.
type Question struct {
	ID         int64
	Category   string
	AirDate    string
	Clue       string
	Value      string
	Answer     string
	Round      string
	ShowNumber string
}

// Model is an LLM under test.
type Model struct {
	ID       int64
	Name     string
	Provider string
}

// JudgeModel is a catalog entry for an external scorer. It identifies
// which judge produced a rating; the scoring logic lives in the judge
// package.
type JudgeModel struct {
	ID       int64
	Name     string
	Provider string
}

// TestRun groups one full generation+judgement pass and fixes the
// prompt templates used.
type TestRun struct {
	ID           int64
	UserPrompt   string
	SystemPrompt string
	Parameters   string
	RunTime      time.Time
}

// Answer records one model's response to one question within one test
// run. Exactly one row exists per (question, model, test run).
type Answer struct {
	ID           int64
	QuestionID   int64
	ModelID      int64
	TestRunID    int64
	Prompt       string
	Response     string
	InputTokens  int
	OutputTokens int
}

// Rating records one judge's four-dimension score for one answer. A
// nil score means the judge produced no extractable numeral for that
// dimension. At most one row exists per (answer, judge name).
type Rating struct {
	ID           int64
	AnswerID     int64
	TestRunID    int64
	Accuracy     *float64
	Coherence    *float64
	Completeness *float64
	IsQuestion   *float64
	InputTokens  int
	OutputTokens int
	JudgeModel   string
}

// EvaluationRow is one row of the reporting join across models,
// questions, answers, and ratings.
type EvaluationRow struct {
	ModelID           int64
	ModelName         string
	QuestionID        int64
	Clue              string
	ExpectedAnswer    string
	AnswerID          int64
	Response          string
	AnswerInputTokens int
	AnswerOutputTok   int
	JudgeModel        string
	Accuracy          *float64
	Coherence         *float64
	Completeness      *float64
	IsQuestion        *float64
	JudgeInputTokens  int
	JudgeOutputTokens int
}
