package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertAnswerStmt      *sql.Stmt
	insertRatingStmt      *sql.Stmt
	unansweredStmt        *sql.Stmt
	unratedStmt           *sql.Stmt
	answersByModelRunStmt *sql.Stmt
	latestRunStmt         *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	// Parallel answer batches write concurrently; without a busy
	// timeout a second writer fails immediately with SQLITE_BUSY.
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection to a plain :memory: DSN gets its own
		// private database; the whole store must stay on one connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			air_date TEXT NOT NULL DEFAULT '',
			clue TEXT NOT NULL,
			value TEXT NOT NULL DEFAULT '',
			answer TEXT NOT NULL DEFAULT '',
			round TEXT NOT NULL DEFAULT '',
			show_number TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS models (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			provider TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS judge_models (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			provider TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS test_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_prompt TEXT NOT NULL,
			system_prompt TEXT NOT NULL DEFAULT '',
			parameters TEXT NOT NULL DEFAULT '',
			run_time INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS answers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question_id INTEGER NOT NULL,
			model_id INTEGER NOT NULL,
			test_run_id INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			response TEXT NOT NULL DEFAULT '',
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(question_id) REFERENCES questions(id),
			FOREIGN KEY(model_id) REFERENCES models(id),
			FOREIGN KEY(test_run_id) REFERENCES test_runs(id),
			UNIQUE(question_id, model_id, test_run_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			answer_id INTEGER NOT NULL,
			test_run_id INTEGER NOT NULL,
			accuracy REAL,
			coherence REAL,
			completeness REAL,
			is_question REAL,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			judge_model TEXT NOT NULL,
			FOREIGN KEY(answer_id) REFERENCES answers(id),
			FOREIGN KEY(test_run_id) REFERENCES test_runs(id),
			UNIQUE(answer_id, judge_model)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_model_run ON answers(model_id, test_run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_answer ON ratings(answer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_judge_run ON ratings(judge_model, test_run_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

const answerColumns = `id, question_id, model_id, test_run_id, prompt, response, input_tokens, output_tokens`
const questionColumns = `id, category, air_date, clue, value, answer, round, show_number`

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}

	ctx := context.Background()
	type stmtSpec struct {
		dst    **sql.Stmt
		query  string
		errFmt string
	}

	specs := []stmtSpec{
		{
			dst: &s.insertAnswerStmt,
			query: `
				INSERT INTO answers (
					question_id, model_id, test_run_id, prompt, response, input_tokens, output_tokens
				) VALUES (?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert answer: %w",
		},
		{
			dst: &s.insertRatingStmt,
			query: `
				INSERT INTO ratings (
					answer_id, test_run_id, accuracy, coherence, completeness, is_question,
					input_tokens, output_tokens, judge_model
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert rating: %w",
		},
		{
			dst: &s.unansweredStmt,
			query: `
				SELECT ` + questionColumns + ` FROM questions q
				WHERE NOT EXISTS (
					SELECT 1 FROM answers a
					WHERE a.question_id = q.id AND a.model_id = ? AND a.test_run_id = ?
				)
				ORDER BY q.id ASC
			`,
			errFmt: "store: prepare unanswered questions: %w",
		},
		{
			dst: &s.unratedStmt,
			query: `
				SELECT ` + answerColumns + ` FROM answers a
				WHERE a.model_id = ? AND a.test_run_id = ?
				AND NOT EXISTS (
					SELECT 1 FROM ratings r
					WHERE r.answer_id = a.id AND r.judge_model = ? AND r.test_run_id = a.test_run_id
				)
				ORDER BY a.id ASC
			`,
			errFmt: "store: prepare unrated answers: %w",
		},
		{
			dst: &s.answersByModelRunStmt,
			query: `
				SELECT ` + answerColumns + ` FROM answers
				WHERE model_id = ? AND test_run_id = ?
				ORDER BY id ASC
			`,
			errFmt: "store: prepare answers by model/run: %w",
		},
		{
			dst:    &s.latestRunStmt,
			query:  `SELECT id FROM test_runs ORDER BY id DESC LIMIT 1`,
			errFmt: "store: prepare latest test run: %w",
		},
	}

	for _, spec := range specs {
		stmt, err := s.db.PrepareContext(ctx, spec.query)
		if err != nil {
			return fmt.Errorf(spec.errFmt, err)
		}
		*spec.dst = stmt
	}

	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	stmts := []*sql.Stmt{
		s.insertAnswerStmt,
		s.insertRatingStmt,
		s.unansweredStmt,
		s.unratedStmt,
		s.answersByModelRunStmt,
		s.latestRunStmt,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertQuestions bulk-loads the question catalog in one transaction.
func (s *SQLiteStore) InsertQuestions(ctx context.Context, questions []*Question) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if len(questions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin questions tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, q := range questions {
		if q == nil {
			return errors.New("store: nil question")
		}
		if strings.TrimSpace(q.Clue) == "" {
			return errors.New("store: question with empty clue")
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO questions (category, air_date, clue, value, answer, round, show_number)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, q.Category, q.AirDate, q.Clue, q.Value, q.Answer, q.Round, q.ShowNumber)
		if err != nil {
			return fmt.Errorf("store: insert question: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			q.ID = id
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit questions: %w", err)
	}
	return nil
}

// InsertModels bulk-loads the model catalog in one transaction.
func (s *SQLiteStore) InsertModels(ctx context.Context, models []*Model) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if len(models) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin models tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range models {
		if m == nil {
			return errors.New("store: nil model")
		}
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Provider) == "" {
			return errors.New("store: model with empty name/provider")
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO models (name, provider) VALUES (?, ?)`, m.Name, m.Provider)
		if err != nil {
			return fmt.Errorf("store: insert model: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			m.ID = id
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit models: %w", err)
	}
	return nil
}

// InsertJudgeModels bulk-loads the judge catalog in one transaction.
func (s *SQLiteStore) InsertJudgeModels(ctx context.Context, judges []*JudgeModel) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if len(judges) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin judge models tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, j := range judges {
		if j == nil {
			return errors.New("store: nil judge model")
		}
		if strings.TrimSpace(j.Name) == "" || strings.TrimSpace(j.Provider) == "" {
			return errors.New("store: judge model with empty name/provider")
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO judge_models (name, provider) VALUES (?, ?)`, j.Name, j.Provider)
		if err != nil {
			return fmt.Errorf("store: insert judge model: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			j.ID = id
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit judge models: %w", err)
	}
	return nil
}

// CreateTestRun persists a new test run and fills in its ID.
func (s *SQLiteStore) CreateTestRun(ctx context.Context, run *TestRun) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if run == nil {
		return errors.New("store: nil test run")
	}
	if strings.TrimSpace(run.UserPrompt) == "" {
		return errors.New("store: test run with empty user prompt")
	}

	runTime := run.RunTime
	if runTime.IsZero() {
		runTime = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO test_runs (user_prompt, system_prompt, parameters, run_time)
		VALUES (?, ?, ?, ?)
	`, run.UserPrompt, run.SystemPrompt, run.Parameters, runTime.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: insert test run: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		run.ID = id
	}
	run.RunTime = runTime
	return nil
}

// InsertAnswer persists one answer. The schema's uniqueness constraint
// on (question, model, test run) backstops the unanswered query; a
// violation here means the pipeline dispatched duplicate work.
func (s *SQLiteStore) InsertAnswer(ctx context.Context, answer *Answer) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if answer == nil {
		return errors.New("store: nil answer")
	}
	if answer.QuestionID <= 0 || answer.ModelID <= 0 || answer.TestRunID <= 0 {
		return errors.New("store: answer missing question/model/run id")
	}
	if answer.InputTokens < 0 || answer.OutputTokens < 0 {
		return errors.New("store: negative answer token count")
	}

	res, err := s.insertAnswerStmt.ExecContext(
		ctx,
		answer.QuestionID,
		answer.ModelID,
		answer.TestRunID,
		answer.Prompt,
		answer.Response,
		answer.InputTokens,
		answer.OutputTokens,
	)
	if err != nil {
		return fmt.Errorf("store: insert answer (question=%d model=%d run=%d): %w",
			answer.QuestionID, answer.ModelID, answer.TestRunID, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		answer.ID = id
	}
	return nil
}

// InsertRating persists one rating. Uniqueness per (answer, judge name)
// is enforced by the schema on top of the unrated query.
func (s *SQLiteStore) InsertRating(ctx context.Context, rating *Rating) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if rating == nil {
		return errors.New("store: nil rating")
	}
	if rating.AnswerID <= 0 || rating.TestRunID <= 0 {
		return errors.New("store: rating missing answer/run id")
	}
	if strings.TrimSpace(rating.JudgeModel) == "" {
		return errors.New("store: rating with empty judge model")
	}
	if rating.InputTokens < 0 || rating.OutputTokens < 0 {
		return errors.New("store: negative rating token count")
	}
	for _, score := range []*float64{rating.Accuracy, rating.Coherence, rating.Completeness, rating.IsQuestion} {
		if score != nil && (*score < 0 || *score > 1) {
			return fmt.Errorf("store: rating score %v out of range [0,1]", *score)
		}
	}

	res, err := s.insertRatingStmt.ExecContext(
		ctx,
		rating.AnswerID,
		rating.TestRunID,
		nullableScore(rating.Accuracy),
		nullableScore(rating.Coherence),
		nullableScore(rating.Completeness),
		nullableScore(rating.IsQuestion),
		rating.InputTokens,
		rating.OutputTokens,
		rating.JudgeModel,
	)
	if err != nil {
		return fmt.Errorf("store: insert rating (answer=%d judge=%q): %w", rating.AnswerID, rating.JudgeModel, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		rating.ID = id
	}
	return nil
}

// ListQuestions returns the full question catalog.
func (s *SQLiteStore) ListQuestions(ctx context.Context) ([]*Question, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list questions: %w", err)
	}
	defer rows.Close()
	return scanQuestionRows(rows)
}

// ListModels returns the model catalog.
func (s *SQLiteStore) ListModels(ctx context.Context) ([]*Model, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, provider FROM models ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list models: %w", err)
	}
	defer rows.Close()

	var out []*Model
	for rows.Next() {
		m := &Model{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Provider); err != nil {
			return nil, fmt.Errorf("store: scan model: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list models: %w", err)
	}
	return out, nil
}

// ListJudgeModels returns the judge catalog.
func (s *SQLiteStore) ListJudgeModels(ctx context.Context) ([]*JudgeModel, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, provider FROM judge_models ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list judge models: %w", err)
	}
	defer rows.Close()

	var out []*JudgeModel
	for rows.Next() {
		j := &JudgeModel{}
		if err := rows.Scan(&j.ID, &j.Name, &j.Provider); err != nil {
			return nil, fmt.Errorf("store: scan judge model: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list judge models: %w", err)
	}
	return out, nil
}

// ListTestRuns returns all test runs, newest first.
func (s *SQLiteStore) ListTestRuns(ctx context.Context) ([]*TestRun, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_prompt, system_prompt, parameters, run_time
		FROM test_runs ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list test runs: %w", err)
	}
	defer rows.Close()

	var out []*TestRun
	for rows.Next() {
		run := &TestRun{}
		var runTimeMS int64
		if err := rows.Scan(&run.ID, &run.UserPrompt, &run.SystemPrompt, &run.Parameters, &runTimeMS); err != nil {
			return nil, fmt.Errorf("store: scan test run: %w", err)
		}
		run.RunTime = time.UnixMilli(runTimeMS).UTC()
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list test runs: %w", err)
	}
	return out, nil
}

// ErrNoTestRuns reports an empty test_runs table.
var ErrNoTestRuns = errors.New("store: no test runs")

// LatestTestRunID returns the most recently created test run's id.
func (s *SQLiteStore) LatestTestRunID(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return 0, errors.New("store: nil context")
	}

	var id int64
	if err := s.latestRunStmt.QueryRowContext(ctx).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoTestRuns
		}
		return 0, fmt.Errorf("store: latest test run: %w", err)
	}
	return id, nil
}

// AnswersByModelRun lists answers for one model within one test run.
func (s *SQLiteStore) AnswersByModelRun(ctx context.Context, modelID, testRunID int64) ([]*Answer, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.answersByModelRunStmt.QueryContext(ctx, modelID, testRunID)
	if err != nil {
		return nil, fmt.Errorf("store: answers by model/run: %w", err)
	}
	defer rows.Close()
	return scanAnswerRows(rows)
}

// UnansweredQuestions returns questions with no answer for this exact
// (model, test run) combination. Computed as a set difference against
// committed answers on every call.
func (s *SQLiteStore) UnansweredQuestions(ctx context.Context, modelID, testRunID int64) ([]*Question, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.unansweredStmt.QueryContext(ctx, modelID, testRunID)
	if err != nil {
		return nil, fmt.Errorf("store: unanswered questions: %w", err)
	}
	defer rows.Close()
	return scanQuestionRows(rows)
}

// UnratedAnswers returns answers for (model, test run) lacking a rating
// from the named judge within that run.
func (s *SQLiteStore) UnratedAnswers(ctx context.Context, modelID, testRunID int64, judgeName string) ([]*Answer, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	judgeName = strings.TrimSpace(judgeName)
	if judgeName == "" {
		return nil, errors.New("store: empty judge name")
	}

	rows, err := s.unratedStmt.QueryContext(ctx, modelID, testRunID, judgeName)
	if err != nil {
		return nil, fmt.Errorf("store: unrated answers: %w", err)
	}
	defer rows.Close()
	return scanAnswerRows(rows)
}

// EvaluationRows returns the reporting join for one test run.
func (s *SQLiteStore) EvaluationRows(ctx context.Context, testRunID int64) ([]*EvaluationRow, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			m.id, m.name,
			q.id, q.clue, q.answer,
			a.id, a.response, a.input_tokens, a.output_tokens,
			r.judge_model, r.accuracy, r.coherence, r.completeness, r.is_question,
			r.input_tokens, r.output_tokens
		FROM models m
		JOIN answers a ON a.model_id = m.id
		JOIN questions q ON q.id = a.question_id
		JOIN ratings r ON r.answer_id = a.id
		WHERE a.test_run_id = ?
		ORDER BY m.id ASC, a.id ASC, r.judge_model ASC
	`, testRunID)
	if err != nil {
		return nil, fmt.Errorf("store: evaluation rows: %w", err)
	}
	defer rows.Close()

	var out []*EvaluationRow
	for rows.Next() {
		row := &EvaluationRow{}
		var accuracy, coherence, completeness, isQuestion sql.NullFloat64
		if err := rows.Scan(
			&row.ModelID, &row.ModelName,
			&row.QuestionID, &row.Clue, &row.ExpectedAnswer,
			&row.AnswerID, &row.Response, &row.AnswerInputTokens, &row.AnswerOutputTok,
			&row.JudgeModel, &accuracy, &coherence, &completeness, &isQuestion,
			&row.JudgeInputTokens, &row.JudgeOutputTokens,
		); err != nil {
			return nil, fmt.Errorf("store: scan evaluation row: %w", err)
		}
		row.Accuracy = floatPtr(accuracy)
		row.Coherence = floatPtr(coherence)
		row.Completeness = floatPtr(completeness)
		row.IsQuestion = floatPtr(isQuestion)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: evaluation rows: %w", err)
	}
	return out, nil
}

// Reset deletes all rows from every table. Destructive; administrative
// use only.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin reset tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Child tables first to satisfy foreign keys.
	for _, table := range []string{"ratings", "answers", "questions", "models", "judge_models", "test_runs"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("store: reset %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit reset: %w", err)
	}
	return nil
}

func scanQuestionRows(rows *sql.Rows) ([]*Question, error) {
	var out []*Question
	for rows.Next() {
		q := &Question{}
		if err := rows.Scan(&q.ID, &q.Category, &q.AirDate, &q.Clue, &q.Value, &q.Answer, &q.Round, &q.ShowNumber); err != nil {
			return nil, fmt.Errorf("store: scan question: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan question rows: %w", err)
	}
	return out, nil
}

func scanAnswerRows(rows *sql.Rows) ([]*Answer, error) {
	var out []*Answer
	for rows.Next() {
		a := &Answer{}
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.ModelID, &a.TestRunID, &a.Prompt, &a.Response, &a.InputTokens, &a.OutputTokens); err != nil {
			return nil, fmt.Errorf("store: scan answer: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan answer rows: %w", err)
	}
	return out, nil
}

func nullableScore(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
