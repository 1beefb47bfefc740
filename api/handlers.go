package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/quizbench/internal/report"
	"github.com/stellarlinkco/quizbench/internal/store"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

type modelResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

func (s *Server) handleListModels(c *gin.Context) {
	models, err := s.store.ListModels(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]modelResponse, 0, len(models))
	for _, m := range models {
		if m == nil {
			continue
		}
		out = append(out, modelResponse{ID: m.ID, Name: m.Name, Provider: m.Provider})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleListJudges(c *gin.Context) {
	judges, err := s.store.ListJudgeModels(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]modelResponse, 0, len(judges))
	for _, j := range judges {
		if j == nil {
			continue
		}
		out = append(out, modelResponse{ID: j.ID, Name: j.Name, Provider: j.Provider})
	}
	c.JSON(http.StatusOK, out)
}

type runResponse struct {
	ID           int64  `json:"id"`
	UserPrompt   string `json:"user_prompt"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	Parameters   string `json:"parameters,omitempty"`
	RunTime      string `json:"run_time"`
}

func runToResponse(run *store.TestRun) runResponse {
	return runResponse{
		ID:           run.ID,
		UserPrompt:   run.UserPrompt,
		SystemPrompt: run.SystemPrompt,
		Parameters:   run.Parameters,
		RunTime:      run.RunTime.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleListRuns(c *gin.Context) {
	runs, err := s.store.ListTestRuns(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		if run == nil {
			continue
		}
		out = append(out, runToResponse(run))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, runToResponse(run))
}

type resultRow struct {
	ModelID           int64    `json:"model_id"`
	ModelName         string   `json:"model_name"`
	QuestionID        int64    `json:"question_id"`
	Clue              string   `json:"clue"`
	ExpectedAnswer    string   `json:"expected_answer"`
	AnswerID          int64    `json:"answer_id"`
	Response          string   `json:"response"`
	JudgeModel        string   `json:"judge_model,omitempty"`
	Accuracy          *float64 `json:"accuracy,omitempty"`
	Coherence         *float64 `json:"coherence,omitempty"`
	Completeness      *float64 `json:"completeness,omitempty"`
	IsQuestion        *float64 `json:"is_question,omitempty"`
	AnswerInputTokens int      `json:"answer_input_tokens"`
	AnswerOutputTok   int      `json:"answer_output_tokens"`
	JudgeInputTokens  int      `json:"judge_input_tokens"`
	JudgeOutputTokens int      `json:"judge_output_tokens"`
}

func (s *Server) handleGetRunResults(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}

	rows, err := s.store.EvaluationRows(c.Request.Context(), run.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]resultRow, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, resultRow{
			ModelID:           row.ModelID,
			ModelName:         row.ModelName,
			QuestionID:        row.QuestionID,
			Clue:              row.Clue,
			ExpectedAnswer:    row.ExpectedAnswer,
			AnswerID:          row.AnswerID,
			Response:          row.Response,
			JudgeModel:        row.JudgeModel,
			Accuracy:          row.Accuracy,
			Coherence:         row.Coherence,
			Completeness:      row.Completeness,
			IsQuestion:        row.IsQuestion,
			AnswerInputTokens: row.AnswerInputTokens,
			AnswerOutputTok:   row.AnswerOutputTok,
			JudgeInputTokens:  row.JudgeInputTokens,
			JudgeOutputTokens: row.JudgeOutputTokens,
		})
	}
	c.JSON(http.StatusOK, out)
}

type summaryResponse struct {
	Model              string   `json:"model"`
	Judge              string   `json:"judge,omitempty"`
	Answers            int      `json:"answers"`
	Rated              int      `json:"rated"`
	MeanAccuracy       *float64 `json:"mean_accuracy,omitempty"`
	MeanCoherence      *float64 `json:"mean_coherence,omitempty"`
	MeanCompleteness   *float64 `json:"mean_completeness,omitempty"`
	MeanIsQuestion     *float64 `json:"mean_is_question,omitempty"`
	AnswerInputTokens  int      `json:"answer_input_tokens"`
	AnswerOutputTokens int      `json:"answer_output_tokens"`
	JudgeInputTokens   int      `json:"judge_input_tokens"`
	JudgeOutputTokens  int      `json:"judge_output_tokens"`
}

func (s *Server) handleGetRunSummary(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}

	summaries, err := report.ForRun(c.Request.Context(), s.store, run.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]summaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		if sum == nil {
			continue
		}
		out = append(out, summaryResponse{
			Model:              sum.ModelName,
			Judge:              sum.JudgeModel,
			Answers:            sum.Answers,
			Rated:              sum.Rated,
			MeanAccuracy:       sum.MeanAccuracy,
			MeanCoherence:      sum.MeanCoherence,
			MeanCompleteness:   sum.MeanCompleteness,
			MeanIsQuestion:     sum.MeanIsQuestion,
			AnswerInputTokens:  sum.AnswerInputTokens,
			AnswerOutputTokens: sum.AnswerOutputTokens,
			JudgeInputTokens:   sum.JudgeInputTokens,
			JudgeOutputTokens:  sum.JudgeOutputTokens,
		})
	}
	c.JSON(http.StatusOK, out)
}

// lookupRun resolves the :id path segment, accepting "latest" as an
// alias for the most recent run. It writes the error response itself
// so handlers can return on !ok.
func (s *Server) lookupRun(c *gin.Context) (*store.TestRun, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	ctx := c.Request.Context()

	var id int64
	if strings.EqualFold(raw, "latest") {
		latest, err := s.store.LatestTestRunID(ctx)
		if err != nil {
			if errors.Is(err, store.ErrNoTestRuns) {
				respondError(c, http.StatusNotFound, errors.New("no test runs"))
				return nil, false
			}
			respondError(c, http.StatusInternalServerError, err)
			return nil, false
		}
		id = latest
	} else {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, fmt.Errorf("invalid run id %q", raw))
			return nil, false
		}
		id = parsed
	}

	runs, err := s.store.ListTestRuns(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return nil, false
	}
	for _, run := range runs {
		if run != nil && run.ID == id {
			return run, true
		}
	}
	respondError(c, http.StatusNotFound, fmt.Errorf("run %d not found", id))
	return nil, false
}

func respondError(c *gin.Context, status int, err error) {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}
