// Package report aggregates the evaluation join into per-model,
// per-judge summaries for display.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/stellarlinkco/quizbench/internal/store"
)

// ModelSummary aggregates one (model, judge) group of a test run. A
// nil mean marks a dimension no rating in the group had a score for.
type ModelSummary struct {
	ModelName  string
	JudgeModel string

	Answers int // join rows in the group
	Rated   int // rows carrying a rating

	MeanAccuracy     *float64
	MeanCoherence    *float64
	MeanCompleteness *float64
	MeanIsQuestion   *float64

	AnswerInputTokens  int
	AnswerOutputTokens int
	JudgeInputTokens   int
	JudgeOutputTokens  int
}

// ForRun builds summaries for one test run. A testRunID of 0 selects
// the most recent run.
func ForRun(ctx context.Context, st store.Store, testRunID int64) ([]*ModelSummary, error) {
	if st == nil {
		return nil, errors.New("report: nil store")
	}
	if ctx == nil {
		return nil, errors.New("report: nil context")
	}

	if testRunID == 0 {
		id, err := st.LatestTestRunID(ctx)
		if err != nil {
			return nil, err
		}
		testRunID = id
	}
	if testRunID <= 0 {
		return nil, fmt.Errorf("report: invalid test run id %d", testRunID)
	}

	rows, err := st.EvaluationRows(ctx, testRunID)
	if err != nil {
		return nil, err
	}
	return Summarize(rows), nil
}

type accumulator struct {
	summary      *ModelSummary
	accuracy     meanAcc
	coherence    meanAcc
	completeness meanAcc
	isQuestion   meanAcc
}

// Summarize groups join rows by (model, judge) and computes dimension
// means over the scores that are present. Output is ordered by model
// name, then judge name.
func Summarize(rows []*store.EvaluationRow) []*ModelSummary {
	groups := make(map[string]*accumulator)
	var order []string

	for _, row := range rows {
		if row == nil {
			continue
		}
		key := row.ModelName + "\x00" + row.JudgeModel
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{summary: &ModelSummary{
				ModelName:  row.ModelName,
				JudgeModel: row.JudgeModel,
			}}
			groups[key] = acc
			order = append(order, key)
		}

		s := acc.summary
		s.Answers++
		if row.JudgeModel != "" {
			s.Rated++
		}
		s.AnswerInputTokens += row.AnswerInputTokens
		s.AnswerOutputTokens += row.AnswerOutputTok
		s.JudgeInputTokens += row.JudgeInputTokens
		s.JudgeOutputTokens += row.JudgeOutputTokens

		acc.accuracy.add(row.Accuracy)
		acc.coherence.add(row.Coherence)
		acc.completeness.add(row.Completeness)
		acc.isQuestion.add(row.IsQuestion)
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	out := make([]*ModelSummary, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		s := acc.summary
		s.MeanAccuracy = acc.accuracy.mean()
		s.MeanCoherence = acc.coherence.mean()
		s.MeanCompleteness = acc.completeness.mean()
		s.MeanIsQuestion = acc.isQuestion.mean()
		out = append(out, s)
	}
	return out
}

type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v *float64) {
	if v == nil {
		return
	}
	a.sum += *v
	a.n++
}

func (a *meanAcc) mean() *float64 {
	if a.n == 0 {
		return nil
	}
	m := a.sum / float64(a.n)
	return &m
}
