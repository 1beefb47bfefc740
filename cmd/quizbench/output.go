package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/stellarlinkco/quizbench/internal/report"
)

type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

func parseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table":
		return FormatTable
	case "json", "jsonl":
		return FormatJSON
	default:
		return ""
	}
}

func FormatSummaries(summaries []*report.ModelSummary, format OutputFormat) string {
	switch format {
	case FormatTable:
		return formatSummariesTable(summaries)
	case FormatJSON:
		return formatSummariesJSON(summaries)
	default:
		return fmt.Sprintf("error: unknown output format %q\n", format)
	}
}

func formatSummariesTable(summaries []*report.ModelSummary) string {
	if len(summaries) == 0 {
		return "No results.\n"
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tJUDGE\tANSWERS\tRATED\tACCURACY\tCOHERENCE\tCOMPLETENESS\tIS_QUESTION\tANSWER_TOKENS\tJUDGE_TOKENS")
	for _, s := range summaries {
		if s == nil {
			continue
		}
		judgeName := s.JudgeModel
		if judgeName == "" {
			judgeName = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\t%d\t%d\n",
			s.ModelName, judgeName, s.Answers, s.Rated,
			scoreLabel(s.MeanAccuracy), scoreLabel(s.MeanCoherence),
			scoreLabel(s.MeanCompleteness), scoreLabel(s.MeanIsQuestion),
			s.AnswerInputTokens+s.AnswerOutputTokens,
			s.JudgeInputTokens+s.JudgeOutputTokens)
	}
	_ = tw.Flush()
	return buf.String()
}

func scoreLabel(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *v)
}

type jsonSummaryLine struct {
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

func formatSummariesJSON(summaries []*report.ModelSummary) string {
	var buf bytes.Buffer
	for _, s := range summaries {
		if s == nil {
			continue
		}
		line := jsonSummaryLine{
			Model:              s.ModelName,
			Judge:              s.JudgeModel,
			Answers:            s.Answers,
			Rated:              s.Rated,
			MeanAccuracy:       s.MeanAccuracy,
			MeanCoherence:      s.MeanCoherence,
			MeanCompleteness:   s.MeanCompleteness,
			MeanIsQuestion:     s.MeanIsQuestion,
			AnswerInputTokens:  s.AnswerInputTokens,
			AnswerOutputTokens: s.AnswerOutputTokens,
			JudgeInputTokens:   s.JudgeInputTokens,
			JudgeOutputTokens:  s.JudgeOutputTokens,
		}
		b, err := json.Marshal(line)
		if err != nil {
			return fmt.Sprintf("{\"error\":%q}\n", err.Error())
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	return buf.String()
}
