package main

import (
	"strings"
	"testing"

	"github.com/stellarlinkco/quizbench/internal/report"
)

func score(v float64) *float64 { return &v }

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want OutputFormat
	}{
		{in: "table", want: FormatTable},
		{in: " Table ", want: FormatTable},
		{in: "json", want: FormatJSON},
		{in: "jsonl", want: FormatJSON},
		{in: "csv", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := parseOutputFormat(tt.in); got != tt.want {
			t.Fatalf("parseOutputFormat(%q): got %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSummaries_Table(t *testing.T) {
	t.Parallel()

	summaries := []*report.ModelSummary{
		{
			ModelName:          "gpt-4",
			JudgeModel:         "human",
			Answers:            2,
			Rated:              2,
			MeanAccuracy:       score(0.75),
			MeanIsQuestion:     score(1),
			AnswerInputTokens:  20,
			AnswerOutputTokens: 10,
		},
	}

	got := FormatSummaries(summaries, FormatTable)
	if !strings.Contains(got, "MODEL") || !strings.Contains(got, "gpt-4") {
		t.Fatalf("table: %q", got)
	}
	if !strings.Contains(got, "0.750") || !strings.Contains(got, "1.000") {
		t.Fatalf("table scores: %q", got)
	}
	// Absent means render as a dash.
	if !strings.Contains(got, "-") {
		t.Fatalf("table missing scores: %q", got)
	}
}

func TestFormatSummaries_TableEmpty(t *testing.T) {
	t.Parallel()

	if got := FormatSummaries(nil, FormatTable); !strings.Contains(got, "No results.") {
		t.Fatalf("empty table: %q", got)
	}
}

func TestFormatSummaries_JSON(t *testing.T) {
	t.Parallel()

	summaries := []*report.ModelSummary{
		{ModelName: "a", JudgeModel: "j1", Answers: 1},
		{ModelName: "b", JudgeModel: "j2", Answers: 2, MeanCoherence: score(0.5)},
	}

	got := FormatSummaries(summaries, FormatJSON)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 {
		t.Fatalf("json lines: got %d want %d\n%s", len(lines), 2, got)
	}
	if !strings.Contains(lines[0], `"model":"a"`) {
		t.Fatalf("json line 0: %q", lines[0])
	}
	if !strings.Contains(lines[1], `"mean_coherence":0.5`) {
		t.Fatalf("json line 1: %q", lines[1])
	}
	// Nil means are omitted entirely.
	if strings.Contains(lines[0], "mean_accuracy") {
		t.Fatalf("json line 0 should omit nil means: %q", lines[0])
	}
}

func TestFormatSummaries_UnknownFormat(t *testing.T) {
	t.Parallel()

	if got := FormatSummaries(nil, OutputFormat("csv")); !strings.Contains(got, "unknown output format") {
		t.Fatalf("unknown format: %q", got)
	}
}
