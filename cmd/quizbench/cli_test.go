package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeWorkspace lays out a config file, data files, and a database
// path in a temp dir, returning the config path. The configured model
// has no credentials, so provider calls fail and generation degrades
// to empty answers; the pipeline still completes offline.
func writeWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	questions := filepath.Join(dir, "questions.jsonl")
	if err := os.WriteFile(questions, []byte(
		`{"category":"HISTORY","question":"This general crossed the Rubicon","answer":"Caesar"}
{"category":"SCIENCE","question":"Atomic number 1","answer":"hydrogen"}
`), 0o644); err != nil {
		t.Fatalf("WriteFile questions: %v", err)
	}

	models := filepath.Join(dir, "models.jsonl")
	if err := os.WriteFile(models, []byte(
		`{"provider":"claude","model":"claude-3-opus-20240229"}
`), 0o644); err != nil {
		t.Fatalf("WriteFile models: %v", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	contents := fmt.Sprintf(`
storage:
  type: sqlite
  path: %s
generation:
  batch_size: 1
  concurrency: 1
data:
  questions_file: %s
  models_file: %s
`, filepath.Join(dir, "bench.db"), questions, models)
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile config: %v", err)
	}
	return configPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")
	t.Setenv("ANTHROPIC_BASE_URL", "")
	t.Setenv("OPENAI_API_KEY", "")
}

func TestCLI_GenerateJudgeResults(t *testing.T) {
	clearProviderEnv(t)
	configPath := writeWorkspace(t)

	out, err := execute(t, "generate", "--config", configPath)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "generated=2 failed=2 skipped=0") {
		t.Fatalf("generate output: %q", out)
	}

	// Rerun skips everything: the run is already complete.
	out, err = execute(t, "generate", "--config", configPath)
	if err != nil {
		t.Fatalf("generate rerun: %v\n%s", err, out)
	}
	if !strings.Contains(out, "generated=0 failed=0 skipped=2") {
		t.Fatalf("generate rerun output: %q", out)
	}

	out, err = execute(t, "judge", "--config", configPath, "--judge", "human")
	if err != nil {
		t.Fatalf("judge: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Judge human: rated=2 skipped=0") {
		t.Fatalf("judge output: %q", out)
	}

	out, err = execute(t, "judge", "--config", configPath, "--judge", "human")
	if err != nil {
		t.Fatalf("judge rerun: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Judge human: rated=0 skipped=2") {
		t.Fatalf("judge rerun output: %q", out)
	}

	out, err = execute(t, "results", "--config", configPath, "--output", "json")
	if err != nil {
		t.Fatalf("results: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"model":"claude-3-opus-20240229"`) || !strings.Contains(out, `"judge":"human"`) {
		t.Fatalf("results output: %q", out)
	}

	out, err = execute(t, "results", "--config", configPath)
	if err != nil {
		t.Fatalf("results table: %v\n%s", err, out)
	}
	if !strings.Contains(out, "MODEL") || !strings.Contains(out, "claude-3-opus-20240229") {
		t.Fatalf("results table output: %q", out)
	}
}

func TestCLI_NewRunStartsFresh(t *testing.T) {
	clearProviderEnv(t)
	configPath := writeWorkspace(t)

	if out, err := execute(t, "generate", "--config", configPath); err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}

	out, err := execute(t, "generate", "--config", configPath, "--new-run")
	if err != nil {
		t.Fatalf("generate new run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Test run: 2") {
		t.Fatalf("new run output: %q", out)
	}
	if !strings.Contains(out, "generated=2 failed=2 skipped=0") {
		t.Fatalf("new run output: %q", out)
	}
}

func TestCLI_GenerateUnknownProviderFailsFast(t *testing.T) {
	clearProviderEnv(t)
	configPath := writeWorkspace(t)

	// A second model with an unknown provider must abort the command
	// before any model generates a single answer.
	modelsPath := filepath.Join(filepath.Dir(configPath), "models.jsonl")
	if err := os.WriteFile(modelsPath, []byte(
		`{"provider":"claude","model":"claude-3-opus-20240229"}
{"provider":"watsonx","model":"granite-13b"}
`), 0o644); err != nil {
		t.Fatalf("WriteFile models: %v", err)
	}

	out, err := execute(t, "generate", "--config", configPath)
	if err == nil {
		t.Fatalf("generate: expected error for unknown provider\n%s", out)
	}
	if strings.Contains(out, "generated=") || strings.Contains(out, "Test run:") {
		t.Fatalf("generation started before the configuration error: %q", out)
	}
}

func TestCLI_GenerateUnknownModel(t *testing.T) {
	clearProviderEnv(t)
	configPath := writeWorkspace(t)

	if _, err := execute(t, "generate", "--config", configPath, "--model", "nope"); err == nil {
		t.Fatalf("generate: expected error for unknown model")
	}
}

func TestCLI_JudgeUnknownJudge(t *testing.T) {
	clearProviderEnv(t)
	configPath := writeWorkspace(t)

	if out, err := execute(t, "generate", "--config", configPath); err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	if _, err := execute(t, "judge", "--config", configPath, "--judge", "gemini-pro"); err == nil {
		t.Fatalf("judge: expected error for unknown judge")
	}
}

func TestCLI_Reset(t *testing.T) {
	clearProviderEnv(t)
	configPath := writeWorkspace(t)

	if out, err := execute(t, "generate", "--config", configPath); err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}

	if _, err := execute(t, "reset", "--config", configPath); err == nil {
		t.Fatalf("reset: expected refusal without --yes")
	}

	out, err := execute(t, "reset", "--config", configPath, "--yes")
	if err != nil {
		t.Fatalf("reset: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Store reset.") {
		t.Fatalf("reset output: %q", out)
	}

	// After a reset the pipeline starts over from an empty store.
	out, err = execute(t, "generate", "--config", configPath)
	if err != nil {
		t.Fatalf("generate after reset: %v\n%s", err, out)
	}
	if !strings.Contains(out, "generated=2") {
		t.Fatalf("generate after reset output: %q", out)
	}
}
