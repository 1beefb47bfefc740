package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfigFile(t, `
providers:
  claude:
    api_key: file-claude-key
  openai:
    api_key: file-openai-key
    base_url: https://openai.example.com/v1
storage:
  type: sqlite
  path: out/bench.db
generation:
  batch_size: 10
  concurrency: 4
data:
  questions_file: data/q.jsonl
  models_file: data/m.jsonl
  judges_file: data/j.jsonl
`)
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Providers["claude"].APIKey != "file-claude-key" {
		t.Fatalf("claude api key: got %q", cfg.Providers["claude"].APIKey)
	}
	if cfg.Providers["openai"].BaseURL != "https://openai.example.com/v1" {
		t.Fatalf("openai base url: got %q", cfg.Providers["openai"].BaseURL)
	}
	if cfg.Storage.Path != "out/bench.db" {
		t.Fatalf("storage path: got %q", cfg.Storage.Path)
	}
	if cfg.Generation.BatchSize != 10 || cfg.Generation.Concurrency != 4 {
		t.Fatalf("generation: got %+v", cfg.Generation)
	}
	if cfg.Data.QuestionsFile != "data/q.jsonl" {
		t.Fatalf("questions file: got %q", cfg.Data.QuestionsFile)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
providers:
  claude:
    api_key: file-key
`)
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("OPENAI_API_KEY", "env-openai-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers["claude"].APIKey != "env-key" {
		t.Fatalf("claude api key: got %q want env override", cfg.Providers["claude"].APIKey)
	}
	if cfg.Providers["openai"].APIKey != "env-openai-key" {
		t.Fatalf("openai api key: got %q", cfg.Providers["openai"].APIKey)
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("Chdir back: %v", err)
		}
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generation.BatchSize != DefaultBatchSize {
		t.Fatalf("batch size default: got %d want %d", cfg.Generation.BatchSize, DefaultBatchSize)
	}
	if cfg.Storage.Path != DefaultSQLitePath {
		t.Fatalf("storage path default: got %q", cfg.Storage.Path)
	}
	if cfg.Data.QuestionsFile != DefaultQuestionFile || cfg.Data.ModelsFile != DefaultModelFile || cfg.Data.JudgesFile != DefaultJudgeFile {
		t.Fatalf("data defaults: got %+v", cfg.Data)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("Load: expected error for missing explicit path")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "providers: [\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("Load: expected parse error")
	}
}
