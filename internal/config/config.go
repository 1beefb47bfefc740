package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

const (
	DefaultBatchSize    = 25
	DefaultSQLitePath   = "output/quizbench.db"
	DefaultQuestionFile = "data/questions.jsonl"
	DefaultModelFile    = "data/models.jsonl"
	DefaultJudgeFile    = "data/judges.jsonl"
)

type Config struct {
	Providers  map[string]ProviderConfig `yaml:"providers,omitempty"`
	Storage    StorageConfig             `yaml:"storage"`
	Generation GenerationConfig          `yaml:"generation"`
	Data       DataConfig                `yaml:"data"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

type GenerationConfig struct {
	BatchSize   int `yaml:"batch_size,omitempty"`
	Concurrency int `yaml:"concurrency,omitempty"` // 0 means host parallelism
}

type DataConfig struct {
	QuestionsFile string `yaml:"questions_file,omitempty"`
	ModelsFile    string `yaml:"models_file,omitempty"`
	JudgesFile    string `yaml:"judges_file,omitempty"`
}

// Load reads the YAML config at path and applies env var and default
// fallbacks. A missing file is not an error when path is the default
// location; all settings then come from env vars and defaults.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	usingDefault := path == ""
	if usingDefault {
		path = DefaultPath
	}

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	case os.IsNotExist(err) && usingDefault:
		// Defaults only.
	default:
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.Providers["claude"]
		p.APIKey = v
		cfg.Providers["claude"] = p
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.Providers["openai"]
		p.APIKey = v
		cfg.Providers["openai"] = p
	}

	if cfg.Generation.BatchSize <= 0 {
		cfg.Generation.BatchSize = DefaultBatchSize
	}
	if strings.TrimSpace(cfg.Storage.Path) == "" {
		cfg.Storage.Path = DefaultSQLitePath
	}
	if strings.TrimSpace(cfg.Data.QuestionsFile) == "" {
		cfg.Data.QuestionsFile = DefaultQuestionFile
	}
	if strings.TrimSpace(cfg.Data.ModelsFile) == "" {
		cfg.Data.ModelsFile = DefaultModelFile
	}
	if strings.TrimSpace(cfg.Data.JudgesFile) == "" {
		cfg.Data.JudgesFile = DefaultJudgeFile
	}

	return &cfg, nil
}
