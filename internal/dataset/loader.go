// Package dataset loads the newline-delimited JSON inputs: the question
// set and the model/judge catalogs.
package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stellarlinkco/quizbench/internal/store"
)

type questionRow struct {
	Category   string `json:"category"`
	AirDate    string `json:"air_date"`
	Question   string `json:"question"`
	Value      string `json:"value"`
	Answer     string `json:"answer"`
	Round      string `json:"round"`
	ShowNumber string `json:"show_number"`
}

type modelRow struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// LoadQuestions reads question records from a JSONL file.
func LoadQuestions(ctx context.Context, path string) ([]*store.Question, error) {
	rows, err := readJSONL[questionRow](ctx, path)
	if err != nil {
		return nil, err
	}

	out := make([]*store.Question, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.Question) == "" {
			return nil, fmt.Errorf("dataset: %s line %d: empty question text", path, i+1)
		}
		out = append(out, &store.Question{
			Category:   row.Category,
			AirDate:    row.AirDate,
			Clue:       row.Question,
			Value:      row.Value,
			Answer:     row.Answer,
			Round:      row.Round,
			ShowNumber: row.ShowNumber,
		})
	}
	return out, nil
}

// LoadModels reads model records from a JSONL file.
func LoadModels(ctx context.Context, path string) ([]*store.Model, error) {
	rows, err := readJSONL[modelRow](ctx, path)
	if err != nil {
		return nil, err
	}

	out := make([]*store.Model, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.Model) == "" || strings.TrimSpace(row.Provider) == "" {
			return nil, fmt.Errorf("dataset: %s line %d: missing model/provider", path, i+1)
		}
		out = append(out, &store.Model{
			Name:     row.Model,
			Provider: row.Provider,
		})
	}
	return out, nil
}

// LoadJudgeModels reads judge catalog records from a JSONL file.
func LoadJudgeModels(ctx context.Context, path string) ([]*store.JudgeModel, error) {
	rows, err := readJSONL[modelRow](ctx, path)
	if err != nil {
		return nil, err
	}

	out := make([]*store.JudgeModel, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.Model) == "" || strings.TrimSpace(row.Provider) == "" {
			return nil, fmt.Errorf("dataset: %s line %d: missing model/provider", path, i+1)
		}
		out = append(out, &store.JudgeModel{
			Name:     row.Model,
			Provider: row.Provider,
		})
	}
	return out, nil
}

func readJSONL[T any](ctx context.Context, path string) ([]T, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("dataset: empty jsonl path")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %q: %w", path, err)
	}
	defer f.Close()

	return decodeJSONLStream[T](ctx, f)
}

func decodeJSONLStream[T any](ctx context.Context, r io.Reader) ([]T, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var out []T
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return out, fmt.Errorf("dataset: parse jsonl: %w", err)
		}
		out = append(out, item)
	}
	if err := sc.Err(); err != nil {
		return out, err
	}
	return out, nil
}
