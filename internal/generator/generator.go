// Package generator drives batched, parallel answer generation for a
// test run. Each model gets its own bounded worker pool; batches hold
// disjoint questions, so workers never write the same (question, model,
// test run) row.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/stellarlinkco/quizbench/internal/llm"
	"github.com/stellarlinkco/quizbench/internal/prompts"
	"github.com/stellarlinkco/quizbench/internal/store"
)

const DefaultBatchSize = 25

// Config tunes one generation pass.
type Config struct {
	BatchSize   int // questions per worker batch; default 25
	Concurrency int // pool size; default runtime.NumCPU()
}

// Generator fills in missing answers for (question, model) pairs.
type Generator struct {
	store store.Store
	cfg   Config
}

// Result summarizes one model's generation pass.
type Result struct {
	ModelID   int64
	ModelName string
	Generated int // answers inserted this pass
	Failed    int // inserted with empty response after a call failure
	Skipped   int // already answered before this pass
}

func New(st store.Store, cfg Config) *Generator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	return &Generator{store: st, cfg: cfg}
}

// Run guarantees every question has exactly one answer for (model,
// testRun). Only questions the store reports as unanswered are
// dispatched, so re-running a completed pass inserts nothing. A failed
// provider call yields an answer with empty text and zero tokens; the
// pass continues.
func (g *Generator) Run(ctx context.Context, provider llm.Provider, model *store.Model, testRunID int64) (*Result, error) {
	if g == nil || g.store == nil {
		return nil, errors.New("generator: nil generator")
	}
	if ctx == nil {
		return nil, errors.New("generator: nil context")
	}
	if provider == nil {
		return nil, errors.New("generator: nil provider")
	}
	if model == nil {
		return nil, errors.New("generator: nil model")
	}
	if testRunID <= 0 {
		return nil, fmt.Errorf("generator: invalid test run id %d", testRunID)
	}

	total, err := g.store.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := g.store.UnansweredQuestions(ctx, model.ID, testRunID)
	if err != nil {
		return nil, err
	}

	out := &Result{
		ModelID:   model.ID,
		ModelName: model.Name,
		Skipped:   len(total) - len(pending),
	}
	if len(pending) == 0 {
		return out, nil
	}

	batches := chunk(pending, g.cfg.BatchSize)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, g.cfg.Concurrency)

	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}

		batch := batch
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			generated, failed, err := g.processBatch(ctx, provider, model, testRunID, batch)

			mu.Lock()
			out.Generated += generated
			out.Failed += failed
			if err != nil && firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return out, fmt.Errorf("generator: model %q: %w", model.Name, firstErr)
	}
	return out, nil
}

// processBatch answers every question in the batch in order. A provider
// error degrades to an empty answer; a store error aborts the batch.
func (g *Generator) processBatch(ctx context.Context, provider llm.Provider, model *store.Model, testRunID int64, batch []*store.Question) (generated, failed int, err error) {
	for _, q := range batch {
		if err := ctx.Err(); err != nil {
			return generated, failed, err
		}

		prompt := prompts.Play(q.Category, q.Clue)

		answer := &store.Answer{
			QuestionID: q.ID,
			ModelID:    model.ID,
			TestRunID:  testRunID,
			Prompt:     prompt,
		}

		res, callErr := provider.Generate(ctx, prompt, model.Name)
		if callErr != nil {
			log.Printf("generator: model %q question %d: %v", model.Name, q.ID, callErr)
			failed++
		} else if res != nil {
			answer.Response = res.Text
			answer.InputTokens = res.InputTokens
			answer.OutputTokens = res.OutputTokens
		}

		if err := g.store.InsertAnswer(ctx, answer); err != nil {
			return generated, failed, err
		}
		generated++
	}
	return generated, failed, nil
}

func chunk(questions []*store.Question, size int) [][]*store.Question {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]*store.Question
	for start := 0; start < len(questions); start += size {
		end := start + size
		if end > len(questions) {
			end = len(questions)
		}
		out = append(out, questions[start:end])
	}
	return out
}
