// Package judge scores persisted answers on four quality dimensions by
// eliciting short numeric verdicts from an external evaluator, and
// drives the judgement pass over unrated answers.
package judge

import (
	"context"
	"log"
	"regexp"
	"strconv"

	"github.com/stellarlinkco/quizbench/internal/prompts"
)

// One scoring call per dimension: a handful of output tokens at zero
// temperature biases the evaluator toward a bare numeral.
const (
	scoreMaxTokens   = 7
	scoreTemperature = 0.0
)

// Judge scores one (prompt, response) pair on all four dimensions.
type Judge interface {
	Name() string
	Score(ctx context.Context, answerPrompt, answerResponse string) *Scorecard
}

// Scorecard holds the four dimension scores plus the token totals the
// judge spent across its scoring calls for one answer. A nil score
// means the dimension's call failed or produced no extractable numeral.
type Scorecard struct {
	Accuracy     *float64
	Coherence    *float64
	Completeness *float64
	IsQuestion   *float64
	InputTokens  int
	OutputTokens int
}

func (c *Scorecard) set(dim prompts.Dimension, score *float64) {
	switch dim {
	case prompts.Accuracy:
		c.Accuracy = score
	case prompts.Coherence:
		c.Coherence = score
	case prompts.Completeness:
		c.Completeness = score
	case prompts.IsQuestion:
		c.IsQuestion = score
	}
}

// scoreCall makes one scoring request to the judge's evaluator and
// returns token usage plus the raw text verdict.
type scoreCall func(ctx context.Context, userPrompt, systemPrompt string) (inputTokens, outputTokens int, text string, err error)

// LLMJudge binds the scoring protocol to one external evaluator.
type LLMJudge struct {
	name string
	call scoreCall
}

func (j *LLMJudge) Name() string {
	if j == nil {
		return ""
	}
	return j.name
}

// Score evaluates every dimension, tolerating per-dimension failures:
// a failed call or unparseable verdict leaves that score nil and
// contributes zero tokens. Token totals are local to this call, so a
// Scorecard never carries usage from other answers.
func (j *LLMJudge) Score(ctx context.Context, answerPrompt, answerResponse string) *Scorecard {
	card := &Scorecard{}
	if j == nil || j.call == nil {
		return card
	}

	for _, dim := range prompts.Dimensions {
		user, system, err := prompts.Judgement(dim, answerPrompt, answerResponse)
		if err != nil {
			log.Printf("judge: %s: %v", j.name, err)
			continue
		}

		inputTokens, outputTokens, text, err := j.call(ctx, user, system)
		if err != nil {
			log.Printf("judge: %s: %s call failed: %v", j.name, dim, err)
			continue
		}
		card.InputTokens += inputTokens
		card.OutputTokens += outputTokens

		score, ok := ExtractScore(text)
		if !ok {
			log.Printf("judge: %s: no numeral in %s verdict %q", j.name, dim, text)
			continue
		}
		score = clampScore(score)
		card.set(dim, &score)
	}

	return card
}

var scorePattern = regexp.MustCompile(`(?:\d+(?:\.\d*)?|\.\d+)`)

// ExtractScore finds the first decimal or integer numeral anywhere in
// the evaluator's free-text verdict. Preambles like "Rating: 4" are
// tolerated; text with no numeral reports ok=false.
func ExtractScore(text string) (float64, bool) {
	match := scorePattern.FindString(text)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// clampScore folds out-of-range verdicts into the [0,1] scale the
// dimension prompts request. Evaluators occasionally answer on a 1-5
// or percent scale despite the instructions.
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
