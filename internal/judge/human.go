package judge

import (
	"context"
	"strings"
)

// HumanJudge is the offline fallback: no API calls, no token spend.
// It marks a response as a question when it ends with "?" and fills
// the remaining dimensions with neutral placeholder scores, which
// keeps the rating schema populated for smoke runs without keys.
type HumanJudge struct{}

const (
	humanJudgeName        = "human"
	humanPlaceholderScore = 0.5
	humanQuestionYes      = 1.0
	humanQuestionNo       = 0.0
)

func (HumanJudge) Name() string { return humanJudgeName }

func (HumanJudge) Score(_ context.Context, _, answerResponse string) *Scorecard {
	isQuestion := humanQuestionNo
	if strings.HasSuffix(strings.TrimSpace(answerResponse), "?") {
		isQuestion = humanQuestionYes
	}

	accuracy := humanPlaceholderScore
	coherence := humanPlaceholderScore
	completeness := humanPlaceholderScore
	return &Scorecard{
		Accuracy:     &accuracy,
		Coherence:    &coherence,
		Completeness: &completeness,
		IsQuestion:   &isQuestion,
	}
}
