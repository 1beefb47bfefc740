// Package prompts holds the fixed templates for the play prompt and the
// four judge evaluation dimensions. The play template injects category
// and clue verbatim; dimension templates differ in which of the answer
// prompt/response they substitute and in what order.
package prompts

import "fmt"

// PlayUser is the generation prompt; category and clue fill the slots.
const PlayUser = "You are playing the game of Jeopardy. You will be given a category and a statement. Using the information provided, you must respond with a question. Category: '%s'. Here's your statement: '%s'."

// PlaySystem is intentionally empty; the task lives in the user prompt.
const PlaySystem = ""

// Play realizes the generation prompt for one question.
func Play(category, clue string) string {
	return fmt.Sprintf(PlayUser, category, clue)
}

// Dimension identifies one judge evaluation dimension.
type Dimension string

const (
	Accuracy     Dimension = "accuracy"
	Coherence    Dimension = "coherence"
	Completeness Dimension = "completeness"
	IsQuestion   Dimension = "is_question"
)

// Dimensions lists every dimension a judge scores for one answer.
var Dimensions = []Dimension{Completeness, Accuracy, Coherence, IsQuestion}

type dimensionPrompt struct {
	user   string
	system string
}

var dimensionPrompts = map[Dimension]dimensionPrompt{
	Accuracy: {
		user:   "Prompt sent to the AI Assistant: %s\\n Answer from the AI Assistant: %s\\n Your rating: ",
		system: "Please act as an impartial judge and evaluate the accuracy of the response provided by an AI assistant to the user for playing the game of Jeopardy. Respond only with a rating between 0 and 1.",
	},
	Coherence: {
		user:   "Please act as an impartial judge and determine if the response provided by an AI assistant to the user was clear or understandable. Response from the AI Assistant: %s",
		system: "Evaluate the coherence of the response provided by an AI assistant. Respond only with a rating between 0 and 1.",
	},
	Completeness: {
		user:   "Evaluate the completeness of the answer '%s' to the question '%s' on a scale of 0 to 1, where 1 is highly complete and 0 is not complete at all.",
		system: "Please act as an impartial judge and evaluate the completeness of the response provided by an AI assistant to the user for playing the game of Jeopardy. Respond only with a rating between 0 and 1.",
	},
	IsQuestion: {
		user:   "Determine if the following text is a question (1) or not a question (0): %s",
		system: "Please act as an impartial judge and determine if the response provided by an AI assistant to the user for playing the game of Jeopardy is a question (1) or not a question (0).",
	},
}

// Judgement realizes the user prompt for one dimension. Accuracy takes
// (prompt, response), completeness takes (response, prompt), coherence
// and is_question take only the response.
func Judgement(dim Dimension, answerPrompt, answerResponse string) (user string, system string, err error) {
	p, ok := dimensionPrompts[dim]
	if !ok {
		return "", "", fmt.Errorf("prompts: unknown dimension %q", dim)
	}

	switch dim {
	case Accuracy:
		user = fmt.Sprintf(p.user, answerPrompt, answerResponse)
	case Completeness:
		user = fmt.Sprintf(p.user, answerResponse, answerPrompt)
	default:
		user = fmt.Sprintf(p.user, answerResponse)
	}
	return user, p.system, nil
}
