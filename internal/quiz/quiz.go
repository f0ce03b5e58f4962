// Package quiz holds the onboarding questionnaire and turns a user's answers
// into stored preferences and a personality type.
package quiz

import (
	"errors"
	"fmt"
	"sort"

	"github.com/JakubEth/gramytu/internal/types"
	"github.com/go-playground/validator/v10"
)

type Kind string

const (
	KindSingle Kind = "single"
	KindMulti  Kind = "multi"
)

// Personality types, in tie-break order.
const (
	Strategist  = "strategist"
	Socializer  = "socializer"
	Explorer    = "explorer"
	Storyteller = "storyteller"
)

var personalityOrder = []string{Strategist, Socializer, Explorer, Storyteller}

var ErrInvalidAnswers = errors.New("invalid quiz answers")

type Option struct {
	ID     string         `json:"id"`
	Label  string         `json:"label"`
	Traits map[string]int `json:"-"`
}

type Question struct {
	ID      string   `json:"id"`
	Step    int      `json:"step"`
	Prompt  string   `json:"prompt"`
	Kind    Kind     `json:"kind"`
	Options []Option `json:"options"`
}

// Answers maps question IDs to the chosen option IDs.
type Answers map[string][]string

type Submission struct {
	Answers Answers `json:"answers" validate:"required,min=1,dive,keys,required,endkeys,min=1,dive,required"`
}

var validate = validator.New()

func (q Question) option(id string) (Option, bool) {
	for _, option := range q.Options {
		if option.ID == id {
			return option, true
		}
	}
	return Option{}, false
}

// Questions returns the question bank in display order.
func Questions() []Question {
	return questions
}

func findQuestion(id string) (Question, bool) {
	for _, question := range questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Validate checks that every question is answered exactly as its kind allows.
func Validate(submission Submission) error {
	if err := validate.Struct(submission); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}

	for id := range submission.Answers {
		if _, ok := findQuestion(id); !ok {
			return fmt.Errorf("%w: unknown question %q", ErrInvalidAnswers, id)
		}
	}

	for _, question := range questions {
		chosen, ok := submission.Answers[question.ID]

		if !ok || len(chosen) == 0 {
			return fmt.Errorf("%w: question %q is not answered", ErrInvalidAnswers, question.ID)
		}

		if question.Kind == KindSingle && len(chosen) != 1 {
			return fmt.Errorf("%w: question %q takes exactly one answer", ErrInvalidAnswers, question.ID)
		}

		seen := make(map[string]bool, len(chosen))
		for _, optionID := range chosen {
			if _, ok := question.option(optionID); !ok {
				return fmt.Errorf("%w: unknown option %q for question %q", ErrInvalidAnswers, optionID, question.ID)
			}
			if seen[optionID] {
				return fmt.Errorf("%w: option %q repeated for question %q", ErrInvalidAnswers, optionID, question.ID)
			}
			seen[optionID] = true
		}
	}

	return nil
}

// Evaluate validates the submission and derives the user's preferences.
func Evaluate(submission Submission) (types.Preferences, error) {
	if err := Validate(submission); err != nil {
		return types.Preferences{}, err
	}

	answers := submission.Answers
	scores := make(map[string]int, len(personalityOrder))

	for _, question := range questions {
		for _, optionID := range answers[question.ID] {
			option, _ := question.option(optionID)
			for trait, points := range option.Traits {
				scores[trait] += points
			}
		}
	}

	genres := append([]string(nil), answers[QuestionGenres]...)
	sort.Strings(genres)

	return types.Preferences{
		FavoriteGenres:  genres,
		PlayStyle:       answers[QuestionPlayStyle][0],
		GroupSize:       answers[QuestionGroupSize][0],
		Experience:      answers[QuestionExperience][0],
		PersonalityType: topTrait(scores),
	}, nil
}

func topTrait(scores map[string]int) string {
	best := personalityOrder[0]

	for _, trait := range personalityOrder[1:] {
		if scores[trait] > scores[best] {
			best = trait
		}
	}

	return best
}
