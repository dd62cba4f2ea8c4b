// Package wizard walks a user through the questionnaire one step at a time.
// States are values: every transition returns a new State and leaves the old
// one untouched.
package wizard

import (
	"errors"
	"fmt"

	"github.com/HerbHall/spacematch/internal/match"
	"github.com/HerbHall/spacematch/internal/questions"
)

// Errors returned by Answer.
var (
	ErrNoSelection   = errors.New("wizard: no option selected")
	ErrUnknownOption = errors.New("wizard: unknown option")
	ErrTooManyValues = errors.New("wizard: question takes a single answer")
	ErrFinished      = errors.New("wizard: all questions answered")
)

// State is the progress through a questionnaire.
type State struct {
	questions []questions.Question
	step      int
	selection match.Selection
	answers   map[string][]string
}

// New starts a questionnaire at its first question.
func New(qs []questions.Question) State {
	return State{questions: qs, answers: map[string][]string{}}
}

// Step returns the index of the pending question.
func (s State) Step() int {
	return s.step
}

// Done reports whether every question has been answered.
func (s State) Done() bool {
	return s.step >= len(s.questions)
}

// Current returns the pending question. ok is false once Done.
func (s State) Current() (q questions.Question, ok bool) {
	if s.Done() {
		return questions.Question{}, false
	}
	return s.questions[s.step], true
}

// Selection returns the answers collected so far.
func (s State) Selection() match.Selection {
	return s.selection
}

// Answered returns the options chosen for question id, if any.
func (s State) Answered(id string) []string {
	return s.answers[id]
}

// Answer records values as the answer to the pending question and moves on to
// the next one. Values are matched against the question's options ignoring
// case and accents.
func (s State) Answer(values ...string) (State, error) {
	q, ok := s.Current()
	if !ok {
		return s, ErrFinished
	}
	if len(values) == 0 {
		return s, ErrNoSelection
	}
	if q.Kind != questions.KindMultiple && len(values) > 1 {
		return s, fmt.Errorf("%w: %s", ErrTooManyValues, q.ID)
	}

	chosen := make([]string, 0, len(values))
	for _, v := range values {
		opt := q.Option(v)
		if opt == "" {
			return s, fmt.Errorf("%w: %q for %s", ErrUnknownOption, v, q.ID)
		}
		chosen = append(chosen, opt)
	}

	next := s.clone()
	switch q.Kind {
	case questions.KindSingleObject:
		b, ok := q.Bucket(chosen[0])
		if !ok {
			return s, fmt.Errorf("%w: %q for %s", ErrUnknownOption, chosen[0], q.ID)
		}
		next.selection.Capacity = b.Range
	case questions.KindSingle:
		next.selection.Privacy = chosen[0]
	case questions.KindMultiple:
		next.selection.Equipment = chosen
	}
	next.answers[q.ID] = chosen
	next.step++
	return next, nil
}

// Back returns to the previous question, keeping the answers given so far.
func (s State) Back() State {
	if s.step == 0 {
		return s
	}
	next := s.clone()
	next.step--
	return next
}

// Reset discards every answer and returns to the first question.
func (s State) Reset() State {
	return New(s.questions)
}

func (s State) clone() State {
	answers := make(map[string][]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	sel := s.selection
	sel.Equipment = append([]string(nil), s.selection.Equipment...)
	return State{questions: s.questions, step: s.step, selection: sel, answers: answers}
}
