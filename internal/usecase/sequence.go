package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Sequence runs named steps in order and stops at the first failure.
// Earlier steps are not undone.
type Sequence struct {
	steps  []Step
	logger logrus.FieldLogger
}

type Step struct {
	Name string
	Fn   func(context.Context) error
}

// StepError reports which step of a Sequence failed.
type StepError struct {
	Step      string
	Completed []string
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step '%s' failed after %d completed: %v", e.Step, len(e.Completed), e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func NewSequence(logger logrus.FieldLogger) *Sequence {
	return &Sequence{steps: []Step{}, logger: logger}
}

func (s *Sequence) AddStep(name string, fn func(context.Context) error) {
	s.steps = append(s.steps, Step{Name: name, Fn: fn})
}

func (s *Sequence) Execute(ctx context.Context) error {
	completed := make([]string, 0, len(s.steps))

	for _, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: step.Name, Completed: completed, Err: err}
		}
		if err := step.Fn(ctx); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{
					"step":      step.Name,
					"completed": completed,
				}).WithError(err).Warn("sequence step failed")
			}
			return &StepError{Step: step.Name, Completed: completed, Err: err}
		}
		completed = append(completed, step.Name)
	}

	return nil
}
