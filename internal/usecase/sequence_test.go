package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceRunsInOrder(t *testing.T) {
	var calls []string
	seq := NewSequence(nullLogger())
	for _, name := range []string{"a", "b", "c"} {
		name := name
		seq.AddStep(name, func(context.Context) error {
			calls = append(calls, name)
			return nil
		})
	}

	require.NoError(t, seq.Execute(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestSequenceStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	var calls []string

	seq := NewSequence(nullLogger())
	seq.AddStep("a", func(context.Context) error { calls = append(calls, "a"); return nil })
	seq.AddStep("b", func(context.Context) error { calls = append(calls, "b"); return boom })
	seq.AddStep("c", func(context.Context) error { calls = append(calls, "c"); return nil })

	err := seq.Execute(context.Background())

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "b", stepErr.Step)
	assert.Equal(t, []string{"a"}, stepErr.Completed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestSequenceHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	seq := NewSequence(nil)
	seq.AddStep("a", func(context.Context) error { called = true; return nil })

	err := seq.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
