package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecuteRunsAllHooks(t *testing.T) {
	s := NewShutdown(testLogger())

	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		s.Register("hook", func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	err := s.Execute(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(3), ran.Load())
}

func TestExecuteCollectsFailures(t *testing.T) {
	s := NewShutdown(testLogger())

	bootErr := errors.New("still busy")
	s.Register("ok", func(context.Context) error { return nil })
	s.Register("broken", func(context.Context) error { return bootErr })

	err := s.Execute(context.Background())
	assert.ErrorIs(t, err, bootErr)
	assert.Contains(t, err.Error(), "broken")
}

func TestRegisterIgnoresNilHook(t *testing.T) {
	s := NewShutdown(testLogger())
	s.Register("nil", nil)

	assert.NoError(t, s.Execute(context.Background()))
}
