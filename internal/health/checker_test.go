package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

func TestCheckReportsEachComponent(t *testing.T) {
	checker := NewChecker(nil)
	checker.AddCheck("telegram", checkFunc(func(context.Context) error { return nil }))
	checker.AddCheck("quotes", checkFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))

	statuses := checker.Check(context.Background())

	assert.Equal(t, "OK", statuses["telegram"])
	assert.Equal(t, "connection refused", statuses["quotes"])
}

func TestAddCheckIgnoresInvalidEntries(t *testing.T) {
	checker := NewChecker(nil)
	checker.AddCheck("", checkFunc(func(context.Context) error { return nil }))
	checker.AddCheck("nil", nil)

	assert.Empty(t, checker.Check(context.Background()))
}

func TestHealthy(t *testing.T) {
	checker := NewChecker(nil)
	checker.AddCheck("telegram", checkFunc(func(context.Context) error { return nil }))

	assert.True(t, checker.Healthy(context.Background()))

	checker.AddCheck("redis", checkFunc(func(context.Context) error {
		return errors.New("redis down")
	}))

	assert.False(t, checker.Healthy(context.Background()))
}

func TestAllOK(t *testing.T) {
	assert.True(t, AllOK(nil))
	assert.True(t, AllOK(map[string]string{"a": "OK"}))
	assert.False(t, AllOK(map[string]string{"a": "OK", "b": "timeout"}))
}
