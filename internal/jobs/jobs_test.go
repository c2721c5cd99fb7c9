package jobs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talarad/goldrad-bot/internal/quote"
)

func TestNewQuoteRefreshTask(t *testing.T) {
	task, err := NewQuoteRefreshTask(quote.Instruments)
	require.NoError(t, err)

	assert.Equal(t, TaskTypeQuoteRefresh, task.Type())

	var payload QuoteRefreshPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, quote.Instruments, payload.Instruments)
}

func TestRefreshSpecFollowsCacheTTL(t *testing.T) {
	testCases := []struct {
		name string
		ttl  time.Duration
		want string
	}{
		{name: "one minute", ttl: time.Minute, want: "@every 1m0s"},
		{name: "thirty seconds", ttl: 30 * time.Second, want: "@every 30s"},
		{name: "five minutes", ttl: 5 * time.Minute, want: "@every 5m0s"},
		{name: "zero falls back to default", ttl: 0, want: "@every 1m0s"},
		{name: "negative falls back to default", ttl: -time.Second, want: "@every 1m0s"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, refreshSpec(tc.ttl))
		})
	}
}
