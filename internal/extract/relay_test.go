package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/echoaudit/internal/types"
)

func TestRelayRoundTrip(t *testing.T) {
	queued := make(chan Request, 1)
	r := NewRelay(WithRelayTimeout(time.Second), WithRelayNotify(func(req Request) { queued <- req }))

	go func() {
		req := <-queued
		assert.Equal(t, []Request{req}, r.Pending("tab-1"))
		assert.Empty(t, r.Pending("tab-2"))
		assert.NoError(t, r.Respond(Response{RequestID: req.ID, Text: "Agent   text", Length: 12}))
	}()

	text, err := r.Extract(context.Background(), types.PageHandle{TabID: "tab-1", URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Agent text", text)
	assert.Empty(t, r.Pending(""))
}

func TestRelayNoResponder(t *testing.T) {
	r := NewRelay(WithRelayTimeout(20 * time.Millisecond))

	_, err := r.Extract(context.Background(), types.PageHandle{TabID: "tab-1"})
	assert.ErrorIs(t, err, ErrNoResponder)
	assert.Empty(t, r.Pending(""))
}

func TestRelayAgentError(t *testing.T) {
	queued := make(chan Request, 1)
	r := NewRelay(WithRelayNotify(func(req Request) { queued <- req }))

	go func() {
		req := <-queued
		_ = r.Respond(Response{RequestID: req.ID, Error: "tab closed"})
	}()

	_, err := r.Extract(context.Background(), types.PageHandle{TabID: "tab-1"})
	assert.ErrorIs(t, err, ErrAgentFailed)
}

func TestRelayContextCanceled(t *testing.T) {
	r := NewRelay(WithRelayTimeout(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Extract(ctx, types.PageHandle{TabID: "tab-1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRelayRespondUnknown(t *testing.T) {
	r := NewRelay()

	assert.ErrorIs(t, r.Respond(Response{RequestID: "nope"}), ErrUnknownRequest)

	_, err := r.Extract(context.Background(), types.PageHandle{})
	assert.ErrorIs(t, err, ErrNoTab)
}
