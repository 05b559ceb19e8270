package notifyclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReconnectDelay(t *testing.T) {
	want := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, d := range want {
		assert.Equal(t, d, ReconnectDelay(i+1), "attempt %d", i+1)
	}
	assert.Equal(t, time.Second, ReconnectDelay(0))
	assert.Equal(t, 30*time.Second, ReconnectDelay(64))
}

func TestBackOffMatchesReconnectDelay(t *testing.T) {
	b := newBackOff(ReconnectDelay(1), maxDelay)
	for attempt := 1; attempt <= 8; attempt++ {
		assert.Equal(t, ReconnectDelay(attempt), b.NextBackOff(), "attempt %d", attempt)
	}

	b.Reset()
	assert.Equal(t, ReconnectDelay(1), b.NextBackOff())
}
