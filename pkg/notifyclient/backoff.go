package notifyclient

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	baseDelay = time.Second
	maxDelay  = 30 * time.Second
)

// ReconnectDelay is the wait before reconnect attempt n (n >= 1): min(30s, 1s<<n).
// Attempts from 5 on return the cap directly so large n cannot overflow the shift.
func ReconnectDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= 5 {
		return maxDelay
	}
	return min(maxDelay, baseDelay<<attempt)
}

// newBackOff yields ReconnectDelay(1), ReconnectDelay(2), ... until Reset.
func newBackOff(initial, ceiling time.Duration) *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     initial,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         ceiling,
	}
	b.Reset()
	return b
}
