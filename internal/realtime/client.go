package realtime

import (
	"errors"

	"github.com/google/uuid"
)

const (
	TransportSSE = "sse"
	TransportWS  = "ws"
)

var ErrHubClosed = errors.New("notification hub is closed")

// Client is one open stream. The hub writes to Send and closes it on
// unregister; the transport drains it.
type Client struct {
	UserID    uuid.UUID
	Transport string
	Send      chan []byte

	registered chan struct{}
}

func NewClient(userID uuid.UUID, transport string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 64
	}
	return &Client{
		UserID:     userID,
		Transport:  transport,
		Send:       make(chan []byte, buffer),
		registered: make(chan struct{}),
	}
}
