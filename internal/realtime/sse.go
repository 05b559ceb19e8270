package realtime

import (
	"bufio"
	"fmt"
	"time"
)

// ServeSSE writes the init frame followed by every push and a keep-alive
// comment, until a write fails or the hub closes the client. It must run in
// the response stream goroutine; the client is unregistered on return.
func (h *Hub) ServeSSE(w *bufio.Writer, client *Client, backlog []byte, keepAlive time.Duration) {
	defer h.Unregister(client)

	if err := writeSSE(w, "init", backlog); err != nil {
		h.logger.Info("Hub", "SSE client gone before init", map[string]interface{}{"user_id": client.UserID.String()})
		return
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := writeSSE(w, "", msg); err != nil {
				h.logger.Info("Hub", "SSE write failed, closing stream", map[string]interface{}{"user_id": client.UserID.String(), "error": err.Error()})
				return
			}
		case <-ticker.C:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func writeSSE(w *bufio.Writer, event string, data []byte) error {
	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}
