package notifyclient

import (
	"bufio"
	"io"
	"strings"
)

// Event is one server-sent event. Type is empty for unnamed events.
type Event struct {
	Type string
	Data string
}

// Scanner reads events from a text/event-stream body. Events end at a blank
// line; data lines are joined with "\n"; comments and unknown fields are skipped.
type Scanner struct {
	reader  *bufio.Reader
	current Event
	err     error
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReaderSize(r, 64*1024)}
}

// Next advances to the next event. It returns false at EOF or on a read error.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}

	var (
		dataLines []string
		eventType string
		hasData   bool
	)
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && line == "" {
			s.err = err
			if err == io.EOF && hasData {
				s.current = Event{Type: eventType, Data: strings.Join(dataLines, "\n")}
				return true
			}
			return false
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if hasData {
				s.current = Event{Type: eventType, Data: strings.Join(dataLines, "\n")}
				return true
			}
			eventType = ""
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if !ok {
			field, value = line, ""
		}
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			dataLines = append(dataLines, value)
			hasData = true
		case "event":
			eventType = value
		}
	}
}

func (s *Scanner) Event() Event {
	return s.current
}

// Err returns the read error that stopped the scanner, nil on a clean EOF.
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
