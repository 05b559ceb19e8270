package notifyclient

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner(t *testing.T) {
	stream := strings.Join([]string{
		": connected",
		"event: init",
		"data: [1,",
		"data: 2]",
		"",
		": ping",
		"",
		"data: {\"id\":\"a\"}\r",
		"\r",
		"id: 7",
		"retry: 1000",
		"data:no-space",
		"",
		"event: init",
		"",
		"data: tail",
	}, "\n")

	s := NewScanner(strings.NewReader(stream))
	var got []Event
	for s.Next() {
		got = append(got, s.Event())
	}
	require.NoError(t, s.Err())

	assert.Equal(t, []Event{
		{Type: "init", Data: "[1,\n2]"},
		{Type: "", Data: `{"id":"a"}`},
		{Type: "", Data: "no-space"},
		{Type: "", Data: "tail"},
	}, got)
	assert.False(t, s.Next())
}

func TestScanner_Empty(t *testing.T) {
	s := NewScanner(strings.NewReader(": only a comment\n\n"))
	assert.False(t, s.Next())
	assert.NoError(t, s.Err())
}
