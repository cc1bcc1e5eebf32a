package bot

import (
	"errors"
	"fmt"
)

var (
	// ErrLineBudget is returned when the protocol overhead of a line leaves no
	// room for text.
	ErrLineBudget = errors.New("no room left in line for message text")
	// ErrNoSender is returned when a reply is needed but the message had no
	// sender nick.
	ErrNoSender = errors.New("message has no sender nick")
)

// QuitRequest is the error through which an authorized Quit reaction reaches
// the run loop. It is never handled per message.
type QuitRequest struct {
	Msg string
}

func (q *QuitRequest) Error() string {
	if q.Msg == "" {
		return "module requested quit"
	}
	return fmt.Sprintf("module requested quit: %q", q.Msg)
}

// IsQuit reports whether err is, or wraps, a QuitRequest.
func IsQuit(err error) (*QuitRequest, bool) {
	var q *QuitRequest
	if errors.As(err, &q) {
		return q, true
	}
	return nil, false
}

// ErrorReaction is the decision an ErrorHandler makes about further
// processing.
type ErrorReaction int

const (
	Proceed ErrorReaction = iota
	Stop
)

func (r ErrorReaction) String() string {
	if r == Stop {
		return "Stop"
	}
	return "Proceed"
}

// ErrorHandler is invoked with per-message errors and library errors
// reported by commands.
type ErrorHandler func(err error) ErrorReaction
