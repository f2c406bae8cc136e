package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// channelBuffer is the capacity of each direction. It only has to absorb the
// repeated ack requests sent before the command answers.
const channelBuffer = 16

// errTimeout ends a bounded receive that saw no message.
var errTimeout = errors.New("receive timed out")

// Session is the duplex channel pair connecting one command to the console.
type Session struct {
	ID string

	toCommand chan Message
	toConsole chan Message
}

// New returns a session with a fresh identifier.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		toCommand: make(chan Message, channelBuffer),
		toConsole: make(chan Message, channelBuffer),
	}
}

// send delivers m on ch, blocking until there is room or ctx is done.
func send(ctx context.Context, ch chan<- Message, m Message) error {
	select {
	case ch <- m:
		return nil
	case <-ctx.Done():
		return ErrClosed
	}
}

// trySend delivers m on ch only if there is room.
func trySend(ch chan<- Message, m Message) bool {
	select {
	case ch <- m:
		return true
	default:
		return false
	}
}

// receive waits for the next message on ch. A zero timeout waits until ctx is
// done; otherwise the wait ends with errTimeout after d.
func receive(ctx context.Context, ch <-chan Message, d time.Duration) (Message, error) {
	var timeout <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case m, ok := <-ch:
		if !ok {
			return Message{}, ErrClosed
		}
		return m, nil
	case <-timeout:
		return Message{}, errTimeout
	case <-ctx.Done():
		return Message{}, ErrClosed
	}
}
