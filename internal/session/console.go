package session

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/concave-dev/tetanus/internal/config"
	"github.com/concave-dev/tetanus/internal/logging"
)

// Console is the operator end of a session. It owns no terminal itself: operator
// lines arrive on Lines and everything meant for the operator goes to Output.
type Console struct {
	Lines  <-chan string
	Output func(Message)

	// Interval bounds each receive; while the command has not acknowledged, an
	// ack request is re-sent every Interval.
	Interval time.Duration

	state atomic.Int32
}

// NewConsole returns a console end reading operator lines from lines.
func NewConsole(lines <-chan string, output func(Message)) *Console {
	return &Console{
		Lines:    lines,
		Output:   output,
		Interval: config.DefaultDialogTimeout,
	}
}

// State reports the dialog state. It is safe to call from other goroutines.
func (c *Console) State() State {
	return State(c.state.Load())
}

func (c *Console) setState(s State) {
	c.state.Store(int32(s))
}

func (c *Console) interval() time.Duration {
	if c.Interval <= 0 {
		return config.DefaultDialogTimeout
	}
	return c.Interval
}

func (c *Console) output(m Message) {
	if c.Output != nil {
		c.Output(m)
	}
}

func (c *Console) reply(ctx context.Context, s *Session, m Message) error {
	m.Source = EndpointConsole
	m.Destination = EndpointControl
	logging.Debug("session %s: %s", logging.FormatSessionID(s.ID), m)
	return send(ctx, s.toCommand, m)
}

// readLine blocks until the operator enters a line or ctx is done. An "exit"
// line closes the dialog instead of becoming the reply.
func (c *Console) readLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-c.Lines:
		if !ok {
			return "", ErrClosed
		}
		if ParseToken(strings.TrimSpace(line)) == TokenExit {
			logging.Info("Exit requested during a dialog")
			return "", ErrClosed
		}
		return line, nil
	case <-ctx.Done():
		return "", ErrClosed
	}
}

// Converse runs the console side of s until the command finishes. It returns
// nil once the session is back to idle, or ErrClosed when ctx is cancelled, the
// operator input ends or the command goes away. In the error case the command
// is told to exit if it is still listening.
func (c *Console) Converse(ctx context.Context, s *Session) (err error) {
	id := logging.FormatSessionID(s.ID)
	c.setState(StateInitiating)
	defer c.setState(StateIdle)
	defer func() {
		if err != nil {
			trySend(s.toCommand, Message{Source: EndpointConsole, Destination: EndpointControl, Token: TokenExit})
		}
	}()

	ackRequest := Message{Source: EndpointConsole, Destination: EndpointControl, Token: TokenAck}
	trySend(s.toCommand, ackRequest)
	acked := false

	for {
		m, err := receive(ctx, s.toConsole, c.interval())
		if errors.Is(err, errTimeout) {
			if c.State() == StateInitiating && !trySend(s.toCommand, ackRequest) {
				logging.Debug("session %s: ack request dropped, command inbox full", id)
			}
			continue
		}
		if err != nil {
			return err
		}

		state := c.State()
		next, err := Transition(state, m.Token)
		if err != nil {
			logging.Warn("session %s: %v", id, err)
			continue
		}

		switch m.Token {
		case TokenAck:
			if acked {
				logging.Debug("session %s: duplicate ack suppressed", id)
				break
			}
			acked = true
			c.output(m)
			if err := c.reply(ctx, s, Message{Token: TokenReady}); err != nil {
				return err
			}
			next, _ = Transition(next, TokenReady)

		case TokenText:
			c.output(m)

		case TokenPrompt:
			c.output(m)
			line, err := c.readLine(ctx)
			if err != nil {
				return err
			}
			if err := c.reply(ctx, s, Message{Token: TokenText, Text: line}); err != nil {
				return err
			}

		case TokenNonInteractive:
			if err := c.reply(ctx, s, Message{Token: TokenDone}); err != nil {
				return err
			}

		case TokenInit:
			logging.Debug("session %s: command started", id)

		case TokenDone, TokenFinished, TokenExit:
			logging.Debug("session %s: %s", id, m.Token)
		}

		c.setState(next)
		if next == StateIdle {
			return nil
		}
	}
}
