package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/concave-dev/tetanus/internal/config"
	"github.com/concave-dev/tetanus/internal/logging"
)

// Peer is the command end of a session.
type Peer struct {
	s     *Session
	state State

	// HandshakeTimeout bounds Open. Zero waits until the context is done.
	HandshakeTimeout time.Duration
}

// Peer returns the command end of s.
func (s *Session) Peer() *Peer {
	return &Peer{
		s:                s,
		state:            StateInitiating,
		HandshakeTimeout: config.DefaultHandshakeTimeout,
	}
}

// State reports where the command end believes the dialog is.
func (p *Peer) State() State {
	return p.state
}

func (p *Peer) emit(ctx context.Context, m Message) error {
	m.Source = EndpointControl
	m.Destination = EndpointConsole
	logging.Debug("session %s: %s", logging.FormatSessionID(p.s.ID), m)
	return send(ctx, p.s.toConsole, m)
}

// next returns the next console message, skipping stale ack requests.
func (p *Peer) next(ctx context.Context) (Message, error) {
	for {
		m, err := receive(ctx, p.s.toCommand, 0)
		if err != nil {
			return Message{}, err
		}
		if m.Token == TokenExit {
			return Message{}, ErrClosed
		}
		if m.Token == TokenAck && p.state != StateInitiating {
			logging.Debug("session %s: ignoring stale ack request", logging.FormatSessionID(p.s.ID))
			continue
		}
		return m, nil
	}
}

// Open performs the handshake: wait for an ack request, answer ack, and block
// until the console says ready. Prompts may only be sent after Open returns.
func (p *Peer) Open(ctx context.Context) error {
	if p.state != StateInitiating {
		return fmt.Errorf("%w: open in state %s", ErrUnexpectedToken, p.state)
	}

	if p.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.HandshakeTimeout)
		defer cancel()
	}

	for {
		m, err := p.next(ctx)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrHandshakeTimeout
			}
			return err
		}
		if m.Token != TokenAck {
			logging.Warn("session %s: expected ack request, got %s", logging.FormatSessionID(p.s.ID), m.Token)
			continue
		}
		if err := p.emit(ctx, Message{Token: TokenAck}); err != nil {
			return err
		}
		p.state = StateAwaitingAck
		break
	}

	for {
		m, err := p.next(ctx)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrHandshakeTimeout
			}
			return err
		}
		next, err := Transition(p.state, m.Token)
		if err != nil {
			logging.Warn("session %s: %v", logging.FormatSessionID(p.s.ID), err)
			continue
		}
		p.state = next
		if p.state == StateDialog {
			return nil
		}
	}
}

// Say sends display text to the operator.
func (p *Peer) Say(ctx context.Context, text string) error {
	return p.emit(ctx, Message{Token: TokenText, Text: text})
}

// Ask shows question, issues a prompt and blocks until the operator answers.
// The reply is returned verbatim.
func (p *Peer) Ask(ctx context.Context, question string) (string, error) {
	if p.state != StateDialog {
		return "", fmt.Errorf("%w: prompt in state %s", ErrUnexpectedToken, p.state)
	}
	if question != "" {
		if err := p.Say(ctx, question); err != nil {
			return "", err
		}
	}
	if err := p.emit(ctx, Message{Token: TokenPrompt}); err != nil {
		return "", err
	}

	for {
		m, err := p.next(ctx)
		if err != nil {
			return "", err
		}
		if m.Token != TokenText {
			logging.Warn("session %s: expected reply, got %s", logging.FormatSessionID(p.s.ID), m.Token)
			continue
		}
		return m.Text, nil
	}
}

// Release tells the console the dialog is no longer needed and waits for its
// DONE. The command may keep sending text afterwards, then calls Finish.
func (p *Peer) Release(ctx context.Context) error {
	next, err := Transition(p.state, TokenNonInteractive)
	if err != nil {
		return err
	}
	if err := p.emit(ctx, Message{Token: TokenNonInteractive}); err != nil {
		return err
	}
	p.state = next

	for {
		m, err := p.next(ctx)
		if err != nil {
			return err
		}
		if m.Token == TokenDone {
			return nil
		}
		logging.Warn("session %s: expected DONE, got %s", logging.FormatSessionID(p.s.ID), m.Token)
	}
}

// Finish sends the final result text, if any, and ends the session.
func (p *Peer) Finish(ctx context.Context, text string) error {
	if text != "" {
		if err := p.Say(ctx, text); err != nil {
			return err
		}
	}
	if err := p.emit(ctx, Message{Token: TokenFinished}); err != nil {
		return err
	}
	p.state = StateIdle
	return nil
}
