// Package session implements the interactive dialog between a running command
// and the console.
//
// A session is a pair of ordered message channels, one per direction. Messages
// carry either a control token from a closed set or free-form text. The console
// end (Console.Converse) and the command end (Peer) walk the same explicit state
// machine, so a token that makes no sense in the current state is detected and
// logged instead of being silently misread.
//
// HANDSHAKE AND DIALOG:
//
//	console                         command
//	   ack (request, repeated) ──▶
//	                           ◀── ack
//	   ready                   ──▶
//	                           ◀── text / PROMPT
//	   operator line           ──▶
//	                           ◀── noninteractive
//	   DONE                    ──▶
//	                           ◀── text / finished
//
// Every receive is a blocking select on the channel, a timer and the context, so
// neither side ever spins while waiting. Only the global exit path cancels a
// session; a closed channel or cancelled context surfaces as ErrClosed.
package session

import (
	"errors"
	"fmt"
)

// Protocol errors.
var (
	// ErrClosed reports that the other end went away or the context was
	// cancelled. Callers treat it as a shutdown signal.
	ErrClosed = errors.New("session closed")

	// ErrUnexpectedToken reports a token that is not allowed in the current state.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrHandshakeTimeout reports that the console never opened the dialog.
	ErrHandshakeTimeout = errors.New("handshake timed out")
)

// Token is the closed set of protocol control tokens. TokenText marks a message
// whose content is display text rather than control.
type Token int

const (
	TokenText Token = iota
	TokenInit
	TokenAck
	TokenReady
	TokenPrompt
	TokenNonInteractive
	TokenDone
	TokenFinished
	TokenExit
)

// tokenWords are the wire spellings. Matching is exact and case-significant:
// "prompt" or "Done" are ordinary text.
var tokenWords = map[Token]string{
	TokenInit:           "init",
	TokenAck:            "ack",
	TokenReady:          "ready",
	TokenPrompt:         "PROMPT",
	TokenNonInteractive: "noninteractive",
	TokenDone:           "DONE",
	TokenFinished:       "finished",
	TokenExit:           "exit",
}

var wordTokens = func() map[string]Token {
	m := make(map[string]Token, len(tokenWords))
	for t, w := range tokenWords {
		m[w] = t
	}
	return m
}()

func (t Token) String() string {
	if w, ok := tokenWords[t]; ok {
		return w
	}
	return "text"
}

// ParseToken classifies raw content. The control set is checked first by exact
// match; anything else is text.
func ParseToken(s string) Token {
	if t, ok := wordTokens[s]; ok {
		return t
	}
	return TokenText
}

// Endpoint identifies a participant in a session.
type Endpoint int

const (
	EndpointConsole Endpoint = iota
	EndpointControl
	EndpointServer // placeholder for the future server transport
)

func (e Endpoint) String() string {
	switch e {
	case EndpointConsole:
		return "console"
	case EndpointControl:
		return "control"
	case EndpointServer:
		return "server"
	default:
		return fmt.Sprintf("endpoint(%d)", int(e))
	}
}

// Message is one unit of the protocol. Text is only meaningful for TokenText.
type Message struct {
	Source      Endpoint
	Destination Endpoint
	Token       Token
	Text        string
}

// Content returns what the message would look like on the wire.
func (m Message) Content() string {
	if m.Token == TokenText {
		return m.Text
	}
	return m.Token.String()
}

func (m Message) String() string {
	return fmt.Sprintf("%s->%s %q", m.Source, m.Destination, m.Content())
}

// Decode builds a message from raw content, classifying it with ParseToken.
func Decode(from, to Endpoint, content string) Message {
	t := ParseToken(content)
	if t == TokenText {
		return Message{Source: from, Destination: to, Token: TokenText, Text: content}
	}
	return Message{Source: from, Destination: to, Token: t}
}

// State is the dialog state shared by both ends of a session.
type State int

const (
	StateIdle State = iota
	StateInitiating
	StateAwaitingAck
	StateDialog
	StateCompleting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitiating:
		return "initiating"
	case StateAwaitingAck:
		return "awaiting-ack"
	case StateDialog:
		return "dialog"
	case StateCompleting:
		return "completing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type edge struct {
	from  State
	token Token
}

// transitions lists every allowed (state, token) pair, covering tokens flowing
// in both directions. Exit is handled separately and is allowed everywhere.
var transitions = map[edge]State{
	{StateIdle, TokenInit}: StateIdle,

	{StateInitiating, TokenInit}:           StateInitiating,
	{StateInitiating, TokenText}:           StateInitiating,
	{StateInitiating, TokenAck}:            StateAwaitingAck,
	{StateInitiating, TokenNonInteractive}: StateCompleting,
	{StateInitiating, TokenFinished}:       StateIdle,

	{StateAwaitingAck, TokenAck}:   StateAwaitingAck,
	{StateAwaitingAck, TokenReady}: StateDialog,

	{StateDialog, TokenAck}:            StateDialog,
	{StateDialog, TokenText}:           StateDialog,
	{StateDialog, TokenPrompt}:         StateDialog,
	{StateDialog, TokenNonInteractive}: StateCompleting,
	{StateDialog, TokenDone}:           StateIdle,
	{StateDialog, TokenFinished}:       StateIdle,

	{StateCompleting, TokenText}:     StateCompleting,
	{StateCompleting, TokenDone}:     StateIdle,
	{StateCompleting, TokenFinished}: StateIdle,
}

// Transition returns the state reached by observing token in state. Disallowed
// pairs leave the state unchanged and return ErrUnexpectedToken.
func Transition(state State, token Token) (State, error) {
	if token == TokenExit {
		return StateIdle, nil
	}
	next, ok := transitions[edge{state, token}]
	if !ok {
		return state, fmt.Errorf("%w: %s in state %s", ErrUnexpectedToken, token, state)
	}
	return next, nil
}
