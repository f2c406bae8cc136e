package session

import (
	"errors"
	"testing"
)

// TestParseToken tests exact, case-significant classification of control tokens
func TestParseToken(t *testing.T) {
	tests := []struct {
		content  string
		expected Token
	}{
		{"init", TokenInit},
		{"ack", TokenAck},
		{"ready", TokenReady},
		{"PROMPT", TokenPrompt},
		{"noninteractive", TokenNonInteractive},
		{"DONE", TokenDone},
		{"finished", TokenFinished},
		{"exit", TokenExit},
		{"prompt", TokenText},
		{"Done", TokenText},
		{"ACK", TokenText},
		{" ack", TokenText},
		{"PROMPT please", TokenText},
		{"", TokenText},
	}

	for _, tt := range tests {
		if got := ParseToken(tt.content); got != tt.expected {
			t.Errorf("ParseToken(%q) = %s, expected %s", tt.content, got, tt.expected)
		}
	}
}

// TestDecode tests that decoded messages keep text and classify control tokens
func TestDecode(t *testing.T) {
	m := Decode(EndpointControl, EndpointConsole, "hello")
	if m.Token != TokenText || m.Text != "hello" {
		t.Errorf("Expected text message, got %+v", m)
	}
	if m.Content() != "hello" {
		t.Errorf("Expected content hello, got %q", m.Content())
	}

	m = Decode(EndpointControl, EndpointConsole, "PROMPT")
	if m.Token != TokenPrompt || m.Text != "" {
		t.Errorf("Expected prompt token, got %+v", m)
	}
	if m.Content() != "PROMPT" {
		t.Errorf("Expected content PROMPT, got %q", m.Content())
	}
}

// TestTransition tests the dialog state machine
func TestTransition(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		token    Token
		expected State
		wantErr  bool
	}{
		{"ack starts handshake", StateInitiating, TokenAck, StateAwaitingAck, false},
		{"ready opens dialog", StateAwaitingAck, TokenReady, StateDialog, false},
		{"text before handshake", StateInitiating, TokenText, StateInitiating, false},
		{"finish before handshake", StateInitiating, TokenFinished, StateIdle, false},
		{"prompt keeps dialog", StateDialog, TokenPrompt, StateDialog, false},
		{"duplicate ack in dialog", StateDialog, TokenAck, StateDialog, false},
		{"noninteractive completes", StateDialog, TokenNonInteractive, StateCompleting, false},
		{"done ends dialog", StateDialog, TokenDone, StateIdle, false},
		{"finished ends completion", StateCompleting, TokenFinished, StateIdle, false},
		{"exit from dialog", StateDialog, TokenExit, StateIdle, false},
		{"exit from completing", StateCompleting, TokenExit, StateIdle, false},
		{"prompt before handshake", StateInitiating, TokenPrompt, StateInitiating, true},
		{"text while awaiting ready", StateAwaitingAck, TokenText, StateAwaitingAck, true},
		{"prompt after release", StateCompleting, TokenPrompt, StateCompleting, true},
		{"ready in dialog", StateDialog, TokenReady, StateDialog, true},
		{"text when idle", StateIdle, TokenText, StateIdle, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.state, tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrUnexpectedToken) {
					t.Errorf("Expected ErrUnexpectedToken, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected state %s, got %s", tt.expected, got)
			}
		})
	}
}
