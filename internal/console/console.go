// Package console implements the operator front-end: the dispatch loop that
// reads command lines, binds them and runs them, plus the printer that owns the
// output stream.
//
// Three goroutines cooperate through channels:
//   - the line reader turns the input stream into lines, shared by the dispatch
//     loop and the interactive dialog
//   - the printer is the only writer of operator output
//   - the dispatch loop reads a line, reloads settings and projects, then either
//     starts a non-interactive command in the background or drives an
//     interactive session until it returns to idle
//
// Non-interactive results are printed whenever they arrive, so they may show
// up after a later prompt. A command that reads settings or projects waits for
// the background commands started before it, so it binds against their
// effects. Typing "exit", at the command prompt or in a dialog, cancels
// everything in flight.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/concave-dev/tetanus/internal/command"
	"github.com/concave-dev/tetanus/internal/logging"
	"github.com/concave-dev/tetanus/internal/session"
)

// exitKeyword ends the console. It is handled here, never by the registry.
const exitKeyword = "exit"

// Options configures a Console.
type Options struct {
	SettingsPath string
	Registry     *command.Registry
	In           io.Reader
	Out          io.Writer

	// DialogInterval bounds each session receive. Zero uses the default.
	DialogInterval time.Duration
}

// Console is the operator front-end.
type Console struct {
	opts Options

	output   chan printItem
	inflight sync.WaitGroup
	pending  sync.WaitGroup // background commands only
}

// New returns a console for opts.
func New(opts Options) *Console {
	return &Console{
		opts:   opts,
		output: make(chan printItem, 16),
	}
}

// Run serves the operator until "exit", end of input or ctx cancellation. It
// returns an error only for process-fatal conditions: the settings file or the
// projects directory cannot be read.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The reader may block on a terminal read after Run returns; it exits on
	// its next line or at end of input.
	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	go readLines(c.opts.In, lines, done)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.print(c.opts.Out)
	})

	g.Go(func() error {
		defer close(c.output)
		defer c.inflight.Wait()
		defer cancel()
		return c.dispatch(gctx, lines)
	})

	return g.Wait()
}

// readLines feeds lines until end of input, then closes lines.
func readLines(r io.Reader, lines chan<- string, done <-chan struct{}) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Error("Failed to read operator input: %v", err)
	}
}

func (c *Console) dispatch(ctx context.Context, lines <-chan string) error {
	c.emit(printItem{kind: kindInit})

	for {
		c.emit(printItem{kind: kindCommandPrompt})
		var line string
		select {
		case l, ok := <-lines:
			if !ok {
				logging.Info("End of input, shutting down")
				return nil
			}
			line = l
		case <-ctx.Done():
			return nil
		}

		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == exitKeyword {
			logging.Info("Exit requested, cancelling running commands")
			return nil
		}

		cmd, err := c.opts.Registry.Lookup(tokens[0])
		if err != nil {
			logging.Debug("%v", err)
			c.emit(printItem{kind: kindResult, text: "error: command not found!"})
			continue
		}

		if len(cmd.Descriptor().ContextParams) > 0 {
			c.pending.Wait()
		}
		snap, err := command.LoadSnapshot(c.opts.SettingsPath)
		if err != nil {
			return err
		}

		inv, err := command.Bind(cmd.Descriptor(), snap, tokens[1:])
		if err != nil {
			c.emit(printItem{kind: kindResult, text: "error: " + err.Error()})
			continue
		}

		if !inv.Interactive() {
			c.start(ctx, cmd, inv)
			continue
		}
		if err := c.converse(ctx, cmd, inv, lines); err != nil {
			if errors.Is(err, session.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// start runs a non-interactive command in the background. Its result reaches
// the printer whenever it completes.
func (c *Console) start(ctx context.Context, cmd command.Command, inv *command.Invocation) {
	name := cmd.Descriptor().Name
	c.inflight.Add(1)
	c.pending.Add(1)
	go func() {
		defer c.inflight.Done()
		defer c.pending.Done()
		logging.Debug("Running %s", name)
		out := cmd.Execute(ctx, inv)
		c.emit(printItem{kind: kindResult, text: out.Render()})
	}()
}

// converse runs an interactive command and blocks until its session is idle.
func (c *Console) converse(ctx context.Context, cmd command.Command, inv *command.Invocation, lines <-chan string) error {
	s := session.New()
	inv.Peer = s.Peer()
	name := cmd.Descriptor().Name
	logging.Info("Starting interactive session %s for %s", logging.FormatSessionID(s.ID), name)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		out := cmd.Execute(ctx, inv)
		if err := inv.Peer.Finish(ctx, out.Render()); err != nil {
			logging.Debug("Session %s: could not deliver result of %s: %v", logging.FormatSessionID(s.ID), name, err)
		}
	}()

	dialog := session.NewConsole(lines, c.dialogOutput)
	if c.opts.DialogInterval > 0 {
		dialog.Interval = c.opts.DialogInterval
	}
	if err := dialog.Converse(ctx, s); err != nil {
		return fmt.Errorf("session %s: %w", logging.FormatSessionID(s.ID), err)
	}
	logging.Debug("Session %s for %s finished", logging.FormatSessionID(s.ID), name)
	return nil
}

// dialogOutput maps session messages to printer items.
func (c *Console) dialogOutput(m session.Message) {
	switch m.Token {
	case session.TokenAck:
		c.emit(printItem{kind: kindNotice, text: "interactive mode"})
	case session.TokenPrompt:
		c.emit(printItem{kind: kindDialogPrompt})
	case session.TokenText:
		c.emit(printItem{kind: kindDialog, text: m.Text})
	}
}

// emit hands an item to the printer. The printer drains until the dispatch
// loop and every command it started have returned, so this never blocks for
// long.
func (c *Console) emit(item printItem) {
	c.output <- item
}
