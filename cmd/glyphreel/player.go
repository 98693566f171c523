package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/glyphreel/engine"
	"go.jacobcolvin.com/glyphreel/log"
)

// clearScreen moves the cursor home and clears the display.
const clearScreen = "\x1b[H\x1b[2J"

// frameMsg carries the text to display in place of the current frame.
type frameMsg string

// statusMsg carries the latest log entry for the status line.
type statusMsg string

// model is the bubbletea model for the interactive player. It only displays
// what it is sent; timing is owned by the playback session.
type model struct {
	statusStyle lipgloss.Style
	frame       string
	status      string
	width       int
}

func newModel() *model {
	return &model{
		statusStyle: lipgloss.NewStyle().Faint(true),
	}
}

// Init implements [tea.Model].
func (m *model) Init() tea.Cmd {
	return nil
}

// Update handles frame, status, resize, and quit messages.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case frameMsg:
		m.frame = string(msg)

	case statusMsg:
		m.status = string(msg)
	}

	return m, nil
}

// View renders the current frame with the status line beneath it.
func (m *model) View() tea.View {
	v := tea.NewView(m.content())
	v.AltScreen = true

	return v
}

func (m *model) content() string {
	if m.status == "" {
		return m.frame
	}

	style := m.statusStyle
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}

	return m.frame + "\n" + style.Render(m.status)
}

// programSurface sends every frame to a running [tea.Program].
type programSurface struct {
	program *tea.Program
}

// Show implements [playback.Surface].
func (s programSurface) Show(text string) {
	s.program.Send(frameMsg(text))
}

// writerSurface writes every frame to an [io.Writer], optionally clearing
// the screen first.
type writerSurface struct {
	w     io.Writer
	err   error
	clear bool
	mu    sync.Mutex
}

func newWriterSurface(w io.Writer, clear bool) *writerSurface {
	return &writerSurface{w: w, clear: clear}
}

// Show implements [playback.Surface]. After the first write error every
// later frame is dropped.
func (s *writerSurface) Show(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return
	}

	var b strings.Builder
	if s.clear {
		b.WriteString(clearScreen)
	}

	b.WriteString(text)
	b.WriteByte('\n')

	_, s.err = io.WriteString(s.w, b.String())
}

// Err returns the first write error, if any.
func (s *writerSurface) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func playPlain(ctx context.Context, opts *options, setup engineSetup, name string, data []byte, w io.Writer) error {
	surface := newWriterSurface(w, isTerminal(w))

	eng := engine.New(surface, setup.decoder, setup.opts...)
	defer eng.Stop()

	err := eng.Load(ctx, name, data, opts.convert.TargetWidth())
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}

		return err
	}

	<-ctx.Done()
	eng.Stop()

	err = surface.Err()
	if err != nil {
		return fmt.Errorf("write frames: %w", err)
	}

	return nil
}

func playInteractive(
	ctx context.Context, opts *options, setup engineSetup, pub *log.Publisher, name string, data []byte,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(), tea.WithContext(ctx))
	eng := engine.New(programSurface{program: p}, setup.decoder, setup.opts...)

	sub := pub.Subscribe()
	defer sub.Close()

	go func() {
		for entry := range sub.C() {
			p.Send(statusMsg(entry))
		}
	}()

	loaded := make(chan struct{})

	go func() {
		defer close(loaded)

		err := eng.Load(ctx, name, data, opts.convert.TargetWidth())
		if err != nil {
			setup.logger.Debug("load ended", "error", err)
		}
	}()

	_, err := p.Run()
	interrupted := ctx.Err() != nil

	cancel()
	<-loaded
	eng.Stop()

	if err != nil && !interrupted {
		return fmt.Errorf("run player: %w", err)
	}

	return nil
}
