package internal

import (
	"context"
	"fmt"
	"time"

	"stopwatch_tui/internal/timelog"
	"stopwatch_tui/internal/timer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

const recordTimeout = 2 * time.Second

// TickMsg is sent to the program after every timer increment.
type TickMsg struct {
	Elapsed int
}

type focus int

const (
	focusPrimary focus = iota
	focusReset
)

// Options wires the model's collaborators. Zero values fall back to a
// fresh timer, a no-op recorder and a disabled logger.
type Options struct {
	Timer     *timer.Timer
	Recorder  timelog.Recorder
	Logger    *zerolog.Logger
	SessionID string
}

type Model struct {
	Timer     *timer.Timer
	Focus     focus
	Err       error
	SessionID string

	recorder timelog.Recorder
	log      zerolog.Logger
	keys     keyMap
	help     help.Model
	width    int
	height   int

	// Open running segment, recorded when the timer next stops.
	segmentOpen  bool
	segmentStart time.Time
	segmentFrom  int
}

func NewModel(opts Options) *Model {
	t := opts.Timer
	if t == nil {
		t = timer.New()
	}
	rec := opts.Recorder
	if rec == nil {
		rec = timelog.Nop{}
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Model{
		Timer:     t,
		SessionID: opts.SessionID,
		recorder:  rec,
		log:       log,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		// The timer owns the count; the message only triggers a redraw.
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	return m.mainView(m.Timer.Snapshot())
}

// Toggle starts or stops the timer.
func (m *Model) Toggle() {
	from := m.Timer.Elapsed()
	if m.Timer.Toggle() {
		m.openSegment(from)
		m.log.Debug().Int("elapsed", from).Msg("timer started")
		return
	}
	if m.segmentOpen {
		to := m.Timer.Elapsed()
		_ = m.closeSegment(timelog.ReasonStop, to)
		m.log.Debug().Int("elapsed", to).Msg("timer stopped")
	}
}

// Reset stops the timer and zeroes the count.
func (m *Model) Reset() {
	m.Timer.Stop()
	elapsed := m.Timer.Elapsed()
	if m.segmentOpen {
		_ = m.closeSegment(timelog.ReasonReset, elapsed)
	}
	m.Timer.Reset()
	m.log.Debug().Int("discarded", elapsed).Msg("timer reset")
}

// Close records any open segment and disposes the timer. It is safe to
// call more than once.
func (m *Model) Close() error {
	m.Timer.Stop()
	var err error
	if m.segmentOpen {
		err = m.closeSegment(timelog.ReasonQuit, m.Timer.Elapsed())
	}
	m.Timer.Close()
	return err
}

func (m *Model) openSegment(from int) {
	m.segmentOpen = true
	m.segmentStart = m.Timer.Now()
	m.segmentFrom = from
}

func (m *Model) closeSegment(reason timelog.Reason, to int) error {
	m.segmentOpen = false
	entry := &timelog.TimeLog{
		SessionID:   m.SessionID,
		StartedAt:   m.segmentStart,
		StoppedAt:   m.Timer.Now(),
		FromSeconds: m.segmentFrom,
		ToSeconds:   to,
		Reason:      reason,
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := m.recorder.Create(ctx, entry); err != nil {
		m.Err = fmt.Errorf("failed to record session: %w", err)
		m.log.Error().Err(err).Str("reason", string(reason)).Msg("journal write failed")
		return m.Err
	}
	m.Err = nil
	m.log.Debug().
		Int64("id", entry.ID).
		Str("reason", string(reason)).
		Int("counted", entry.Counted()).
		Msg("segment recorded")
	return nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if err := m.Close(); err != nil {
			m.log.Error().Err(err).Msg("close failed")
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.Reset()
	case key.Matches(msg, m.keys.Focus):
		if m.Focus == focusPrimary {
			m.Focus = focusReset
		} else {
			m.Focus = focusPrimary
		}
	case key.Matches(msg, m.keys.Activate):
		if m.Focus == focusReset {
			m.Reset()
		} else {
			m.Toggle()
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}
