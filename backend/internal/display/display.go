// Package display renders the selected sensor in the terminal. It redraws on
// a fixed tick and whenever the selection reports fresh data.
package display

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/internal/selection"
)

// Page is one screen of the dashboard.
type Page int

const (
	PageMain Page = iota
	PageTemperature
	PageHumidity

	pageCount
)

func (p Page) String() string {
	switch p {
	case PageMain:
		return "main"
	case PageTemperature:
		return "temperature"
	case PageHumidity:
		return "humidity"
	default:
		return fmt.Sprintf("page(%d)", int(p))
	}
}

// Source is the part of the engine the dashboard reads.
type Source interface {
	Snapshot(id aggregate.SensorID) aggregate.ViewModel
	Stats() aggregate.Stats
}

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

// updateMsg carries a selection notification.
type updateMsg aggregate.SensorID

// ── Model ────────────────────────────────────────────────────────────

// Model is the bubbletea model of the dashboard.
type Model struct {
	source  Source
	sel     *selection.Selector
	refresh time.Duration
	caser   cases.Caser

	vm      aggregate.ViewModel
	hasData bool
	sensors int
	// counter counts redraws since the selected sensor last reported
	counter uint32
	page    Page

	width  int
	height int
}

func New(source Source, sel *selection.Selector, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = time.Second
	}

	return Model{
		source:  source,
		sel:     sel,
		refresh: refresh,
		caser:   cases.Title(language.English, cases.NoLower),
	}
}

// Run drives the dashboard until the user quits or ctx is done.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}

		return fmt.Errorf("dashboard stopped: %w", err)
	}

	return nil
}

// ── Commands ─────────────────────────────────────────────────────────

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForUpdate() tea.Cmd {
	updates := m.sel.Updates()

	return func() tea.Msg {
		return updateMsg(<-updates)
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.waitForUpdate())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "n", "right", " ":
			if id, ok := m.sel.Next(); ok {
				m = m.load(id)
			}
		case "p", "tab":
			m.page = (m.page + 1) % pageCount
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if id, ok := m.sel.Current(); ok {
			m.vm = m.source.Snapshot(id)
			m.hasData = true
			m.counter++
		}

		m.sensors = m.source.Stats().Sensors

		return m, m.tickCmd()

	case updateMsg:
		m = m.load(aggregate.SensorID(msg))

		return m, m.waitForUpdate()
	}

	return m, nil
}

// load takes a fresh snapshot of id and resets the update counter.
func (m Model) load(id aggregate.SensorID) Model {
	m.vm = m.source.Snapshot(id)
	m.hasData = true
	m.counter = 0
	m.sensors = m.source.Stats().Sensors

	return m
}
