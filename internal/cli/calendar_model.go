package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/shiftbook/internal/auth"
	"github.com/alexanderramin/shiftbook/internal/calendar"
	"github.com/alexanderramin/shiftbook/internal/cli/formatter"
	"github.com/alexanderramin/shiftbook/internal/service"
)

type calendarKeyMap struct {
	Prev  key.Binding
	Next  key.Binding
	Today key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k calendarKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Today, k.Help, k.Quit}
}

func (k calendarKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Today}, {k.Help, k.Quit}}
}

var calendarKeys = calendarKeyMap{
	Prev:  key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/h", "prev month")),
	Next:  key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/l", "next month")),
	Today: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// monthLoadedMsg carries a report for the month that was requested.
type monthLoadedMsg struct {
	ref    time.Time
	report *service.MonthReport
	err    error
}

// authChangedMsg relays a session event into the update loop.
type authChangedMsg struct {
	event auth.Event
}

// calendarModel is the interactive month view. It reloads the month on
// navigation and whenever the signed-in user changes.
type calendarModel struct {
	app     *App
	ctx     context.Context
	ref     time.Time
	report  *service.MonthReport
	err     error
	loading bool

	keys calendarKeyMap
	help help.Model

	authEvents  chan auth.Event
	unsubscribe func()
	done        chan struct{}
	closeOnce   sync.Once
	signedOut   bool
	width       int
}

func newCalendarModel(ctx context.Context, app *App, ref time.Time) *calendarModel {
	m := &calendarModel{
		app:        app,
		ctx:        ctx,
		ref:        ref,
		loading:    true,
		keys:       calendarKeys,
		help:       help.New(),
		authEvents: make(chan auth.Event, 8),
		done:       make(chan struct{}),
	}
	if app.Session != nil {
		m.unsubscribe = app.Session.Subscribe(func(e auth.Event) {
			select {
			case m.authEvents <- e:
			default:
			}
		})
	}
	return m
}

func (m *calendarModel) Init() tea.Cmd {
	return tea.Batch(m.load(m.ref), m.waitForAuth())
}

func (m *calendarModel) load(ref time.Time) tea.Cmd {
	return func() tea.Msg {
		report, err := m.app.Reports.Month(m.ctx, ref)
		return monthLoadedMsg{ref: ref, report: report, err: err}
	}
}

// waitForAuth blocks until the next session event. It returns nil once the
// model is closed or its context ends, so the goroutine running it exits.
// authEvents itself is never closed: a session may still be emitting.
func (m *calendarModel) waitForAuth() tea.Cmd {
	events, done, ctx := m.authEvents, m.done, m.ctx
	return func() tea.Msg {
		select {
		case e := <-events:
			return authChangedMsg{event: e}
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// Close drops the session subscription and releases a pending waitForAuth.
// It is safe to call more than once.
func (m *calendarModel) Close() {
	m.closeOnce.Do(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		close(m.done)
	})
}

func (m *calendarModel) navigate(ref time.Time) tea.Cmd {
	m.ref = ref
	m.loading = true
	return m.load(ref)
}

func (m *calendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case monthLoadedMsg:
		// Ignore results for a month the user already navigated away from.
		if !msg.ref.Equal(m.ref) {
			return m, nil
		}
		m.loading = false
		m.report, m.err = msg.report, msg.err
		return m, nil

	case authChangedMsg:
		switch msg.event.Type {
		case auth.EventSignedOut:
			m.signedOut = true
			m.Close()
			return m, tea.Quit
		case auth.EventSignedIn, auth.EventUserUpdated:
			return m, tea.Batch(m.navigate(m.ref), m.waitForAuth())
		}
		return m, m.waitForAuth()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			return m, m.navigate(m.ref.AddDate(0, -1, 0))
		case key.Matches(msg, m.keys.Next):
			return m, m.navigate(m.ref.AddDate(0, 1, 0))
		case key.Matches(msg, m.keys.Today):
			return m, m.navigate(calendar.MonthStart(m.app.now()))
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}
	return m, nil
}

func (m *calendarModel) View() string {
	if m.signedOut {
		return formatter.Dim("Signed out.") + "\n"
	}

	var b strings.Builder
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.report == nil:
		b.WriteString(formatter.Dim("Loading " + m.ref.Format("January 2006") + "..."))
		b.WriteString("\n")
	default:
		b.WriteString(renderMonthReport(m.report, m.app.Currency, m.app.now()))
		if m.loading {
			b.WriteString("\n" + formatter.Dim(fmt.Sprintf("Loading %s...", m.ref.Format("January 2006"))))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderMonthReport is the grid plus the stats box, shared by the static
// and the interactive calendar.
func renderMonthReport(r *service.MonthReport, currency string, today time.Time) string {
	colors := make(map[string]string, len(r.Companies))
	for _, c := range r.Companies {
		colors[c.ID] = c.DisplayColor()
	}
	return formatter.FormatMonth(r.Calendar, colors, today) + "\n\n" + formatter.FormatStats(r.Stats, currency)
}
