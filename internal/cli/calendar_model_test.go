package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/shiftbook/internal/auth"
	"github.com/alexanderramin/shiftbook/internal/teatest"
)

func newCalendarDriver(t *testing.T, app *App, ref time.Time) (*teatest.Driver, *calendarModel) {
	t.Helper()
	m := newCalendarModel(context.Background(), app, ref)
	t.Cleanup(m.Close)
	d := teatest.New(t, m, teatest.WithCmdTimeout(250*time.Millisecond), teatest.WithSize(120, 40))
	d.DrainInit()
	return d, m
}

func seedCalendar(t *testing.T) *App {
	t.Helper()
	app := signedInApp(t)
	_, err := executeCmd(t, app, "company", "add", "--name", "Cafe", "--wage", "1000")
	require.NoError(t, err)
	for _, date := range []string{"2024-05-20", "2024-06-10"} {
		_, err = executeCmd(t, app, "shift", "add", "--company", "Cafe", "--date", date, "--start", "09:00", "--end", "17:00")
		require.NoError(t, err)
	}
	return app
}

func TestCalendarModel_LoadsMonth(t *testing.T) {
	app := seedCalendar(t)
	d, _ := newCalendarDriver(t, app, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local))

	view := stripANSI(d.View())
	assert.Contains(t, view, "June 2024")
	assert.Contains(t, view, "09:00-17:00")
	assert.Contains(t, view, "¥8,000")
	assert.Contains(t, view, "prev month")
}

func TestCalendarModel_Navigation(t *testing.T) {
	app := seedCalendar(t)
	d, m := newCalendarDriver(t, app, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local))

	d.PressKey('h')
	assert.Equal(t, time.May, m.ref.Month())
	assert.Contains(t, stripANSI(d.View()), "May 2024")

	d.PressLeft()
	assert.Equal(t, time.April, m.ref.Month())

	d.PressRight()
	d.PressRight()
	d.PressKey('l')
	assert.Equal(t, time.July, m.ref.Month())
	view := stripANSI(d.View())
	assert.Contains(t, view, "July 2024")
	assert.Contains(t, view, "Total salary  ¥0")

	d.PressKey('t')
	assert.Equal(t, time.June, m.ref.Month(), "today is pinned to June 2024")
	assert.False(t, m.loading)
}

func TestCalendarModel_IgnoresStaleMonth(t *testing.T) {
	app := seedCalendar(t)
	d, m := newCalendarDriver(t, app, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local))

	d.Send(monthLoadedMsg{ref: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.Local)})
	require.NotNil(t, m.report)
	assert.Equal(t, time.June, m.report.Calendar.Month)
}

func TestCalendarModel_HelpToggle(t *testing.T) {
	app := seedCalendar(t)
	d, m := newCalendarDriver(t, app, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local))

	d.PressKey('?')
	assert.True(t, m.help.ShowAll)
	d.PressKey('?')
	assert.False(t, m.help.ShowAll)
}

func TestCalendarModel_Quit(t *testing.T) {
	app := seedCalendar(t)
	tests := []struct {
		name  string
		press func(d *teatest.Driver)
	}{
		{"q", func(d *teatest.Driver) { d.PressKey('q') }},
		{"esc", func(d *teatest.Driver) { d.PressEsc() }},
		{"ctrl+c", func(d *teatest.Driver) { d.PressCtrlC() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, m := newCalendarDriver(t, app, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local))
			tt.press(d)
			assert.True(t, d.Quitting)
			assertReleased(t, m.waitForAuth())
		})
	}
}

// assertReleased fails unless cmd returns promptly with no message.
func assertReleased(t *testing.T, cmd func() tea.Msg) {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("auth wait still blocked")
	}
}

func TestCalendarModel_CloseReleasesAuthWait(t *testing.T) {
	app := seedCalendar(t)
	m := newCalendarModel(context.Background(), app, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local))

	waiting := make(chan tea.Msg, 1)
	go func() { waiting <- m.waitForAuth()() }()
	m.Close()

	select {
	case msg := <-waiting:
		assert.Nil(t, msg)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("auth wait still blocked after Close")
	}
	assertReleased(t, m.waitForAuth())
}

func TestCalendarModel_ContextEndReleasesAuthWait(t *testing.T) {
	app := seedCalendar(t)
	ctx, cancel := context.WithCancel(context.Background())
	m := newCalendarModel(ctx, app, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local))
	t.Cleanup(m.Close)

	cancel()
	assertReleased(t, m.waitForAuth())
}

func TestCalendarModel_SignOutQuits(t *testing.T) {
	app := seedCalendar(t)
	d, m := newCalendarDriver(t, app, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local))

	d.Send(authChangedMsg{event: auth.Event{Type: auth.EventSignedOut}})
	assert.True(t, d.Quitting)
	assert.True(t, m.signedOut)
	assert.Contains(t, d.View(), "Signed out.")
}

func TestCalendarModel_SubscribesToSession(t *testing.T) {
	app := seedCalendar(t)
	m := newCalendarModel(context.Background(), app, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local))

	require.NoError(t, app.Session.SignOut(context.Background()))
	select {
	case e := <-m.authEvents:
		assert.Equal(t, auth.EventSignedOut, e.Type)
	case <-time.After(time.Second):
		t.Fatal("no auth event delivered")
	}

	m.Close()
	m.Close()
	_, err := executeCmd(t, app, "login", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, err)
	select {
	case e := <-m.authEvents:
		t.Fatalf("unexpected event after Close: %v", e.Type)
	default:
	}
}

func TestCalendarModel_ShowsLoadError(t *testing.T) {
	app := testApp(t)
	d, _ := newCalendarDriver(t, app, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local))
	assert.Contains(t, stripANSI(d.View()), "Error: not signed in")
}
