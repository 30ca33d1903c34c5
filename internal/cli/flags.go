package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/shiftbook/internal/calendar"
	"github.com/alexanderramin/shiftbook/internal/domain"
)

// GlobalFlags are read before the command tree is built, because they decide
// which config file and log level the services are wired with.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
}

// ParseGlobalFlags picks --config and --verbose out of args and ignores
// everything else; cobra parses the full command line later.
func ParseGlobalFlags(args []string) (GlobalFlags, error) {
	var g GlobalFlags
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	registerGlobalFlags(fs, &g)
	if err := fs.Parse(args); err != nil && err != pflag.ErrHelp {
		return g, err
	}
	return g, nil
}

func registerGlobalFlags(fs *pflag.FlagSet, g *GlobalFlags) {
	fs.StringVar(&g.ConfigPath, "config", "", "config file (default $SHIFTBOOK_HOME/config.toml)")
	fs.BoolVarP(&g.Verbose, "verbose", "v", false, "debug logging")
}

// dateValue is a YYYY-MM-DD flag.
type dateValue struct {
	t   time.Time
	set bool
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string {
	if !d.set {
		return ""
	}
	return d.t.Format(domain.DateLayout)
}

func (d *dateValue) Set(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	d.t, d.set = t, true
	return nil
}

func (d *dateValue) Type() string { return "date" }

// clockValue is an HH:MM flag.
type clockValue struct {
	c   domain.Clock
	set bool
}

var _ pflag.Value = (*clockValue)(nil)

func (c *clockValue) String() string {
	if !c.set {
		return ""
	}
	return c.c.String()
}

func (c *clockValue) Set(s string) error {
	v, err := domain.ParseClock(s)
	if err != nil {
		return err
	}
	c.c, c.set = v, true
	return nil
}

func (c *clockValue) Type() string { return "HH:MM" }

// monthValue is a YYYY-MM flag. Unset means the current month.
type monthValue struct {
	t   time.Time
	set bool
}

var _ pflag.Value = (*monthValue)(nil)

func (m *monthValue) String() string {
	if !m.set {
		return ""
	}
	return m.t.Format("2006-01")
}

func (m *monthValue) Set(s string) error {
	t, err := calendar.ParseMonth(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid month %q: use YYYY-MM", s)
	}
	m.t, m.set = t, true
	return nil
}

func (m *monthValue) Type() string { return "YYYY-MM" }

// Or returns the parsed month, or fallback's month when the flag was not given.
func (m *monthValue) Or(fallback time.Time) time.Time {
	if m.set {
		return m.t
	}
	return calendar.MonthStart(fallback)
}

// wageValue is a positive decimal flag.
type wageValue struct {
	d   decimal.Decimal
	set bool
}

var _ pflag.Value = (*wageValue)(nil)

func (w *wageValue) String() string {
	if !w.set {
		return ""
	}
	return w.d.String()
}

func (w *wageValue) Set(s string) error {
	d, err := parseWage(s)
	if err != nil {
		return err
	}
	w.d, w.set = d, true
	return nil
}

func (w *wageValue) Type() string { return "amount" }

func parseWage(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, &domain.ValidationError{Field: "hourly_wage", Message: "Please enter a valid hourly wage (greater than 0)"}
	}
	return d, nil
}
