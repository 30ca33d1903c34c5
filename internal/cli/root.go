package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderramin/shiftbook/internal/auth"
	"github.com/alexanderramin/shiftbook/internal/cli/formatter"
	"github.com/alexanderramin/shiftbook/internal/service"
)

// App holds the session, the services and the presentation settings used by
// CLI commands.
type App struct {
	Session   *auth.Session
	Companies service.CompanyService
	Shifts    service.ShiftService
	Reports   service.ReportService
	Export    service.ExportService

	Backend  string
	Currency string
	Logger   *zap.Logger

	// Now is the clock for "this month" defaults; tests pin it.
	Now func() time.Time
	// IsInteractive reports whether prompts may be shown on stdin.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// spin shows a spinner on stderr while a slow call runs. Off a terminal it
// does nothing, so piped output stays clean.
func (a *App) spin(cmd *cobra.Command, message string) (stop func()) {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), message)
}

// NewRootCmd creates the top-level "shiftbook" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var global GlobalFlags
	root := &cobra.Command{
		Use:           "shiftbook",
		Short:         "Track part-time shifts and the pay they earn",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.logger().Debug("command", zap.String("path", cmd.CommandPath()))
		},
	}
	registerGlobalFlags(root.PersistentFlags(), &global)

	root.AddCommand(
		newSignUpCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoAmICmd(app),
		newAccountCmd(app),
		newCompanyCmd(app),
		newShiftCmd(app),
		newCalendarCmd(app),
		newStatsCmd(app),
		newExportCmd(app),
	)
	return root
}

// commandContext returns the command's context, falling back to Background
// for commands executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
