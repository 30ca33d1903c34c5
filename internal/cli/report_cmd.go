package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderramin/shiftbook/internal/cli/formatter"
)

func newCalendarCmd(app *App) *cobra.Command {
	var (
		month       monthValue
		interactive bool
	)
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show a month of shifts with its totals",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			ref := month.Or(app.now())

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				if _, err := app.Session.RequireUser(); err != nil {
					return err
				}
				model := newCalendarModel(ctx, app, ref)
				defer model.Close()
				_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
				return err
			}

			stop := app.spin(cmd, "Loading "+ref.Format("January 2006"))
			report, err := app.Reports.Month(ctx, ref)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMonthReport(report, app.Currency, app.now()))
			return nil
		},
	}
	cmd.Flags().Var(&month, "month", "Month to show (default current month)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse months interactively")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	var month monthValue
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show total hours, salary and per-company days for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := month.Or(app.now())
			stop := app.spin(cmd, "Loading "+ref.Format("January 2006"))
			report, err := app.Reports.Month(commandContext(cmd), ref)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStats(report.Stats, app.Currency))
			return nil
		},
	}
	cmd.Flags().Var(&month, "month", "Month to summarize (default current month)")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var (
		month monthValue
		out   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a month of shifts to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := month.Or(app.now())
			if out == "" {
				out = fmt.Sprintf("shifts-%s.xlsx", ref.Format("2006-01"))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			stop := app.spin(cmd, "Exporting "+ref.Format("January 2006"))
			err = app.Export.ExportMonth(commandContext(cmd), ref, f)
			stop()
			if err != nil {
				_ = f.Close()
				if rmErr := os.Remove(out); rmErr != nil {
					app.logger().Warn("removing partial export", zap.String("path", out), zap.Error(rmErr))
				}
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Exported "+ref.Format("January 2006")+" to "+out))
			return nil
		},
	}
	cmd.Flags().Var(&month, "month", "Month to export (default current month)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default shifts-YYYY-MM.xlsx)")
	return cmd
}
