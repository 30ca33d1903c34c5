package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/shiftbook/internal/cli/formatter"
	"github.com/alexanderramin/shiftbook/internal/domain"
)

func newShiftCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shift",
		Aliases: []string{"shifts"},
		Short:   "Record and manage work shifts",
	}
	cmd.AddCommand(
		newShiftAddCmd(app),
		newShiftListCmd(app),
		newShiftEditCmd(app),
		newShiftRemoveCmd(app),
	)
	return cmd
}

func newShiftAddCmd(app *App) *cobra.Command {
	var (
		company, memo string
		date          dateValue
		start, end    clockValue
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)

			if company == "" || !start.set || !end.set {
				if !app.interactive() {
					return fmt.Errorf("--company, --start and --end are required when not running in a terminal")
				}
				companies, err := app.Companies.List(ctx)
				if err != nil {
					return err
				}
				if len(companies) == 0 {
					return fmt.Errorf("add a company first with `shiftbook company add`")
				}
				if err := promptShift(app, companies, &company, &date, &start, &end, &memo); err != nil {
					return err
				}
			}

			c, err := resolveCompany(ctx, app, company)
			if err != nil {
				return err
			}
			day := date.t
			if !date.set {
				y, m, d := app.now().Date()
				day = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			}

			sh, err := app.Shifts.Create(ctx, &domain.Shift{
				CompanyID: c.ID,
				Date:      day,
				Start:     start.c,
				End:       end.c,
				Memo:      memo,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatShiftSaved("Added", sh, c, app.Currency))
			return nil
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "Company name or ID")
	cmd.Flags().Var(&date, "date", "Day of the shift, YYYY-MM-DD (default today)")
	cmd.Flags().Var(&start, "start", "Start time")
	cmd.Flags().Var(&end, "end", "End time")
	cmd.Flags().StringVar(&memo, "memo", "", "Optional note")
	return cmd
}

// promptShift runs the shift form, pre-filled with whatever flags were given.
func promptShift(app *App, companies []*domain.Company, company *string, date *dateValue, start, end *clockValue, memo *string) error {
	companyID := companies[0].ID
	for _, c := range companies {
		if c.ID == *company || c.Name == *company {
			companyID = c.ID
		}
	}
	dateText := date.String()
	if dateText == "" {
		dateText = app.now().Format(domain.DateLayout)
	}
	startText, endText := start.String(), end.String()

	if err := shiftForm(companies, &companyID, &dateText, &startText, &endText, memo).Run(); err != nil {
		return err
	}
	*company = companyID
	if err := date.Set(dateText); err != nil {
		return err
	}
	if err := start.Set(startText); err != nil {
		return err
	}
	return end.Set(endText)
}

func newShiftListCmd(app *App) *cobra.Command {
	var (
		month monthValue
		all   bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List shifts with hours and pay, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			companies, err := app.Companies.List(ctx)
			if err != nil {
				return err
			}

			var (
				shifts []*domain.Shift
				title  = "All shifts"
			)
			if all {
				shifts, err = app.Shifts.List(ctx)
			} else {
				ref := month.Or(app.now())
				title = ref.Format("January 2006")
				shifts, err = app.Shifts.ListMonth(ctx, ref)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatShiftList(title, shifts, companyIndex(companies), app.Currency))
			return nil
		},
	}
	cmd.Flags().Var(&month, "month", "Month to list (default current month)")
	cmd.Flags().BoolVar(&all, "all", false, "List every shift")
	return cmd
}

func newShiftEditCmd(app *App) *cobra.Command {
	var (
		company, memo string
		date          dateValue
		start, end    clockValue
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a shift; fields not passed are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			id, err := resolveShiftID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var patch domain.ShiftPatch
			if company != "" {
				c, err := resolveCompany(ctx, app, company)
				if err != nil {
					return err
				}
				patch.CompanyID = &c.ID
			}
			if date.set {
				patch.Date = &date.t
			}
			if start.set {
				patch.Start = &start.c
			}
			if end.set {
				patch.End = &end.c
			}
			if cmd.Flags().Changed("memo") {
				patch.Memo = &memo
			}

			sh, err := app.Shifts.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			c, err := app.Companies.GetByID(ctx, sh.CompanyID)
			if err != nil {
				c = nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatShiftSaved("Updated", sh, c, app.Currency))
			return nil
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "Company name or ID")
	cmd.Flags().Var(&date, "date", "Day of the shift")
	cmd.Flags().Var(&start, "start", "Start time")
	cmd.Flags().Var(&end, "end", "End time")
	cmd.Flags().StringVar(&memo, "memo", "", "Note (pass an empty value to clear)")
	return cmd
}

func newShiftRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a shift",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			id, err := resolveShiftID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Shifts.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Deleted shift "+formatter.TruncID(id)))
			return nil
		},
	}
}
