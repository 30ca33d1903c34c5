package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/shiftbook/internal/cli/formatter"
	"github.com/alexanderramin/shiftbook/internal/domain"
)

func newCompanyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "company",
		Aliases: []string{"companies"},
		Short:   "Manage the companies you work for",
	}
	cmd.AddCommand(
		newCompanyAddCmd(app),
		newCompanyListCmd(app),
		newCompanyEditCmd(app),
		newCompanyRemoveCmd(app),
	)
	return cmd
}

func newCompanyAddCmd(app *App) *cobra.Command {
	var (
		name, color string
		wage        wageValue
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a company with its hourly wage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" || !wage.set {
				if !app.interactive() {
					return fmt.Errorf("--name and --wage are required when not running in a terminal")
				}
				wageText := wage.String()
				if err := companyForm(&name, &wageText).Run(); err != nil {
					return err
				}
				if err := wage.Set(wageText); err != nil {
					return err
				}
			}

			c, err := app.Companies.Create(commandContext(cmd), &domain.Company{
				Name:       name,
				HourlyWage: wage.d,
				Color:      strings.ToLower(strings.TrimSpace(color)),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Added %s (%s)",
				formatter.CompanyBadge(c.Name, c.DisplayColor()), formatter.Wage(app.Currency, c))))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Company name")
	cmd.Flags().Var(&wage, "wage", "Hourly wage")
	cmd.Flags().StringVar(&color, "color", "", "Color (local backend only): "+strings.Join(domain.Palette, ", "))
	return cmd
}

func newCompanyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List companies by name",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			companies, err := app.Companies.List(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCompanyList(companies, app.Currency))
			return nil
		},
	}
}

func newCompanyEditCmd(app *App) *cobra.Command {
	var (
		name, color string
		wage        wageValue
	)
	cmd := &cobra.Command{
		Use:   "edit <name|id>",
		Short: "Change a company's name, wage or color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			c, err := resolveCompany(ctx, app, args[0])
			if err != nil {
				return err
			}

			var patch domain.CompanyPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if wage.set {
				patch.HourlyWage = &wage.d
			}
			if cmd.Flags().Changed("color") {
				normalized := strings.ToLower(strings.TrimSpace(color))
				patch.Color = &normalized
			}

			updated, err := app.Companies.Update(ctx, c.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Updated %s (%s)",
				formatter.CompanyBadge(updated.Name, updated.DisplayColor()), formatter.Wage(app.Currency, updated))))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New company name")
	cmd.Flags().Var(&wage, "wage", "New hourly wage")
	cmd.Flags().StringVar(&color, "color", "", "New color, local backend only (empty resets to the automatic one)")
	return cmd
}

func newCompanyRemoveCmd(app *App) *cobra.Command {
	var withShifts, yes bool
	cmd := &cobra.Command{
		Use:     "remove <name|id>",
		Aliases: []string{"rm"},
		Short:   "Delete a company",
		Long: "Delete a company. Its shifts are kept and show up as \"Unknown\" " +
			"unless --with-shifts is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			c, err := resolveCompany(ctx, app, args[0])
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				question := fmt.Sprintf("Delete %s?", c.Name)
				if withShifts {
					question = fmt.Sprintf("Delete %s and all of its shifts?", c.Name)
				}
				ok := false
				if err := confirmForm(question, &ok).Run(); err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			removed, err := app.Companies.Delete(ctx, c.ID, withShifts)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Deleted %s", c.Name)
			if withShifts {
				msg += fmt.Sprintf(" and %d shift(s)", removed)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(msg))
			return nil
		},
	}
	cmd.Flags().BoolVar(&withShifts, "with-shifts", false, "Also delete the company's shifts")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
