package cli

import (
	"fmt"
	"strings"

	"github.com/dentalmark/dentalmark/internal/cli/formatter"
	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTreatmentCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "treatment",
		Aliases: []string{"tx"},
		Short:   "Manage the treatment catalog",
	}

	cmd.AddCommand(
		newTreatmentAddCmd(a),
		newTreatmentListCmd(a),
		newTreatmentShowCmd(a),
		newTreatmentEditCmd(a),
		newTreatmentToggleCmd(a),
		newTreatmentRemoveCmd(a),
	)

	return cmd
}

func parseCost(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid cost %q: %w", s, err)
	}
	return d, nil
}

func newTreatmentAddCmd(a *App) *cobra.Command {
	var f treatmentFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a treatment to the company catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			companyID, err := a.requireCompany(ctx)
			if err != nil {
				return err
			}

			if f.name == "" || f.color == "" {
				if !a.interactive() {
					return fmt.Errorf("required flag(s) \"name\", \"color\" not set")
				}
				if err := treatmentForm(&f).Run(); err != nil {
					return err
				}
			}
			if f.cost == "" {
				f.cost = "0"
			}
			cost, err := parseCost(f.cost)
			if err != nil {
				return err
			}

			t, err := a.Treatments.Add(ctx, companyID, domain.TreatmentInput{
				Name:        f.name,
				Color:       f.color,
				Cost:        cost,
				Description: f.description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s [%s]\n",
				formatter.Swatch(t.Color), formatter.Bold(t.Name), formatter.Money(t.Cost), formatter.TruncID(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.name, "name", "", "Treatment name")
	cmd.Flags().StringVar(&f.color, "color", "", "Marker color, e.g. #ef4444")
	cmd.Flags().StringVar(&f.cost, "cost", "", "Unit cost")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")

	return cmd
}

func newTreatmentListCmd(a *App) *cobra.Command {
	var all bool
	var search, minCost, maxCost string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the company catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			companyID, err := a.requireCompany(ctx)
			if err != nil {
				return err
			}

			filter := domain.TreatmentFilter{Search: search}
			if !all {
				active := true
				filter.IsActive = &active
			}
			if minCost != "" {
				d, err := parseCost(minCost)
				if err != nil {
					return err
				}
				filter.MinCost = &d
			}
			if maxCost != "" {
				d, err := parseCost(maxCost)
				if err != nil {
					return err
				}
				filter.MaxCost = &d
			}

			ts, err := a.Treatments.List(ctx, companyID, filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ts) == 0 {
				fmt.Fprintln(out, "No treatments found.")
				return nil
			}
			fmt.Fprintln(out, formatter.FormatTreatmentList(ts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive treatments")
	cmd.Flags().StringVar(&search, "search", "", "Match name or description")
	cmd.Flags().StringVar(&minCost, "min-cost", "", "Minimum unit cost")
	cmd.Flags().StringVar(&maxCost, "max-cost", "", "Maximum unit cost")

	return cmd
}

func newTreatmentShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID|NAME",
		Short: "Show treatment details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTreatmentID(ctx, a, args[0])
			if err != nil {
				return err
			}
			t, err := a.Treatments.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTreatment(t))
			return nil
		},
	}
}

func newTreatmentEditCmd(a *App) *cobra.Command {
	var f treatmentFields

	cmd := &cobra.Command{
		Use:   "edit ID|NAME",
		Short: "Change a treatment; only the given flags are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			id, err := resolveTreatmentID(ctx, a, args[0])
			if err != nil {
				return err
			}
			t, err := a.Treatments.Get(ctx, id)
			if err != nil {
				return err
			}

			in := domain.TreatmentInput{
				Name:        t.Name,
				Color:       t.Color,
				Cost:        t.Cost,
				Description: t.Description,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = f.name
			}
			if flags.Changed("color") {
				in.Color = f.color
			}
			if flags.Changed("cost") {
				if in.Cost, err = parseCost(f.cost); err != nil {
					return err
				}
			}
			if flags.Changed("description") {
				in.Description = f.description
			}

			t, err = a.Treatments.Update(ctx, id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", formatter.Bold(t.Name), formatter.Money(t.Cost))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.name, "name", "", "Treatment name")
	cmd.Flags().StringVar(&f.color, "color", "", "Marker color, e.g. #ef4444")
	cmd.Flags().StringVar(&f.cost, "cost", "", "Unit cost")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")

	return cmd
}

func newTreatmentToggleCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID|NAME",
		Short: "Activate or deactivate a treatment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			id, err := resolveTreatmentID(ctx, a, args[0])
			if err != nil {
				return err
			}
			t, err := a.Treatments.ToggleStatus(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Bold(t.Name), formatter.ActivePill(t.IsActive))
			return nil
		},
	}
}

func newTreatmentRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID|NAME",
		Short: "Remove a treatment from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			id, err := resolveTreatmentID(ctx, a, args[0])
			if err != nil {
				return err
			}
			if err := a.Treatments.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed treatment %s\n", id)
			return nil
		},
	}
}
