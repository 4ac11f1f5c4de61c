package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dentalmark/dentalmark/internal/app"
	"github.com/dentalmark/dentalmark/internal/budget"
	"github.com/dentalmark/dentalmark/internal/cli/formatter"
	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/spf13/cobra"
)

func newBudgetCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Annotate images and compute treatment budgets",
	}

	cmd.AddCommand(
		newBudgetAnnotateCmd(a),
		newBudgetSessionsCmd(a),
	)

	return cmd
}

func newBudgetAnnotateCmd(a *App) *cobra.Command {
	var (
		images      []string
		marks       markList
		selects     selectList
		deleteSel   bool
		clearImages []int
		sessions    int
		snapshotDir string
		patient     domain.Patient
	)

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Place treatment marks on images and print the budget",
		Long: `Loads the images in order (positions 0, 1, ...) and replays each --mark as a
click on that image's 400x300 surface. A click on an existing mark selects it
instead of placing a new one. --select clicks without placing; with --delete
the selected marks are removed.`,
		Example: `  dentalmark budget annotate --image upper.png --image lower.jpg \
    --mark "0:Extracción@120,80" --mark "1:Corona@200,150" --sessions 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			companyID, err := a.requireCompany(ctx)
			if err != nil {
				return err
			}
			if sessions < 0 {
				return fmt.Errorf("--sessions: %w", domain.ErrInvalidSessionCount)
			}

			req := app.AnnotateRequest{
				CompanyID:    companyID,
				Patient:      patient,
				Marks:        marks,
				ClearImages:  clearImages,
				SessionCount: sessions,
				Snapshots:    snapshotDir != "",
			}
			for _, path := range images {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading image: %w", err)
				}
				req.Images = append(req.Images, app.ImageInput{Name: filepath.Base(path), Data: data})
			}
			for _, s := range selects {
				s.Delete = deleteSel
				req.Selects = append(req.Selects, s)
			}

			resp, err := a.Budget.Annotate(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, w := range resp.Warnings {
				fmt.Fprintf(out, "%s %s\n", formatter.StyleYellow.Render("!"), w)
			}
			fmt.Fprintln(out, formatter.FormatBudget(formatter.BudgetView{
				Patient:      resp.Patient,
				Doctor:       resp.Doctor,
				Summary:      resp.Summary,
				Images:       resp.Images,
				Observations: resp.Observations,
			}))

			if snapshotDir != "" {
				paths, err := writeSnapshots(snapshotDir, resp.Snapshots)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintf(out, "Snapshot %s\n", p)
				}
			}
			a.logger().Debug("budget annotated",
				"images", resp.Images, "markers", resp.Summary.MarkerCount(), "total", resp.Summary.GrandTotal.String())
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&images, "image", nil, "Image file (repeatable, order sets the position)")
	cmd.Flags().Var(&marks, "mark", "IMAGE:TREATMENT@X,Y (repeatable)")
	cmd.Flags().Var(&selects, "select", "IMAGE@X,Y click without placing (repeatable)")
	cmd.Flags().BoolVar(&deleteSel, "delete", false, "Remove the marks hit by --select")
	cmd.Flags().IntSliceVar(&clearImages, "clear", nil, "Image positions whose marks are all removed")
	cmd.Flags().IntVar(&sessions, "sessions", 0, "Payment sessions (default: suggested)")
	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "Write annotated PNG snapshots to this directory")
	cmd.Flags().StringVar(&patient.Name, "patient", "", "Patient name")
	cmd.Flags().StringVar(&patient.Age, "age", "", "Patient age")
	cmd.Flags().StringVar(&patient.Date, "date", "", "Visit date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&patient.Notes, "notes", "", "Visit notes")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

// writeSnapshots writes snapshot-<position>.png files and returns their paths
// in position order.
func writeSnapshots(dir string, snaps map[int][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	positions := make([]int, 0, len(snaps))
	for p := range snaps {
		positions = append(positions, p)
	}
	sort.Ints(positions)

	paths := make([]string, 0, len(positions))
	for _, p := range positions {
		path := filepath.Join(dir, fmt.Sprintf("snapshot-%d.png", p))
		if err := os.WriteFile(path, snaps[p], 0o644); err != nil {
			return nil, fmt.Errorf("writing snapshot: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func newBudgetSessionsCmd(a *App) *cobra.Command {
	var total string
	var sessions int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Split a total into payment sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseCost(total)
			if err != nil {
				return err
			}
			suggested := budget.SuggestSessions(amount)

			if interactive {
				if !a.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				plan, ok, err := runSessionsPicker(amount, cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionPlan(amount, suggested, plan))
				return nil
			}

			n := suggested
			if cmd.Flags().Changed("sessions") {
				n = sessions
			}
			plan, err := budget.PlanSessions(amount, n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionPlan(amount, suggested, plan))
			return nil
		},
	}

	cmd.Flags().StringVar(&total, "total", "", "Budget total")
	cmd.Flags().IntVar(&sessions, "sessions", 0, "Number of sessions (default: suggested)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick the session count interactively")
	_ = cmd.MarkFlagRequired("total")

	return cmd
}
