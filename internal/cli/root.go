package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dentalmark/dentalmark/internal/app"
	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Treatments service.TreatmentService
	Companies  service.CompanyService
	Users      service.UserService
	Budget     app.AnnotateUseCase

	// CompanyID scopes catalog and budget commands. --company overrides it.
	CompanyID string
	Logger    *slog.Logger

	// IsInteractive reports whether prompts may be shown.
	IsInteractive func() bool

	// Bootstrap, when set, runs before any subcommand with the --config and
	// --log-level values and fills in the services above.
	Bootstrap func(configFile, logLevel string) error

	actingEmail string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// requireCompany resolves the selected company to its ID.
func (a *App) requireCompany(ctx context.Context) (string, error) {
	if a.CompanyID == "" {
		return "", fmt.Errorf("no company selected: pass --company or set company in the config")
	}
	return resolveCompanyID(ctx, a, a.CompanyID)
}

// actingUser resolves --as. It returns nil when no identity was given.
func (a *App) actingUser(ctx context.Context) (*domain.User, error) {
	if a.actingEmail == "" {
		return nil, nil
	}
	u, err := a.Users.GetByEmail(ctx, a.actingEmail)
	if err != nil {
		return nil, fmt.Errorf("acting user %s: %w", a.actingEmail, err)
	}
	return u, nil
}

// requireManager gates commands that change catalog, company or user data.
func (a *App) requireManager(ctx context.Context) error {
	u, err := a.actingUser(ctx)
	if err != nil {
		return err
	}
	return service.RequireManager(u)
}

// NewRootCmd creates the top-level "dentalmark" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	var configFile, logLevel, company string

	root := &cobra.Command{
		Use:           "dentalmark",
		Short:         "Dental treatment annotation and budgeting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.Bootstrap != nil {
				if err := a.Bootstrap(configFile, logLevel); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("company") {
				a.CompanyID = company
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (JSON or YAML)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&company, "company", "", "Company ID or name")
	root.PersistentFlags().StringVar(&a.actingEmail, "as", "", "Email of the user performing the change")

	root.AddCommand(
		newTreatmentCmd(a),
		newCompanyCmd(a),
		newUserCmd(a),
		newBudgetCmd(a),
	)

	return root
}
