package cli

import (
	"fmt"

	"github.com/dentalmark/dentalmark/internal/cli/formatter"
	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newCompanyCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage clinics",
	}

	cmd.AddCommand(
		newCompanyCreateCmd(a),
		newCompanyListCmd(a),
		newCompanyShowCmd(a),
		newCompanyEditCmd(a),
		newCompanyToggleCmd(a),
		newCompanyRemoveCmd(a),
	)

	return cmd
}

// companyFlags registers the profile flags shared by create and edit.
func companyFlags(fs *pflag.FlagSet, in *domain.CompanyInput) {
	fs.StringVar(&in.Name, "name", "", "Clinic name")
	fs.StringVar(&in.Description, "description", "", "Description")
	fs.StringVar(&in.Logo, "logo", "", "Logo URL")
	fs.StringVar(&in.Address, "address", "", "Address")
	fs.StringVar(&in.Phone, "phone", "", "Phone")
	fs.StringVar(&in.Email, "email", "", "Contact email")
	fs.StringVar(&in.Website, "website", "", "Website URL")
	fs.StringVar(&in.OwnerName, "owner", "", "Practitioner printed on budgets")
	fs.StringVar(&in.Specialty, "specialty", "", "Practitioner specialty")
	fs.StringArrayVar(&in.Certifications, "cert", nil, "Certification (repeatable)")
	fs.StringArrayVar(&in.Licenses, "license", nil, "License (repeatable)")
	fs.StringArrayVar(&in.AdditionalTraining, "training", nil, "Additional training (repeatable)")
	fs.StringArrayVar(&in.Recommendations, "recommendation", nil, "Recommendation for patients (repeatable)")
	fs.StringVar(&in.ImportantObservations, "observations", "", "Important observations printed on budgets")
}

func inputFromCompany(c *domain.Company) domain.CompanyInput {
	return domain.CompanyInput{
		Name:                  c.Name,
		Description:           c.Description,
		Logo:                  c.Logo,
		Address:               c.Address,
		Phone:                 c.Phone,
		Email:                 c.Email,
		Website:               c.Website,
		OwnerName:             c.OwnerName,
		Specialty:             c.Specialty,
		Certifications:        c.Certifications,
		Licenses:              c.Licenses,
		AdditionalTraining:    c.AdditionalTraining,
		Recommendations:       c.Recommendations,
		ImportantObservations: c.ImportantObservations,
	}
}

func newCompanyCreateCmd(a *App) *cobra.Command {
	var in domain.CompanyInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a clinic",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			c, err := a.Companies.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created company %s [%s]\n", formatter.Bold(c.Name), c.ID)
			return nil
		},
	}

	companyFlags(cmd.Flags(), &in)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCompanyListCmd(a *App) *cobra.Command {
	var search string
	var inactive, all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clinics",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.CompanyFilter{Search: search}
			if !all {
				active := !inactive
				filter.IsActive = &active
			}
			cs, err := a.Companies.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(cs) == 0 {
				fmt.Fprintln(out, "No companies found.")
				return nil
			}
			fmt.Fprintln(out, formatter.FormatCompanyList(cs))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Match name, owner or email")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Only inactive clinics")
	cmd.Flags().BoolVar(&all, "all", false, "Active and inactive clinics")

	return cmd
}

func newCompanyShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [ID|NAME]",
		Short: "Show a clinic profile; defaults to the selected company",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var id string
			var err error
			if len(args) == 1 {
				id, err = resolveCompanyID(ctx, a, args[0])
			} else {
				id, err = a.requireCompany(ctx)
			}
			if err != nil {
				return err
			}
			c, err := a.Companies.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCompany(c, a.Companies.DoctorInfo(ctx, id)))
			return nil
		},
	}
}

func newCompanyEditCmd(a *App) *cobra.Command {
	var in domain.CompanyInput

	cmd := &cobra.Command{
		Use:   "edit ID|NAME",
		Short: "Change a clinic profile; only the given flags are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			id, err := resolveCompanyID(ctx, a, args[0])
			if err != nil {
				return err
			}
			c, err := a.Companies.Get(ctx, id)
			if err != nil {
				return err
			}

			merged := inputFromCompany(c)
			cmd.Flags().Visit(func(f *pflag.Flag) {
				switch f.Name {
				case "name":
					merged.Name = in.Name
				case "description":
					merged.Description = in.Description
				case "logo":
					merged.Logo = in.Logo
				case "address":
					merged.Address = in.Address
				case "phone":
					merged.Phone = in.Phone
				case "email":
					merged.Email = in.Email
				case "website":
					merged.Website = in.Website
				case "owner":
					merged.OwnerName = in.OwnerName
				case "specialty":
					merged.Specialty = in.Specialty
				case "cert":
					merged.Certifications = in.Certifications
				case "license":
					merged.Licenses = in.Licenses
				case "training":
					merged.AdditionalTraining = in.AdditionalTraining
				case "recommendation":
					merged.Recommendations = in.Recommendations
				case "observations":
					merged.ImportantObservations = in.ImportantObservations
				}
			})

			c, err = a.Companies.Update(ctx, id, merged)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated company %s\n", formatter.Bold(c.Name))
			return nil
		},
	}

	companyFlags(cmd.Flags(), &in)

	return cmd
}

func newCompanyToggleCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID|NAME",
		Short: "Activate or deactivate a clinic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			id, err := resolveCompanyID(ctx, a, args[0])
			if err != nil {
				return err
			}
			c, err := a.Companies.ToggleStatus(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Bold(c.Name), formatter.ActivePill(c.IsActive))
			return nil
		},
	}
}

func newCompanyRemoveCmd(a *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove ID|NAME",
		Short: "Remove a clinic with its treatments and users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			if !force {
				return fmt.Errorf("removing a company also removes its treatments and users; pass --force to confirm")
			}
			id, err := resolveCompanyID(ctx, a, args[0])
			if err != nil {
				return err
			}
			if err := a.Companies.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed company %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm the cascading removal")

	return cmd
}
