package cli

import (
	"fmt"

	"github.com/dentalmark/dentalmark/internal/cli/formatter"
	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and their roles",
	}

	cmd.AddCommand(
		newUserAddCmd(a),
		newUserListCmd(a),
		newUserRoleCmd(a),
		newUserAssignCmd(a),
		newUserRemoveCmd(a),
	)

	return cmd
}

func newUserAddCmd(a *App) *cobra.Command {
	var in domain.UserInput
	var company string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			if company != "" {
				id, err := resolveCompanyID(ctx, a, company)
				if err != nil {
					return err
				}
				in.CompanyID = id
			}
			u, err := a.Users.Add(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added user %s (%s)\n", formatter.Bold(u.Email), u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Email")
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.Role, "role", string(domain.RoleUser), "Role: admin or user")
	cmd.Flags().StringVar(&company, "user-company", "", "Company ID or name the user belongs to")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUserListCmd(a *App) *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var users []*domain.User
			var err error
			if mine {
				companyID, cerr := a.requireCompany(ctx)
				if cerr != nil {
					return cerr
				}
				users, err = a.Users.ListByCompany(ctx, companyID)
			} else {
				users, err = a.Users.List(ctx)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, "No users found.")
				return nil
			}

			companies, err := a.Companies.List(ctx, domain.CompanyFilter{})
			if err != nil {
				return err
			}
			names := make(map[string]string, len(companies))
			for _, c := range companies {
				names[c.ID] = c.Name
			}
			fmt.Fprintln(out, formatter.FormatUserList(users, names))
			return nil
		},
	}

	cmd.Flags().BoolVar(&mine, "company-only", false, "Only users of the selected company")

	return cmd
}

func newUserRoleCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "role USER ROLE",
		Short: "Change a user's role (admin or user)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			u, err := resolveUser(ctx, a, args[0])
			if err != nil {
				return err
			}
			u, err = a.Users.SetRole(ctx, u.ID, domain.Role(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", formatter.Bold(u.Email), u.Role)
			return nil
		},
	}
}

func newUserAssignCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign USER [COMPANY]",
		Short: "Attach a user to a company; without COMPANY the user is detached",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			u, err := resolveUser(ctx, a, args[0])
			if err != nil {
				return err
			}
			companyID := ""
			if len(args) == 2 {
				if companyID, err = resolveCompanyID(ctx, a, args[1]); err != nil {
					return err
				}
			}
			u, err = a.Users.Assign(ctx, u.ID, companyID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if u.CompanyID == "" {
				fmt.Fprintf(out, "%s detached from its company\n", formatter.Bold(u.Email))
				return nil
			}
			fmt.Fprintf(out, "%s assigned to %s\n", formatter.Bold(u.Email), u.CompanyID)
			return nil
		},
	}
}

func newUserRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove USER",
		Short: "Remove a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireManager(ctx); err != nil {
				return err
			}
			u, err := resolveUser(ctx, a, args[0])
			if err != nil {
				return err
			}
			if err := a.Users.Delete(ctx, u.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed user %s\n", u.Email)
			return nil
		},
	}
}
