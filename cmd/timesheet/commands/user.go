package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timesheet/core/internal/ports"
)

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Create accounts that can sign in and record time",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ports.CreateUserRequest{}
			req.Email, _ = cmd.Flags().GetString("email")
			req.Password, _ = cmd.Flags().GetString("password")
			req.DisplayName, _ = cmd.Flags().GetString("display-name")

			if req.Email == "" || req.Password == "" {
				return fmt.Errorf("email and password are required")
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.users.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User created successfully:\n")
			fmt.Fprintf(out, "  ID: %s\n", user.ID)
			fmt.Fprintf(out, "  Email: %s\n", user.Email)
			fmt.Fprintf(out, "  Name: %s\n", user.DisplayName)
			return nil
		},
	}

	createUserCmd.Flags().String("email", "", "User email (required)")
	createUserCmd.Flags().String("password", "", "User password, at least 8 characters (required)")
	createUserCmd.Flags().String("display-name", "", "Display name (defaults to the email name)")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}
