package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// NewUserCommand creates the user command.
func NewUserCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "user [LOGIN]",
		Aliases: []string{"whoami"},
		Short:   "Show a user",
		Long:    "Show the authenticated user, or LOGIN when given",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			var user *ghapi.User

			if len(args) == 1 {
				user, err = client.Users().Get(cmd.Context(), args[0])
			} else {
				user, err = client.Users().Current(cmd.Context())
			}

			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			return render(cmd, user, func(w io.Writer) error {
				return renderUserTable(w, []ghapi.User{*user})
			})
		},
	}
}
