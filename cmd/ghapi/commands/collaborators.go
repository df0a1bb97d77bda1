package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// NewCollaboratorsCommand creates the collaborator command group.
func NewCollaboratorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collaborators",
		Aliases: []string{"collab"},
		Short:   "Manage repository collaborators",
	}

	cmd.AddCommand(newCollaboratorsListCommand())
	cmd.AddCommand(newCollaboratorsCheckCommand())
	cmd.AddCommand(newCollaboratorsAddCommand())

	return cmd
}

func newCollaboratorsListCommand() *cobra.Command {
	var paging pagingFlags

	cmd := &cobra.Command{
		Use:   "list OWNER/NAME",
		Short: "List collaborators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := parseRepository(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			users, err := client.Collaborators().List(cmd.Context(), owner, name, paging.options(cmd))
			if err != nil {
				return fmt.Errorf("failed to list collaborators: %w", err)
			}

			return render(cmd, users, func(w io.Writer) error {
				return renderUserTable(w, users)
			})
		},
	}

	paging.register(cmd)

	return cmd
}

func newCollaboratorsCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check OWNER/NAME LOGIN",
		Short: "Check whether a user is a collaborator",
		Args:  cobra.ExactArgs(2), //nolint:mnd // repository and login
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := parseRepository(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			isCollaborator, err := client.Collaborators().IsCollaborator(cmd.Context(), owner, name, args[1])
			if err != nil {
				return fmt.Errorf("failed to check collaborator: %w", err)
			}

			result := map[string]interface{}{"login": args[1], "collaborator": isCollaborator}

			return render(cmd, result, func(w io.Writer) error {
				_, _ = fmt.Fprintf(w, "%s: %s\n", args[1], boolText(isCollaborator))

				return nil
			})
		},
	}
}

func newCollaboratorsAddCommand() *cobra.Command {
	request := &ghapi.CollaboratorRequest{}

	cmd := &cobra.Command{
		Use:   "add OWNER/NAME LOGIN",
		Short: "Invite a collaborator",
		Args:  cobra.ExactArgs(2), //nolint:mnd // repository and login
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := parseRepository(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Collaborators().Add(cmd.Context(), owner, name, args[1], request)
			if err != nil {
				return fmt.Errorf("failed to add collaborator: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Invited %s to %s/%s\n", args[1], owner, name)

			return nil
		},
	}

	cmd.Flags().StringVar(&request.Permission, "permission", "", "pull, triage, push, maintain or admin")

	return cmd
}

func renderUserTable(w io.Writer, users []ghapi.User) error {
	if len(users) == 0 {
		_, _ = io.WriteString(w, "No users found\n")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Login", "ID", "Name", "Type", "Site Admin")

	for _, user := range users {
		_ = table.Append(
			user.Login,
			strconv.FormatInt(user.ID, 10),
			valueOrNA(user.Name),
			valueOrNA(user.Type),
			boolText(user.SiteAdmin),
		)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
