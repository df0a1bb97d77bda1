package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// ErrConfirmationRequired is returned by destructive commands run without --force.
var ErrConfirmationRequired = errors.New("refusing to delete without --force")

// NewReposCommand creates the repository command group.
func NewReposCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repos",
		Aliases: []string{"repo", "repositories"},
		Short:   "Manage repositories",
		Long:    "List, inspect, create and delete repositories",
	}

	cmd.AddCommand(newReposListCommand())
	cmd.AddCommand(newReposGetCommand())
	cmd.AddCommand(newReposCreateCommand())
	cmd.AddCommand(newReposDeleteCommand())

	return cmd
}

func newReposListCommand() *cobra.Command {
	var (
		user       string
		org        string
		visibility string
		sortField  string
		paging     pagingFlags
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List repositories",
		Long:  "List repositories of the authenticated user, another user (--user) or an organization (--org)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			params := ghapi.NewQueryParams()
			if visibility != "" {
				params.WithFilter("visibility", visibility)
			}

			if sortField != "" {
				params.WithSort(sortField, "")
			}

			var repos []ghapi.Repository

			switch {
			case org != "":
				repos, err = client.Repositories().ListForOrg(cmd.Context(), org, params, paging.options(cmd))
			case user != "":
				repos, err = client.Repositories().ListForUser(cmd.Context(), user, params, paging.options(cmd))
			default:
				repos, err = client.Repositories().ListForCurrent(cmd.Context(), params, paging.options(cmd))
			}

			if err != nil {
				return fmt.Errorf("failed to list repositories: %w", err)
			}

			return render(cmd, repos, func(w io.Writer) error {
				return renderRepositoryTable(w, repos)
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "list repositories of this user")
	cmd.Flags().StringVar(&org, "org", "", "list repositories of this organization")
	cmd.Flags().StringVar(&visibility, "visibility", "", "filter by visibility (all, public, private)")
	cmd.Flags().StringVar(&sortField, "sort", "", "sort by created, updated, pushed or full_name")
	cmd.MarkFlagsMutuallyExclusive("user", "org")
	paging.register(cmd)

	return cmd
}

func newReposGetCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "get OWNER/NAME...",
		Short: "Show repositories",
		Long:  "Fetch one or more repositories concurrently. A failure for one repository does not stop the others.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			operations := make([]ghapi.BatchOperation, 0, len(args))

			for _, arg := range args {
				owner, name, err := parseRepository(arg)
				if err != nil {
					return err
				}

				operations = append(operations, ghapi.BatchOperation{
					ID: arg,
					Run: func(ctx context.Context) (interface{}, error) {
						return client.Repositories().Get(ctx, owner, name)
					},
				})
			}

			results := ghapi.NewBatchExecutor(concurrency).Execute(cmd.Context(), operations)

			repos := make([]ghapi.Repository, 0, len(results))

			var errs []error

			for _, result := range results {
				if !result.Success {
					errs = append(errs, fmt.Errorf("%s: %w", result.ID, result.Error))

					continue
				}

				repos = append(repos, *result.Data.(*ghapi.Repository))
			}

			if len(repos) > 0 {
				err = render(cmd, repos, func(w io.Writer) error {
					return renderRepositoryTable(w, repos)
				})
				if err != nil {
					return err
				}
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel requests (default 3)")

	return cmd
}

func newReposCreateCommand() *cobra.Command {
	request := &ghapi.NewRepository{}

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			request.Name = args[0]

			repo, err := client.Repositories().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create repository: %w", err)
			}

			return render(cmd, repo, func(w io.Writer) error {
				_, _ = fmt.Fprintf(w, "Created %s\n%s\n", repo.FullName, repo.HTMLURL)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&request.Org, "org", "", "create under this organization")
	cmd.Flags().StringVar(&request.Description, "description", "", "repository description")
	cmd.Flags().BoolVar(&request.Private, "private", false, "create a private repository")
	cmd.Flags().BoolVar(&request.AutoInit, "auto-init", false, "create an initial commit")

	return cmd
}

func newReposDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete OWNER/NAME",
		Short: "Delete a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := parseRepository(args[0])
			if err != nil {
				return err
			}

			if !force {
				return ErrConfirmationRequired
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Repositories().Delete(cmd.Context(), owner, name)
			if err != nil {
				return fmt.Errorf("failed to delete repository: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s\n", owner, name)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "confirm deletion")

	return cmd
}

func renderRepositoryTable(w io.Writer, repos []ghapi.Repository) error {
	if len(repos) == 0 {
		_, _ = io.WriteString(w, "No repositories found\n")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Name", "Private", "Fork", "Stars", "Open Issues", "Default Branch", "Updated")

	for _, repo := range repos {
		_ = table.Append(
			repo.FullName,
			boolText(repo.Private),
			boolText(repo.Fork),
			strconv.Itoa(repo.Stargazers),
			strconv.Itoa(repo.OpenIssues),
			valueOrNA(repo.DefaultBranch),
			formatTime(repo.UpdatedAt),
		)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
