package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// NewIssuesCommand creates the issue command group.
func NewIssuesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issues",
		Aliases: []string{"issue"},
		Short:   "Manage issues",
		Long:    "List, inspect, create and close issues of a repository",
	}

	cmd.AddCommand(newIssuesListCommand())
	cmd.AddCommand(newIssuesGetCommand())
	cmd.AddCommand(newIssuesCreateCommand())
	cmd.AddCommand(newIssuesCloseCommand())

	return cmd
}

func newIssuesListCommand() *cobra.Command {
	var (
		state  string
		labels []string
		paging pagingFlags
	)

	cmd := &cobra.Command{
		Use:   "list OWNER/NAME",
		Short: "List issues",
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

			params := ghapi.NewQueryParams().WithState(state)
			if len(labels) > 0 {
				params.WithFilter("labels", labels...)
			}

			issues, err := client.Issues().ListForRepository(cmd.Context(), owner, name, params, paging.options(cmd))
			if err != nil {
				return fmt.Errorf("failed to list issues: %w", err)
			}

			return render(cmd, issues, func(w io.Writer) error {
				return renderIssueTable(w, issues)
			})
		},
	}

	cmd.Flags().StringVar(&state, "state", "open", "filter by state (open, closed, all)")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "filter by label (repeatable)")
	paging.register(cmd)

	return cmd
}

func newIssuesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get OWNER/NAME NUMBER",
		Short: "Show an issue",
		Args:  cobra.ExactArgs(2), //nolint:mnd // repository and number
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, number, err := parseIssueArgs(args)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			issue, err := client.Issues().Get(cmd.Context(), owner, name, number)
			if err != nil {
				return fmt.Errorf("failed to get issue: %w", err)
			}

			return render(cmd, issue, func(w io.Writer) error {
				return renderIssueTable(w, []ghapi.Issue{*issue})
			})
		},
	}
}

func newIssuesCreateCommand() *cobra.Command {
	request := &ghapi.NewIssue{}

	cmd := &cobra.Command{
		Use:   "create OWNER/NAME",
		Short: "Create an issue",
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

			issue, err := client.Issues().Create(cmd.Context(), owner, name, request)
			if err != nil {
				return fmt.Errorf("failed to create issue: %w", err)
			}

			return render(cmd, issue, func(w io.Writer) error {
				_, _ = fmt.Fprintf(w, "Created issue #%d\n%s\n", issue.Number, issue.HTMLURL)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&request.Title, "title", "", "issue title")
	cmd.Flags().StringVar(&request.Body, "body", "", "issue body")
	cmd.Flags().StringSliceVar(&request.Labels, "label", nil, "label to apply (repeatable)")
	cmd.Flags().StringSliceVar(&request.Assignees, "assignee", nil, "login to assign (repeatable)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newIssuesCloseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close OWNER/NAME NUMBER",
		Short: "Close an issue",
		Args:  cobra.ExactArgs(2), //nolint:mnd // repository and number
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, number, err := parseIssueArgs(args)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			issue, err := client.Issues().Update(cmd.Context(), owner, name, number, &ghapi.IssueUpdate{State: ghapi.String("closed")})
			if err != nil {
				return fmt.Errorf("failed to close issue: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Issue #%d is %s\n", issue.Number, issue.State)

			return nil
		},
	}
}

func parseIssueArgs(args []string) (string, string, int, error) {
	owner, name, err := parseRepository(args[0])
	if err != nil {
		return "", "", 0, err
	}

	number, err := strconv.Atoi(args[1])
	if err != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("%w: %q", ErrInvalidID, args[1])
	}

	return owner, name, number, nil
}

func renderIssueTable(w io.Writer, issues []ghapi.Issue) error {
	if len(issues) == 0 {
		_, _ = io.WriteString(w, "No issues found\n")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Number", "Title", "State", "Author", "Labels", "Comments", "Updated")

	for _, issue := range issues {
		author := NotAvailable
		if issue.User != nil {
			author = issue.User.Login
		}

		labels := make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			labels = append(labels, label.Name)
		}

		_ = table.Append(
			"#"+strconv.Itoa(issue.Number),
			issue.Title,
			issue.State,
			author,
			strings.Join(labels, ","),
			strconv.Itoa(issue.Comments),
			formatTime(issue.UpdatedAt),
		)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
