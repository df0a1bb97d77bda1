package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// NewReleasesCommand creates the release command group.
func NewReleasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "releases",
		Aliases: []string{"release"},
		Short:   "Manage releases",
	}

	cmd.AddCommand(newReleasesListCommand())
	cmd.AddCommand(newReleasesGetCommand())
	cmd.AddCommand(newReleasesCreateCommand())
	cmd.AddCommand(newReleasesDeleteCommand())

	return cmd
}

func newReleasesListCommand() *cobra.Command {
	var paging pagingFlags

	cmd := &cobra.Command{
		Use:   "list OWNER/NAME",
		Short: "List releases",
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

			releases, err := client.Releases().List(cmd.Context(), owner, name, paging.options(cmd))
			if err != nil {
				return fmt.Errorf("failed to list releases: %w", err)
			}

			return render(cmd, releases, func(w io.Writer) error {
				return renderReleaseTable(w, releases)
			})
		},
	}

	paging.register(cmd)

	return cmd
}

func newReleasesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get OWNER/NAME ID",
		Short: "Show a release",
		Args:  cobra.ExactArgs(2), //nolint:mnd // repository and id
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, id, err := parseReleaseArgs(args)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			release, err := client.Releases().Get(cmd.Context(), owner, name, id)
			if err != nil {
				return fmt.Errorf("failed to get release: %w", err)
			}

			return render(cmd, release, func(w io.Writer) error {
				return renderReleaseTable(w, []ghapi.Release{*release})
			})
		},
	}
}

func newReleasesCreateCommand() *cobra.Command {
	request := &ghapi.NewRelease{}

	cmd := &cobra.Command{
		Use:   "create OWNER/NAME TAG",
		Short: "Create a release",
		Args:  cobra.ExactArgs(2), //nolint:mnd // repository and tag
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := parseRepository(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			request.TagName = args[1]

			release, err := client.Releases().Create(cmd.Context(), owner, name, request)
			if err != nil {
				return fmt.Errorf("failed to create release: %w", err)
			}

			return render(cmd, release, func(w io.Writer) error {
				_, _ = fmt.Fprintf(w, "Created release %s (id %d)\n", release.TagName, release.ID)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&request.Name, "name", "", "release title")
	cmd.Flags().StringVar(&request.Body, "notes", "", "release notes")
	cmd.Flags().StringVar(&request.TargetCommitish, "target", "", "branch or commit the tag is created from")
	cmd.Flags().BoolVar(&request.Draft, "draft", false, "create a draft release")
	cmd.Flags().BoolVar(&request.Prerelease, "prerelease", false, "mark as a prerelease")

	return cmd
}

func newReleasesDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete OWNER/NAME ID",
		Short: "Delete a release",
		Args:  cobra.ExactArgs(2), //nolint:mnd // repository and id
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, id, err := parseReleaseArgs(args)
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

			err = client.Releases().Delete(cmd.Context(), owner, name, id)
			if err != nil {
				return fmt.Errorf("failed to delete release: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted release %d\n", id)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "confirm deletion")

	return cmd
}

func parseReleaseArgs(args []string) (string, string, int64, error) {
	owner, name, err := parseRepository(args[0])
	if err != nil {
		return "", "", 0, err
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return "", "", 0, fmt.Errorf("%w: %q", ErrInvalidID, args[1])
	}

	return owner, name, id, nil
}

func renderReleaseTable(w io.Writer, releases []ghapi.Release) error {
	if len(releases) == 0 {
		_, _ = io.WriteString(w, "No releases found\n")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Tag", "Name", "Draft", "Prerelease", "Published")

	for _, release := range releases {
		published := NotAvailable
		if release.PublishedAt != nil {
			published = formatTime(*release.PublishedAt)
		}

		_ = table.Append(
			strconv.FormatInt(release.ID, 10),
			release.TagName,
			valueOrNA(release.Name),
			boolText(release.Draft),
			boolText(release.Prerelease),
			published,
		)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
