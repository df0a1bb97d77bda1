package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewRateLimitCommand creates the rate-limit command.
func NewRateLimitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rate-limit",
		Short: "Show the request quota",
		Long:  "Show the remaining request quota per resource bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			limits, err := client.Misc().RateLimit(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get rate limit: %w", err)
			}

			return render(cmd, limits, func(w io.Writer) error {
				names := make([]string, 0, len(limits.Resources))
				for name := range limits.Resources {
					names = append(names, name)
				}

				sort.Strings(names)

				table := tablewriter.NewWriter(w)
				table.Header("Resource", "Limit", "Used", "Remaining", "Resets")

				for _, name := range names {
					bucket := limits.Resources[name]
					_ = table.Append(
						name,
						strconv.Itoa(bucket.Limit),
						strconv.Itoa(bucket.Used),
						strconv.Itoa(bucket.Remaining),
						formatTime(bucket.ResetTime()),
					)
				}

				err := table.Render()
				if err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}
