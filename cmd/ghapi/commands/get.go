package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghclient"
)

type getOptions struct {
	all     bool
	include bool
	paging  pagingFlags
	accept  string
	otp     string
	params  []string
}

// NewGetCommand creates the raw GET command.
func NewGetCommand() *cobra.Command {
	opts := &getOptions{}

	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "GET any API path",
		Long: `Send a GET request to PATH and print the response body.

With --all the path is treated as a list endpoint: every page is fetched by
following the Link header and the items are printed as one array.`,
		Example: `  ghapi get /user
  ghapi get /repos/octocat/hello-world/issues --all --param state=closed
  ghapi get /user/repos --all --page-size 100 --page-count 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "follow pagination and print all items")
	cmd.Flags().BoolVarP(&opts.include, "include", "i", false, "print status, rate limit and pagination links to stderr")
	opts.paging.register(cmd)
	cmd.Flags().StringVar(&opts.accept, "accept", "", "Accept media type override")
	cmd.Flags().StringVar(&opts.otp, "otp", "", "two-factor one-time password")
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "query parameter as key=value (repeatable)")

	return cmd
}

func runGet(cmd *cobra.Command, path string, opts *getOptions) error {
	params, err := parseParams(opts.params)
	if err != nil {
		return err
	}

	client, err := CreateClient(cmd.Context())
	if err != nil {
		return err
	}

	raw := &ghclient.RawOptions{Accept: opts.accept, Params: params}

	if opts.all {
		apiOptions := opts.paging.options(cmd)

		items, err := withTwoFactorPrompt(cmd, opts.otp, func(code string) ([]json.RawMessage, error) {
			raw.TwoFactorCode = code

			return ghclient.GetAllRaw(cmd.Context(), client, path, raw, apiOptions)
		})
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", path, err)
		}

		return printRaw(cmd, items)
	}

	resp, err := withTwoFactorPrompt(cmd, opts.otp, func(code string) (*ghapi.Response[json.RawMessage], error) {
		raw.TwoFactorCode = code

		return ghclient.GetRaw(cmd.Context(), client, path, raw)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	if opts.include {
		printEnvelope(cmd.ErrOrStderr(), resp)
	}

	return printRaw(cmd, resp.Body)
}

func printEnvelope(w io.Writer, resp *ghapi.Response[json.RawMessage]) {
	_, _ = fmt.Fprintf(w, "Status: %d\n", resp.StatusCode)
	_, _ = fmt.Fprintf(w, "Rate: %d/%d, resets %s\n", resp.Rate.Remaining, resp.Rate.Limit, resp.Rate.Reset.Format(time.RFC3339))

	if resp.Cached {
		_, _ = fmt.Fprintln(w, "Cached: revalidated with 304 Not Modified")
	}

	relations := make([]string, 0, len(resp.Links))
	for rel := range resp.Links {
		relations = append(relations, rel)
	}

	sort.Strings(relations)

	for _, rel := range relations {
		_, _ = fmt.Fprintf(w, "Link %s: %s\n", rel, resp.Links[rel])
	}
}

// printRaw prints undecoded JSON. YAML output goes through a generic decode.
func printRaw[T any](cmd *cobra.Command, data T) error {
	if viper.GetString("output") == OutputFormatYAML {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}

		var generic interface{}

		err = json.Unmarshal(encoded, &generic)
		if err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}

		return StandardYAMLRenderer(cmd.OutOrStdout(), generic)
	}

	return StandardJSONRenderer(cmd.OutOrStdout(), data)
}
