package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = constants.NotAvailable

	// Output formats.
	OutputFormatJSON  = constants.FormatJSON
	OutputFormatYAML  = constants.FormatYAML
	OutputFormatTable = constants.FormatTable

	defaultJSONIndent = 2

	Yes = "yes"
	No  = "no"
)

// Common static errors used throughout the commands package.
var (
	ErrInvalidParam = errors.New("query parameter must be given as key=value")
	ErrInvalidID    = errors.New("identifier must be a positive integer")
)

// StandardJSONRenderer writes data as indented JSON.
func StandardJSONRenderer[T any](w io.Writer, data T) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML.
func StandardYAMLRenderer[T any](w io.Writer, data T) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultJSONIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// render picks the renderer for the configured output format. table is
// called for the table format.
func render[T any](cmd *cobra.Command, data T, table func(w io.Writer) error) error {
	w := cmd.OutOrStdout()

	switch output := viper.GetString("output"); output {
	case OutputFormatJSON:
		return StandardJSONRenderer(w, data)
	case OutputFormatYAML:
		return StandardYAMLRenderer(w, data)
	case OutputFormatTable, "":
		return table(w)
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, output)
	}
}

// parseRepository splits an owner/name argument.
func parseRepository(arg string) (string, string, error) {
	owner, name, ok := strings.Cut(arg, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: %q", constants.ErrInvalidRepositoryArg, arg)
	}

	return owner, name, nil
}

// parseParams turns key=value pairs into query params. Repeated keys
// accumulate values.
func parseParams(pairs []string) (*ghapi.QueryParams, error) {
	params := ghapi.NewQueryParams()

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidParam, pair)
		}

		params.WithFilter(key, value)
	}

	return params, nil
}

// pagingFlags are the flags of every list command.
type pagingFlags struct {
	pageSize  int
	startPage int
	pageCount int
}

func (p *pagingFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.pageSize, "page-size", 0, "items per page (per_page)")
	cmd.Flags().IntVar(&p.startPage, "start-page", 0, "first page to fetch")
	cmd.Flags().IntVar(&p.pageCount, "page-count", 0, "stop after this many pages")
}

// options returns NoOptions unless a paging flag was given.
func (p *pagingFlags) options(cmd *cobra.Command) *ghapi.APIOptions {
	options := &ghapi.APIOptions{}
	changed := false

	if cmd.Flags().Changed("page-size") {
		options.PageSize = ghapi.Int(p.pageSize)
		changed = true
	}

	if cmd.Flags().Changed("start-page") {
		options.StartPage = ghapi.Int(p.startPage)
		changed = true
	}

	if cmd.Flags().Changed("page-count") {
		options.PageCount = ghapi.Int(p.pageCount)
		changed = true
	}

	if !changed {
		return ghapi.NoOptions
	}

	return options
}

// formatTime formats t for tables.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}

	return t.Format("2006-01-02 15:04")
}

// boolText formats b for tables.
func boolText(b bool) string {
	if b {
		return Yes
	}

	return No
}

// readSecret prompts on stderr and reads one line from the command input
// without echo when it is a terminal.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if file, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		secret, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())

		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		return strings.TrimSpace(string(secret)), nil
	}

	return readLine(cmd.InOrStdin())
}

// readLine reads up to a newline without buffering past it, so successive
// prompts can share one reader.
func readLine(r io.Reader) (string, error) {
	var (
		line []byte
		char = make([]byte, 1)
	)

	for {
		n, err := r.Read(char)
		if n > 0 {
			if char[0] == '\n' {
				break
			}

			line = append(line, char[0])
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}

	return strings.TrimSpace(string(line)), nil
}

// withTwoFactorPrompt runs call with code. When the server demands a
// one-time password and none was given, it prompts once and retries.
func withTwoFactorPrompt[T any](cmd *cobra.Command, code string, call func(code string) (T, error)) (T, error) {
	result, err := call(code)
	if err == nil || code != "" || !ghapi.IsTwoFactorRequired(err) {
		return result, err
	}

	prompt := "Two-factor code: "
	if apiErr, ok := ghapi.AsAPIError(err); ok && apiErr.Provider != "" {
		prompt = fmt.Sprintf("Two-factor code (%s): ", apiErr.Provider)
	}

	prompted, readErr := readSecret(cmd, prompt)
	if readErr != nil {
		return result, readErr
	}

	if prompted == "" {
		return result, constants.ErrEmptyTwoFactorCode
	}

	return call(prompted)
}
