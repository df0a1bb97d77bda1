package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ghapi-client/cmd/ghapi/commands"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

type commandResult struct {
	stdout string
	stderr string
	err    error
}

// runCommand executes a fresh command tree with input on stdin. Global
// viper state is reset first, so callers must not run in parallel.
func runCommand(t *testing.T, input string, args ...string) commandResult {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	rootCmd := commands.NewRootCommand("1.2.3", "abc123", "2024-01-01")

	var stdout, stderr bytes.Buffer

	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)

	err := commands.Execute(context.Background(), rootCmd)

	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func writeJSON(writer http.ResponseWriter, status int, body interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if body != nil {
		_ = json.NewEncoder(writer).Encode(body)
	}
}
