package commands_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ghapi-client/cmd/ghapi/commands"
	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

func TestRootCommand_Structure(t *testing.T) {
	rootCmd := commands.NewRootCommand("dev", "none", "unknown")

	for _, name := range []string{
		"version", "login", "logout", "config", "get", "repos",
		"issues", "releases", "collaborators", "user", "rate-limit",
	} {
		assert.NotNil(t, findSubcommand(rootCmd, name), name)
	}

	repos := findSubcommand(rootCmd, "repos")
	for _, name := range []string{"list", "get", "create", "delete"} {
		assert.NotNil(t, findSubcommand(repos, name), name)
	}

	for _, flag := range []string{"api", "token", "output", "log-level", "cache", "trace", "metrics"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	result := runCommand(t, "", "version", "--output", "json")
	require.NoError(t, result.err)

	var info commands.VersionInfo

	require.NoError(t, json.Unmarshal([]byte(result.stdout), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123", info.Commit)

	result = runCommand(t, "", "version", "--output", "xml")
	require.ErrorIs(t, result.err, constants.ErrInvalidOutputFormat)
}

func TestGetCommand(t *testing.T) {
	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/user", request.URL.Path)
		assert.Equal(t, "token secret-token", request.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3.raw", request.Header.Get("Accept"))
		assert.Equal(t, "1", request.URL.Query().Get("x"))
		writer.Header().Set("X-RateLimit-Remaining", "41")
		writeJSON(writer, http.StatusOK, map[string]string{"login": "octocat"})
	})

	result := runCommand(t, "", "get", "/user", "--api", server.URL, "--token", "secret-token",
		"--accept", "application/vnd.github.v3.raw", "--param", "x=1", "--include")
	require.NoError(t, result.err)

	var body map[string]string

	require.NoError(t, json.Unmarshal([]byte(result.stdout), &body))
	assert.Equal(t, "octocat", body["login"])
	assert.Contains(t, result.stderr, "Status: 200")
	assert.Contains(t, result.stderr, "Rate: 41/")

	result = runCommand(t, "", "get", "/user", "--api", server.URL, "--token", "secret-token", "--param", "novalue")
	require.ErrorIs(t, result.err, commands.ErrInvalidParam)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestGetCommand_All(t *testing.T) {
	var (
		requests atomic.Int32
		queries  = make(chan string, 16)
	)

	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)
		queries <- request.URL.RawQuery

		page, _ := strconv.Atoi(request.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}

		if page < 3 {
			writer.Header().Set("Link", fmt.Sprintf(`<http://%s/items?page=%d>; rel="next"`, request.Host, page+1))
		}

		writeJSON(writer, http.StatusOK, []int{page})
	})

	t.Run("collects every page", func(t *testing.T) {
		result := runCommand(t, "", "get", "/items", "--all", "--page-size", "1", "--api", server.URL, "--token", "t")
		require.NoError(t, result.err)

		var items []int

		require.NoError(t, json.Unmarshal([]byte(result.stdout), &items))
		assert.Equal(t, []int{1, 2, 3}, items)
		assert.Equal(t, "per_page=1", <-queries)
		assert.Equal(t, "page=2", <-queries)
		assert.Equal(t, "page=3", <-queries)
	})

	t.Run("page count caps requests", func(t *testing.T) {
		requests.Store(0)

		result := runCommand(t, "", "get", "/items", "--all", "--page-count", "2", "--api", server.URL, "--token", "t")
		require.NoError(t, result.err)

		var items []int

		require.NoError(t, json.Unmarshal([]byte(result.stdout), &items))
		assert.Equal(t, []int{1, 2}, items)
		assert.Equal(t, int32(2), requests.Load())

		<-queries
		<-queries
	})

	t.Run("invalid page size sends nothing", func(t *testing.T) {
		requests.Store(0)

		result := runCommand(t, "", "get", "/items", "--all", "--page-size", "0", "--api", server.URL, "--token", "t")
		require.ErrorIs(t, result.err, ghapi.ErrInvalidOptions)
		assert.Equal(t, int32(0), requests.Load())
	})

	t.Run("yaml output", func(t *testing.T) {
		result := runCommand(t, "", "get", "/items", "--all", "--page-count", "1", "--output", "yaml", "--api", server.URL, "--token", "t")
		require.NoError(t, result.err)
		assert.Equal(t, "- 1\n", result.stdout)

		<-queries
	})
}

func TestGetCommand_TwoFactorPrompt(t *testing.T) {
	var requests atomic.Int32

	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)

		if request.Header.Get("X-GitHub-OTP") != "654321" {
			writer.Header().Set("X-GitHub-OTP", "required; sms")
			writeJSON(writer, http.StatusUnauthorized, map[string]string{"message": "Must specify two-factor authentication OTP code."})

			return
		}

		writeJSON(writer, http.StatusOK, map[string]string{"login": "octocat"})
	})

	result := runCommand(t, "654321\n", "get", "/user", "--api", server.URL, "--token", "t")
	require.NoError(t, result.err)
	assert.Contains(t, result.stderr, "Two-factor code (sms): ")
	assert.Contains(t, result.stdout, "octocat")
	assert.Equal(t, int32(2), requests.Load())

	requests.Store(0)

	result = runCommand(t, "000000\n", "get", "/user", "--api", server.URL, "--token", "t", "--otp", "111111")
	require.Error(t, result.err)
	assert.True(t, ghapi.IsTwoFactorRequired(result.err))
	assert.Equal(t, int32(1), requests.Load())

	result = runCommand(t, "\n", "get", "/user", "--api", server.URL, "--token", "t")
	require.ErrorIs(t, result.err, constants.ErrEmptyTwoFactorCode)
}

func TestReposGet_Batch(t *testing.T) {
	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/repos/o/a":
			writeJSON(writer, http.StatusOK, ghapi.Repository{Name: "a", FullName: "o/a"})
		case "/repos/o/b":
			writeJSON(writer, http.StatusOK, ghapi.Repository{Name: "b", FullName: "o/b"})
		default:
			writeJSON(writer, http.StatusNotFound, map[string]string{"message": "Not Found"})
		}
	})

	result := runCommand(t, "", "repos", "get", "o/a", "o/missing", "o/b", "--output", "json", "--api", server.URL, "--token", "t")
	require.Error(t, result.err)
	require.ErrorIs(t, result.err, ghapi.ErrNotFound)
	assert.Contains(t, result.err.Error(), "o/missing")

	var repos []ghapi.Repository

	require.NoError(t, json.Unmarshal([]byte(result.stdout), &repos))
	require.Len(t, repos, 2)
	assert.Equal(t, "o/a", repos[0].FullName)
	assert.Equal(t, "o/b", repos[1].FullName)

	result = runCommand(t, "", "repos", "get", "not-a-repo", "--api", server.URL, "--token", "t")
	require.ErrorIs(t, result.err, constants.ErrInvalidRepositoryArg)
}

func TestReposList_Table(t *testing.T) {
	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orgs/github/repos", request.URL.Path)
		writeJSON(writer, http.StatusOK, []ghapi.Repository{
			{FullName: "github/docs", DefaultBranch: "main", Stargazers: 42},
		})
	})

	result := runCommand(t, "", "repos", "list", "--org", "github", "--api", server.URL, "--token", "t")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "github/docs")
	assert.Contains(t, result.stdout, "42")
}

func TestReposDelete_RequiresForce(t *testing.T) {
	var requests atomic.Int32

	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)
		assert.Equal(t, http.MethodDelete, request.Method)
		writer.WriteHeader(http.StatusNoContent)
	})

	result := runCommand(t, "", "repos", "delete", "o/r", "--api", server.URL, "--token", "t")
	require.ErrorIs(t, result.err, commands.ErrConfirmationRequired)
	assert.Equal(t, int32(0), requests.Load())

	result = runCommand(t, "", "repos", "delete", "o/r", "--force", "--api", server.URL, "--token", "t")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "Deleted o/r")
	assert.Equal(t, int32(1), requests.Load())
}

func TestIssuesList_Filters(t *testing.T) {
	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/repos/o/r/issues", request.URL.Path)
		assert.Equal(t, "closed", request.URL.Query().Get("state"))
		assert.Equal(t, "bug,ui", request.URL.Query().Get("labels"))
		writeJSON(writer, http.StatusOK, []ghapi.Issue{{Number: 7, Title: "Broken", State: "closed"}})
	})

	result := runCommand(t, "", "issues", "list", "o/r", "--state", "closed", "--label", "bug", "--label", "ui",
		"--api", server.URL, "--token", "t")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "#7")
	assert.Contains(t, result.stdout, "Broken")

	result = runCommand(t, "", "issues", "get", "o/r", "zero", "--api", server.URL, "--token", "t")
	require.ErrorIs(t, result.err, commands.ErrInvalidID)
}

func TestCollaboratorsCheck(t *testing.T) {
	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/repos/o/r/collaborators/member" {
			writer.WriteHeader(http.StatusNoContent)

			return
		}

		writeJSON(writer, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})

	result := runCommand(t, "", "collaborators", "check", "o/r", "member", "--api", server.URL, "--token", "t")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "member: yes")

	result = runCommand(t, "", "collaborators", "check", "o/r", "stranger", "--api", server.URL, "--token", "t")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "stranger: no")
}

func TestRateLimitCommand(t *testing.T) {
	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/rate_limit", request.URL.Path)
		writeJSON(writer, http.StatusOK, map[string]interface{}{
			"resources": map[string]interface{}{
				"core":   map[string]int64{"limit": 5000, "used": 10, "remaining": 4990, "reset": 1700000000},
				"search": map[string]int64{"limit": 30, "used": 0, "remaining": 30, "reset": 1700000000},
			},
		})
	})

	result := runCommand(t, "", "rate-limit", "--api", server.URL, "--token", "t")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "4990")
	assert.Contains(t, result.stdout, "search")
}

func TestMetricsAndTraceFlags(t *testing.T) {
	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, http.StatusOK, ghapi.User{Login: "octocat"})
	})

	result := runCommand(t, "", "user", "--metrics", "--trace", "--api", server.URL, "--token", "t")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "octocat")
	assert.Contains(t, result.stderr, "ghapi_requests_total")
	assert.Contains(t, result.stderr, `"Name": "ghapi GET"`)
}

func TestConfigSetAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	result := runCommand(t, "", "--config", path, "config", "set", "output", "json")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "Set output to json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "output: json")

	result = runCommand(t, "", "--config", path, "config", "unset", "output")
	require.NoError(t, result.err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "output")

	result = runCommand(t, "", "--config", path, "config", "set", "token", "x")
	require.ErrorIs(t, result.err, commands.ErrUnknownConfigKey)

	result = runCommand(t, "", "config", "show", "--token", "hidden", "--output", "json")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, `"token": "***"`)
	assert.NotContains(t, result.stdout, "hidden")
}
