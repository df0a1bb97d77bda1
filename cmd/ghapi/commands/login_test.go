package commands_test

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/fivetwenty-io/ghapi-client/internal/auth"
	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

func TestLoginWithToken(t *testing.T) {
	keyring.MockInit()

	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "token good-token" {
			writeJSON(writer, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})

			return
		}

		writeJSON(writer, http.StatusOK, ghapi.User{Login: "octocat"})
	})

	result := runCommand(t, "bad-token\n", "login", "--with-token", "--api", server.URL)
	require.ErrorIs(t, result.err, ghapi.ErrUnauthorized)

	_, err := auth.NewKeyringStore().Load(server.URL)
	require.ErrorIs(t, err, constants.ErrNoKeyringEntry)

	result = runCommand(t, "good-token\n", "login", "--with-token", "--api", server.URL)
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "as octocat")

	stored, err := auth.NewKeyringStore().Load(server.URL)
	require.NoError(t, err)
	assert.Equal(t, "good-token", stored)

	result = runCommand(t, "", "user", "--api", server.URL, "--output", "json")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, `"login": "octocat"`)

	result = runCommand(t, "", "logout", "--api", server.URL)
	require.NoError(t, result.err)

	_, err = auth.NewKeyringStore().Load(server.URL)
	require.ErrorIs(t, err, constants.ErrNoKeyringEntry)

	result = runCommand(t, "\n", "login", "--with-token", "--api", server.URL)
	require.ErrorIs(t, result.err, constants.ErrTokenRequired)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestLoginWithAuthorization(t *testing.T) {
	keyring.MockInit()

	var authorizationRequests atomic.Int32

	server := newServer(t, func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/authorizations/clients/cid":
			authorizationRequests.Add(1)
			assert.Equal(t, http.MethodPut, request.Method)

			login, password, ok := request.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "octocat", login)
			assert.Equal(t, "hunter2", password)

			var body ghapi.NewAuthorization

			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "csecret", body.ClientSecret)
			assert.Equal(t, []string{"repo", "gist"}, body.Scopes)

			if request.Header.Get("X-GitHub-OTP") != "123456" {
				writer.Header().Set("X-GitHub-OTP", "required; app")
				writeJSON(writer, http.StatusUnauthorized, map[string]string{"message": "Must specify two-factor authentication OTP code."})

				return
			}

			writeJSON(writer, http.StatusCreated, ghapi.Authorization{ID: 9, Token: "gho_fresh"})
		case "/user":
			assert.Equal(t, "token gho_fresh", request.Header.Get("Authorization"))
			writeJSON(writer, http.StatusOK, ghapi.User{Login: "octocat"})
		default:
			writeJSON(writer, http.StatusNotFound, map[string]string{"message": "Not Found"})
		}
	})

	result := runCommand(t, "hunter2\n123456\n", "login", "--api", server.URL,
		"--username", "octocat", "--client-id", "cid", "--client-secret", "csecret", "--scopes", "repo,gist")
	require.NoError(t, result.err)
	assert.Contains(t, result.stderr, "Password: ")
	assert.Contains(t, result.stderr, "Two-factor code (app): ")
	assert.Equal(t, int32(2), authorizationRequests.Load())

	stored, err := auth.NewKeyringStore().Load(server.URL)
	require.NoError(t, err)
	assert.Equal(t, "gho_fresh", stored)

	authorizationRequests.Store(0)

	result = runCommand(t, "hunter2\n", "login", "--api", server.URL,
		"--username", "octocat", "--client-id", "cid", "--client-secret", "csecret", "--scopes", "repo,gist",
		"--otp", "999999")
	require.Error(t, result.err)

	var challengeErr *ghapi.TwoFactorChallengeFailedError

	require.ErrorAs(t, result.err, &challengeErr)
	assert.Equal(t, "999999", challengeErr.Code)
	assert.Equal(t, int32(1), authorizationRequests.Load())
}
