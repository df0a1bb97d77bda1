package ghclient_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghclient"
)

func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("creates client with config", func(t *testing.T) {
		t.Parallel()

		client, err := ghclient.New(context.Background(), &ghapi.Config{BaseURL: "https://api.example.com"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := ghclient.New(context.Background(), nil)
		require.ErrorIs(t, err, ghapi.ErrConfigRequired)
	})

	t.Run("rejects negative settings", func(t *testing.T) {
		t.Parallel()

		_, err := ghclient.New(context.Background(), &ghapi.Config{RetryMax: -1})
		require.ErrorIs(t, err, ghapi.ErrInvalidConfig)
	})
}

func TestNewWithEndpoint_NormalizesScheme(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/api/v3/users/octocat", request.URL.Path)
		_ = json.NewEncoder(writer).Encode(ghapi.User{Login: "octocat"})
	}))
	defer server.Close()

	client, err := ghclient.NewWithEndpoint(context.Background(), server.URL+"/api/v3/")
	require.NoError(t, err)

	user, err := client.Users().Get(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, int32(1), hits.Load())
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "token test-token", request.Header.Get("Authorization"))
		_ = json.NewEncoder(writer).Encode(ghapi.User{Login: "me"})
	}))
	defer server.Close()

	client, err := ghclient.NewWithToken(context.Background(), server.URL, "test-token")
	require.NoError(t, err)

	_, err = client.Users().Current(context.Background())
	require.NoError(t, err)
}

func TestNewWithTokenSource(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer gho_abc", request.Header.Get("Authorization"))
		_ = json.NewEncoder(writer).Encode(ghapi.User{Login: "me"})
	}))
	defer server.Close()

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "gho_abc"})

	client, err := ghclient.NewWithTokenSource(context.Background(), server.URL, source)
	require.NoError(t, err)

	_, err = client.Users().Current(context.Background())
	require.NoError(t, err)
}

func TestNewWithBasicAuth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		login, password, ok := request.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "octocat", login)
		assert.Equal(t, "hunter2", password)
		_ = json.NewEncoder(writer).Encode(ghapi.User{Login: login})
	}))
	defer server.Close()

	client, err := ghclient.NewWithBasicAuth(context.Background(), server.URL, "octocat", "hunter2")
	require.NoError(t, err)

	user, err := client.Users().Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", user.Login)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClientIntegration(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "yes", request.Header.Get("X-Custom"))
		writer.Header().Set("X-RateLimit-Remaining", "17")

		switch request.URL.Query().Get("page") {
		case "", "1":
			writer.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/o/r/stargazers?page=2>; rel="next"`, request.Host))
			_, _ = writer.Write([]byte(`[{"login":"a"},{"login":"b"}]`))
		default:
			_, _ = writer.Write([]byte(`[{"login":"c"}]`))
		}
	}))
	defer server.Close()

	registry := prometheus.NewRegistry()
	metrics, err := ghapi.NewMetricsCollector(registry)
	require.NoError(t, err)

	interceptors := ghapi.NewInterceptorChain()
	interceptors.OnRequest(ghapi.HeaderInterceptor(map[string]string{"X-Custom": "yes"}))

	client, err := ghclient.New(context.Background(), &ghapi.Config{
		BaseURL:           server.URL,
		RequestsPerSecond: 1000,
		Metrics:           metrics,
		Interceptors:      interceptors,
		Cache:             ghapi.NewMemoryCache(8),
	})
	require.NoError(t, err)

	items, err := ghclient.GetAllRaw(context.Background(), client, "/repos/o/r/stargazers", nil, ghapi.NoOptions)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.JSONEq(t, `{"login":"c"}`, string(items[2]))

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.Requests().WithLabelValues("GET", "200")), 0)
	assert.InDelta(t, 17, testutil.ToFloat64(metrics.RateRemaining()), 0)

	resp, err := ghclient.GetRaw(context.Background(), client, "/repos/o/r/stargazers", &ghclient.RawOptions{Accept: "application/vnd.github.star+json"})
	require.NoError(t, err)
	assert.Equal(t, 17, resp.Rate.Remaining)
}
