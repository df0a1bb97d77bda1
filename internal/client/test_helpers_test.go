package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// NewTestClient starts a fake API server and returns a client pointed at it.
func NewTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), &ghapi.Config{BaseURL: server.URL, Token: "test-token"})
	require.NoError(t, err)

	return client
}

// writeJSON writes status and the JSON encoding of body.
func writeJSON(writer http.ResponseWriter, status int, body interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if body != nil {
		_ = json.NewEncoder(writer).Encode(body)
	}
}

// pagedServer serves pages of ints under /items. Each page but the last
// carries a next link with an opaque cursor. failOn > 0 answers that page
// with a 500.
type pagedServer struct {
	pages    [][]int
	failOn   int
	requests atomic.Int32
	queries  chan string
}

func newPagedServer(pages [][]int) *pagedServer {
	return &pagedServer{pages: pages, queries: make(chan string, 64)}
}

func (s *pagedServer) handle(writer http.ResponseWriter, request *http.Request) {
	s.requests.Add(1)
	s.queries <- request.URL.RawQuery

	page := 1
	if raw := request.URL.Query().Get("page"); raw != "" {
		page, _ = strconv.Atoi(raw)
	}

	if page == s.failOn {
		writeJSON(writer, http.StatusInternalServerError, map[string]string{"message": "boom"})

		return
	}

	if page < len(s.pages) {
		writer.Header().Set("Link", fmt.Sprintf(
			`<http://%s/items?page=%d&cursor=c%d>; rel="next", <http://%s/items?page=%d&cursor=last>; rel="last"`,
			request.Host, page+1, page, request.Host, len(s.pages)))
	}

	items := []int{}
	if page >= 1 && page <= len(s.pages) {
		items = s.pages[page-1]
	}

	writeJSON(writer, http.StatusOK, items)
}
