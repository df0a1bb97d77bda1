package commands

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

func TestPrintEnvelope(t *testing.T) {
	t.Parallel()

	resp := &ghapi.Response[json.RawMessage]{
		StatusCode: 200,
		Links:      ghapi.Links{"next": "https://api.github.com/user/repos?page=2"},
		Rate:       ghapi.Rate{Limit: 60, Remaining: 59, Reset: time.Unix(1700000000, 0).UTC()},
	}

	var fresh bytes.Buffer

	printEnvelope(&fresh, resp)
	assert.Contains(t, fresh.String(), "Status: 200")
	assert.Contains(t, fresh.String(), "Rate: 59/60, resets 2023-11-14T22:13:20Z")
	assert.Contains(t, fresh.String(), "Link next: https://api.github.com/user/repos?page=2")
	assert.NotContains(t, fresh.String(), "Cached")

	resp.Cached = true

	var revalidated bytes.Buffer

	printEnvelope(&revalidated, resp)
	assert.Contains(t, revalidated.String(), "Cached: revalidated with 304 Not Modified")
}
