package ghapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

func TestParseRate(t *testing.T) {
	t.Parallel()

	headers := http.Header{}
	headers.Set("X-RateLimit-Limit", "60")
	headers.Set("X-RateLimit-Remaining", "56")
	headers.Set("X-RateLimit-Reset", "1372700873")

	rate := ghapi.ParseRate(headers)
	assert.Equal(t, 60, rate.Limit)
	assert.Equal(t, 56, rate.Remaining)
	assert.Equal(t, time.Unix(1372700873, 0).UTC(), rate.Reset)

	assert.Equal(t, ghapi.Rate{}, ghapi.ParseRate(nil))
	assert.Equal(t, ghapi.Rate{}, ghapi.ParseRate(http.Header{"X-Ratelimit-Limit": []string{"n/a"}}))
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	var nilConfig *ghapi.Config
	assert.ErrorIs(t, nilConfig.Validate(), ghapi.ErrConfigRequired)

	assert.NoError(t, (&ghapi.Config{BaseURL: "https://api.github.com"}).Validate())
	assert.ErrorIs(t, (&ghapi.Config{}).Validate(), ghapi.ErrInvalidConfig)
	assert.ErrorIs(t, (&ghapi.Config{BaseURL: "not a url"}).Validate(), ghapi.ErrInvalidConfig)
	assert.ErrorIs(t, (&ghapi.Config{BaseURL: "https://api.github.com", RequestsPerSecond: -1}).Validate(), ghapi.ErrInvalidConfig)
}
