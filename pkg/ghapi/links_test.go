package ghapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

func TestParseLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []string
		expected ghapi.Links
	}{
		{
			name: "typical pagination header",
			values: []string{`<https://api.github.com/user/repos?page=3&per_page=100>; rel="next", ` +
				`<https://api.github.com/user/repos?page=50&per_page=100>; rel="last"`},
			expected: ghapi.Links{
				"next": "https://api.github.com/user/repos?page=3&per_page=100",
				"last": "https://api.github.com/user/repos?page=50&per_page=100",
			},
		},
		{
			name:     "comma inside the URL",
			values:   []string{`<https://api.github.com/search?q=a,b&page=2>; rel="next"`},
			expected: ghapi.Links{"next": "https://api.github.com/search?q=a,b&page=2"},
		},
		{
			name:     "several relations on one link",
			values:   []string{`<https://x/1>; rel="prev first"`},
			expected: ghapi.Links{"prev": "https://x/1", "first": "https://x/1"},
		},
		{
			name:     "repeated header lines, first rel wins",
			values:   []string{`<https://x/2>; rel="next"`, `<https://x/9>; rel="next"`},
			expected: ghapi.Links{"next": "https://x/2"},
		},
		{
			name:     "malformed parts are skipped",
			values:   []string{`https://x/2; rel="next", <https://x/3>; title="no rel"`},
			expected: ghapi.Links{},
		},
		{
			name:     "absent header",
			expected: ghapi.Links{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			headers := http.Header{}
			for _, value := range tt.values {
				headers.Add("Link", value)
			}

			assert.Equal(t, tt.expected, ghapi.ParseLinks(headers))
		})
	}
}

func TestLinks_Next(t *testing.T) {
	t.Parallel()

	next, ok := ghapi.Links{"last": "https://x/9"}.Next()
	assert.False(t, ok)
	assert.Empty(t, next)

	next, ok = ghapi.Links{"next": "https://x/2"}.Next()
	assert.True(t, ok)
	assert.Equal(t, "https://x/2", next)
}
