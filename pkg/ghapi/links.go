package ghapi

import (
	"net/http"
	"strings"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// Link relation names used by paginated responses.
const (
	RelNext  = "next"
	RelPrev  = "prev"
	RelFirst = "first"
	RelLast  = "last"
)

// Links maps a relation name to its URL, as parsed from the Link header.
type Links map[string]string

// Next returns the continuation URL and whether one exists.
func (l Links) Next() (string, bool) {
	next, ok := l[RelNext]

	return next, ok && next != ""
}

// ParseLinks reads every Link header value of headers.
func ParseLinks(headers http.Header) Links {
	links := Links{}

	for _, value := range headers.Values(constants.HeaderLink) {
		for _, part := range splitLinkValue(value) {
			target, rels, ok := parseLinkPart(part)
			if !ok {
				continue
			}

			for _, rel := range rels {
				if _, seen := links[rel]; !seen {
					links[rel] = target
				}
			}
		}
	}

	return links
}

// splitLinkValue splits on commas that are outside <...>.
func splitLinkValue(value string) []string {
	var (
		parts   []string
		depth   int
		inQuote bool
		start   int
	)

	for i, r := range value {
		switch {
		case r == '"' && depth == 0:
			inQuote = !inQuote
		case r == '<' && !inQuote:
			depth++
		case r == '>' && !inQuote && depth > 0:
			depth--
		case r == ',' && depth == 0 && !inQuote:
			parts = append(parts, value[start:i])
			start = i + 1
		}
	}

	return append(parts, value[start:])
}

func parseLinkPart(part string) (string, []string, bool) {
	part = strings.TrimSpace(part)

	end := strings.Index(part, ">")
	if !strings.HasPrefix(part, "<") || end < 0 {
		return "", nil, false
	}

	target := strings.TrimSpace(part[1:end])

	var rels []string

	for _, param := range strings.Split(part[end+1:], ";") {
		key, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}

		// rel may hold several space-separated relation types.
		rels = append(rels, strings.Fields(strings.Trim(strings.TrimSpace(value), `"`))...)
	}

	return target, rels, len(rels) > 0
}
