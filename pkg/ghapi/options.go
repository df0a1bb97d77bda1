package ghapi

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// APIOptions limits a paginated call. A nil *APIOptions (NoOptions) fetches
// every page with the server's default page size.
type APIOptions struct {
	// PageSize is sent as per_page.
	PageSize *int `validate:"omitempty,gt=0"`
	// StartPage is sent as page on the first request only.
	StartPage *int `validate:"omitempty,gt=0"`
	// PageCount stops the engine after exactly that many pages.
	PageCount *int `validate:"omitempty,gt=0"`
}

// NoOptions fetches all pages with the server default page size.
var NoOptions *APIOptions

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that every set field is positive.
func (o *APIOptions) Validate() error {
	if o == nil {
		return nil
	}

	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, fmt.Sprintf("%s must be positive, got %v", fieldErr.Field(), fieldErr.Value()))
		}

		return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(fields, "; "))
	}

	return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
}

// Apply injects page and per_page into query. query is modified in place.
func (o *APIOptions) Apply(query url.Values) {
	if o == nil {
		return
	}

	if o.StartPage != nil {
		query.Set(constants.QueryPage, strconv.Itoa(*o.StartPage))
	}

	if o.PageSize != nil {
		query.Set(constants.QueryPerPage, strconv.Itoa(*o.PageSize))
	}
}

// PageLimit returns the page cap, or zero when unbounded.
func (o *APIOptions) PageLimit() int {
	if o == nil || o.PageCount == nil {
		return 0
	}

	return *o.PageCount
}

// QueryParams holds the list filters most endpoints accept.
type QueryParams struct {
	State     string
	Sort      string
	Direction string
	Since     time.Time
	Filters   map[string][]string
}

// NewQueryParams creates new query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithState sets the state filter.
func (q *QueryParams) WithState(state string) *QueryParams {
	q.State = state

	return q
}

// WithSort sets the sort field and direction.
func (q *QueryParams) WithSort(field, direction string) *QueryParams {
	q.Sort = field
	q.Direction = direction

	return q
}

// WithSince only returns items updated at or after t.
func (q *QueryParams) WithSince(t time.Time) *QueryParams {
	q.Since = t

	return q
}

// WithFilter adds a filter value.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues converts the params to url.Values. Multi-valued filters are
// joined with commas.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.State != "" {
		values.Set("state", q.State)
	}

	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}

	if q.Direction != "" {
		values.Set("direction", q.Direction)
	}

	if !q.Since.IsZero() {
		values.Set("since", q.Since.UTC().Format(time.RFC3339))
	}

	keys := make([]string, 0, len(q.Filters))
	for key := range q.Filters {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		if len(q.Filters[key]) > 0 {
			values.Set(key, strings.Join(q.Filters[key], ","))
		}
	}

	return values
}
