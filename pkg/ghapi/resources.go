package ghapi

import "time"

// User represents a GitHub account.
type User struct {
	ID        int64     `json:"id"                   yaml:"id"`
	Login     string    `json:"login"                yaml:"login"`
	Name      string    `json:"name,omitempty"       yaml:"name,omitempty"`
	Email     string    `json:"email,omitempty"      yaml:"email,omitempty"`
	Type      string    `json:"type"                 yaml:"type"`
	SiteAdmin bool      `json:"site_admin"           yaml:"site_admin"`
	HTMLURL   string    `json:"html_url"             yaml:"html_url"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Repository represents a repository.
type Repository struct {
	ID            int64     `json:"id"                    yaml:"id"`
	Name          string    `json:"name"                  yaml:"name"`
	FullName      string    `json:"full_name"             yaml:"full_name"`
	Owner         *User     `json:"owner,omitempty"       yaml:"owner,omitempty"`
	Private       bool      `json:"private"               yaml:"private"`
	Fork          bool      `json:"fork"                  yaml:"fork"`
	Archived      bool      `json:"archived"              yaml:"archived"`
	Description   string    `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultBranch string    `json:"default_branch"        yaml:"default_branch"`
	HTMLURL       string    `json:"html_url"              yaml:"html_url"`
	CloneURL      string    `json:"clone_url"             yaml:"clone_url"`
	Stargazers    int       `json:"stargazers_count"      yaml:"stargazers_count"`
	OpenIssues    int       `json:"open_issues_count"     yaml:"open_issues_count"`
	CreatedAt     time.Time `json:"created_at"            yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"            yaml:"updated_at"`
}

// NewRepository is the body of a repository create call.
type NewRepository struct {
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Private     bool   `json:"private"               yaml:"private"`
	AutoInit    bool   `json:"auto_init,omitempty"   yaml:"auto_init,omitempty"`
	// Org creates the repository under an organization instead of the
	// authenticated user. It is not sent on the wire.
	Org string `json:"-" yaml:"-"`
}

// RepositoryUpdate is the body of a repository edit call.
type RepositoryUpdate struct {
	Name          *string `json:"name,omitempty"           yaml:"name,omitempty"`
	Description   *string `json:"description,omitempty"    yaml:"description,omitempty"`
	Private       *bool   `json:"private,omitempty"        yaml:"private,omitempty"`
	Archived      *bool   `json:"archived,omitempty"       yaml:"archived,omitempty"`
	DefaultBranch *string `json:"default_branch,omitempty" yaml:"default_branch,omitempty"`
}

// Label represents an issue label.
type Label struct {
	Name  string `json:"name"  yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// Issue represents an issue or pull request.
type Issue struct {
	ID        int64      `json:"id"                  yaml:"id"`
	Number    int        `json:"number"              yaml:"number"`
	Title     string     `json:"title"               yaml:"title"`
	Body      string     `json:"body,omitempty"      yaml:"body,omitempty"`
	State     string     `json:"state"               yaml:"state"`
	User      *User      `json:"user,omitempty"      yaml:"user,omitempty"`
	Labels    []Label    `json:"labels,omitempty"    yaml:"labels,omitempty"`
	Assignees []User     `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	Comments  int        `json:"comments"            yaml:"comments"`
	HTMLURL   string     `json:"html_url"            yaml:"html_url"`
	CreatedAt time.Time  `json:"created_at"          yaml:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"          yaml:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty" yaml:"closed_at,omitempty"`
}

// NewIssue is the body of an issue create call.
type NewIssue struct {
	Title     string   `json:"title"               yaml:"title"`
	Body      string   `json:"body,omitempty"      yaml:"body,omitempty"`
	Labels    []string `json:"labels,omitempty"    yaml:"labels,omitempty"`
	Assignees []string `json:"assignees,omitempty" yaml:"assignees,omitempty"`
}

// IssueUpdate is the body of an issue update call.
type IssueUpdate struct {
	Title  *string  `json:"title,omitempty"  yaml:"title,omitempty"`
	Body   *string  `json:"body,omitempty"   yaml:"body,omitempty"`
	State  *string  `json:"state,omitempty"  yaml:"state,omitempty"`
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Release represents a release.
type Release struct {
	ID          int64      `json:"id"                     yaml:"id"`
	TagName     string     `json:"tag_name"               yaml:"tag_name"`
	Name        string     `json:"name"                   yaml:"name"`
	Body        string     `json:"body,omitempty"         yaml:"body,omitempty"`
	Draft       bool       `json:"draft"                  yaml:"draft"`
	Prerelease  bool       `json:"prerelease"             yaml:"prerelease"`
	Author      *User      `json:"author,omitempty"       yaml:"author,omitempty"`
	HTMLURL     string     `json:"html_url"               yaml:"html_url"`
	CreatedAt   time.Time  `json:"created_at"             yaml:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`
}

// NewRelease is the body of a release create call.
type NewRelease struct {
	TagName         string `json:"tag_name"                   yaml:"tag_name"`
	TargetCommitish string `json:"target_commitish,omitempty" yaml:"target_commitish,omitempty"`
	Name            string `json:"name,omitempty"             yaml:"name,omitempty"`
	Body            string `json:"body,omitempty"             yaml:"body,omitempty"`
	Draft           bool   `json:"draft"                      yaml:"draft"`
	Prerelease      bool   `json:"prerelease"                 yaml:"prerelease"`
}

// CollaboratorRequest is the body of an add-collaborator call.
type CollaboratorRequest struct {
	Permission string `json:"permission,omitempty" yaml:"permission,omitempty"`
}

// Authorization represents an OAuth authorization.
type Authorization struct {
	ID             int64     `json:"id"                         yaml:"id"`
	Token          string    `json:"token,omitempty"            yaml:"token,omitempty"`
	HashedToken    string    `json:"hashed_token,omitempty"     yaml:"hashed_token,omitempty"`
	TokenLastEight string    `json:"token_last_eight,omitempty" yaml:"token_last_eight,omitempty"`
	Note           string    `json:"note,omitempty"             yaml:"note,omitempty"`
	Scopes         []string  `json:"scopes"                     yaml:"scopes"`
	CreatedAt      time.Time `json:"created_at"                 yaml:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"                 yaml:"updated_at"`
}

// NewAuthorization is the body of a get-or-create authorization call.
type NewAuthorization struct {
	ClientSecret string   `json:"client_secret"         yaml:"client_secret"`
	Scopes       []string `json:"scopes,omitempty"      yaml:"scopes,omitempty"`
	Note         string   `json:"note,omitempty"        yaml:"note,omitempty"`
	Fingerprint  string   `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// RateLimits is the /rate_limit response.
type RateLimits struct {
	Resources map[string]RateLimitResource `json:"resources" yaml:"resources"`
	Rate      RateLimitResource            `json:"rate"      yaml:"rate"`
}

// RateLimitResource is one quota bucket.
type RateLimitResource struct {
	Limit     int   `json:"limit"     yaml:"limit"`
	Used      int   `json:"used"      yaml:"used"`
	Remaining int   `json:"remaining" yaml:"remaining"`
	Reset     int64 `json:"reset"     yaml:"reset"`
}

// ResetTime converts the epoch-seconds reset value.
func (r RateLimitResource) ResetTime() time.Time {
	return time.Unix(r.Reset, 0).UTC()
}
