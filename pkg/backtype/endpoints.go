package backtype

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoint names one remote resource of the API.
type Endpoint string

const (
	EndpointCommentsSearch       Endpoint = "comments_search"
	EndpointCommentsConnect      Endpoint = "comments_connect"
	EndpointCommentsConnectStats Endpoint = "comments_connect_stats"
	EndpointURLComments          Endpoint = "url_comments"
	EndpointPageComments         Endpoint = "page_comments"
	EndpointPageCommentsStats    Endpoint = "page_comments_stats"
	EndpointUserComments         Endpoint = "user_comments"
	EndpointUserFollowers        Endpoint = "user_followers"
	EndpointUserFollowing        Endpoint = "user_following"
	EndpointUserHomeFeed         Endpoint = "user_home_feed"
	EndpointUserProfile          Endpoint = "user_profile"

	// endpointCustom labels requests issued through Fetch with a caller supplied path.
	endpointCustom Endpoint = "custom"
)

// route describes how an endpoint's required identifier reaches the server: either as the
// query parameter named by query, or escaped into the %s slot of path.
type route struct {
	path  string
	query string
}

var routes = map[Endpoint]route{
	EndpointCommentsSearch:       {path: "/comments/search.json", query: "q"},
	EndpointCommentsConnect:      {path: "/comments/connect.json", query: "url"},
	EndpointCommentsConnectStats: {path: "/comments/connect/stats.json", query: "url"},
	EndpointURLComments:          {path: "/url/%s/comments.json"},
	EndpointPageComments:         {path: "/post/comments.json", query: "url"},
	EndpointPageCommentsStats:    {path: "/post/stats.json", query: "url"},
	EndpointUserComments:         {path: "/user/%s/comments.json"},
	EndpointUserFollowers:        {path: "/user/%s/followers.json"},
	EndpointUserFollowing:        {path: "/user/%s/following.json"},
	EndpointUserHomeFeed:         {path: "/user/%s/home/comments.json"},
	EndpointUserProfile:          {path: "/user/%s/profile.json"},
}

var endpointOrder = []Endpoint{
	EndpointCommentsSearch,
	EndpointCommentsConnect,
	EndpointCommentsConnectStats,
	EndpointURLComments,
	EndpointPageComments,
	EndpointPageCommentsStats,
	EndpointUserComments,
	EndpointUserFollowers,
	EndpointUserFollowing,
	EndpointUserHomeFeed,
	EndpointUserProfile,
}

// Endpoints lists every supported endpoint.
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(endpointOrder))
	copy(out, endpointOrder)
	return out
}

// ParseEndpoint resolves a name such as "user_profile" or "user-profile".
func ParseEndpoint(name string) (Endpoint, error) {
	e := Endpoint(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	if _, ok := routes[e]; !ok {
		return "", invalidParam("unknown endpoint %q", name)
	}
	return e, nil
}

// PathTemplate returns the relative path with a <identifier> placeholder for path-style endpoints.
func (e Endpoint) PathTemplate() string {
	r, ok := routes[e]
	if !ok {
		return ""
	}
	if r.query != "" {
		return r.path
	}
	return fmt.Sprintf(r.path, "<identifier>")
}

// IdentifierParam is the query parameter carrying the required identifier, or "" when the
// identifier is part of the path.
func (e Endpoint) IdentifierParam() string {
	return routes[e].query
}

func (e Endpoint) String() string { return string(e) }

// resolve validates the identifier and optional parameters for e and returns the relative
// path plus the full parameter set, required identifier first.
func (e Endpoint) resolve(identifier string, opt *Params) (string, *Params, error) {
	r, ok := routes[e]
	if !ok {
		return "", nil, invalidParam("unknown endpoint %q", string(e))
	}
	if strings.TrimSpace(identifier) == "" {
		return "", nil, invalidParam("%s requires a non-empty identifier", e)
	}
	if err := validateOptional(opt, r.query); err != nil {
		return "", nil, fmt.Errorf("%s: %w", e, err)
	}

	params := NewParams()
	path := r.path
	if r.query != "" {
		params.Set(r.query, identifier)
	} else {
		path = fmt.Sprintf(r.path, url.PathEscape(identifier))
	}
	if opt != nil {
		params.pairs = append(params.pairs, opt.pairs...)
	}
	return path, params, nil
}

func validateOptional(opt *Params, required string) error {
	for _, key := range opt.Keys() {
		switch {
		case strings.TrimSpace(key) == "":
			return invalidParam("parameter name must not be empty")
		case key == apiKeyParam:
			return invalidParam("parameter %q is reserved for the API key", key)
		case required != "" && key == required:
			return invalidParam("parameter %q is already set by the required argument", key)
		}
	}
	return nil
}
