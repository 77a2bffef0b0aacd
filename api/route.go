package api

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
)

// Params holds named values substituted into a route's path template.
type Params map[string]any

// Route is a resolved request target. It is immutable once built.
type Route struct {
	Method string
	Path   string
	URL    string
}

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// NewRoute substitutes every {name} placeholder of path with params[name].
// Values of any string kind are percent-escaped; everything else is formatted
// verbatim.
func NewRoute(base, method, path string, params Params) (*Route, error) {
	var missing []string
	resolved := placeholderPattern.ReplaceAllStringFunc(path, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		if v := reflect.ValueOf(value); v.Kind() == reflect.String {
			return url.PathEscape(v.String())
		}
		return fmt.Sprint(value)
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s %s needs %s", ErrMissingRouteParam, method, path, strings.Join(missing, ", "))
	}

	return &Route{
		Method: method,
		Path:   path,
		URL:    strings.TrimRight(base, "/") + resolved,
	}, nil
}

func (r *Route) String() string {
	return r.Method + " " + r.URL
}

var cdnPattern = regexp.MustCompile(`(?i)^cdn://([0-9]{15,30})/([^:0-9\s/]{0,32})$`)

// IsCDNReference reports whether s uses the cdn:// pseudo scheme.
func IsCDNReference(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "cdn://")
}

// CDNReference builds the cdn:// reference an upload named name by authorID
// is stored under. It fails when FromCDN could not resolve the result.
func CDNReference(authorID Snowflake, name string) (string, error) {
	ref := "cdn://" + authorID.String() + "/" + name
	if !cdnPattern.MatchString(ref) {
		return "", fmt.Errorf("%w: %q", ErrMalformedCDNReference, ref)
	}
	return ref, nil
}

// FromCDN resolves a cdn://<author_id>/<name> reference against cdnHost.
func FromCDN(cdnHost, ref string) (string, error) {
	match := cdnPattern.FindStringSubmatch(ref)
	if match == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedCDNReference, ref)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(cdnHost, "/"), match[1], match[2]), nil
}
