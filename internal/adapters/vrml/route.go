package vrml

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	routePlayerSearch   = "/Players/Search"
	routePlayerDetailed = "/Players/{playerID}/Detailed"
	routeGame           = "/{game}"
	routeGamePlayers    = "/{game}/Players"
	routeTeam           = "/Teams/{teamID}"
	routeTeamSearch     = "/{game}/Teams/Search"
	routeMatchSets      = "/Matches/{matchID}/Sets"
)

// Params fills the {name} placeholders of a route template. Strings are
// path-escaped, other values are written as-is.
type Params map[string]any

// Routes builds fully qualified routes against Base.
type Routes struct {
	Base string
}

// Route is a resolved request target. Values are copies; a Route is not
// changed after it is built.
type Route struct {
	Method   string
	Template string
	Path     string
	base     string
	query    url.Values
}

// Build resolves template with params. A placeholder without a value is a
// programming error and panics.
func (r Routes) Build(method, template string, params Params) Route {
	var b strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			panic(fmt.Sprintf("vrml: unterminated placeholder in route %q", template))
		}
		name := rest[open+1 : open+end]
		v, ok := params[name]
		if !ok {
			panic(fmt.Sprintf("vrml: route %q needs param %q", template, name))
		}
		b.WriteString(rest[:open])
		b.WriteString(formatParam(v))
		rest = rest[open+end+1:]
	}
	return Route{Method: method, Template: template, Path: b.String(), base: r.Base}
}

func formatParam(v any) string {
	switch x := v.(type) {
	case string:
		return url.PathEscape(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

// WithQuery returns a copy of r carrying q.
func (r Route) WithQuery(q url.Values) Route {
	cp := make(url.Values, len(q))
	for k, vs := range q {
		cp[k] = append([]string(nil), vs...)
	}
	r.query = cp
	return r
}

// RawQuery is the percent-encoded query string (spaces as %20).
func (r Route) RawQuery() string {
	if len(r.query) == 0 {
		return ""
	}
	// Encode writes '+' for spaces; a literal '+' is already %2B.
	return strings.ReplaceAll(r.query.Encode(), "+", "%20")
}

func (r Route) URL() string {
	u := r.base + r.Path
	if q := r.RawQuery(); q != "" {
		u += "?" + q
	}
	return u
}

func (r Route) String() string {
	return r.Method + " " + r.URL()
}
