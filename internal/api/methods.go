package api

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/apperr"
)

// RouteTable is the immutable set of path templates the server serves,
// each paired with its registered verbs.
type RouteTable struct {
	routes []routeTemplate
}

type routeTemplate struct {
	path     string
	segments []string
	methods  map[string]gin.HandlerFunc
}

// Route is one entry of a RouteTable. Handler is optional; when set, the
// resolver serves requests that only missed the route by a trailing slash.
type Route struct {
	Path    string
	Methods []string
	Handler gin.HandlerFunc
}

// NewRouteTable builds a table from literal routes, merging duplicate paths
func NewRouteTable(routes ...Route) *RouteTable {
	t := &RouteTable{}
	index := make(map[string]int)
	for _, r := range routes {
		i, ok := index[r.Path]
		if !ok {
			i = len(t.routes)
			index[r.Path] = i
			t.routes = append(t.routes, routeTemplate{
				path:     r.Path,
				segments: splitPath(r.Path),
				methods:  make(map[string]gin.HandlerFunc),
			})
		}
		for _, m := range r.Methods {
			t.routes[i].methods[strings.ToUpper(m)] = r.Handler
		}
	}
	return t
}

// RouteTableFrom flattens the routes registered on a gin engine. Groups are
// already resolved to absolute paths by gin.
func RouteTableFrom(infos gin.RoutesInfo) *RouteTable {
	routes := make([]Route, 0, len(infos))
	for _, info := range infos {
		routes = append(routes, Route{Path: info.Path, Methods: []string{info.Method}, Handler: info.HandlerFunc})
	}
	return NewRouteTable(routes...)
}

// Resolution is the outcome of looking up a request that no handler served
type Resolution struct {
	// Allowed lists the verbs registered for the path, sorted; empty when
	// no template matches.
	Allowed []string
	method  string
	handler gin.HandlerFunc
	params  gin.Params
}

// Handler returns the handler registered for the verb on the normalized
// path, with its path parameters, or nil when there is none.
func (r Resolution) Handler() (gin.HandlerFunc, gin.Params) {
	return r.handler, r.params
}

// MethodNotAllowed reports whether the path is known but the verb is not
func (r Resolution) MethodNotAllowed() bool {
	if len(r.Allowed) == 0 {
		return false
	}
	for _, m := range r.Allowed {
		if m == r.method {
			return false
		}
	}
	return true
}

// Err returns the error to reply with
func (r Resolution) Err() *apperr.Error {
	if r.MethodNotAllowed() {
		return apperr.MethodNotAllowed()
	}
	return apperr.RouteNotFound()
}

// Resolve matches rawPath against every template and collects the verbs of
// those that match.
func (t *RouteTable) Resolve(method, rawPath string) Resolution {
	segments := splitPath(normalizePath(rawPath))

	res := Resolution{method: strings.ToUpper(method)}

	allowed := make(map[string]struct{})
	for _, rt := range t.routes {
		if !rt.matches(segments) {
			continue
		}
		for m, h := range rt.methods {
			allowed[m] = struct{}{}
			if m == res.method && h != nil && res.handler == nil {
				res.handler = h
				res.params = rt.params(segments)
			}
		}
	}

	for m := range allowed {
		res.Allowed = append(res.Allowed, m)
	}
	sort.Strings(res.Allowed)
	return res
}

func (rt routeTemplate) matches(segments []string) bool {
	for i, seg := range rt.segments {
		if strings.HasPrefix(seg, "*") {
			return true
		}
		if i >= len(segments) {
			return false
		}
		if strings.HasPrefix(seg, ":") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if seg != segments[i] {
			return false
		}
	}
	return len(segments) == len(rt.segments)
}

func (rt routeTemplate) params(segments []string) gin.Params {
	var params gin.Params
	for i, seg := range rt.segments {
		switch {
		case strings.HasPrefix(seg, ":"):
			params = append(params, gin.Param{Key: seg[1:], Value: segments[i]})
		case strings.HasPrefix(seg, "*"):
			params = append(params, gin.Param{Key: seg[1:], Value: "/" + strings.Join(segments[i:], "/")})
			return params
		}
	}
	return params
}

// normalizePath drops the query string and any trailing slashes
func normalizePath(p string) string {
	p, _, _ = strings.Cut(p, "?")
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// MethodResolver is installed as the NoRoute handler. It tells an unknown
// path apart from a known path requested with the wrong verb.
type MethodResolver struct {
	table *RouteTable
}

// NewMethodResolver creates a resolver over table
func NewMethodResolver(table *RouteTable) *MethodResolver {
	return &MethodResolver{table: table}
}

// Handle serves a request that differs from a registered route only by
// trailing slashes, and otherwise records the resolution as the request error.
func (m *MethodResolver) Handle(c *gin.Context) {
	res := m.table.Resolve(c.Request.Method, c.Request.URL.Path)
	if h, params := res.Handler(); h != nil {
		c.Params = params
		h(c)
		return
	}
	if res.MethodNotAllowed() {
		c.Header("Allow", strings.Join(res.Allowed, ", "))
	}
	_ = c.Error(res.Err())
}
