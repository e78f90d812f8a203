package rmaview

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"sync/atomic"

	units "github.com/docker/go-units"
	"github.com/gorilla/mux"
	"github.com/iccolo/rmagui/rmahttp"
	"github.com/iccolo/rmagui/rmaroute"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// LayoutTemplate is the file holding the "layout" template every view is rendered through
	LayoutTemplate = "layout.html"

	// NotFoundTemplate is the file holding the content of the 404 page
	NotFoundTemplate = "notfound.html"

	layoutName = "layout"
)

// Templates returns the embedded template files, rooted at the directory
// that holds them.
func Templates() fs.FS {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// the embed pattern guarantees the directory
		panic(err)
	}

	return sub
}

// Loader fetches the view model for a request.  A Loader may return partial
// data along with an error, in which case the page is still rendered with
// both.
type Loader func(*http.Request) (any, error)

// Def describes one renderable view.
type Def struct {
	// Name is the identifier route entries use to refer to this view
	Name string

	// Template is the file, relative to the template root, that defines "content"
	Template string

	// Title is the page title
	Title string

	// Load is the optional view model loader.  Views without one are static.
	Load Loader
}

// NavLink is one entry of the navigation bar every page is rendered with.
type NavLink struct {
	Title string
	URL   string
}

// PageData is what the layout template is executed with.
type PageData struct {
	Title     string
	View      string
	Nav       []NavLink
	Data      any
	Error     string
	RequestID string
}

// StatusCoder is implemented by errors that carry the HTTP status a view
// should be rendered with.
type StatusCoder interface {
	StatusCode() int
}

type statusError struct {
	status int
	err    error
}

func (se statusError) Error() string   { return se.err.Error() }
func (se statusError) Unwrap() error   { return se.err }
func (se statusError) StatusCode() int { return se.status }

// BadRequest marks err as the caller's fault.  The view is rendered with
// http.StatusBadRequest instead of http.StatusBadGateway.
func BadRequest(err error) error {
	return statusError{status: http.StatusBadRequest, err: err}
}

// StatusFor returns the status a view is rendered with when its Loader
// fails.  Errors that do not carry a status are backend failures.
func StatusFor(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}

	return http.StatusBadGateway
}

// ErrDuplicateView is returned by NewSet when two views share a name.
var ErrDuplicateView = errors.New("duplicate view")

// Funcs are the template functions available to every view.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"bytes": func(n int64) string {
			return units.BytesSize(float64(n))
		},
		"link": link,
	}
}

// link builds a query-only URL from name/value pairs, e.g. {{link "host" .Host}}
func link(pairs ...string) (string, error) {
	if len(pairs)%2 != 0 {
		return "", fmt.Errorf("link requires name/value pairs, got %d arguments", len(pairs))
	}

	v := make(url.Values, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		if len(pairs[i+1]) > 0 {
			v.Set(pairs[i], pairs[i+1])
		}
	}

	return "?" + v.Encode(), nil
}

type page struct {
	def Def
	t   *template.Template
}

// Set is the parsed collection of views.  It is safe for concurrent use.
// Only the navigation links change after construction, through SetNav.
type Set struct {
	logger   *zap.Logger
	names    []string
	views    map[string]*page
	notFound *page
	nav      atomic.Pointer[[]NavLink]
}

// NewSet parses the embedded templates for each view.
func NewSet(logger *zap.Logger, defs ...Def) (*Set, error) {
	return NewSetFS(Templates(), logger, defs...)
}

// NewSetFS parses each view's template from fsys, along with LayoutTemplate
// and NotFoundTemplate.  Every template is parsed here, so a missing or
// malformed template is a startup error.
func NewSetFS(fsys fs.FS, logger *zap.Logger, defs ...Def) (*Set, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	layout, err := template.New(LayoutTemplate).Funcs(Funcs()).ParseFS(fsys, LayoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	s := &Set{
		logger: logger,
		names:  make([]string, 0, len(defs)),
		views:  make(map[string]*page, len(defs)),
	}

	s.notFound, err = parsePage(layout, fsys, Def{Name: "NotFound", Template: NotFoundTemplate, Title: "Not Found"})
	if err != nil {
		return nil, err
	}

	for _, def := range defs {
		if _, exists := s.views[def.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateView, def.Name)
		}

		p, err := parsePage(layout, fsys, def)
		if err != nil {
			return nil, err
		}

		s.names = append(s.names, def.Name)
		s.views[def.Name] = p
	}

	return s, nil
}

func parsePage(layout *template.Template, fsys fs.FS, def Def) (*page, error) {
	t, err := layout.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone layout for view %q: %w", def.Name, err)
	}

	if _, err = t.ParseFS(fsys, def.Template); err != nil {
		return nil, fmt.Errorf("parse template for view %q: %w", def.Name, err)
	}

	if t.Lookup("content") == nil {
		return nil, fmt.Errorf("template %s for view %q does not define content", def.Template, def.Name)
	}

	return &page{def: def, t: t}, nil
}

// Names returns the view names in the order they were defined.
func (s *Set) Names() []string {
	return append([]string{}, s.names...)
}

// Title returns the page title of the named view.
func (s *Set) Title(name string) (string, bool) {
	p, ok := s.views[name]
	if !ok {
		return "", false
	}

	return p.def.Title, true
}

// SetNav replaces the navigation links rendered on every page.
func (s *Set) SetNav(links ...NavLink) {
	links = append([]NavLink{}, links...)
	s.nav.Store(&links)
}

// NavLinks reverses the URL of each route through router, which must be the
// router the routes were mounted on.  Each link is titled after the route's
// view, or the route name for a view with no title.
func (s *Set) NavLinks(router *mux.Router, routes ...rmaroute.Route) ([]NavLink, error) {
	links := make([]NavLink, 0, len(routes))
	for _, route := range routes {
		mr := router.Get(route.Name)
		if mr == nil {
			return nil, fmt.Errorf("route %q is not mounted", route.Name)
		}

		u, err := mr.URL()
		if err != nil {
			return nil, fmt.Errorf("reverse route %q: %w", route.Name, err)
		}

		title, _ := s.Title(route.View)
		if len(title) == 0 {
			title = route.Name
		}

		links = append(links, NavLink{Title: title, URL: u.String()})
	}

	return links, nil
}

// Resolve returns the handler for the named view.  This method allows a Set
// to be used as an rmaroute.Resolver.
func (s *Set) Resolve(name string) (http.Handler, bool) {
	p, ok := s.views[name]
	if !ok {
		return nil, false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.serve(p, w, r)
	}), true
}

// NotFound returns the handler that renders the 404 page.
func (s *Set) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := s.pageData(s.notFound, r)
		data.Data = r.URL.Path
		s.render(s.notFound, http.StatusNotFound, data, w)
	})
}

func (s *Set) pageData(p *page, r *http.Request) PageData {
	data := PageData{
		Title: p.def.Title,
		View:  p.def.Name,
	}

	if nav := s.nav.Load(); nav != nil {
		data.Nav = *nav
	}

	data.RequestID, _ = rmahttp.RequestID(r.Context())
	return data
}

func (s *Set) serve(p *page, w http.ResponseWriter, r *http.Request) {
	var (
		status = http.StatusOK
		data   = s.pageData(p, r)
	)

	if p.def.Load != nil {
		var err error
		data.Data, err = p.def.Load(r)
		if err != nil {
			status = StatusFor(err)
			data.Error = err.Error()
			s.logger.Warn(
				"view load failed",
				zap.String("view", p.def.Name),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
	}

	s.render(p, status, data, w)
}

// render executes into a buffer first, so that a template failure can still
// produce a clean 500 response.
func (s *Set) render(p *page, status int, data PageData, w http.ResponseWriter) {
	var buf bytes.Buffer
	if err := p.t.ExecuteTemplate(&buf, layoutName, data); err != nil {
		s.logger.Error("view render failed", zap.String("view", p.def.Name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck
}
