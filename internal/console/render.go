package console

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/fitpay/fitpay-admin/internal/console/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// view is the data every page template receives
type view struct {
	Title       string
	Nav         string
	User        string
	AuthEnabled bool
	Flash       string
	Banner      string
	Data        interface{}
}

type navLink struct {
	URL     string
	Label   string
	Current bool
}

var funcs = template.FuncMap{
	"brl": brl,
	"inc": func(i int) int { return i + 1 },
	"navItem": func(v view, url, label string) navLink {
		return navLink{URL: url, Label: label, Current: v.Nav == url}
	},
}

// renderer holds one template set per page, each combined with the layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	rd := &renderer{pages: make(map[string]*template.Template)}
	for _, name := range names {
		base := strings.TrimPrefix(name, "templates/")
		if base == "layout.html" {
			continue
		}
		t, err := template.New(base).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		rd.pages[strings.TrimSuffix(base, ".html")] = t
	}
	return rd, nil
}

// render writes page with status, buffering so a template error still yields
// a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	t, ok := s.pages.pages[page]
	if !ok {
		s.log.Errorf("unknown page template %q", page)
		http.Error(w, "Erro interno do servidor.", http.StatusInternalServerError)
		return
	}

	v.AuthEnabled = s.auth.Enabled()
	if email, ok := middleware.GetUserEmail(r); ok {
		v.User = email
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		s.log.With("page", page).ErrorWithErr(err, "failed to render page")
		http.Error(w, "Erro interno do servidor.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func brl(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	return "R$ " + strings.Replace(s, ".", ",", 1)
}
