package console

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/utils"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/go-chi/chi/v5"
)

const (
	msgSaved   = "Registro salvo com sucesso."
	msgDeleted = "Registro excluído."
)

// cell is one table cell; a non-empty Badge renders it as a colored badge.
type cell struct {
	Text  string
	Badge string
}

func txt(s string) cell { return cell{Text: s} }

type action struct {
	Label   string
	URL     string
	Variant string
}

type option struct {
	Value string
	Label string
}

type listRow struct {
	ID      int64
	Cells   []cell
	Actions []action
}

type pageLink struct {
	Label   int
	URL     string
	Current bool
}

// listPage is the rendered state of a list screen
type listPage struct {
	Resource      *resource
	Headers       []string
	Rows          []listRow
	Query         screen.Query
	Banner        string
	Empty         bool
	EmptyMessage  string
	Pages         []pageLink
	PrevURL       string
	NextURL       string
	TotalPages    int
	TotalElements int64
	Footer        string
	DismissURL    string
}

// listSpec is a list screen with its entity type erased.
type listSpec struct {
	load   func(ctx context.Context, s *Server, q screen.Query) listPage
	remove func(ctx context.Context, s *Server, q screen.Query, id int64) (listPage, error)
}

// resource is one entity of the console: its list, form and extra routes.
type resource struct {
	path        string
	title       string
	singular    string
	searchHint  string
	filterLabel string
	filter      []option
	list        listSpec
	form        *formSpec
	routes      func(r chi.Router)
}

// Accessors for the templates.
func (res *resource) Path() string        { return res.path }
func (res *resource) Title() string       { return res.title }
func (res *resource) Singular() string    { return res.singular }
func (res *resource) SearchHint() string  { return res.searchHint }
func (res *resource) FilterLabel() string { return res.filterLabel }
func (res *resource) Filter() []option    { return res.filter }
func (res *resource) Creatable() bool     { return res.form != nil }

// table describes how entities of type T are listed.
type table[T any] struct {
	config  func(*client.Client) screen.ListConfig[T]
	headers []string
	row     func(T) []cell
	id      func(T) int64
	actions func(T) []action // shown before edit and delete
	footer  func([]T) string
	edit    bool
}

func (t table[T]) spec(res *resource) listSpec {
	open := func(s *Server, q screen.Query) *screen.List[T] {
		cfg := t.config(s.client)
		cfg.Logger = s.log
		cfg.PageSize = q.Size
		l := screen.NewList(cfg)
		l.SetQuery(q)
		return l
	}

	build := func(s *Server, v screen.ListView[T]) listPage {
		p := listPage{
			Resource:      res,
			Headers:       append([]string{}, t.headers...),
			Query:         v.Query,
			Banner:        v.Banner,
			Empty:         v.Empty,
			EmptyMessage:  v.EmptyMessage,
			TotalPages:    v.TotalPages,
			TotalElements: v.TotalElements,
			DismissURL:    s.listURL(res.path, v.Query, v.Query.Page),
		}
		p.Headers = append(p.Headers, "Ações")

		for _, item := range v.Items {
			id := t.id(item)
			var actions []action
			if t.actions != nil {
				actions = append(actions, t.actions(item)...)
			}
			if t.edit {
				actions = append(actions, action{Label: "Editar", URL: fmt.Sprintf("%s/editar/%d", res.path, id), Variant: "primary"})
			}
			actions = append(actions, action{
				Label:   "Excluir",
				URL:     s.listURL(fmt.Sprintf("%s/%d/excluir", res.path, id), v.Query, v.Query.Page),
				Variant: "danger",
			})
			p.Rows = append(p.Rows, listRow{ID: id, Cells: t.row(item), Actions: actions})
		}

		for _, n := range v.Pages {
			p.Pages = append(p.Pages, pageLink{Label: n + 1, URL: s.listURL(res.path, v.Query, n), Current: n == v.Query.Page})
		}
		if v.HasPrev {
			p.PrevURL = s.listURL(res.path, v.Query, v.Query.Page-1)
		}
		if v.HasNext {
			p.NextURL = s.listURL(res.path, v.Query, v.Query.Page+1)
		}
		if t.footer != nil && len(v.Items) > 0 {
			p.Footer = t.footer(v.Items)
		}
		return p
	}

	return listSpec{
		load: func(ctx context.Context, s *Server, q screen.Query) listPage {
			l := open(s, q)
			defer l.Close()
			// Failures land in the banner.
			_ = l.Load(ctx)
			return build(s, l.View())
		},
		remove: func(ctx context.Context, s *Server, q screen.Query, id int64) (listPage, error) {
			l := open(s, q)
			defer l.Close()

			if err := l.RequestDelete(id); err != nil {
				return build(s, l.View()), err
			}
			err := l.ConfirmDelete(ctx)
			if err != nil {
				// Show the rows that are still there under the delete failure.
				banner := l.View().Banner
				_ = l.Load(ctx)
				p := build(s, l.View())
				p.Banner = banner
				return p, err
			}
			return build(s, l.View()), nil
		},
	}
}

// queryOf reads the list state of a request URL.
func (s *Server) queryOf(r *http.Request, res *resource) screen.Query {
	pq := utils.ParsePageQuery(r)
	if r.URL.Query().Get("size") == "" {
		pq.Size = s.pageSize
	}

	status := strings.ToUpper(pq.Status)
	if !res.hasFilter(status) {
		status = ""
	}
	return screen.Query{Page: pq.Page, Size: pq.Size, Search: pq.Search, Status: status}
}

func (res *resource) hasFilter(status string) bool {
	for _, o := range res.filter {
		if o.Value == status {
			return true
		}
	}
	return false
}

// listURL links path with the list state of q at page.
func (s *Server) listURL(path string, q screen.Query, page int, extra ...string) string {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if q.Size > 0 && q.Size != s.pageSize {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	for i := 0; i+1 < len(extra); i += 2 {
		v.Set(extra[i], extra[i+1])
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func (s *Server) listHandler(res *resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := res.list.load(r.Context(), s, s.queryOf(r, res))

		var flash string
		switch {
		case r.URL.Query().Has("salvo"):
			flash = msgSaved
		case r.URL.Query().Has("excluido"):
			flash = msgDeleted
		}

		s.render(w, r, http.StatusOK, "list", view{Title: res.title, Nav: res.path, Flash: flash, Data: page})
	}
}

// confirmPage asks to confirm a destructive action
type confirmPage struct {
	Question     string
	Detail       string
	Action       string
	Hidden       map[string]string
	ConfirmLabel string
	Variant      string
	CancelURL    string
}

func (s *Server) deletePageHandler(res *resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			s.renderError(w, r, http.StatusNotFound, "Registro não encontrado.")
			return
		}
		q := s.queryOf(r, res)

		s.render(w, r, http.StatusOK, "confirm", view{
			Title: "Confirmar exclusão",
			Nav:   res.path,
			Data: confirmPage{
				Question:     fmt.Sprintf("Deseja realmente excluir %s #%d?", res.singular, id),
				Detail:       "Esta ação não pode ser desfeita.",
				Action:       s.listURL(fmt.Sprintf("%s/%d/excluir", res.path, id), q, q.Page),
				ConfirmLabel: "Excluir",
				Variant:      "danger",
				CancelURL:    s.listURL(res.path, q, q.Page),
			},
		})
	}
}

func (s *Server) deleteHandler(res *resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			s.renderError(w, r, http.StatusNotFound, "Registro não encontrado.")
			return
		}

		page, err := res.list.remove(r.Context(), s, s.queryOf(r, res), id)
		if err != nil {
			s.render(w, r, apperrors.HTTPStatus(err), "list", view{Title: res.title, Nav: res.path, Data: page})
			return
		}
		http.Redirect(w, r, s.listURL(res.path, page.Query, page.Query.Page, "excluido", "1"), http.StatusSeeOther)
	}
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// errorPage is shown when a screen cannot be opened at all
type errorPage struct {
	Message string
	BackURL string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, "error", view{Title: "Erro", Data: errorPage{Message: message, BackURL: "/"}})
}

func (s *Server) panicPage(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusInternalServerError, "Erro interno do servidor.")
}
