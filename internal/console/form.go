package console

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fitpay/fitpay-admin/internal/address"
	"github.com/fitpay/fitpay-admin/internal/forms"
	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// formField is one input of a form; Value, Checked and Error are set when rendering.
type formField struct {
	Name     string
	Label    string
	Type     string // text, email, date, month, datetime-local, number, select, checkbox, textarea, hidden
	Options  []option
	Required bool
	Hint     string
	CEP      bool // triggers the address autofill

	Value   string
	Checked bool
	Error   string
}

type fieldset struct {
	Legend string
	Fields []formField
}

// formSpec is an entity form with the input and entity types erased.
type formSpec struct {
	groups   []fieldset
	defaults url.Values
	// cepPrefix names the address fields completed from the postal code;
	// nil when the form has no address.
	cepPrefix *string

	load   func(ctx context.Context, s *Server, id int64) (url.Values, string, error)
	submit func(ctx context.Context, s *Server, id int64, v url.Values) (map[string]string, string, error)
}

func newFormSpec[In any, E any](
	open func(c *client.Client, id int64, log *logger.Logger) *screen.Form[In, E],
	fromValues func(url.Values) In,
	values func(In) url.Values,
	groups ...fieldset,
) *formSpec {
	return &formSpec{
		groups: groups,
		load: func(ctx context.Context, s *Server, id int64) (url.Values, string, error) {
			f := open(s.client, id, s.log)
			in, err := f.Load(ctx)
			if err != nil {
				return nil, f.Banner(), err
			}
			return values(in), "", nil
		},
		submit: func(ctx context.Context, s *Server, id int64, v url.Values) (map[string]string, string, error) {
			f := open(s.client, id, s.log)
			if _, err := f.Submit(ctx, fromValues(v)); err != nil {
				return f.FieldErrors(), f.Banner(), err
			}
			return nil, "", nil
		},
	}
}

func prefix(p string) *string { return &p }

// formPage is the rendered state of a form screen
type formPage struct {
	Resource  *resource
	Edit      bool
	ID        int64
	Action    string
	Groups    []fieldset
	Banner    string
	Notice    string
	Autofill  bool
	CancelURL string
}

func (s *Server) formPageHandler(res *resource, edit bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id int64
		values := url.Values{}
		for k, v := range res.form.defaults {
			values[k] = v
		}

		if edit {
			var err error
			if id, err = idParam(r); err != nil {
				s.renderError(w, r, http.StatusNotFound, "Registro não encontrado.")
				return
			}
			loaded, banner, err := res.form.load(r.Context(), s, id)
			if err != nil {
				s.renderError(w, r, apperrors.HTTPStatus(err), banner)
				return
			}
			values = loaded
		}

		s.renderForm(w, r, http.StatusOK, res, id, values, nil, "", "")
	}
}

func (s *Server) formHandler(res *resource, edit bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id int64
		if edit {
			var err error
			if id, err = idParam(r); err != nil {
				s.renderError(w, r, http.StatusNotFound, "Registro não encontrado.")
				return
			}
		}
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, http.StatusBadRequest, "Formulário inválido.")
			return
		}
		values := r.PostForm

		// The "buscar CEP" button completes the address without saving.
		if values.Get("acao") == "cep" && res.form.cepPrefix != nil {
			notice := s.fillAddress(r.Context(), values, *res.form.cepPrefix)
			s.renderForm(w, r, http.StatusOK, res, id, values, nil, "", notice)
			return
		}

		fieldErrors, banner, err := res.form.submit(r.Context(), s, id, values)
		if err != nil {
			s.renderForm(w, r, apperrors.HTTPStatus(err), res, id, values, fieldErrors, banner, "")
			return
		}
		http.Redirect(w, r, res.path+"?salvo=1", http.StatusSeeOther)
	}
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, res *resource, id int64, values url.Values, fieldErrors map[string]string, banner, notice string) {
	edit := id > 0
	p := formPage{
		Resource:  res,
		Edit:      edit,
		ID:        id,
		Action:    res.path + "/novo",
		Groups:    fill(res.form.groups, values, fieldErrors),
		Banner:    banner,
		Notice:    notice,
		Autofill:  res.form.cepPrefix != nil,
		CancelURL: res.path,
	}
	title := "Novo " + res.singular
	if edit {
		p.Action = fmt.Sprintf("%s/editar/%d", res.path, id)
		title = fmt.Sprintf("Editar %s #%d", res.singular, id)
	}
	s.render(w, r, status, "form", view{Title: title, Nav: res.path, Data: p})
}

// fill copies the groups with the values and errors of each field.
func fill(groups []fieldset, values url.Values, fieldErrors map[string]string) []fieldset {
	out := make([]fieldset, len(groups))
	for i, g := range groups {
		fields := make([]formField, len(g.Fields))
		for j, f := range g.Fields {
			f.Value = values.Get(f.Name)
			if f.Type == "checkbox" {
				switch f.Value {
				case "true", "on", "1":
					f.Checked = true
				}
			}
			f.Error = fieldErrors[f.Name]
			fields[j] = f
		}
		out[i] = fieldset{Legend: g.Legend, Fields: fields}
	}
	return out
}

// fillAddress runs the postal code autofill over the address fields of values
// and returns the message to show, if any.
func (s *Server) fillAddress(ctx context.Context, values url.Values, prefix string) string {
	in := forms.AddressFromValues(values, prefix)
	addr := &client.Address{CEP: in.CEP, Street: in.Street, District: in.District, City: in.City, State: in.State}

	res := s.autofill.OnBlur(ctx, addr)
	switch res.Outcome {
	case address.Filled:
		values.Set(prefix+"cep", cep.Format(addr.CEP))
		values.Set(prefix+"logradouro", addr.Street)
		values.Set(prefix+"bairro", addr.District)
		values.Set(prefix+"cidade", addr.City)
		values.Set(prefix+"uf", addr.State)
		return ""
	case address.Skipped:
		return "CEP deve ter 8 dígitos."
	default:
		return res.Message
	}
}
