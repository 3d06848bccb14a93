package console

import (
	"net/http"
	"strings"

	"github.com/fitpay/fitpay-admin/internal/address"
	"github.com/fitpay/fitpay-admin/internal/auth"
	"github.com/fitpay/fitpay-admin/internal/dashboard"
	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/utils"
	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/go-chi/chi/v5"
)

const (
	msgDashboardPartial = "Alguns indicadores não puderam ser carregados."
	msgLoginFailed      = "E-mail ou senha inválidos."
)

type dashboardPage struct {
	Cards    []dashboard.Card
	LoadedAt string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sum := s.dashboard.Load(r.Context())

	v := view{
		Title: "Dashboard",
		Nav:   "/",
		Data:  dashboardPage{Cards: sum.Cards(), LoadedAt: sum.LoadedAt.Format("02/01/2006 15:04")},
	}
	if sum.Failed() {
		v.Banner = msgDashboardPartial
	}
	s.render(w, r, http.StatusOK, "dashboard", v)
}

type loginPage struct {
	Email string
	Next  string
	Error string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if !s.auth.Enabled() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	next := safeBack(r.URL.Query().Get("next"), "/")
	s.render(w, r, http.StatusOK, "login", view{Title: "Entrar", Data: loginPage{Next: next}})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.auth.Enabled() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	next := safeBack(r.PostForm.Get("next"), "/")

	token, err := s.auth.Login(email, r.PostForm.Get("password"))
	if err != nil {
		s.log.With("email", email).Warn("login failed")
		s.render(w, r, http.StatusUnauthorized, "login", view{
			Title: "Entrar",
			Data:  loginPage{Email: email, Next: next, Error: msgLoginFailed},
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.auth.TTL().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.With("email", email).Info("operator logged in")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	target := "/login"
	if !s.auth.Enabled() {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type cepResponse struct {
	Outcome address.Outcome `json:"outcome"`
	Message string          `json:"message,omitempty"`
	Address *client.Address `json:"address,omitempty"`
}

// handleCEP backs the address autofill of the form pages.
func (s *Server) handleCEP(w http.ResponseWriter, r *http.Request) {
	addr := &client.Address{CEP: chi.URLParam(r, "cep")}
	fill := s.autofill.OnBlur(r.Context(), addr)

	if fill.Outcome == address.Skipped {
		_ = utils.WriteError(w, apperrors.Validation("CEP deve ter 8 dígitos.", map[string]string{"cep": "inválido"}), "")
		return
	}

	resp := cepResponse{Outcome: fill.Outcome, Message: fill.Message}
	if fill.Outcome == address.Filled {
		addr.CEP = cep.Format(addr.CEP)
		resp.Address = addr
	}
	_ = utils.WriteSuccess(w, http.StatusOK, resp)
}
