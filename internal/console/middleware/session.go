package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fitpay/fitpay-admin/internal/auth"
	"github.com/fitpay/fitpay-admin/internal/pkg/utils"
)

type userEmailKey struct{}

// Session returns a middleware that requires a valid session cookie. Pages
// redirect to /login; /api routes answer 401. With login disabled every
// request passes.
func Session(a *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			var claims *auth.Claims
			if cookie, err := r.Cookie(auth.CookieName); err == nil {
				claims, _ = a.Parse(cookie.Value)
			}

			if claims == nil {
				if isAPI(r) {
					_ = utils.WriteErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sessão expirada.")
					return
				}
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}

			AddLogField(w, "email", claims.Email)
			ctx := context.WithValue(r.Context(), userEmailKey{}, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserEmail extracts the logged-in e-mail from the request context
func GetUserEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(userEmailKey{}).(string)
	return email, ok
}
