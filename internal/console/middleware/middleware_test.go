package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitpay/fitpay-admin/internal/auth"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"missing", "", false},
		{"plain token", "abc-123_x.y", true},
		{"log injection", "abc\n{\"level\":\"error\"}", false},
		{"too long", strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
				t.Fatalf("id = %q, header = %q", seen, rec.Header().Get(RequestIDHeader))
			}
			if (seen == tt.incoming) != tt.keep {
				t.Errorf("id = %q, incoming %q, keep %v", seen, tt.incoming, tt.keep)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})

	h := RequestID()(Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddLogField(w, "entity", "alunos")
		w.WriteHeader(http.StatusCreated)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/alunos/novo", nil))

	out := buf.String()
	for _, want := range []string{`"status":201`, `"path":"/alunos/novo"`, `"entity":"alunos"`, `"request_id":"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
}

func TestRecovery(t *testing.T) {
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	page := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<p>erro</p>"))
	}

	tests := []struct {
		name     string
		path     string
		page     PanicPage
		wantBody string
	}{
		{"page", "/alunos", page, "<p>erro</p>"},
		{"api", "/api/cep/01001000", page, `"code":"INTERNAL_ERROR"`},
		{"no page", "/alunos", nil, "Erro interno do servidor."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Recovery(logger.Nop(), tt.page)(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("status = %d", rec.Code)
			}
			if body := rec.Body.String(); !strings.Contains(body, tt.wantBody) || strings.Contains(body, "boom") {
				t.Errorf("body = %s", body)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	preflight := func(h http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/cep/01001000", nil)
		req.Header.Set("Origin", "https://portal.fitpay.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight(CORS(nil)(ok))
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("no origins configured but got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	rec = preflight(CORS([]string{"https://portal.fitpay.example"})(ok))
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.fitpay.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, h := range []string{"X-Frame-Options", "X-Content-Type-Options", "Content-Security-Policy"} {
		if rec.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS sent over plain HTTP")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}

	rec = httptest.NewRecorder()
	SecurityHeaders(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/console.css", nil))
	if rec.Header().Get("Cache-Control") != "" {
		t.Error("static assets marked no-store")
	}
}

func TestRateLimit(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	h := RateLimit(3, done)(ok)

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[2] != http.StatusOK || codes[3] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want 3 allowed then 429", codes)
	}

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("another client got %d", rec.Code)
	}
}

func TestSession(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	a := auth.NewAuthenticator("admin@fitpay.local", string(hash), "0123456789abcdef", time.Hour)
	token, _ := a.Mint("admin@fitpay.local")

	var user string
	h := Session(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ = GetUserEmail(r)
	}))

	tests := []struct {
		name         string
		path         string
		cookie       string
		wantStatus   int
		wantLocation string
	}{
		{"page without cookie", "/alunos?page=2", "", http.StatusSeeOther, "/login?next=%2Falunos%3Fpage%3D2"},
		{"api without cookie", "/api/cep/01001000", "", http.StatusUnauthorized, ""},
		{"bad token", "/", "garbage", http.StatusSeeOther, "/login?next=%2F"},
		{"valid session", "/", token, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user = ""
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
			if tt.wantStatus == http.StatusOK && user != "admin@fitpay.local" {
				t.Errorf("user = %q", user)
			}
		})
	}
}

func TestSession_Disabled(t *testing.T) {
	a := auth.NewAuthenticator("admin@fitpay.local", "", "", time.Hour)
	rec := httptest.NewRecorder()
	Session(a)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
