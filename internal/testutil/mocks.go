package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fitpay/fitpay-admin/pkg/cep"
)

// MockCEP is a fake ViaCEP service
type MockCEP struct {
	mu      sync.Mutex
	server  *httptest.Server
	known   map[string]cep.Result
	calls   int
	Broken  bool // answer 503 to every lookup
	Lookups []string
}

// NewMockCEP starts a fake ViaCEP knowing a single São Paulo address.
func NewMockCEP(t *testing.T) *MockCEP {
	t.Helper()
	m := &MockCEP{
		known: map[string]cep.Result{
			"01001000": {CEP: "01001-000", Street: "Praça da Sé", District: "Sé", City: "São Paulo", State: "SP"},
		},
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.server.Close)
	return m
}

// Add registers another known postal code (8 digits).
func (m *MockCEP) Add(code string, r cep.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.known[code] = r
}

// Client returns a lookup client bound to the fake.
func (m *MockCEP) Client() *cep.Client {
	return cep.NewClient(cep.Config{BaseURL: m.server.URL})
}

// URL returns the base URL of the fake.
func (m *MockCEP) URL() string {
	return m.server.URL
}

// Calls returns how many lookups reached the fake.
func (m *MockCEP) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockCEP) serve(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	code := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/json/")
	m.Lookups = append(m.Lookups, code)

	if m.Broken {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	res, ok := m.known[code]
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		fmt.Fprint(w, `{"erro": true}`)
		return
	}
	fmt.Fprintf(w, `{"cep":%q,"logradouro":%q,"complemento":"","bairro":%q,"localidade":%q,"uf":%q}`,
		res.CEP, res.Street, res.District, res.City, res.State)
}
