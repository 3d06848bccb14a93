package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fitpay/fitpay-admin/internal/enrollment"
	"github.com/fitpay/fitpay-admin/internal/testutil"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type harness struct {
	t       *testing.T
	backend *testutil.Backend
	cep     *testutil.MockCEP
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	h := &harness{t: t, backend: testutil.NewBackend(t), cep: testutil.NewMockCEP(t)}
	t.Setenv("FITPAY_CEP_URL", h.cep.URL())
	t.Setenv("FITPAY_SEARCH_DEBOUNCE", "0s")

	prev := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = prev })
	return h
}

// run executes the command tree against the fake backend.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	viper.Reset()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--server", h.backend.URL()}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func seedStudent(t *testing.T, b *testutil.Backend) int64 {
	t.Helper()
	return b.Seed(t, "alunos", client.Student{Name: "Maria Souza", CPF: "52998224725", Email: "maria@example.com"})[0]
}

func TestStudentList(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "student", "list")
	if err != nil {
		t.Fatalf("student list error = %v", err)
	}
	if !strings.Contains(out, "Nenhum aluno cadastrado.") {
		t.Errorf("empty list output = %q", out)
	}

	seedStudent(t, h.backend)
	out, err = h.run("", "student", "list")
	if err != nil {
		t.Fatalf("student list error = %v", err)
	}
	for _, want := range []string{"Maria Souza", "529.982.247-25", "Página 1 de 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = h.run("", "student", "list", "-o", "json")
	if err != nil {
		t.Fatalf("student list -o json error = %v", err)
	}
	var items []client.Student
	if err := json.Unmarshal([]byte(out), &items); err != nil || len(items) != 1 {
		t.Errorf("json output = %q (%v)", out, err)
	}
}

func TestStudentCreate(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantSave int
	}{
		{
			name:     "invalid cpf",
			args:     []string{"--nome", "Ana", "--cpf", "111.111.111-12", "--email", "ana@example.com", "--telefone", "(11) 99999-0000"},
			wantErr:  "CPF inválido",
			wantSave: 0,
		},
		{
			name:     "missing email",
			args:     []string{"--nome", "Ana", "--cpf", "529.982.247-25", "--telefone", "(11) 99999-0000"},
			wantErr:  "email",
			wantSave: 0,
		},
		{
			name:     "missing phone",
			args:     []string{"--nome", "Ana", "--cpf", "529.982.247-25", "--email", "ana@example.com"},
			wantErr:  "telefone",
			wantSave: 0,
		},
		{
			name:     "valid",
			args:     []string{"--nome", "Ana", "--cpf", "529.982.247-25", "--email", "ana@example.com", "--telefone", "(11) 99999-0000"},
			wantSave: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.run("", append([]string{"student", "create"}, tt.args...)...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want %q", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error = %v", err)
			}
			if n := h.backend.Calls("POST /alunos/save"); n != tt.wantSave {
				t.Errorf("save requests = %d, want %d", n, tt.wantSave)
			}
		})
	}
}

func TestStudentCreate_AutofillAddress(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "student", "create",
		"--nome", "Ana", "--cpf", "52998224725", "--email", "ana@example.com", "--telefone", "(11) 99999-0000",
		"--endereco.cep", "01001000", "--endereco.numero", "10", "--endereco.cidade", "Osasco")
	if err != nil {
		t.Fatalf("student create error = %v", err)
	}
	if h.cep.Calls() != 1 {
		t.Errorf("cep lookups = %d, want 1", h.cep.Calls())
	}

	var s client.Student
	if !h.backend.Record(t, "alunos", 1, &s) {
		t.Fatal("student not stored")
	}
	if s.Address == nil || s.Address.Street != "Praça da Sé" || s.Address.State != "SP" {
		t.Fatalf("Address = %+v", s.Address)
	}
	if s.Address.City != "Osasco" {
		t.Errorf("City = %q, an explicit flag must win over the lookup", s.Address.City)
	}
}

func TestStudentUpdate_OnlyGivenFlagsChange(t *testing.T) {
	h := newHarness(t)
	id := seedStudent(t, h.backend)

	if _, err := h.run("", "student", "update", "1", "--telefone", "(11) 98888-7777"); err != nil {
		t.Fatalf("student update error = %v", err)
	}

	var s client.Student
	h.backend.Record(t, "alunos", id, &s)
	if s.Name != "Maria Souza" || s.Email != "maria@example.com" || s.Phone != "(11) 98888-7777" {
		t.Errorf("stored = %+v", s)
	}
}

func TestStudentUpdate_KeepsAddressID(t *testing.T) {
	h := newHarness(t)
	id := h.backend.Seed(t, "alunos", client.Student{
		Name: "Maria Souza", CPF: "52998224725", Email: "maria@example.com", Phone: "(11) 99999-0000",
		Address: &client.Address{ID: 9, CEP: "01001000", Street: "Praça da Sé", Number: "1", District: "Sé", City: "São Paulo", State: "SP"},
	})[0]

	if _, err := h.run("", "student", "update", "1", "--endereco.numero", "2"); err != nil {
		t.Fatalf("student update error = %v", err)
	}

	var s client.Student
	h.backend.Record(t, "alunos", id, &s)
	if s.Address == nil || s.Address.ID != 9 || s.Address.Number != "2" {
		t.Errorf("stored address = %+v, want id 9 and number 2", s.Address)
	}
}

func TestDelete_Confirmation(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
		stdin    string
		args     []string
		wantErr  bool
		wantLeft int
	}{
		{"refused without terminal", false, "", nil, true, 1},
		{"yes flag", false, "", []string{"--yes"}, false, 0},
		{"answered yes", true, "s\n", nil, false, 0},
		{"answered no", true, "n\n", nil, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.backend.Seed(t, "planos", client.Plan{Name: "Mensal", Price: 89.9, DurationDays: 30})
			stdinIsTerminal = func() bool { return tt.terminal }

			_, err := h.run(tt.stdin, append([]string{"plan", "delete", "1"}, tt.args...)...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if n := h.backend.Count("planos"); n != tt.wantLeft {
				t.Errorf("plans left = %d, want %d", n, tt.wantLeft)
			}
		})
	}
}

func TestStudentEnroll(t *testing.T) {
	h := newHarness(t)
	seedStudent(t, h.backend)
	h.backend.Seed(t, "planos", client.Plan{Name: "Mensal", Price: 89.9, DurationDays: 30})

	_, err := h.run("", "student", "enroll", "1", "--plan", "1")
	if err == nil || err.Error() != enrollment.MsgPaymentRequired {
		t.Fatalf("enroll without payment error = %v", err)
	}
	if n := h.backend.Calls("POST /matriculas/save"); n != 0 {
		t.Fatalf("save requests = %d, want 0", n)
	}

	out, err := h.run("", "student", "enroll", "1", "--plan", "1", "--start", "2026-01-01", "--payment", "PIX")
	if err != nil {
		t.Fatalf("enroll error = %v", err)
	}
	if !strings.Contains(out, enrollment.SuccessMessage("Maria Souza")) || !strings.Contains(out, "31/01/2026") {
		t.Errorf("output = %q", out)
	}
}

func TestEnrollmentLockUnlock(t *testing.T) {
	h := newHarness(t)
	h.backend.Seed(t, "matriculas", client.Enrollment{
		StartDate: client.NewDate(2026, 1, 1),
		EndDate:   client.NewDate(2026, 1, 31),
		Status:    client.StatusActive,
	})

	if _, err := h.run("", "enrollment", "unlock", "1", "--yes"); err == nil {
		t.Fatal("unlocking an active enrollment should fail")
	}
	if n := h.backend.Calls("PUT /matriculas/update"); n != 0 {
		t.Fatalf("update requests = %d, want 0", n)
	}

	out, err := h.run("", "enrollment", "lock", "1", "--yes")
	if err != nil {
		t.Fatalf("lock error = %v", err)
	}
	if !strings.Contains(out, "TRANCADO") {
		t.Errorf("output = %q", out)
	}

	var e client.Enrollment
	h.backend.Record(t, "matriculas", 1, &e)
	if e.Status != client.StatusLocked {
		t.Errorf("stored status = %s", e.Status)
	}
}

func TestCEPCommand(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "cep", "01001000")
	if err != nil {
		t.Fatalf("cep error = %v", err)
	}
	if !strings.Contains(out, "Praça da Sé") {
		t.Errorf("output = %q", out)
	}

	if _, err := h.run("", "cep", "99999999"); err == nil || err.Error() != "CEP não encontrado." {
		t.Errorf("unknown cep error = %v", err)
	}
}

func TestBrowse(t *testing.T) {
	h := newHarness(t)
	h.backend.Seed(t, "planos",
		client.Plan{Name: "Mensal", Price: 89.9, DurationDays: 30},
		client.Plan{Name: "Trimestral", Price: 240, DurationDays: 90},
	)

	out, err := h.run("Trimes\n:q\n", "browse", "plan")
	if err != nil {
		t.Fatalf("browse error = %v", err)
	}
	if strings.Count(out, "Página 1 de 1") < 2 {
		t.Errorf("expected the first page and the search result:\n%s", out)
	}
	last := out[strings.LastIndex(out, "ID"):]
	if !strings.Contains(last, "Trimestral") || strings.Contains(last, "Mensal") {
		t.Errorf("search result = %q", last)
	}
}

func TestConfigSetGet(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run("", "config", "set", "page_size", "5"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	out, err := h.run("", "config", "get", "page_size")
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if strings.TrimSpace(out) != "page_size: 5" {
		t.Errorf("config get = %q", out)
	}
}

func TestConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"colour", "blue"}},
		{"bad page size", []string{"page_size", "0"}},
		{"bad url", []string{"server_url", "localhost:8080"}},
		{"bad output", []string{"output", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if _, err := h.run("", append([]string{"config", "set"}, tt.args...)...); err == nil {
				t.Errorf("config set %v accepted", tt.args)
			}
		})
	}
}

func TestAdminHashPassword(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "admin", "hash-password", "--password", "segredo123")
	if err != nil {
		t.Fatalf("hash-password error = %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("segredo123")); err != nil {
		t.Errorf("hash does not match: %v", err)
	}

	if _, err := h.run("", "admin", "hash-password", "--password", "curta"); err == nil {
		t.Error("short password accepted")
	}
}
