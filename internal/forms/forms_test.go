package forms

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"testing"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/testutil"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func validStudent() StudentInput {
	return StudentInput{
		Name:  "Maria Souza",
		CPF:   "529.982.247-25",
		Email: "maria@example.com",
		Phone: "(11) 99999-0000",
	}
}

func TestStudentInput_Parse(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*StudentInput)
		wantErr   bool
		wantField string
	}{
		{"valid", func(*StudentInput) {}, false, ""},
		{"bad cpf", func(in *StudentInput) { in.CPF = "529.982.247-26" }, true, "cpf"},
		{"repeated cpf", func(in *StudentInput) { in.CPF = "222.222.222-22" }, true, "cpf"},
		{"missing email", func(in *StudentInput) { in.Email = "" }, true, "email"},
		{"bad date", func(in *StudentInput) { in.EnrollmentDate = "05/01/2026" }, true, "data_matricula"},
		{"blank address ignored", func(in *StudentInput) { in.Address = &AddressInput{} }, false, ""},
		{"partial address", func(in *StudentInput) { in.Address = &AddressInput{CEP: "01001000"} }, true, "endereco.logradouro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validStudent()
			tt.mutate(&in)
			_, err := in.Parse()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if apperrors.KindOf(err) != apperrors.KindValidation {
				t.Errorf("KindOf() = %v", apperrors.KindOf(err))
			}
			appErr := err.(*apperrors.AppError)
			if _, ok := appErr.Fields[tt.wantField]; !ok {
				t.Errorf("Fields = %v, want %s", appErr.Fields, tt.wantField)
			}
		})
	}
}

func TestStudentInput_CPFMessage(t *testing.T) {
	in := validStudent()
	in.CPF = "123.456.789-00"
	_, err := in.Parse()
	if got := apperrors.UserMessage(err, ""); got != "CPF inválido. Verifique os números digitados." {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestStudentInput_NullEnrollmentDate(t *testing.T) {
	s, err := validStudent().Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b, _ := json.Marshal(s)
	var m map[string]interface{}
	json.Unmarshal(b, &m)
	if v, ok := m["data_matricula"]; !ok || v != nil {
		t.Errorf("data_matricula = %v, want null", v)
	}
	if s.CPF != "52998224725" {
		t.Errorf("CPF = %q, want digits only", s.CPF)
	}
}

func TestStudentForm_InvalidCPFNeverSaves(t *testing.T) {
	b := testutil.NewBackend(t)
	f := StudentForm(b.Client(), 0, testLogger())

	in := validStudent()
	in.CPF = "111.111.111-12"
	if _, err := f.Submit(context.Background(), in); err == nil {
		t.Fatal("Submit() error = nil")
	}
	if n := b.Calls("POST /alunos/save"); n != 0 {
		t.Errorf("save requests = %d, want 0", n)
	}
	if f.Banner() != "CPF inválido. Verifique os números digitados." {
		t.Errorf("Banner() = %q", f.Banner())
	}
}

func TestStudentForm_RoundTrip(t *testing.T) {
	b := testutil.NewBackend(t)
	ctx := context.Background()

	in := validStudent()
	in.EnrollmentDate = "2026-01-05"
	in.Address = &AddressInput{CEP: "01001-000", Street: "Praça da Sé", Number: "1", District: "Sé", City: "São Paulo", State: "sp"}

	saved, err := StudentForm(b.Client(), 0, testLogger()).Submit(ctx, in)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	edit := StudentForm(b.Client(), saved.ID, testLogger())
	loaded, err := edit.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.CPF != "529.982.247-25" || loaded.EnrollmentDate != "2026-01-05" {
		t.Errorf("Load() = %+v", loaded)
	}
	if loaded.Address == nil || loaded.Address.CEP != "01001-000" || loaded.Address.State != "SP" {
		t.Errorf("Load().Address = %+v", loaded.Address)
	}
}

func TestStudentFromValues(t *testing.T) {
	v := url.Values{
		"nome":            {" Ana "},
		"cpf":             {"52998224725"},
		"ativo":           {"on"},
		"endereco.cep":    {"01001000"},
		"endereco.cidade": {"São Paulo"},
	}
	in := StudentFromValues(v)
	if in.Name != "Ana" || !in.Active || in.Address == nil || in.Address.City != "São Paulo" {
		t.Errorf("StudentFromValues() = %+v", in)
	}

	if in := StudentFromValues(url.Values{"nome": {"Ana"}}); in.Address != nil {
		t.Error("no address fields should leave Address nil")
	}
}

func TestStudentInput_KeepsAddressID(t *testing.T) {
	student := client.Student{
		ID: 3, Name: "Maria Souza", CPF: "52998224725", Email: "maria@example.com", Phone: "(11) 99999-0000",
		Address: &client.Address{ID: 9, CEP: "01001000", Street: "Praça da Sé", Number: "1", District: "Sé", City: "São Paulo", State: "SP"},
	}

	tests := []struct {
		name   string
		in     StudentInput
		wantID int64
	}{
		{"loaded for edit", FromStudent(student), 9},
		{"posted back", StudentFromValues(FromStudent(student).Values()), 9},
		{"new address", StudentFromValues(url.Values{"endereco.cep": {"01001000"}, "endereco.logradouro": {"Praça da Sé"}, "endereco.numero": {"1"}, "endereco.bairro": {"Sé"}, "endereco.cidade": {"São Paulo"}, "endereco.uf": {"SP"}}), 0},
		{"negative id", StudentFromValues(url.Values{"endereco.id": {"-4"}, "endereco.cep": {"01001000"}}), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.in.Address == nil || tt.in.Address.ID != tt.wantID {
				t.Fatalf("Address = %+v, want id %d", tt.in.Address, tt.wantID)
			}
		})
	}

	s, err := tests[1].in.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Address == nil || s.Address.ID != 9 {
		t.Errorf("Parse().Address = %+v, want id 9", s.Address)
	}

	if !(AddressInput{ID: 9}).IsBlank() {
		t.Error("an id alone should count as a blank address")
	}
}

func TestPlanInput_Parse(t *testing.T) {
	tests := []struct {
		name      string
		in        PlanInput
		wantPrice float64
		wantErr   bool
	}{
		{"comma decimal", PlanInput{Name: "Mensal", Price: "89,90", DurationDays: "30"}, 89.90, false},
		{"dot decimal", PlanInput{Name: "Mensal", Price: "89.9", DurationDays: "30"}, 89.9, false},
		{"zero days", PlanInput{Name: "Mensal", Price: "89", DurationDays: "0"}, 0, true},
		{"negative price", PlanInput{Name: "Mensal", Price: "-1", DurationDays: "30"}, 0, true},
		{"missing name", PlanInput{Price: "89", DurationDays: "30"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.in.Parse()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && p.Price != tt.wantPrice {
				t.Errorf("Price = %v, want %v", p.Price, tt.wantPrice)
			}
		})
	}

	if got := FromPlan(client.Plan{Price: 89.9, DurationDays: 30}); got.Price != "89.90" || got.DurationDays != "30" {
		t.Errorf("FromPlan() = %+v", got)
	}
}

func TestAddressInput_Parse(t *testing.T) {
	in := AddressInput{CEP: "01001-000", Street: "Praça da Sé", Number: "s/n", District: "Sé", City: "São Paulo", State: "sp"}
	a, err := in.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if a.CEP != "01001000" || a.State != "SP" {
		t.Errorf("Parse() = %+v", a)
	}

	in.CEP = "0100"
	if _, err := in.Parse(); err == nil {
		t.Error("short CEP accepted")
	}
}

func TestPaymentInput_Parse(t *testing.T) {
	in := PaymentInput{EnrollmentID: "3", Period: "2026-01", Amount: "89,90", Method: "CARTAO_CREDITO"}
	req, err := in.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b, _ := json.Marshal(req)
	var m map[string]interface{}
	json.Unmarshal(b, &m)
	ref, ok := m["contrato_aluno"].(map[string]interface{})
	if !ok || ref["id"] != float64(3) {
		t.Errorf("payload = %s", b)
	}

	in.Method = "CARTAO"
	if _, err := in.Parse(); err == nil {
		t.Error("enrollment-only method accepted on a payment")
	}
}

func TestCashFlowInput_Parse(t *testing.T) {
	base := CashFlowInput{Description: "Aluguel de março", Amount: "2500,00", Type: "SAIDA", Category: "ALUGUEL"}

	e, err := base.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if e.Timestamp != nil {
		t.Errorf("empty datetime should be nil, got %v", e.Timestamp)
	}
	if e.Signed() != -2500 {
		t.Errorf("Signed() = %v", e.Signed())
	}

	withTime := base
	withTime.Timestamp = "2026-03-10T14:30"
	e, err = withTime.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b, _ := json.Marshal(e)
	var m map[string]interface{}
	json.Unmarshal(b, &m)
	if m["data_hora"] != "2026-03-10T14:30:00" {
		t.Errorf("data_hora = %v", m["data_hora"])
	}

	manual := base
	manual.Category = "MENSALIDADE"
	if _, err := manual.Parse(); err == nil {
		t.Error("MENSALIDADE accepted as a manual category")
	}
}

func TestPaymentForm_Create(t *testing.T) {
	b := testutil.NewBackend(t)
	ids := b.Seed(t, "matriculas", client.Enrollment{Status: client.StatusActive})

	f := PaymentForm(b.Client(), 0, testLogger())
	saved, err := f.Submit(context.Background(), PaymentInput{
		EnrollmentID: strconv.FormatInt(ids[0], 10), Period: "2026-01", Amount: "89.90", Method: "PIX",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if saved.ID == 0 || saved.Enrollment.ID != ids[0] {
		t.Errorf("Submit() = %+v", saved)
	}
}

func TestValues_FeedBackIntoReaders(t *testing.T) {
	student := validStudent()
	student.Active = true
	student.Address = &AddressInput{CEP: "01001-000", Street: "Praça da Sé", Number: "1", City: "São Paulo", State: "SP"}
	got := StudentFromValues(student.Values())
	if got.Name != student.Name || !got.Active || got.Address == nil || *got.Address != *student.Address {
		t.Errorf("StudentFromValues(Values()) = %+v", got)
	}

	entry := CashFlowInput{Description: "Luz", Amount: "120.00", Type: "SAIDA", Category: "CONTA_LUZ", Timestamp: "2026-02-01T08:00"}
	if got := CashFlowFromValues(entry.Values()); got != entry {
		t.Errorf("CashFlowFromValues(Values()) = %+v", got)
	}
}
