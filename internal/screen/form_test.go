package screen

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/testutil"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

type planInput struct {
	Name string
	Days string
}

func planFormConfig(c *client.Client) FormConfig[planInput, client.Plan] {
	return FormConfig[planInput, client.Plan]{
		Entity: "planos",
		Get:    c.Plans().Get,
		Create: c.Plans().Create,
		Update: c.Plans().Update,
		Parse: func(in planInput) (client.Plan, error) {
			days, err := strconv.Atoi(in.Days)
			if err != nil || days <= 0 {
				return client.Plan{}, apperrors.Validation("Duração inválida.", map[string]string{"duracao_dias": "inválida"})
			}
			return client.Plan{Name: in.Name, DurationDays: days}, nil
		},
		FromEntity: func(p client.Plan) planInput {
			return planInput{Name: p.Name, Days: strconv.Itoa(p.DurationDays)}
		},
		SetID:     func(p *client.Plan, id int64) { p.ID = id },
		SaveError: "Erro ao salvar plano.",
		Logger:    testLogger(),
	}
}

func TestForm_Create(t *testing.T) {
	b := testutil.NewBackend(t)
	f := NewForm(planFormConfig(b.Client()), 0)
	ctx := context.Background()

	if f.Mode() != ModeCreate {
		t.Fatalf("Mode() = %v", f.Mode())
	}
	in, err := f.Load(ctx)
	if err != nil || in != (planInput{}) {
		t.Fatalf("Load() = %+v, %v; want empty input", in, err)
	}

	saved, err := f.Submit(ctx, planInput{Name: "Mensal", Days: "30"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if saved.ID == 0 {
		t.Error("created plan has no id")
	}

	req, _ := b.LastRequest("POST /planos/save")
	var body map[string]interface{}
	json.Unmarshal(req.Body, &body)
	if _, ok := body["id"]; ok {
		t.Errorf("create payload carried an id: %s", req.Body)
	}
}

func TestForm_Edit(t *testing.T) {
	b := testutil.NewBackend(t)
	ids := b.Seed(t, "planos", client.Plan{Name: "Trimestral", DurationDays: 90, Price: 240})
	f := NewForm(planFormConfig(b.Client()), ids[0])
	ctx := context.Background()

	in, err := f.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if in.Name != "Trimestral" || in.Days != "90" {
		t.Fatalf("Load() = %+v", in)
	}

	in.Days = "91"
	if _, err := f.Submit(ctx, in); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	req, ok := b.LastRequest("PUT /planos/update")
	if !ok {
		t.Fatal("no update request")
	}
	var body map[string]interface{}
	json.Unmarshal(req.Body, &body)
	if body["id"] != float64(ids[0]) || body["duracao_dias"] != float64(91) {
		t.Errorf("update payload = %s", req.Body)
	}
}

func TestForm_ValidationBlocksRequest(t *testing.T) {
	b := testutil.NewBackend(t)
	f := NewForm(planFormConfig(b.Client()), 0)

	_, err := f.Submit(context.Background(), planInput{Name: "X", Days: "zero"})
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("Submit() error = %v, want validation", err)
	}
	if b.Calls("POST") != 0 {
		t.Error("invalid input reached the backend")
	}
	if f.Banner() != "Duração inválida." || f.FieldErrors()["duracao_dias"] == "" {
		t.Errorf("Banner() = %q, FieldErrors() = %v", f.Banner(), f.FieldErrors())
	}
}

func TestForm_BackendMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"message":"Nome já utilizado."}`, "Nome já utilizado."},
		{"field errors", `{"errors":[{"field":"nome","defaultMessage":"obrigatório"}]}`, "nome: obrigatório"},
		{"no body", ``, "Erro ao salvar plano."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			b.Fail("POST /planos/save", http.StatusBadRequest, tt.body)
			f := NewForm(planFormConfig(b.Client()), 0)

			if _, err := f.Submit(context.Background(), planInput{Name: "Mensal", Days: "30"}); err == nil {
				t.Fatal("Submit() error = nil")
			}
			if got := f.Banner(); got != tt.want {
				t.Errorf("Banner() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestForm_EditMissing(t *testing.T) {
	b := testutil.NewBackend(t)
	f := NewForm(planFormConfig(b.Client()), 404)

	if _, err := f.Load(context.Background()); err == nil {
		t.Fatal("Load() of a missing id should fail")
	}
	if f.Banner() == "" {
		t.Error("Banner() empty after failed load")
	}
}
