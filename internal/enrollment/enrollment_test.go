package enrollment

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/testutil"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

func newWorkflow(b *testutil.Backend, now time.Time) *Workflow {
	w := NewWorkflow(b.Client(), logger.New(logger.Config{Level: "error", Format: "json"}))
	w.Now = func() time.Time { return now }
	w.Location = now.Location()
	return w
}

func seed(t *testing.T, b *testutil.Backend) (studentID, planID int64) {
	t.Helper()
	student := b.Seed(t, "alunos", client.Student{Name: "João Lima", CPF: "52998224725", Active: true})
	plans := b.Seed(t, "planos",
		client.Plan{Name: "Mensal", Price: 89.9, DurationDays: 30},
		client.Plan{Name: "Anual", Price: 899, DurationDays: 365},
	)
	return student[0], plans[0]
}

func TestDraft_EndDate(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		sp = time.FixedZone("BRT", -3*3600)
	}

	tests := []struct {
		name  string
		start client.Date
		days  int
		loc   *time.Location
		want  string
	}{
		{"thirty days", client.NewDate(2026, 1, 1), 30, time.UTC, "2026-01-31"},
		{"negative offset zone", client.NewDate(2026, 1, 1), 30, sp, "2026-01-31"},
		{"positive offset zone", client.NewDate(2026, 1, 1), 30, time.FixedZone("JST", 9*3600), "2026-01-31"},
		{"leap year", client.NewDate(2028, 2, 1), 29, time.UTC, "2028-03-01"},
		{"one year", client.NewDate(2026, 3, 15), 365, time.UTC, "2027-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Draft{
				Plans:     []client.Plan{{ID: 1, DurationDays: tt.days}},
				PlanID:    1,
				StartDate: tt.start,
				loc:       tt.loc,
			}
			got, ok := d.EndDate()
			if !ok || got.String() != tt.want {
				t.Errorf("EndDate() = %s, %v; want %s", got, ok, tt.want)
			}
		})
	}
}

func TestDraft_EndDateNeedsPlan(t *testing.T) {
	d := &Draft{StartDate: client.NewDate(2026, 1, 1)}
	if _, ok := d.EndDate(); ok {
		t.Error("EndDate() without a plan should not be computed")
	}

	d.Plans = []client.Plan{{ID: 1, DurationDays: 0}}
	d.PlanID = 1
	if _, ok := d.EndDate(); ok {
		t.Error("EndDate() with a zero duration should not be computed")
	}
}

func TestWorkflow_Open(t *testing.T) {
	b := testutil.NewBackend(t)
	studentID, _ := seed(t, b)
	now := time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC)

	d, err := newWorkflow(b, now).Open(context.Background(), studentID)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if d.Student.Name != "João Lima" || len(d.Plans) != 2 {
		t.Errorf("Open() = %+v", d)
	}
	if d.StartDate.String() != "2026-10-14" {
		t.Errorf("StartDate = %s, want today", d.StartDate)
	}

	req, _ := b.LastRequest("GET /planos/findall")
	if req.Query != "page=0&size=100" {
		t.Errorf("plans query = %q", req.Query)
	}
}

func TestWorkflow_OpenPlansFailure(t *testing.T) {
	b := testutil.NewBackend(t)
	studentID, _ := seed(t, b)
	b.Fail("GET /planos", http.StatusInternalServerError, "")

	d, err := newWorkflow(b, time.Now()).Open(context.Background(), studentID)
	if err == nil {
		t.Fatal("Open() error = nil")
	}
	if d == nil || d.Banner != MsgPlansError {
		t.Errorf("draft = %+v, want plans banner", d)
	}
}

func TestWorkflow_Confirm(t *testing.T) {
	b := testutil.NewBackend(t)
	studentID, planID := seed(t, b)
	ctx := context.Background()
	wf := newWorkflow(b, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))

	d, err := wf.Open(ctx, studentID)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := d.SelectPlan(planID); err != nil {
		t.Fatalf("SelectPlan() error = %v", err)
	}
	if err := d.SetPaymentMethod("PIX"); err != nil {
		t.Fatalf("SetPaymentMethod() error = %v", err)
	}

	created, err := wf.Confirm(ctx, d)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if created.Status != client.StatusActive || created.PlanName() != "Mensal" {
		t.Errorf("Confirm() = %+v", created)
	}

	req, _ := b.LastRequest("POST /matriculas/save")
	var body map[string]interface{}
	json.Unmarshal(req.Body, &body)
	aluno, _ := body["aluno"].(map[string]interface{})
	plano, _ := body["plano"].(map[string]interface{})
	if aluno["id"] != float64(studentID) || plano["id"] != float64(planID) {
		t.Errorf("payload refs = %s", req.Body)
	}
	if body["status"] != "ATIVO" || body["data_inicio"] != "2026-01-01" || body["data_fim"] != "2026-01-31" || body["metodo_pagamento"] != "PIX" {
		t.Errorf("payload = %s", req.Body)
	}
	if _, ok := body["id"]; ok {
		t.Errorf("payload carried an id: %s", req.Body)
	}
}

func TestWorkflow_ConfirmBlocked(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(d *Draft, planID int64)
		want    string
	}{
		{"no plan", func(d *Draft, _ int64) { d.SetPaymentMethod("DINHEIRO") }, MsgPlanRequired},
		{"no payment method", func(d *Draft, planID int64) { d.SelectPlan(planID) }, MsgPaymentRequired},
		{"no start date", func(d *Draft, planID int64) {
			d.SelectPlan(planID)
			d.SetPaymentMethod("CARTAO")
			d.StartDate = client.Date{}
		}, MsgEndDateMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			studentID, planID := seed(t, b)
			ctx := context.Background()
			wf := newWorkflow(b, time.Now())

			d, err := wf.Open(ctx, studentID)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			tt.prepare(d, planID)

			_, err = wf.Confirm(ctx, d)
			if apperrors.KindOf(err) != apperrors.KindValidation {
				t.Fatalf("Confirm() error = %v, want validation", err)
			}
			if d.Banner != tt.want {
				t.Errorf("Banner = %q, want %q", d.Banner, tt.want)
			}
			if n := b.Calls("POST /matriculas/save"); n != 0 {
				t.Errorf("save requests = %d, want 0", n)
			}
		})
	}
}

func TestWorkflow_ConfirmRejected(t *testing.T) {
	b := testutil.NewBackend(t)
	studentID, planID := seed(t, b)
	ctx := context.Background()
	wf := newWorkflow(b, time.Now())

	d, _ := wf.Open(ctx, studentID)
	d.SelectPlan(planID)
	d.SetPaymentMethod("PIX")

	b.Fail("POST /matriculas/save", http.StatusInternalServerError, "")
	if _, err := wf.Confirm(ctx, d); err == nil {
		t.Fatal("Confirm() error = nil")
	}
	if d.Banner != MsgSaveError {
		t.Errorf("Banner = %q", d.Banner)
	}
}

func TestDraft_Setters(t *testing.T) {
	d := &Draft{Plans: []client.Plan{{ID: 7, DurationDays: 30}}}

	if err := d.SelectPlan(8); err == nil {
		t.Error("SelectPlan() accepted an unknown plan")
	}
	if err := d.SelectPlanString("7"); err != nil || d.PlanID != 7 {
		t.Errorf("SelectPlanString() = %v, PlanID %d", err, d.PlanID)
	}
	if err := d.SetPaymentMethod("BOLETO"); err == nil {
		t.Error("SetPaymentMethod() accepted a payment-only method")
	}
	if err := d.SetStartDate("31/01/2026"); err == nil {
		t.Error("SetStartDate() accepted a BR date")
	}
	if err := d.SetStartDate("2026-01-31"); err != nil || d.StartDate.String() != "2026-01-31" {
		t.Errorf("SetStartDate() = %v, StartDate %s", err, d.StartDate)
	}
}

func TestTransition(t *testing.T) {
	statuses := client.EnrollmentStatuses
	for _, from := range statuses {
		for _, to := range statuses {
			allowed := (from == client.StatusActive && to == client.StatusLocked) ||
				(from == client.StatusLocked && to == client.StatusActive)
			err := Transition(from, to)
			if allowed && err != nil {
				t.Errorf("Transition(%s, %s) = %v", from, to, err)
			}
			if !allowed && err == nil {
				t.Errorf("Transition(%s, %s) allowed", from, to)
			}
		}
	}
}

func TestBadgeVariant(t *testing.T) {
	tests := map[client.EnrollmentStatus]string{
		client.StatusActive:    "success",
		client.StatusPending:   "warning",
		client.StatusCancelled: "danger",
		client.StatusExpired:   "secondary",
		client.StatusLocked:    "primary",
		"":                     "primary",
	}
	for status, want := range tests {
		if got := BadgeVariant(status); got != want {
			t.Errorf("BadgeVariant(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestHistory_LockUnlock(t *testing.T) {
	b := testutil.NewBackend(t)
	studentID, planID := seed(t, b)
	other := b.Seed(t, "alunos", client.Student{Name: "Outra"})[0]
	ids := b.Seed(t, "matriculas",
		map[string]interface{}{"aluno": map[string]interface{}{"id": studentID}, "plano": map[string]interface{}{"id": planID, "nome": "Mensal"}, "status": "ATIVO", "data_inicio": "2026-01-01", "data_fim": "2026-01-31", "metodo_pagamento": "PIX"},
		map[string]interface{}{"aluno": map[string]interface{}{"id": studentID}, "status": "EXPIRADO"},
		map[string]interface{}{"aluno": map[string]interface{}{"id": other}, "status": "ATIVO"},
	)
	ctx := context.Background()
	wf := newWorkflow(b, time.Now())

	h, err := wf.History(ctx, studentID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(h.Items()) != 2 {
		t.Fatalf("Items() = %d, want 2", len(h.Items()))
	}

	if _, err := h.RequestToggle(ids[1]); err == nil {
		t.Error("expired enrollment offered a toggle")
	}

	change, err := h.RequestToggle(ids[0])
	if err != nil || change.To != client.StatusLocked {
		t.Fatalf("RequestToggle() = %+v, %v", change, err)
	}
	if err := h.CancelChange(); err != nil {
		t.Fatalf("CancelChange() error = %v", err)
	}
	if b.Calls("PUT") != 0 {
		t.Fatal("cancelled change reached the backend")
	}

	h.RequestToggle(ids[0])
	updated, err := h.ConfirmChange(ctx)
	if err != nil {
		t.Fatalf("ConfirmChange() error = %v", err)
	}
	if updated.Status != client.StatusLocked || h.Items()[0].Status != client.StatusLocked {
		t.Errorf("status after lock = %s / %s", updated.Status, h.Items()[0].Status)
	}

	req, _ := b.LastRequest("PUT /matriculas/update")
	var body map[string]interface{}
	json.Unmarshal(req.Body, &body)
	if body["id"] != float64(ids[0]) || body["status"] != "TRANCADO" || body["data_fim"] != "2026-01-31" || body["metodo_pagamento"] != "PIX" {
		t.Errorf("update payload = %s", req.Body)
	}

	if _, err := wf.Unlock(ctx, ids[0]); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	var stored client.Enrollment
	b.Record(t, "matriculas", ids[0], &stored)
	if stored.Status != client.StatusActive {
		t.Errorf("stored status = %s", stored.Status)
	}
	if _, err := wf.Unlock(ctx, ids[0]); err != ErrTransitionNotAllowed {
		t.Errorf("Unlock() of an active enrollment = %v", err)
	}
}

func TestWorkflow_StatusChangeKeepsClosedPrice(t *testing.T) {
	tests := []struct {
		name   string
		status string
		toggle func(*Workflow, context.Context, int64) (*client.Enrollment, error)
	}{
		{"lock", "ATIVO", (*Workflow).Lock},
		{"unlock", "TRANCADO", (*Workflow).Unlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			studentID, planID := seed(t, b)
			id := b.Seed(t, "matriculas", map[string]interface{}{
				"aluno": map[string]interface{}{"id": studentID}, "plano": map[string]interface{}{"id": planID},
				"status": tt.status, "data_inicio": "2026-01-01", "data_fim": "2026-01-31",
				"metodo_pagamento": "PIX", "valor_fechado": 79.9,
			})[0]

			if _, err := tt.toggle(newWorkflow(b, time.Now()), context.Background(), id); err != nil {
				t.Fatalf("toggle error = %v", err)
			}

			req, _ := b.LastRequest("PUT /matriculas/update")
			var body map[string]interface{}
			json.Unmarshal(req.Body, &body)
			if body["valor_fechado"] != 79.9 {
				t.Errorf("update payload = %s", req.Body)
			}
			var stored client.Enrollment
			b.Record(t, "matriculas", id, &stored)
			if stored.ClosedPrice != 79.9 {
				t.Errorf("stored valor_fechado = %v, want 79.9", stored.ClosedPrice)
			}
		})
	}
}

func TestHistory_Failures(t *testing.T) {
	b := testutil.NewBackend(t)
	studentID, _ := seed(t, b)
	ctx := context.Background()
	wf := newWorkflow(b, time.Now())

	h, err := wf.History(ctx, studentID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if h.EmptyMessage() != MsgNoHistory {
		t.Errorf("EmptyMessage() = %q", h.EmptyMessage())
	}

	b.Fail("GET /matriculas/aluno", http.StatusServiceUnavailable, "")
	if err := h.Reload(ctx); err == nil {
		t.Fatal("Reload() error = nil")
	}
	if h.Banner() != MsgHistoryError || h.EmptyMessage() != "" {
		t.Errorf("Banner() = %q, EmptyMessage() = %q", h.Banner(), h.EmptyMessage())
	}
}
