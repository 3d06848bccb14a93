package dashboard

import (
	"context"
	"net/http"
	"testing"

	"github.com/fitpay/fitpay-admin/internal/testutil"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

func TestService_Load(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Seed(t, "alunos", client.Student{Name: "A"}, client.Student{Name: "B"}, client.Student{Name: "C"})
	b.SetCounter("a-renovar", 4)
	b.SetCounter("novas-no-mes", 7)

	sum := NewService(b.Client(), nil).Load(context.Background())

	if sum.Failed() {
		t.Fatalf("Load() failed: %+v", sum)
	}
	if sum.Students.Value != 3 || sum.DueForRenewal.Value != 4 || sum.NewThisMonth.Value != 7 {
		t.Errorf("Load() = %d/%d/%d", sum.Students.Value, sum.DueForRenewal.Value, sum.NewThisMonth.Value)
	}

	req, _ := b.LastRequest("GET /alunos/findall")
	if req.Query != "page=0&size=1" {
		t.Errorf("student count query = %q", req.Query)
	}

	titles := []string{"Alunos Ativos", "A Renovar (7 dias)", "Novas Matrículas (Mês)"}
	for i, c := range sum.Cards() {
		if c.Title != titles[i] {
			t.Errorf("card %d title = %q, want %q", i, c.Title, titles[i])
		}
	}
}

func TestService_LoadPartialFailure(t *testing.T) {
	b := testutil.NewBackend(t)
	b.SetCounter("novas-no-mes", 2)
	b.Fail("GET /matriculas/dashboard/a-renovar", http.StatusInternalServerError, "")

	sum := NewService(b.Client(), nil).Load(context.Background())

	if sum.DueForRenewal.Err == nil || sum.DueForRenewal.Error != MsgCardError {
		t.Errorf("DueForRenewal = %+v, want failure", sum.DueForRenewal)
	}
	if sum.NewThisMonth.Err != nil || sum.NewThisMonth.Value != 2 {
		t.Errorf("NewThisMonth = %+v", sum.NewThisMonth)
	}
	if sum.Students.Err != nil || sum.Students.Value != 0 {
		t.Errorf("Students = %+v", sum.Students)
	}
	if !sum.Failed() {
		t.Error("Failed() = false")
	}
	Publish(sum)
}
