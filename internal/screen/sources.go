package screen

import (
	"context"

	"github.com/fitpay/fitpay-admin/pkg/client"
)

// StudentsConfig lists alunos with free-text search.
func StudentsConfig(c *client.Client) ListConfig[client.Student] {
	return ListConfig[client.Student]{
		Entity: "alunos",
		Fetch: func(ctx context.Context, q Query) (*client.Page[client.Student], error) {
			return c.Students().List(ctx, &client.ListOptions{Page: q.Page, Size: q.Size, Search: q.Search})
		},
		Delete:       c.Students().Delete,
		EmptyMessage: "Nenhum aluno cadastrado.",
		LoadError:    "Erro ao carregar lista de alunos.",
		DeleteError:  "Erro ao excluir aluno.",
	}
}

// PlansConfig lists planos.
func PlansConfig(c *client.Client) ListConfig[client.Plan] {
	return ListConfig[client.Plan]{
		Entity: "planos",
		Fetch: func(ctx context.Context, q Query) (*client.Page[client.Plan], error) {
			return c.Plans().List(ctx, &client.ListOptions{Page: q.Page, Size: q.Size, Search: q.Search})
		},
		Delete:       c.Plans().Delete,
		EmptyMessage: "Nenhum plano cadastrado.",
		LoadError:    "Erro ao carregar lista de planos.",
		DeleteError:  "Erro ao excluir plano.",
	}
}

// AddressesConfig lists enderecos.
func AddressesConfig(c *client.Client) ListConfig[client.Address] {
	return ListConfig[client.Address]{
		Entity: "enderecos",
		Fetch: func(ctx context.Context, q Query) (*client.Page[client.Address], error) {
			return c.Addresses().List(ctx, &client.ListOptions{Page: q.Page, Size: q.Size, Search: q.Search})
		},
		Delete:       c.Addresses().Delete,
		EmptyMessage: "Nenhum endereço cadastrado.",
		LoadError:    "Erro ao carregar lista de endereços.",
		DeleteError:  "Erro ao excluir endereço.",
	}
}

// EnrollmentsConfig lists matriculas; Status filters by enrollment status.
func EnrollmentsConfig(c *client.Client) ListConfig[client.Enrollment] {
	return ListConfig[client.Enrollment]{
		Entity: "matriculas",
		Fetch: func(ctx context.Context, q Query) (*client.Page[client.Enrollment], error) {
			return c.Enrollments().List(ctx, &client.EnrollmentListOptions{
				ListOptions: client.ListOptions{Page: q.Page, Size: q.Size, Search: q.Search},
				Status:      client.EnrollmentStatus(q.Status),
			})
		},
		Delete:       c.Enrollments().Delete,
		EmptyMessage: "Nenhuma matrícula cadastrada.",
		LoadError:    "Erro ao carregar lista de matrículas.",
		DeleteError:  "Erro ao excluir matrícula.",
	}
}

// PaymentsConfig lists pagamentos; Search filters by student name and Status by method.
func PaymentsConfig(c *client.Client) ListConfig[client.Payment] {
	return ListConfig[client.Payment]{
		Entity: "pagamentos",
		Fetch: func(ctx context.Context, q Query) (*client.Page[client.Payment], error) {
			return c.Payments().List(ctx, &client.PaymentListOptions{
				Page:   q.Page,
				Size:   q.Size,
				Name:   q.Search,
				Method: client.PaymentMethod(q.Status),
			})
		},
		Delete:       c.Payments().Delete,
		EmptyMessage: "Nenhum pagamento registrado.",
		LoadError:    "Erro ao carregar pagamentos.",
		DeleteError:  "Erro ao excluir pagamento.",
	}
}

// CashFlowConfig lists movimentacoes; Status filters by entry type.
func CashFlowConfig(c *client.Client) ListConfig[client.CashFlowEntry] {
	return ListConfig[client.CashFlowEntry]{
		Entity: "movimentacoes_financeiras",
		Fetch: func(ctx context.Context, q Query) (*client.Page[client.CashFlowEntry], error) {
			return c.CashFlow().List(ctx, &client.CashFlowListOptions{
				ListOptions: client.ListOptions{Page: q.Page, Size: q.Size, Search: q.Search},
				Type:        client.EntryType(q.Status),
			})
		},
		Delete:       c.CashFlow().Delete,
		EmptyMessage: "Nenhuma movimentação registrada.",
		LoadError:    "Erro ao carregar movimentações.",
		DeleteError:  "Erro ao excluir movimentação.",
	}
}
