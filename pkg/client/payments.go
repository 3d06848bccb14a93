package client

import (
	"context"
	"net/url"
	"strconv"
)

const paymentsResource = "pagamentos"

// DefaultPaymentSort lists the most recent payments first.
const DefaultPaymentSort = "dataPagamento,desc"

// PaymentService handles pagamento API calls
type PaymentService struct {
	client *Client
}

// PaymentListOptions contains options for listing payments.
// The payments endpoint filters by student name and method instead of a generic search.
type PaymentListOptions struct {
	Page   int           `json:"page"`
	Size   int           `json:"size"`
	Name   string        `json:"nome,omitempty"`
	Method PaymentMethod `json:"metodo,omitempty"`
	Sort   string        `json:"sort,omitempty"`
}

// List retrieves one page of payments
func (s *PaymentService) List(ctx context.Context, opts *PaymentListOptions) (*Page[Payment], error) {
	o := PaymentListOptions{Size: DefaultPageSize}
	if opts != nil {
		o = *opts
	}
	if o.Page < 0 || o.Size <= 0 {
		return nil, ErrInvalidPagination
	}
	if o.Sort == "" {
		o.Sort = DefaultPaymentSort
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(o.Page))
	query.Set("size", strconv.Itoa(o.Size))
	query.Set("sort", o.Sort)
	if o.Name != "" {
		query.Set("nome", o.Name)
	}
	if o.Method != "" {
		query.Set("metodo", string(o.Method))
	}

	return findAll[Payment](ctx, s.client, paymentsResource, o.Size, query)
}

// Get retrieves a single payment by ID
func (s *PaymentService) Get(ctx context.Context, id int64) (*Payment, error) {
	return findOne[Payment](ctx, s.client, paymentsResource, id)
}

// Create registers a payment
func (s *PaymentService) Create(ctx context.Context, req PaymentRequest) (*Payment, error) {
	req.ID = 0
	return save[Payment](ctx, s.client, paymentsResource, req)
}

// Update updates an existing payment
func (s *PaymentService) Update(ctx context.Context, req PaymentRequest) error {
	return update(ctx, s.client, paymentsResource, req.ID, req)
}

// Delete deletes a payment
func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.client, paymentsResource, id)
}
