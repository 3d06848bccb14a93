package client

import (
	"context"
)

const cashFlowResource = "movimentacoes_financeiras"

// CashFlowService handles movimentacao financeira API calls
type CashFlowService struct {
	client *Client
}

// CashFlowListOptions contains options for listing cash-flow entries
type CashFlowListOptions struct {
	ListOptions
	Type     EntryType     `json:"tipo,omitempty"`
	Category EntryCategory `json:"categoria,omitempty"`
}

// List retrieves one page of cash-flow entries
func (s *CashFlowService) List(ctx context.Context, opts *CashFlowListOptions) (*Page[CashFlowEntry], error) {
	o := CashFlowListOptions{ListOptions: defaultListOptions()}
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	query := o.values()
	if o.Type != "" {
		query.Set("tipo", string(o.Type))
	}
	if o.Category != "" {
		query.Set("categoria", string(o.Category))
	}

	return findAll[CashFlowEntry](ctx, s.client, cashFlowResource, o.Size, query)
}

// Get retrieves a single entry by ID
func (s *CashFlowService) Get(ctx context.Context, id int64) (*CashFlowEntry, error) {
	return findOne[CashFlowEntry](ctx, s.client, cashFlowResource, id)
}

// Create records a manual entry. A nil Timestamp lets the backend stamp the current time.
func (s *CashFlowService) Create(ctx context.Context, e CashFlowEntry) (*CashFlowEntry, error) {
	e.ID = 0
	return save[CashFlowEntry](ctx, s.client, cashFlowResource, e)
}

// Update updates an existing entry
func (s *CashFlowService) Update(ctx context.Context, e CashFlowEntry) error {
	return update(ctx, s.client, cashFlowResource, e.ID, e)
}

// Delete deletes an entry
func (s *CashFlowService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.client, cashFlowResource, id)
}
