package client

import (
	"context"
)

const plansResource = "planos"

// PlanService handles plano API calls
type PlanService struct {
	client *Client
}

// List retrieves one page of plans
func (s *PlanService) List(ctx context.Context, opts *ListOptions) (*Page[Plan], error) {
	o := defaultListOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return findAll[Plan](ctx, s.client, plansResource, o.Size, o.values())
}

// Get retrieves a single plan by ID
func (s *PlanService) Get(ctx context.Context, id int64) (*Plan, error) {
	return findOne[Plan](ctx, s.client, plansResource, id)
}

// Create creates a new plan
func (s *PlanService) Create(ctx context.Context, p Plan) (*Plan, error) {
	p.ID = 0
	return save[Plan](ctx, s.client, plansResource, p)
}

// Update updates an existing plan
func (s *PlanService) Update(ctx context.Context, p Plan) error {
	return update(ctx, s.client, plansResource, p.ID, p)
}

// Delete deletes a plan
func (s *PlanService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.client, plansResource, id)
}
