package client

import (
	"context"
)

const addressesResource = "enderecos"

// AddressService handles endereco API calls
type AddressService struct {
	client *Client
}

// List retrieves one page of addresses
func (s *AddressService) List(ctx context.Context, opts *ListOptions) (*Page[Address], error) {
	o := defaultListOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return findAll[Address](ctx, s.client, addressesResource, o.Size, o.values())
}

// Get retrieves a single address by ID
func (s *AddressService) Get(ctx context.Context, id int64) (*Address, error) {
	return findOne[Address](ctx, s.client, addressesResource, id)
}

// Create creates a new address
func (s *AddressService) Create(ctx context.Context, a Address) (*Address, error) {
	a.ID = 0
	return save[Address](ctx, s.client, addressesResource, a)
}

// Update updates an existing address
func (s *AddressService) Update(ctx context.Context, a Address) error {
	return update(ctx, s.client, addressesResource, a.ID, a)
}

// Delete deletes an address
func (s *AddressService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.client, addressesResource, id)
}
