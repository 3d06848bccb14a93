package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultPageSize is used when List is called with nil options.
const DefaultPageSize = 10

// ListOptions contains the pagination and free-text search shared by every list call
type ListOptions struct {
	Page   int    `json:"page"`
	Size   int    `json:"size"`
	Search string `json:"search,omitempty"`
}

func (o ListOptions) validate() error {
	if o.Page < 0 || o.Size <= 0 {
		return ErrInvalidPagination
	}
	return nil
}

func (o ListOptions) values() url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(o.Page))
	query.Set("size", strconv.Itoa(o.Size))
	if o.Search != "" {
		query.Set("search", o.Search)
	}
	return query
}

func defaultListOptions() ListOptions {
	return ListOptions{Page: 0, Size: DefaultPageSize}
}

var errMissingID = errors.New("id is required for update")

// findAll fetches one page of resource and enforces len(Content) <= size.
func findAll[T any](ctx context.Context, c *Client, resource string, size int, query url.Values) (*Page[T], error) {
	path := "/" + resource + "/findall?" + query.Encode()

	var page Page[T]
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}

	if len(page.Content) > size {
		page.Content = page.Content[:size]
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	if page.Size == 0 {
		page.Size = size
	}

	return &page, nil
}

func findOne[T any](ctx context.Context, c *Client, resource string, id int64) (*T, error) {
	path := fmt.Sprintf("/%s/find/%d", resource, id)

	var item T
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func save[T any](ctx context.Context, c *Client, resource string, body interface{}) (*T, error) {
	var item T
	if err := c.doRequest(ctx, http.MethodPost, "/"+resource+"/save", body, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func update(ctx context.Context, c *Client, resource string, id int64, body interface{}) error {
	if id <= 0 {
		return errMissingID
	}
	return c.doRequest(ctx, http.MethodPut, "/"+resource+"/update", body, nil)
}

func remove(ctx context.Context, c *Client, resource string, id int64) error {
	path := fmt.Sprintf("/%s/delete/%d", resource, id)
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// Count is a dashboard counter. The backend answers either a bare number or an
// object carrying total, count or quantidade.
type Count int64

func (n *Count) UnmarshalJSON(b []byte) error {
	var bare int64
	if err := json.Unmarshal(b, &bare); err == nil {
		*n = Count(bare)
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("failed to parse counter: %w", err)
	}
	for _, key := range []string{"total", "count", "quantidade"} {
		if raw, ok := obj[key]; ok {
			var i int64
			if err := json.Unmarshal(raw, &i); err != nil {
				return fmt.Errorf("failed to parse counter %q: %w", key, err)
			}
			*n = Count(i)
			return nil
		}
	}
	return fmt.Errorf("failed to parse counter: no total, count or quantidade in %s", string(b))
}
