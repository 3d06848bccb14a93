package client

import (
	"context"
	"fmt"
	"net/http"
)

const enrollmentsResource = "matriculas"

// EnrollmentService handles matricula API calls
type EnrollmentService struct {
	client *Client
}

// EnrollmentListOptions contains options for listing enrollments
type EnrollmentListOptions struct {
	ListOptions
	Status EnrollmentStatus `json:"status,omitempty"`
}

// List retrieves one page of enrollments, optionally filtered by status
func (s *EnrollmentService) List(ctx context.Context, opts *EnrollmentListOptions) (*Page[Enrollment], error) {
	o := EnrollmentListOptions{ListOptions: defaultListOptions()}
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	query := o.values()
	if o.Status != "" {
		query.Set("status", string(o.Status))
	}

	return findAll[Enrollment](ctx, s.client, enrollmentsResource, o.Size, query)
}

// Get retrieves a single enrollment by ID
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*Enrollment, error) {
	return findOne[Enrollment](ctx, s.client, enrollmentsResource, id)
}

// Create saves a new enrollment
func (s *EnrollmentService) Create(ctx context.Context, req EnrollmentRequest) (*Enrollment, error) {
	req.ID = 0
	return save[Enrollment](ctx, s.client, enrollmentsResource, req)
}

// Update persists an enrollment change, such as a status transition
func (s *EnrollmentService) Update(ctx context.Context, req EnrollmentRequest) error {
	return update(ctx, s.client, enrollmentsResource, req.ID, req)
}

// Delete deletes an enrollment
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.client, enrollmentsResource, id)
}

// ByStudent retrieves the full enrollment history of a student
func (s *EnrollmentService) ByStudent(ctx context.Context, studentID int64) ([]Enrollment, error) {
	path := fmt.Sprintf("/%s/aluno/%d", enrollmentsResource, studentID)

	var enrollments []Enrollment
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &enrollments); err != nil {
		return nil, err
	}
	if enrollments == nil {
		enrollments = []Enrollment{}
	}

	return enrollments, nil
}

// NewThisMonth returns the number of enrollments started in the current month
func (s *EnrollmentService) NewThisMonth(ctx context.Context) (int64, error) {
	return s.counter(ctx, "novas-no-mes")
}

// DueForRenewal returns the number of enrollments ending within the next 7 days
func (s *EnrollmentService) DueForRenewal(ctx context.Context) (int64, error) {
	return s.counter(ctx, "a-renovar")
}

func (s *EnrollmentService) counter(ctx context.Context, name string) (int64, error) {
	path := fmt.Sprintf("/%s/dashboard/%s", enrollmentsResource, name)

	var n Count
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &n); err != nil {
		return 0, err
	}

	return int64(n), nil
}
