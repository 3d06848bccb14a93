package client

import (
	"context"
)

const studentsResource = "alunos"

// StudentService handles aluno API calls
type StudentService struct {
	client *Client
}

// List retrieves one page of students, optionally filtered by a search term
func (s *StudentService) List(ctx context.Context, opts *ListOptions) (*Page[Student], error) {
	o := defaultListOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return findAll[Student](ctx, s.client, studentsResource, o.Size, o.values())
}

// Get retrieves a single student by ID
func (s *StudentService) Get(ctx context.Context, id int64) (*Student, error) {
	return findOne[Student](ctx, s.client, studentsResource, id)
}

// Create registers a new student. Any ID on st is ignored.
func (s *StudentService) Create(ctx context.Context, st Student) (*Student, error) {
	st.ID = 0
	return save[Student](ctx, s.client, studentsResource, st)
}

// Update replaces an existing student identified by st.ID
func (s *StudentService) Update(ctx context.Context, st Student) error {
	return update(ctx, s.client, studentsResource, st.ID, st)
}

// Delete deletes a student
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.client, studentsResource, id)
}
