package forms

import (
	"net/url"

	"github.com/fitpay/fitpay-admin/internal/pkg/cpf"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// StudentInput is the aluno form
type StudentInput struct {
	Name           string        `json:"nome" validate:"required"`
	CPF            string        `json:"cpf" validate:"required,cpf"`
	Email          string        `json:"email" validate:"required,email"`
	Phone          string        `json:"telefone" validate:"required"`
	EnrollmentDate string        `json:"data_matricula" validate:"omitempty,datetime=2006-01-02"`
	Active         bool          `json:"ativo"`
	Address        *AddressInput `json:"endereco" validate:"omitempty"`
}

// Parse validates the input and builds the student. An empty enrollment date
// is sent as null.
func (in StudentInput) Parse() (client.Student, error) {
	if in.Address != nil && in.Address.IsBlank() {
		in.Address = nil
	}
	if err := check(in); err != nil {
		return client.Student{}, err
	}

	s := client.Student{
		Name:   in.Name,
		CPF:    cpf.Clean(in.CPF),
		Email:  in.Email,
		Phone:  in.Phone,
		Active: in.Active,
	}
	if in.EnrollmentDate != "" {
		d, err := client.ParseDate(in.EnrollmentDate)
		if err != nil {
			return client.Student{}, err
		}
		s.EnrollmentDate = &d
	}
	if in.Address != nil {
		a := in.Address.address()
		s.Address = &a
	}
	return s, nil
}

// FromStudent pre-fills the input from a stored student.
func FromStudent(s client.Student) StudentInput {
	in := StudentInput{
		Name:   s.Name,
		CPF:    cpf.Format(s.CPF),
		Email:  s.Email,
		Phone:  s.Phone,
		Active: s.Active,
	}
	if s.EnrollmentDate != nil {
		in.EnrollmentDate = s.EnrollmentDate.String()
	}
	if s.Address != nil {
		a := FromAddress(*s.Address)
		in.Address = &a
	}
	return in
}

// StudentFromValues reads the student form; address fields carry the "endereco." prefix.
func StudentFromValues(v url.Values) StudentInput {
	in := StudentInput{
		Name:           value(v, "nome"),
		CPF:            value(v, "cpf"),
		Email:          value(v, "email"),
		Phone:          value(v, "telefone"),
		EnrollmentDate: value(v, "data_matricula"),
		Active:         checked(v, "ativo"),
	}
	if a := AddressFromValues(v, "endereco."); !a.IsBlank() {
		in.Address = &a
	}
	return in
}

// StudentForm is the aluno form.
func StudentForm(c *client.Client, id int64, log *logger.Logger) *screen.Form[StudentInput, client.Student] {
	return screen.NewForm(screen.FormConfig[StudentInput, client.Student]{
		Entity:     "alunos",
		Get:        c.Students().Get,
		Create:     c.Students().Create,
		Update:     c.Students().Update,
		Parse:      StudentInput.Parse,
		FromEntity: FromStudent,
		SetID:      func(s *client.Student, id int64) { s.ID = id },
		SaveError:  "Erro ao salvar aluno.",
		LoadError:  "Erro ao carregar aluno.",
		Logger:     log,
	}, id)
}
