package console

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fitpay/fitpay-admin/internal/enrollment"
	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

const msgStatusChanged = "Status da matrícula atualizado."

type planOption struct {
	ID       int64
	Label    string
	Days     int
	Selected bool
}

type methodOption struct {
	Value   string
	Label   string
	Checked bool
}

// enrollPage is the enrollment activation screen of one student
type enrollPage struct {
	Student    client.Student
	Plans      []planOption
	StartDate  string
	EndDate    string
	Methods    []methodOption
	Banner     string
	Action     string
	HistoryURL string
}

func (s *Server) handleEnrollPage(w http.ResponseWriter, r *http.Request) {
	s.enroll(w, r, r.URL.Query(), false)
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}
	s.enroll(w, r, r.PostForm, r.PostForm.Get("acao") != "calcular")
}

// enroll opens a draft for the student, applies values and either shows the
// draft (with its computed end date) or confirms it.
func (s *Server) enroll(w http.ResponseWriter, r *http.Request, values url.Values, submit bool) {
	id, err := idParam(r)
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Aluno não encontrado.")
		return
	}

	d, err := s.workflow.Open(r.Context(), id)
	if d == nil {
		s.renderError(w, r, apperrors.HTTPStatus(err), apperrors.UserMessage(err, "Erro ao carregar aluno."))
		return
	}

	status := http.StatusOK
	if applyErr := applyDraft(d, values); applyErr != nil && d.Banner == "" {
		d.Banner = apperrors.UserMessage(applyErr, enrollment.MsgSaveError)
		if submit {
			status = apperrors.HTTPStatus(applyErr)
			submit = false
		}
	}

	if submit {
		if _, err := s.workflow.Confirm(r.Context(), d); err != nil {
			status = apperrors.HTTPStatus(err)
		} else {
			http.Redirect(w, r, fmt.Sprintf("/alunos/%d/matriculas?ativada=1", id), http.StatusSeeOther)
			return
		}
	}

	s.render(w, r, status, "enroll", view{
		Title: "Matricular " + d.Student.Name,
		Nav:   "/alunos",
		Data:  draftPage(d),
	})
}

// applyDraft copies the form values onto d and returns the first invalid one.
func applyDraft(d *enrollment.Draft, values url.Values) error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	keep(d.SelectPlanString(strings.TrimSpace(values.Get("plano"))))
	if start := strings.TrimSpace(values.Get("data_inicio")); start != "" {
		keep(d.SetStartDate(start))
	}
	keep(d.SetPaymentMethod(values.Get("metodo_pagamento")))
	return first
}

func draftPage(d *enrollment.Draft) enrollPage {
	p := enrollPage{
		Student:    d.Student,
		StartDate:  d.StartDate.String(),
		Banner:     d.Banner,
		Action:     fmt.Sprintf("/alunos/%d/matricular", d.Student.ID),
		HistoryURL: fmt.Sprintf("/alunos/%d/matriculas", d.Student.ID),
	}
	for _, plan := range d.Plans {
		p.Plans = append(p.Plans, planOption{
			ID:       plan.ID,
			Label:    fmt.Sprintf("%s - %s (%d dias)", plan.Name, brl(plan.Price), plan.DurationDays),
			Days:     plan.DurationDays,
			Selected: plan.ID == d.PlanID,
		})
	}
	if end, ok := d.EndDate(); ok {
		p.EndDate = end.BR()
	}
	for _, m := range client.EnrollmentMethods {
		p.Methods = append(p.Methods, methodOption{Value: string(m), Label: m.Label(), Checked: m == d.Method})
	}
	return p
}

type historyRow struct {
	ID        int64
	Plan      string
	Price     string
	StartDate string
	EndDate   string
	Status    string
	Badge     string
	Toggle    *action
}

// historyPage lists the enrollments of one student
type historyPage struct {
	Student      client.Student
	Rows         []historyRow
	Banner       string
	EmptyMessage string
	EnrollURL    string
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Aluno não encontrado.")
		return
	}

	student := client.Student{ID: id}
	if st, err := s.client.Students().Get(r.Context(), id); err == nil {
		student = *st
	} else {
		s.log.With("student", id).WithError(err).Warn("failed to load student for history")
	}

	// A failed load is shown in the banner.
	h, _ := s.workflow.History(r.Context(), id)

	back := url.QueryEscape(fmt.Sprintf("/alunos/%d/matriculas", id))
	p := historyPage{
		Student:      student,
		Banner:       h.Banner(),
		EmptyMessage: h.EmptyMessage(),
		EnrollURL:    fmt.Sprintf("/alunos/%d/matricular", id),
	}
	for _, e := range h.Items() {
		row := historyRow{
			ID:        e.ID,
			Plan:      "Plano Removido/Não Encontrado",
			Price:     "-",
			StartDate: e.StartDate.BR(),
			EndDate:   e.EndDate.BR(),
			Status:    string(e.Status),
			Badge:     enrollment.BadgeVariant(e.Status),
		}
		if e.Plan != nil {
			row.Plan, row.Price = e.Plan.Name, brl(e.Plan.Price)
		}
		if label := enrollment.ToggleLabel(e.Status); label != "" {
			row.Toggle = &action{Label: label, URL: fmt.Sprintf("/matriculas/%d/status?voltar=%s", e.ID, back), Variant: "warning"}
		}
		p.Rows = append(p.Rows, row)
	}

	var flash string
	switch {
	case r.URL.Query().Has("ativada"):
		flash = enrollment.SuccessMessage(student.Name)
	case r.URL.Query().Has("alterada"):
		flash = msgStatusChanged
	}

	title := "Matrículas"
	if student.Name != "" {
		title = "Matrículas de " + student.Name
	}
	s.render(w, r, http.StatusOK, "history", view{Title: title, Nav: "/alunos", Flash: flash, Data: p})
}

func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Matrícula não encontrada.")
		return
	}
	back := safeBack(r.URL.Query().Get("voltar"), "/matriculas")

	e, err := s.client.Enrollments().Get(r.Context(), id)
	if err != nil {
		s.renderError(w, r, apperrors.HTTPStatus(err), apperrors.UserMessage(err, "Erro ao carregar matrícula."))
		return
	}
	to, ok := enrollment.Toggled(e.Status)
	if !ok {
		s.renderError(w, r, http.StatusUnprocessableEntity, enrollment.ErrTransitionNotAllowed.Message)
		return
	}

	label := enrollment.ToggleLabel(e.Status)
	name := e.StudentName()
	if name == "" {
		name = "-"
	}
	s.render(w, r, http.StatusOK, "confirm", view{
		Title: label + " matrícula",
		Nav:   "/matriculas",
		Data: confirmPage{
			Question:     fmt.Sprintf("%s a matrícula #%d de %s?", label, id, name),
			Detail:       fmt.Sprintf("O status passará de %s para %s.", e.Status, to),
			Action:       fmt.Sprintf("/matriculas/%d/status", id),
			Hidden:       map[string]string{"voltar": back, "para": string(to)},
			ConfirmLabel: label,
			Variant:      "warning",
			CancelURL:    back,
		},
	})
}

// handleStatus locks or unlocks an enrollment. When the student is known the
// change goes through the student's history, which re-checks the status the
// operator confirmed against the stored one.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Matrícula não encontrada.")
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Formulário inválido.")
		return
	}
	back := safeBack(r.PostForm.Get("voltar"), "/matriculas")
	ctx := r.Context()

	e, err := s.client.Enrollments().Get(ctx, id)
	if err != nil {
		s.renderError(w, r, apperrors.HTTPStatus(err), apperrors.UserMessage(err, "Erro ao carregar matrícula."))
		return
	}
	to := client.EnrollmentStatus(r.PostForm.Get("para"))
	if to == "" {
		to, _ = enrollment.Toggled(e.Status)
	}

	if e.Student != nil && e.Student.ID > 0 {
		err = s.toggleInHistory(r, e.Student.ID, id, to)
	} else {
		_, err = s.workflow.SetStatus(ctx, *e, to)
	}
	if err != nil {
		s.renderError(w, r, apperrors.HTTPStatus(err), apperrors.UserMessage(err, enrollment.MsgStatusError))
		return
	}

	sep := "?"
	if strings.Contains(back, "?") {
		sep = "&"
	}
	http.Redirect(w, r, back+sep+"alterada=1", http.StatusSeeOther)
}

func (s *Server) toggleInHistory(r *http.Request, studentID, id int64, to client.EnrollmentStatus) error {
	h, err := s.workflow.History(r.Context(), studentID)
	if err != nil {
		return err
	}
	change, err := h.RequestToggle(id)
	if err != nil {
		return err
	}
	if change.To != to {
		_ = h.CancelChange()
		return enrollment.ErrTransitionNotAllowed
	}
	_, err = h.ConfirmChange(r.Context())
	return err
}

// safeBack accepts only same-site paths as redirect targets.
func safeBack(target, fallback string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.Contains(target, "\\") {
		return target
	}
	return fallback
}
