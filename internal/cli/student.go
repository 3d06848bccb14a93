package cli

import (
	"context"
	"fmt"

	"github.com/fitpay/fitpay-admin/internal/enrollment"
	"github.com/fitpay/fitpay-admin/internal/forms"
	"github.com/fitpay/fitpay-admin/internal/pkg/cpf"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/spf13/cobra"
)

var studentFields = []field{
	{name: "nome", usage: "full name"},
	{name: "cpf", usage: "CPF (with or without punctuation)"},
	{name: "email", usage: "e-mail address"},
	{name: "telefone", usage: "phone number"},
	{name: "data_matricula", usage: "registration date (YYYY-MM-DD)"},
	{name: "ativo", usage: "mark the student as active", boolean: true},
	{name: "endereco.cep", usage: "address postal code"},
	{name: "endereco.logradouro", usage: "address street"},
	{name: "endereco.numero", usage: "address number"},
	{name: "endereco.complemento", usage: "address complement"},
	{name: "endereco.bairro", usage: "address district"},
	{name: "endereco.cidade", usage: "address city"},
	{name: "endereco.uf", usage: "address state (UF)"},
}

var studentForm = formHandlers[forms.StudentInput, client.Student]{
	open:       func(id int64) *screen.Form[forms.StudentInput, client.Student] { return forms.StudentForm(apiClient, id, log) },
	fromValues: forms.StudentFromValues,
	values:     forms.StudentInput.Values,
}

func newStudentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "student",
		Aliases: []string{"aluno", "students"},
		Short:   "Manage students",
	}

	cmd.AddCommand(newStudentListCmd())
	cmd.AddCommand(newStudentGetCmd())
	cmd.AddCommand(newStudentSaveCmd("create"))
	cmd.AddCommand(newStudentSaveCmd("update"))
	cmd.AddCommand(newDeleteCmd("aluno", screen.StudentsConfig))
	cmd.AddCommand(newStudentEnrollCmd())
	cmd.AddCommand(newStudentHistoryCmd())

	return cmd
}

var studentColumns = columns[client.Student]{
	headers: []string{"ID", "NOME", "CPF", "EMAIL", "TELEFONE", "ATIVO"},
	row: func(s client.Student) []string {
		return []string{
			fmt.Sprint(s.ID),
			truncate(s.Name, 30),
			cpf.Format(s.CPF),
			s.Email,
			s.Phone,
			yesNo(s.Active),
		}
	},
	id: func(s client.Student) int64 { return s.ID },
}

func newStudentListCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := loadList(context.Background(), screen.StudentsConfig(apiClient), lf.query())
			if err != nil {
				return err
			}
			return renderList(cmd, view, studentColumns)
		},
	}

	lf.register(cmd, "", "")
	return cmd
}

func newStudentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := apiClient.Students().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get student: %w", err)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, s)
			}

			date := "-"
			if s.EnrollmentDate != nil {
				date = s.EnrollmentDate.BR()
			}
			fmt.Fprintf(out, "ID:        %d\n", s.ID)
			fmt.Fprintf(out, "Nome:      %s\n", s.Name)
			fmt.Fprintf(out, "CPF:       %s\n", cpf.Format(s.CPF))
			fmt.Fprintf(out, "Email:     %s\n", s.Email)
			fmt.Fprintf(out, "Telefone:  %s\n", orDash(s.Phone))
			fmt.Fprintf(out, "Matrícula: %s\n", date)
			fmt.Fprintf(out, "Ativo:     %s\n", yesNo(s.Active))
			if s.Address != nil {
				fmt.Fprintf(out, "Endereço:  %s\n", formatAddress(*s.Address))
			}
			return nil
		},
	}
}

func newStudentSaveCmd(verb string) *cobra.Command {
	var autofill bool

	use, short := "create", "Register a student"
	if verb == "update" {
		use, short = "update <id>", "Update a student; only the given flags change"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  saveArgs(verb),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := saveID(verb, args)
			if err != nil {
				return err
			}
			if autofill {
				fillAddressFlags(cmd, "endereco.")
			}
			s, err := studentForm.save(context.Background(), cmd, studentFields, id)
			if err != nil {
				return err
			}
			return printSaved(cmd, "aluno", s.ID, s)
		},
	}

	addFieldFlags(cmd, studentFields)
	cmd.Flags().BoolVar(&autofill, "autofill", true, "complete the address from endereco.cep")
	return cmd
}

func newStudentEnrollCmd() *cobra.Command {
	var planID, start, method string

	cmd := &cobra.Command{
		Use:   "enroll <student-id>",
		Short: "Activate a plan for a student",
		Long: `Activate a plan for a student. The end date is the start date plus the
plan duration; a payment method (PIX, CARTAO or DINHEIRO) is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			wf := enrollment.NewWorkflow(apiClient, log)

			draft, err := wf.Open(ctx, id)
			if err != nil {
				if draft != nil {
					return fmt.Errorf("%s", draft.Banner)
				}
				return fmt.Errorf("failed to load student: %w", err)
			}

			if planID == "" {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Planos disponíveis:")
				for _, p := range draft.Plans {
					fmt.Fprintf(out, "  %d  %s - %s (%d dias)\n", p.ID, p.Name, brl(p.Price), p.DurationDays)
				}
				planID = promptInput(cmd, "Plano: ")
			}
			if err := draft.SelectPlanString(planID); err != nil {
				return err
			}
			if start != "" {
				if err := draft.SetStartDate(start); err != nil {
					return err
				}
			}
			if err := draft.SetPaymentMethod(method); err != nil {
				return err
			}

			created, err := wf.Confirm(ctx, draft)
			if err != nil {
				return fmt.Errorf("%s", draft.Banner)
			}

			if getOutputFormat() != "table" {
				return printOutput(cmd.OutOrStdout(), created)
			}
			fmt.Fprintln(cmd.OutOrStdout(), enrollment.SuccessMessage(draft.Student.Name))
			fmt.Fprintf(cmd.OutOrStdout(), "Matrícula %d: %s até %s\n", created.ID, created.StartDate.BR(), created.EndDate.BR())
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "plan id (prompted when omitted)")
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&method, "payment", "", "payment method: PIX, CARTAO, DINHEIRO")
	return cmd
}

func newStudentHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <student-id>",
		Short: "Show the enrollment history of a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			h, err := enrollment.NewWorkflow(apiClient, log).History(context.Background(), id)
			if err != nil {
				return fmt.Errorf("%s", h.Banner())
			}

			out := cmd.OutOrStdout()
			items := h.Items()
			if getOutputFormat() != "table" {
				return printOutput(out, items)
			}
			if msg := h.EmptyMessage(); msg != "" {
				fmt.Fprintln(out, msg)
				return nil
			}

			t := NewTable(out, "ID", "PLANO", "INÍCIO", "FIM", "VALOR", "STATUS")
			for _, e := range items {
				plan, price := "Plano Removido/Não Encontrado", "-"
				if e.Plan != nil {
					plan, price = e.Plan.Name, brl(e.Plan.Price)
				}
				t.AddRow(fmt.Sprint(e.ID), plan, e.StartDate.BR(), e.EndDate.BR(), price, formatStatus(e.Status))
			}
			t.Render()
			return nil
		},
	}
}

func formatAddress(a client.Address) string {
	s := a.Street
	if a.Number != "" {
		s += ", " + a.Number
	}
	if a.Complement != "" {
		s += " " + a.Complement
	}
	return fmt.Sprintf("%s - %s, %s/%s %s", s, a.District, a.City, a.State, cep.Format(a.CEP))
}

func saveArgs(verb string) cobra.PositionalArgs {
	if verb == "update" {
		return cobra.ExactArgs(1)
	}
	return cobra.NoArgs
}

func saveID(verb string, args []string) (int64, error) {
	if verb != "update" {
		return 0, nil
	}
	return parseID(args[0])
}

func printSaved(cmd *cobra.Command, noun string, id int64, v interface{}) error {
	if getOutputFormat() != "table" {
		return printOutput(cmd.OutOrStdout(), v)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d salvo\n", noun, id)
	return nil
}
