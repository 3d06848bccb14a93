package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fitpay/fitpay-admin/internal/enrollment"
	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/spf13/cobra"
)

func newEnrollmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "enrollment",
		Aliases: []string{"matricula", "enrollments"},
		Short:   "Manage enrollments",
	}

	cmd.AddCommand(newEnrollmentListCmd())
	cmd.AddCommand(newEnrollmentGetCmd())
	cmd.AddCommand(newEnrollmentCreateCmd())
	cmd.AddCommand(newEnrollmentUpdateCmd())
	cmd.AddCommand(newDeleteCmd("matrícula", screen.EnrollmentsConfig))
	cmd.AddCommand(newEnrollmentStatusCmd("lock", "Lock an active enrollment (TRANCADO)", client.StatusLocked))
	cmd.AddCommand(newEnrollmentStatusCmd("unlock", "Reactivate a locked enrollment (ATIVO)", client.StatusActive))

	return cmd
}

var enrollmentColumns = columns[client.Enrollment]{
	headers: []string{"ID", "ALUNO", "PLANO", "INÍCIO", "FIM", "PAGAMENTO", "STATUS"},
	row: func(e client.Enrollment) []string {
		return []string{
			fmt.Sprint(e.ID),
			truncate(orDash(e.StudentName()), 25),
			orDash(e.PlanName()),
			e.StartDate.BR(),
			e.EndDate.BR(),
			e.PaymentMethod.Label(),
			formatStatus(e.Status),
		}
	},
	id: func(e client.Enrollment) int64 { return e.ID },
}

func newEnrollmentListCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List enrollments",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := lf.query()
			if q.Status != "" && !client.EnrollmentStatus(q.Status).IsValid() {
				return fmt.Errorf("unknown status %q", q.Status)
			}
			view, err := loadList(context.Background(), screen.EnrollmentsConfig(apiClient), q)
			if err != nil {
				return err
			}
			return renderList(cmd, view, enrollmentColumns)
		},
	}

	lf.register(cmd, "status", "filter by status: ATIVO, PENDENTE, CANCELADO, EXPIRADO, TRANCADO")
	return cmd
}

func newEnrollmentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an enrollment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := apiClient.Enrollments().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get enrollment: %w", err)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, e)
			}
			fmt.Fprintf(out, "ID:        %d\n", e.ID)
			fmt.Fprintf(out, "Aluno:     %s\n", orDash(e.StudentName()))
			fmt.Fprintf(out, "Plano:     %s\n", orDash(e.PlanName()))
			fmt.Fprintf(out, "Início:    %s\n", e.StartDate.BR())
			fmt.Fprintf(out, "Fim:       %s\n", e.EndDate.BR())
			fmt.Fprintf(out, "Pagamento: %s\n", orDash(e.PaymentMethod.Label()))
			fmt.Fprintf(out, "Status:    %s\n", formatStatus(e.Status))
			return nil
		},
	}
}

func newEnrollmentCreateCmd() *cobra.Command {
	cmd := newStudentEnrollCmd()
	cmd.Use = "create <student-id>"
	cmd.Short = "Activate a plan for a student (same as student enroll)"
	return cmd
}

func newEnrollmentUpdateCmd() *cobra.Command {
	var planID, start, end, method string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change plan, dates or payment method of an enrollment",
		Long: `Change plan, dates or payment method of an enrollment. Status changes
go through "enrollment lock" and "enrollment unlock".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()

			e, err := apiClient.Enrollments().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get enrollment: %w", err)
			}
			req := client.RequestFor(*e)

			if planID != "" {
				pid, err := strconv.ParseInt(planID, 10, 64)
				if err != nil || pid <= 0 {
					return apperrors.Validation(enrollment.MsgPlanRequired, nil)
				}
				req.Plan = client.Ref{ID: pid}
			}
			if start != "" {
				d, err := client.ParseDate(start)
				if err != nil {
					return err
				}
				req.StartDate = d
			}
			if end != "" {
				d, err := client.ParseDate(end)
				if err != nil {
					return err
				}
				req.EndDate = d
			}
			if method != "" {
				m := client.PaymentMethod(strings.ToUpper(method))
				req.PaymentMethod = &m
			}
			if req.EndDate.Time().Before(req.StartDate.Time()) {
				return fmt.Errorf("data de fim anterior à data de início")
			}

			if err := apiClient.Enrollments().Update(ctx, req); err != nil {
				return fmt.Errorf("%s", apperrors.UserMessage(err, enrollment.MsgSaveError))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "matrícula %d salva\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "plan id")
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date YYYY-MM-DD")
	cmd.Flags().StringVar(&method, "payment", "", "payment method: PIX, CARTAO, DINHEIRO")
	return cmd
}

func newEnrollmentStatusCmd(use, short string, to client.EnrollmentStatus) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()

			e, err := apiClient.Enrollments().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get enrollment: %w", err)
			}
			if err := enrollment.Transition(e.Status, to); err != nil {
				return err
			}

			var c screen.Confirmation[int64]
			question := fmt.Sprintf("%s a matrícula %d (%s)?", enrollment.ToggleLabel(e.Status), id, orDash(e.StudentName()))
			if err := confirm(cmd, &c, id, question, yes); err != nil {
				return err
			}

			updated, err := enrollment.NewWorkflow(apiClient, log).SetStatus(ctx, *e, to)
			if err != nil {
				return fmt.Errorf("%s", apperrors.UserMessage(err, enrollment.MsgStatusError))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "matrícula %d: %s\n", updated.ID, updated.Status)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
