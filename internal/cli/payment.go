package cli

import (
	"context"
	"fmt"

	"github.com/fitpay/fitpay-admin/internal/forms"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/spf13/cobra"
)

var paymentFields = []field{
	{name: "contrato_aluno", usage: "enrollment id"},
	{name: "referencia_periodo", usage: "reference period, e.g. 2026-01"},
	{name: "valor_pago", usage: "amount paid"},
	{name: "metodo_pagamento", usage: "PIX, DINHEIRO, CARTAO_CREDITO, CARTAO_DEBITO or BOLETO"},
}

var paymentForm = formHandlers[forms.PaymentInput, client.PaymentRequest]{
	open: func(id int64) *screen.Form[forms.PaymentInput, client.PaymentRequest] {
		return forms.PaymentForm(apiClient, id, log)
	},
	fromValues: forms.PaymentFromValues,
	values:     forms.PaymentInput.Values,
}

func newPaymentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payment",
		Aliases: []string{"pagamento", "payments"},
		Short:   "Manage monthly fee payments",
	}

	cmd.AddCommand(newPaymentListCmd())
	cmd.AddCommand(newPaymentGetCmd())
	cmd.AddCommand(newPaymentSaveCmd("create"))
	cmd.AddCommand(newPaymentSaveCmd("update"))
	cmd.AddCommand(newDeleteCmd("pagamento", screen.PaymentsConfig))

	return cmd
}

var paymentColumns = columns[client.Payment]{
	headers: []string{"ID", "MATRÍCULA", "PERÍODO", "VALOR", "MÉTODO", "DATA"},
	row: func(p client.Payment) []string {
		paid := "-"
		if p.PaidAt != nil {
			paid = p.PaidAt.BR()
		}
		return []string{
			fmt.Sprint(p.ID),
			fmt.Sprint(p.EnrollmentRef()),
			p.Period,
			brl(p.AmountPaid),
			p.PaymentMethod.Label(),
			paid,
		}
	},
	id: func(p client.Payment) int64 { return p.ID },
}

func newPaymentListCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := loadList(context.Background(), screen.PaymentsConfig(apiClient), lf.query())
			if err != nil {
				return err
			}
			return renderList(cmd, view, paymentColumns)
		},
	}

	lf.register(cmd, "method", "filter by payment method")
	cmd.Flags().Lookup("search").Usage = "filter by student name"
	return cmd
}

func newPaymentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := apiClient.Payments().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get payment: %w", err)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, p)
			}
			fmt.Fprintf(out, "ID:        %d\n", p.ID)
			fmt.Fprintf(out, "Matrícula: %d\n", p.EnrollmentRef())
			fmt.Fprintf(out, "Período:   %s\n", p.Period)
			fmt.Fprintf(out, "Valor:     %s\n", brl(p.AmountPaid))
			fmt.Fprintf(out, "Método:    %s\n", p.PaymentMethod.Label())
			return nil
		},
	}
}

func newPaymentSaveCmd(verb string) *cobra.Command {
	use, short := "create", "Register a payment"
	if verb == "update" {
		use, short = "update <id>", "Update a payment; only the given flags change"
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
			p, err := paymentForm.save(context.Background(), cmd, paymentFields, id)
			if err != nil {
				return err
			}
			return printSaved(cmd, "pagamento", p.ID, p)
		},
	}

	addFieldFlags(cmd, paymentFields)
	return cmd
}
