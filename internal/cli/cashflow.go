package cli

import (
	"context"
	"fmt"

	"github.com/fitpay/fitpay-admin/internal/forms"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/spf13/cobra"
)

var cashFlowFields = []field{
	{name: "descricao", usage: "description"},
	{name: "valor", usage: "amount"},
	{name: "tipo_movimentacao", usage: "ENTRADA or SAIDA"},
	{name: "categoria_movimentacao", usage: "ALUGUEL, SALARIO, COMPRA_MATERIAL, CONTA_LUZ, CONTA_AGUA, INTERNET, MANUTENCAO or OUTROS"},
	{name: "data_hora", usage: "timestamp YYYY-MM-DDTHH:MM (default: set by the backend)"},
}

var cashFlowForm = formHandlers[forms.CashFlowInput, client.CashFlowEntry]{
	open: func(id int64) *screen.Form[forms.CashFlowInput, client.CashFlowEntry] {
		return forms.CashFlowForm(apiClient, id, log)
	},
	fromValues: forms.CashFlowFromValues,
	values:     forms.CashFlowInput.Values,
}

func newCashFlowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cashflow",
		Aliases: []string{"movimentacao", "movimentacoes"},
		Short:   "Manage cash-flow entries",
	}

	cmd.AddCommand(newCashFlowListCmd())
	cmd.AddCommand(newCashFlowGetCmd())
	cmd.AddCommand(newCashFlowSaveCmd("create"))
	cmd.AddCommand(newCashFlowSaveCmd("update"))
	cmd.AddCommand(newDeleteCmd("movimentação", screen.CashFlowConfig))

	return cmd
}

var cashFlowColumns = columns[client.CashFlowEntry]{
	headers: []string{"ID", "DATA", "DESCRIÇÃO", "CATEGORIA", "TIPO", "VALOR"},
	row: func(e client.CashFlowEntry) []string {
		ts := "-"
		if e.Timestamp != nil {
			ts = e.Timestamp.BR()
		}
		return []string{
			fmt.Sprint(e.ID),
			ts,
			truncate(e.Description, 30),
			e.Category.Label(),
			string(e.Type),
			brl(e.Signed()),
		}
	},
	id: func(e client.CashFlowEntry) int64 { return e.ID },
}

func newCashFlowListCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cash-flow entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := loadList(context.Background(), screen.CashFlowConfig(apiClient), lf.query())
			if err != nil {
				return err
			}
			if err := renderList(cmd, view, cashFlowColumns); err != nil {
				return err
			}

			if getOutputFormat() == "table" && !view.Empty {
				var total float64
				for _, e := range view.Items {
					total += e.Signed()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saldo da página: %s\n", brl(total))
			}
			return nil
		},
	}

	lf.register(cmd, "type", "filter by type: ENTRADA or SAIDA")
	return cmd
}

func newCashFlowGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a cash-flow entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := apiClient.CashFlow().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get cash-flow entry: %w", err)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, e)
			}
			ts := "-"
			if e.Timestamp != nil {
				ts = e.Timestamp.BR()
			}
			fmt.Fprintf(out, "ID:        %d\n", e.ID)
			fmt.Fprintf(out, "Descrição: %s\n", e.Description)
			fmt.Fprintf(out, "Valor:     %s\n", brl(e.Signed()))
			fmt.Fprintf(out, "Tipo:      %s\n", e.Type)
			fmt.Fprintf(out, "Categoria: %s\n", e.Category.Label())
			fmt.Fprintf(out, "Data:      %s\n", ts)
			return nil
		},
	}
}

func newCashFlowSaveCmd(verb string) *cobra.Command {
	use, short := "create", "Register a cash-flow entry"
	if verb == "update" {
		use, short = "update <id>", "Update a cash-flow entry; only the given flags change"
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
			e, err := cashFlowForm.save(context.Background(), cmd, cashFlowFields, id)
			if err != nil {
				return err
			}
			return printSaved(cmd, "movimentação", e.ID, e)
		},
	}

	addFieldFlags(cmd, cashFlowFields)
	return cmd
}
