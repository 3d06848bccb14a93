package cli

import (
	"context"
	"fmt"

	"github.com/fitpay/fitpay-admin/internal/forms"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/spf13/cobra"
)

var planFields = []field{
	{name: "nome", usage: "plan name"},
	{name: "valor", usage: "price, e.g. 89,90"},
	{name: "duracao_dias", usage: "duration in days"},
	{name: "descricao", usage: "description"},
}

var planForm = formHandlers[forms.PlanInput, client.Plan]{
	open:       func(id int64) *screen.Form[forms.PlanInput, client.Plan] { return forms.PlanForm(apiClient, id, log) },
	fromValues: forms.PlanFromValues,
	values:     forms.PlanInput.Values,
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Aliases: []string{"plano", "plans"},
		Short:   "Manage membership plans",
	}

	cmd.AddCommand(newPlanListCmd())
	cmd.AddCommand(newPlanGetCmd())
	cmd.AddCommand(newPlanSaveCmd("create"))
	cmd.AddCommand(newPlanSaveCmd("update"))
	cmd.AddCommand(newDeleteCmd("plano", screen.PlansConfig))

	return cmd
}

var planColumns = columns[client.Plan]{
	headers: []string{"ID", "NOME", "VALOR", "DURAÇÃO", "DESCRIÇÃO"},
	row: func(p client.Plan) []string {
		return []string{
			fmt.Sprint(p.ID),
			p.Name,
			brl(p.Price),
			fmt.Sprintf("%d dias", p.DurationDays),
			truncate(p.Description, 40),
		}
	},
	id: func(p client.Plan) int64 { return p.ID },
}

func newPlanListCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := loadList(context.Background(), screen.PlansConfig(apiClient), lf.query())
			if err != nil {
				return err
			}
			return renderList(cmd, view, planColumns)
		},
	}

	lf.register(cmd, "", "")
	return cmd
}

func newPlanGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := apiClient.Plans().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get plan: %w", err)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, p)
			}
			fmt.Fprintf(out, "ID:        %d\n", p.ID)
			fmt.Fprintf(out, "Nome:      %s\n", p.Name)
			fmt.Fprintf(out, "Valor:     %s\n", brl(p.Price))
			fmt.Fprintf(out, "Duração:   %d dias\n", p.DurationDays)
			fmt.Fprintf(out, "Descrição: %s\n", orDash(p.Description))
			return nil
		},
	}
}

func newPlanSaveCmd(verb string) *cobra.Command {
	use, short := "create", "Create a plan"
	if verb == "update" {
		use, short = "update <id>", "Update a plan; only the given flags change"
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
			p, err := planForm.save(context.Background(), cmd, planFields, id)
			if err != nil {
				return err
			}
			return printSaved(cmd, "plano", p.ID, p)
		},
	}

	addFieldFlags(cmd, planFields)
	return cmd
}
