package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fitpay/fitpay-admin/internal/dashboard"
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			sum := dashboard.NewService(apiClient, log).Load(context.Background())

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, sum)
			}

			fmt.Fprintln(out, "Painel Administrativo")
			fmt.Fprintln(out, strings.Repeat("=", 40))
			for _, c := range sum.Cards() {
				value := fmt.Sprint(c.Value)
				if c.Err != nil {
					value = c.Error
				}
				fmt.Fprintf(out, "  %-24s %8s  %s\n", c.Title+":", value, c.Caption)
			}
			return nil
		},
	}
}
