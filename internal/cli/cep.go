package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitpay/fitpay-admin/internal/address"
	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/spf13/cobra"
)

func newCEPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cep <cep>",
		Short: "Look up a postal code on ViaCEP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := cepClient.Lookup(context.Background(), args[0])
			switch {
			case errors.Is(err, cep.ErrInvalidCEP):
				return fmt.Errorf("CEP deve ter 8 dígitos")
			case errors.Is(err, cep.ErrNotFound):
				return fmt.Errorf("%s", address.MsgNotFound)
			case err != nil:
				log.WithError(err).Debug("cep lookup failed")
				return fmt.Errorf("%s", address.MsgLookupError)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, res)
			}
			fmt.Fprintf(out, "CEP:        %s\n", cep.Format(res.CEP))
			fmt.Fprintf(out, "Logradouro: %s\n", orDash(res.Street))
			fmt.Fprintf(out, "Bairro:     %s\n", orDash(res.District))
			fmt.Fprintf(out, "Cidade:     %s\n", res.City)
			fmt.Fprintf(out, "UF:         %s\n", res.State)
			return nil
		},
	}
}

// fillAddressFlags completes the address flags from the postal code flag,
// leaving every flag the operator gave untouched.
func fillAddressFlags(cmd *cobra.Command, prefix string) {
	if !cmd.Flags().Changed(prefix + "cep") {
		return
	}
	code, _ := cmd.Flags().GetString(prefix + "cep")

	addr := &client.Address{CEP: code}
	fill := address.NewAutofill(cepClient, log).OnBlur(context.Background(), addr)
	if fill.Message != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), fill.Message)
	}
	if fill.Outcome != address.Filled {
		return
	}

	found := map[string]string{
		"logradouro": addr.Street,
		"bairro":     addr.District,
		"cidade":     addr.City,
		"uf":         addr.State,
	}
	for name, val := range found {
		if val != "" && !cmd.Flags().Changed(prefix+name) {
			_ = cmd.Flags().Set(prefix+name, val)
		}
	}
}
