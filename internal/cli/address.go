package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fitpay/fitpay-admin/internal/forms"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/spf13/cobra"
)

var addressFields = []field{
	{name: "cep", usage: "postal code"},
	{name: "logradouro", usage: "street"},
	{name: "numero", usage: "number"},
	{name: "complemento", usage: "complement"},
	{name: "bairro", usage: "district"},
	{name: "cidade", usage: "city"},
	{name: "uf", usage: "state (UF)"},
}

var addressForm = formHandlers[forms.AddressInput, client.Address]{
	open:       func(id int64) *screen.Form[forms.AddressInput, client.Address] { return forms.AddressForm(apiClient, id, log) },
	fromValues: func(v url.Values) forms.AddressInput { return forms.AddressFromValues(v, "") },
	values:     func(in forms.AddressInput) url.Values { return in.Values("") },
}

func newAddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "address",
		Aliases: []string{"endereco", "addresses"},
		Short:   "Manage addresses",
	}

	cmd.AddCommand(newAddressListCmd())
	cmd.AddCommand(newAddressGetCmd())
	cmd.AddCommand(newAddressSaveCmd("create"))
	cmd.AddCommand(newAddressSaveCmd("update"))
	cmd.AddCommand(newDeleteCmd("endereço", screen.AddressesConfig))

	return cmd
}

var addressColumns = columns[client.Address]{
	headers: []string{"ID", "CEP", "LOGRADOURO", "NÚMERO", "BAIRRO", "CIDADE", "UF"},
	row: func(a client.Address) []string {
		return []string{
			fmt.Sprint(a.ID),
			cep.Format(a.CEP),
			truncate(a.Street, 30),
			a.Number,
			a.District,
			a.City,
			a.State,
		}
	},
	id: func(a client.Address) int64 { return a.ID },
}

func newAddressListCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := loadList(context.Background(), screen.AddressesConfig(apiClient), lf.query())
			if err != nil {
				return err
			}
			return renderList(cmd, view, addressColumns)
		},
	}

	lf.register(cmd, "", "")
	return cmd
}

func newAddressGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := apiClient.Addresses().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get address: %w", err)
			}
			if getOutputFormat() != "table" {
				return printOutput(cmd.OutOrStdout(), a)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", a.ID, formatAddress(*a))
			return nil
		},
	}
}

func newAddressSaveCmd(verb string) *cobra.Command {
	var autofill bool

	use, short := "create", "Create an address"
	if verb == "update" {
		use, short = "update <id>", "Update an address; only the given flags change"
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
				fillAddressFlags(cmd, "")
			}
			a, err := addressForm.save(context.Background(), cmd, addressFields, id)
			if err != nil {
				return err
			}
			return printSaved(cmd, "endereço", a.ID, a)
		},
	}

	addFieldFlags(cmd, addressFields)
	cmd.Flags().BoolVar(&autofill, "autofill", true, "complete street, district, city and state from the postal code")
	return cmd
}
