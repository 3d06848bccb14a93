package forms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// AddressInput is the address block, standalone or nested in the student form.
// ID carries the stored address through a student edit; 0 means a new one.
type AddressInput struct {
	ID         int64  `json:"id,omitempty"`
	CEP        string `json:"cep" validate:"required,cep"`
	Street     string `json:"logradouro" validate:"required"`
	Number     string `json:"numero" validate:"required"`
	Complement string `json:"complemento"`
	District   string `json:"bairro" validate:"required"`
	City       string `json:"cidade" validate:"required"`
	State      string `json:"uf" validate:"required,uf"`
}

// IsBlank reports whether no address field was filled in. The id alone does
// not count.
func (in AddressInput) IsBlank() bool {
	in.ID = 0
	return in == AddressInput{}
}

// Parse validates the input and builds the address.
func (in AddressInput) Parse() (client.Address, error) {
	if err := check(in); err != nil {
		return client.Address{}, err
	}
	return in.address(), nil
}

func (in AddressInput) address() client.Address {
	return client.Address{
		ID:         in.ID,
		CEP:        cep.Clean(in.CEP),
		Street:     in.Street,
		Number:     in.Number,
		Complement: in.Complement,
		District:   in.District,
		City:       in.City,
		State:      strings.ToUpper(in.State),
	}
}

// FromAddress pre-fills the input from a stored address.
func FromAddress(a client.Address) AddressInput {
	return AddressInput{
		ID:         a.ID,
		CEP:        cep.Format(a.CEP),
		Street:     a.Street,
		Number:     a.Number,
		Complement: a.Complement,
		District:   a.District,
		City:       a.City,
		State:      a.State,
	}
}

// AddressFromValues reads the address fields, each name prefixed with prefix.
func AddressFromValues(v url.Values, prefix string) AddressInput {
	id, _ := strconv.ParseInt(value(v, prefix+"id"), 10, 64)
	return AddressInput{
		ID:         max(id, 0),
		CEP:        value(v, prefix+"cep"),
		Street:     value(v, prefix+"logradouro"),
		Number:     value(v, prefix+"numero"),
		Complement: value(v, prefix+"complemento"),
		District:   value(v, prefix+"bairro"),
		City:       value(v, prefix+"cidade"),
		State:      value(v, prefix+"uf"),
	}
}

// AddressForm is the standalone endereco form.
func AddressForm(c *client.Client, id int64, log *logger.Logger) *screen.Form[AddressInput, client.Address] {
	return screen.NewForm(screen.FormConfig[AddressInput, client.Address]{
		Entity:     "enderecos",
		Get:        c.Addresses().Get,
		Create:     c.Addresses().Create,
		Update:     c.Addresses().Update,
		Parse:      AddressInput.Parse,
		FromEntity: FromAddress,
		SetID:      func(a *client.Address, id int64) { a.ID = id },
		SaveError:  "Erro ao salvar endereço.",
		LoadError:  "Erro ao carregar endereço.",
		Logger:     log,
	}, id)
}
