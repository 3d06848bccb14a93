package validator

import "testing"

type sample struct {
	Name     string `json:"nome" validate:"required"`
	CPF      string `json:"cpf" validate:"required,cpf"`
	Email    string `json:"email" validate:"required,email"`
	Price    string `json:"valor" validate:"required,decimal"`
	Duration string `json:"duracao_dias" validate:"required,posint"`
	Address  struct {
		CEP string `json:"cep" validate:"required,cep"`
		UF  string `json:"uf" validate:"required,uf"`
	} `json:"endereco"`
}

func validSample() sample {
	s := sample{
		Name:     "Ana",
		CPF:      "529.982.247-25",
		Email:    "ana@example.com",
		Price:    "89,90",
		Duration: "30",
	}
	s.Address.CEP = "01001-000"
	s.Address.UF = "SP"
	return s
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*sample)
		wantField string
		wantTag   string
	}{
		{"valid", func(*sample) {}, "", ""},
		{"missing name", func(s *sample) { s.Name = "" }, "nome", "required"},
		{"bad cpf", func(s *sample) { s.CPF = "111.111.111-11" }, "cpf", "cpf"},
		{"bad email", func(s *sample) { s.Email = "ana" }, "email", "email"},
		{"zero price", func(s *sample) { s.Price = "0,00" }, "valor", "decimal"},
		{"price with letters", func(s *sample) { s.Price = "R$ 10" }, "valor", "decimal"},
		{"dot price ok", func(s *sample) { s.Price = "89.9" }, "", ""},
		{"negative duration", func(s *sample) { s.Duration = "-1" }, "duracao_dias", "posint"},
		{"short cep", func(s *sample) { s.Address.CEP = "0100100" }, "endereco.cep", "cep"},
		{"long uf", func(s *sample) { s.Address.UF = "SPX" }, "endereco.uf", "uf"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.mutate(&s)
			errs := v.Validate(s)

			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("Validate() = %+v, want no errors", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("Validate() = %+v, want exactly one error", errs)
			}
			if errs[0].Field != tt.wantField || errs[0].Tag != tt.wantTag {
				t.Errorf("Validate() = %s/%s, want %s/%s", errs[0].Field, errs[0].Tag, tt.wantField, tt.wantTag)
			}
			if errs[0].Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

func TestCPFMessage(t *testing.T) {
	s := validSample()
	s.CPF = "123.456.789-00"
	fields := Fields(Validate(s))
	if fields["cpf"] != "CPF inválido. Verifique os números digitados." {
		t.Errorf("cpf message = %q", fields["cpf"])
	}
}
