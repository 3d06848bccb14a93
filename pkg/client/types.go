package client

// Page is the paginated envelope returned by every findall endpoint (Spring Page).
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// Ref is a nested reference to another entity, serialized as {"id": n}.
type Ref struct {
	ID int64 `json:"id"`
}

// Address is a postal address, standalone or nested in a student.
type Address struct {
	ID         int64  `json:"id,omitempty"`
	CEP        string `json:"cep"`
	Street     string `json:"logradouro"`
	Number     string `json:"numero"`
	Complement string `json:"complemento"`
	District   string `json:"bairro"`
	City       string `json:"cidade"`
	State      string `json:"uf"`
}

// Student represents a gym member (aluno)
type Student struct {
	ID             int64    `json:"id,omitempty"`
	Name           string   `json:"nome"`
	CPF            string   `json:"cpf"`
	Email          string   `json:"email"`
	Phone          string   `json:"telefone"`
	EnrollmentDate *Date    `json:"data_matricula"`
	Active         bool     `json:"ativo"`
	Address        *Address `json:"endereco,omitempty"`
}

// Plan represents a membership plan
type Plan struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"nome"`
	Price        float64 `json:"valor"`
	DurationDays int     `json:"duracao_dias"`
	Description  string  `json:"descricao"`
}

// EnrollmentStatus is the lifecycle state of an enrollment
type EnrollmentStatus string

const (
	StatusActive    EnrollmentStatus = "ATIVO"
	StatusPending   EnrollmentStatus = "PENDENTE"
	StatusCancelled EnrollmentStatus = "CANCELADO"
	StatusExpired   EnrollmentStatus = "EXPIRADO"
	StatusLocked    EnrollmentStatus = "TRANCADO"
)

// EnrollmentStatuses lists every status in display order.
var EnrollmentStatuses = []EnrollmentStatus{
	StatusActive, StatusPending, StatusCancelled, StatusExpired, StatusLocked,
}

// IsValid reports whether s is a known status.
func (s EnrollmentStatus) IsValid() bool {
	for _, known := range EnrollmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentMethod identifies how an enrollment or payment was paid
type PaymentMethod string

const (
	MethodPix        PaymentMethod = "PIX"
	MethodCard       PaymentMethod = "CARTAO"
	MethodCash       PaymentMethod = "DINHEIRO"
	MethodCreditCard PaymentMethod = "CARTAO_CREDITO"
	MethodDebitCard  PaymentMethod = "CARTAO_DEBITO"
	MethodBankSlip   PaymentMethod = "BOLETO"
)

// EnrollmentMethods are the methods accepted when activating an enrollment.
var EnrollmentMethods = []PaymentMethod{MethodPix, MethodCard, MethodCash}

// PaymentMethods are the methods accepted when registering a payment.
var PaymentMethods = []PaymentMethod{MethodPix, MethodCash, MethodCreditCard, MethodDebitCard, MethodBankSlip}

// Label returns the display name of the method.
func (m PaymentMethod) Label() string {
	switch m {
	case MethodPix:
		return "PIX"
	case MethodCard:
		return "Cartão"
	case MethodCash:
		return "Dinheiro"
	case MethodCreditCard:
		return "Cartão de Crédito"
	case MethodDebitCard:
		return "Cartão de Débito"
	case MethodBankSlip:
		return "Boleto"
	default:
		return string(m)
	}
}

// Enrollment is the contract between a student and a plan (matricula)
type Enrollment struct {
	ID            int64            `json:"id"`
	Student       *Student         `json:"aluno,omitempty"`
	Plan          *Plan            `json:"plano,omitempty"`
	StartDate     Date             `json:"data_inicio"`
	EndDate       Date             `json:"data_fim"`
	Status        EnrollmentStatus `json:"status"`
	ClosedPrice   float64          `json:"valor_fechado"`
	PaymentMethod PaymentMethod    `json:"metodo_pagamento"`
}

// StudentName returns the nested student name, if loaded.
func (e Enrollment) StudentName() string {
	if e.Student == nil {
		return ""
	}
	return e.Student.Name
}

// PlanName returns the nested plan name, if loaded.
func (e Enrollment) PlanName() string {
	if e.Plan == nil {
		return ""
	}
	return e.Plan.Name
}

// EnrollmentRequest is the body of matriculas/save and matriculas/update.
type EnrollmentRequest struct {
	ID            int64            `json:"id,omitempty"`
	Student       Ref              `json:"aluno"`
	Plan          Ref              `json:"plano"`
	StartDate     Date             `json:"data_inicio"`
	EndDate       Date             `json:"data_fim"`
	PaymentMethod *PaymentMethod   `json:"metodo_pagamento"`
	ClosedPrice   *float64         `json:"valor_fechado,omitempty"`
	Status        EnrollmentStatus `json:"status"`
}

// RequestFor rebuilds the update request of an existing enrollment.
func RequestFor(e Enrollment) EnrollmentRequest {
	req := EnrollmentRequest{
		ID:        e.ID,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		Status:    e.Status,
	}
	if e.Student != nil {
		req.Student = Ref{ID: e.Student.ID}
	}
	if e.Plan != nil {
		req.Plan = Ref{ID: e.Plan.ID}
	}
	if e.PaymentMethod != "" {
		m := e.PaymentMethod
		req.PaymentMethod = &m
	}
	if e.ClosedPrice != 0 {
		price := e.ClosedPrice
		req.ClosedPrice = &price
	}
	return req
}

// Payment is a monthly fee payment tied to an enrollment (pagamento)
type Payment struct {
	ID            int64         `json:"id"`
	AmountPaid    float64       `json:"valor_pago"`
	Period        string        `json:"referencia_periodo"`
	PaymentMethod PaymentMethod `json:"metodo_pagamento"`
	PaidAt        *Date         `json:"data_pagamento,omitempty"`
	Enrollment    *Ref          `json:"contrato_aluno,omitempty"`
	EnrollmentID  int64         `json:"contrato_id,omitempty"`
}

// EnrollmentRef returns the referenced enrollment id from either representation.
func (p Payment) EnrollmentRef() int64 {
	if p.Enrollment != nil && p.Enrollment.ID != 0 {
		return p.Enrollment.ID
	}
	return p.EnrollmentID
}

// PaymentRequest is the body of pagamentos/save and pagamentos/update.
type PaymentRequest struct {
	ID            int64         `json:"id,omitempty"`
	AmountPaid    float64       `json:"valor_pago"`
	Period        string        `json:"referencia_periodo"`
	PaymentMethod PaymentMethod `json:"metodo_pagamento"`
	Enrollment    Ref           `json:"contrato_aluno"`
}

// EntryType is the direction of a cash-flow entry
type EntryType string

const (
	EntryIncome  EntryType = "ENTRADA"
	EntryExpense EntryType = "SAIDA"
)

// EntryCategory classifies a cash-flow entry
type EntryCategory string

const (
	CategoryMonthlyFee EntryCategory = "MENSALIDADE"
	CategoryRent       EntryCategory = "ALUGUEL"
	CategorySalary     EntryCategory = "SALARIO"
	CategorySupplies   EntryCategory = "COMPRA_MATERIAL"
	CategoryPower      EntryCategory = "CONTA_LUZ"
	CategoryWater      EntryCategory = "CONTA_AGUA"
	CategoryInternet   EntryCategory = "INTERNET"
	CategoryUpkeep     EntryCategory = "MANUTENCAO"
	CategoryOther      EntryCategory = "OUTROS"
)

// ManualCategories are the categories an operator may pick by hand.
// MENSALIDADE entries are generated by the backend from payments.
var ManualCategories = []EntryCategory{
	CategoryRent, CategorySalary, CategorySupplies, CategoryPower,
	CategoryWater, CategoryInternet, CategoryUpkeep, CategoryOther,
}

// Label returns the display name of the category.
func (c EntryCategory) Label() string {
	switch c {
	case CategoryMonthlyFee:
		return "Mensalidade"
	case CategoryRent:
		return "Aluguel"
	case CategorySalary:
		return "Salário"
	case CategorySupplies:
		return "Compra de Material"
	case CategoryPower:
		return "Conta de Luz"
	case CategoryWater:
		return "Conta de Água"
	case CategoryInternet:
		return "Internet"
	case CategoryUpkeep:
		return "Manutenção"
	case CategoryOther:
		return "Outros"
	default:
		return string(c)
	}
}

// CashFlowEntry is a manual ledger line (movimentacao financeira)
type CashFlowEntry struct {
	ID          int64         `json:"id,omitempty"`
	Description string        `json:"descricao"`
	Amount      float64       `json:"valor"`
	Type        EntryType     `json:"tipo_movimentacao"`
	Category    EntryCategory `json:"categoria_movimentacao"`
	Timestamp   *DateTime     `json:"data_hora"`
}

// Signed returns the amount with the sign implied by the entry type.
func (e CashFlowEntry) Signed() float64 {
	if e.Type == EntryExpense {
		return -e.Amount
	}
	return e.Amount
}
