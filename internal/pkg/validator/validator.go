package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fitpay/fitpay-admin/internal/pkg/cpf"
	"github.com/fitpay/fitpay-admin/pkg/cep"
)

// Validator wraps go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

var (
	ufPattern      = regexp.MustCompile(`^[A-Za-z]{2}$`)
	decimalPattern = regexp.MustCompile(`^\d+([.,]\d{1,2})?$`)
)

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Register custom tag name function to use json tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "cpf", func(fl validator.FieldLevel) bool {
		return cpf.Valid(fl.Field().String())
	})
	mustRegister(v, "cep", func(fl validator.FieldLevel) bool {
		return cep.Valid(fl.Field().String())
	})
	mustRegister(v, "uf", func(fl validator.FieldLevel) bool {
		return ufPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	// decimal accepts "89.90" and "89,90" and must be > 0.
	mustRegister(v, "decimal", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if !decimalPattern.MatchString(s) {
			return false
		}
		f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		return err == nil && f > 0
	})
	mustRegister(v, "posint", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n > 0
	})

	return &Validator{
		validate: v,
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate validates a struct
func (v *Validator) Validate(i interface{}) []ValidationError {
	var validationErrors []ValidationError

	err := v.validate.Struct(i)
	if err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []ValidationError{{Message: err.Error()}}
		}
		for _, err := range fieldErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fieldPath(err),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: msgForTag(err),
			})
		}
	}

	return validationErrors
}

// fieldPath drops the top-level struct name: "StudentInput.endereco.cep" -> "endereco.cep".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// msgForTag returns a human-readable message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", field)
	case "email":
		return fmt.Sprintf("%s deve ser um e-mail válido", field)
	case "min":
		return fmt.Sprintf("%s deve ter pelo menos %s caracteres", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s deve ter exatamente %s caracteres", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s deve ser um de [%s]", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s deve ser numérico", field)
	case "cpf":
		return "CPF inválido. Verifique os números digitados."
	case "cep":
		return "CEP deve ter 8 dígitos."
	case "uf":
		return "UF deve ter 2 letras."
	case "decimal":
		return fmt.Sprintf("%s deve ser um valor maior que zero (ex.: 89,90)", field)
	case "posint":
		return fmt.Sprintf("%s deve ser um número inteiro maior que zero", field)
	case "datetime":
		return fmt.Sprintf("%s deve ser uma data válida", field)
	default:
		return fmt.Sprintf("%s falhou na validação: %s", field, fe.Tag())
	}
}

var (
	globalValidator *Validator
	initOnce        sync.Once
)

// Init initializes the global validator
func Init() {
	initOnce.Do(func() {
		globalValidator = New()
	})
}

// Validate validates a struct using the global validator
func Validate(i interface{}) []ValidationError {
	Init()
	return globalValidator.Validate(i)
}

// Fields flattens errors into field -> message, keeping the first message per field.
func Fields(errs []ValidationError) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}
