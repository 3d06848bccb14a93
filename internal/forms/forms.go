// Package forms holds the operator input of every entity form: raw strings as
// typed in a flag or an HTML field, validated and parsed into client types.
package forms

import (
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/validator"
)

// check runs the struct tags of in. The first message becomes the banner.
func check(in interface{}) error {
	errs := validator.Validate(in)
	if len(errs) == 0 {
		return nil
	}
	return apperrors.Validation(errs[0].Message, validator.Fields(errs))
}

// parseDecimal accepts "89,90" as well as "89.90".
func parseDecimal(s string) float64 {
	f, _ := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
	return f
}

func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func value(v url.Values, key string) string {
	return strings.TrimSpace(v.Get(key))
}

func checked(v url.Values, key string) bool {
	switch strings.ToLower(v.Get(key)) {
	case "on", "true", "1", "sim":
		return true
	default:
		return false
	}
}
