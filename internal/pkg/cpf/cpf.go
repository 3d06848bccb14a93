// Package cpf checks Brazilian individual taxpayer numbers.
package cpf

import (
	"strings"

	"github.com/fitpay/fitpay-admin/pkg/digits"
)

// Clean strips everything but digits.
func Clean(s string) string {
	return digits.Only(s)
}

// Valid runs the two-pass modulo-11 check on the 11 digits of s.
// Sequences of one repeated digit pass the arithmetic but are rejected.
func Valid(s string) bool {
	d := Clean(s)
	if len(d) != 11 {
		return false
	}
	if strings.Count(d, d[:1]) == 11 {
		return false
	}

	digits := make([]int, 11)
	for i, r := range d {
		digits[i] = int(r - '0')
	}

	return checkDigit(digits[:9]) == digits[9] && checkDigit(digits[:10]) == digits[10]
}

func checkDigit(digits []int) int {
	sum := 0
	weight := len(digits) + 1
	for _, d := range digits {
		sum += d * weight
		weight--
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// Format renders 11 digits as "000.000.000-00". Other input is returned cleaned.
func Format(s string) string {
	d := Clean(s)
	if len(d) != 11 {
		return d
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}
