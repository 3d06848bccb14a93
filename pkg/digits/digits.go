// Package digits normalizes Brazilian document and postal numbers typed with punctuation.
package digits

import "strings"

// Only keeps the ASCII digits of s, in order.
func Only(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
