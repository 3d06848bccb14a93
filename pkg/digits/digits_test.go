package digits

import "testing"

func TestOnly(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuated cpf", "529.982.247-25", "52998224725"},
		{"punctuated cep", " 01001-000 ", "01001000"},
		{"non-ascii digits dropped", "12３4", "124"},
		{"empty", "", ""},
		{"no digits", "abc-.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Only(tt.in); got != tt.want {
				t.Errorf("Only(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
