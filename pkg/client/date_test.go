package client

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain date", `"2026-01-31"`, "2026-01-31", false},
		{"timestamp truncated", `"2026-01-31T10:00:00"`, "2026-01-31", false},
		{"null", `null`, "", false},
		{"empty", `""`, "", false},
		{"garbage", `"31/01/2026"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.in), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := d.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStudentNullEnrollmentDate(t *testing.T) {
	b, err := json.Marshal(Student{Name: "Ana"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var m map[string]interface{}
	json.Unmarshal(b, &m)

	v, ok := m["data_matricula"]
	if !ok || v != nil {
		t.Errorf("data_matricula = %v (present %v), want explicit null", v, ok)
	}
	if _, ok := m["id"]; ok {
		t.Error("zero id should be omitted")
	}
}

func TestDateTimeParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-03-10T14:30", "2026-03-10T14:30:00"},
		{"2026-03-10T14:30:15", "2026-03-10T14:30:15"},
		{"2026-03-10T14:30:15.123", "2026-03-10T14:30:15"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDateTime(tt.in)
			if err != nil {
				t.Fatalf("ParseDateTime() error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDateTime() = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := ParseDateTime("amanhã"); err == nil {
		t.Error("ParseDateTime() should reject free text")
	}
}

func TestDateFormatting(t *testing.T) {
	d := NewDate(2026, time.February, 5)
	if got := d.BR(); got != "05/02/2026" {
		t.Errorf("BR() = %q", got)
	}
	if got := (Date{}).BR(); got != "-" {
		t.Errorf("zero BR() = %q, want -", got)
	}
	noon := d.In(time.Local, 12)
	if noon.Hour() != 12 || noon.Day() != 5 {
		t.Errorf("In() = %v", noon)
	}
}
