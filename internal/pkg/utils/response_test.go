package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/pkg/cep"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantCode   string
	}{
		{"cep not found", cep.ErrNotFound, http.StatusNotFound, "CEP não encontrado.", "NOT_FOUND"},
		{"invalid cep", cep.ErrInvalidCEP, http.StatusUnprocessableEntity, "CEP não encontrado.", "VALIDATION_ERROR"},
		{"validation", errors.Validation("CEP deve ter 8 dígitos.", map[string]string{"cep": "x"}), http.StatusUnprocessableEntity, "CEP deve ter 8 dígitos.", "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err, "CEP não encontrado."); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success || resp.Error.Message != tt.wantMsg || resp.Error.Code != tt.wantCode {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}
