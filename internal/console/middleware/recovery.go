package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/pkg/utils"
)

// PanicPage writes the response for a request whose handler panicked.
type PanicPage func(w http.ResponseWriter, r *http.Request)

// Recovery turns a handler panic into a logged 500. Requests under /api/ get
// the JSON error envelope; everything else goes to page, or plain text when
// page is nil.
func Recovery(log *logger.Logger, page PanicPage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				log.WithFields(map[string]interface{}{
					"panic":      fmt.Sprint(v),
					"stack":      string(debug.Stack()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"request_id": GetRequestID(r),
				}).Error("Panic recovered")

				switch {
				case isAPI(r):
					appErr := errors.Internal("Erro interno do servidor.", fmt.Errorf("panic: %v", v))
					_ = utils.WriteError(w, appErr, appErr.Message)
				case page != nil:
					page(w, r)
				default:
					http.Error(w, "Erro interno do servidor.", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
