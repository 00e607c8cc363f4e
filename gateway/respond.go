package gateway

import (
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// errorBody é o envelope único de erro do gateway. Nunca carrega
// detalhe de transporte, stack trace nem valor de secret.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		log.Printf("gateway: marshal response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration, msg string) {
	w.Header().Set("Retry-After", formatInt(retryAfterSeconds(retryAfter)))
	writeError(w, http.StatusTooManyRequests, msg)
}
