package gateway

import (
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID correlaciona logs do gateway com os dos serviços
// internos; o forwarder repassa o valor em toda chamada interna.
const HeaderRequestID = "X-Request-Id"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(HeaderRequestID, id)
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}
