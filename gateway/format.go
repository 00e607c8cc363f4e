// utilitário pequeno para formatação rápida/consistente de valores
// numéricos em headers, sem puxar fmt só para isso.

package gateway

import (
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

// retryAfterSeconds arredonda para cima: melhor mandar o cliente
// esperar 1s a mais do que devolver Retry-After: 0 com janela viva.
func retryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
