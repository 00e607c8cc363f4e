package gateway

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"academiq-gateway/gateway/application"
	"academiq-gateway/gateway/domain"
)

// Forwarder monta a chamada interna a partir da requisição pública e
// repassa a resposta do serviço interno sem reempacotar.
//
// Regras:
//   - toda chamada sai com x-internal-secret, x-user-id (quando há
//     sessão) e X-Request-Id injetados;
//   - timeout limitado: serviço pendurado vira 503, nunca requisição
//     eterna;
//   - o contexto da requisição de entrada propaga: cliente que
//     desconecta cancela a chamada interna em voo;
//   - resposta do serviço interno (sucesso ou erro) passa com status e
//     corpo inalterados (um 404 de lá continua 404 aqui);
//   - falha de transporte vira 503 com corpo genérico; o motivo real
//     só vai para o log.
type Forwarder struct {
	base   *url.URL
	client *http.Client
	gate   *SecretGate
	slots  application.SlotsService

	retryGET     bool
	retryBackoff time.Duration
}

type ForwarderOption func(*Forwarder)

// WithSlots limita as chamadas internas em voo (semáforo). Protege os
// serviços de IA de uma rajada que o rate limit por IP não segura.
func WithSlots(pool domain.SlotPool, acquireTimeout time.Duration) ForwarderOption {
	return func(f *Forwarder) {
		f.slots = application.SlotsService{Pool: pool, AcquireTimeout: acquireTimeout}
	}
}

// WithGETRetry habilita uma única retentativa com backoff curto, só
// para GET. Chamadas mutantes nunca são repetidas.
func WithGETRetry(enabled bool) ForwarderOption {
	return func(f *Forwarder) { f.retryGET = enabled }
}

func WithHTTPClient(c *http.Client) ForwarderOption {
	return func(f *Forwarder) { f.client = c }
}

func NewForwarder(baseURL string, timeout time.Duration, gate *SecretGate, opts ...ForwarderOption) (*Forwarder, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("downstream base URL must be absolute")
	}

	f := &Forwarder{
		base:         base,
		client:       &http.Client{Timeout: timeout},
		gate:         gate,
		retryBackoff: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Forward emite method+path contra a base interna e escreve a resposta.
// body pode ser nil (GET/DELETE). contentType vazio omite o header.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, method, path string, body io.Reader, contentType string) {
	ctx := r.Context()

	release, ok := f.slots.Acquire(ctx)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	defer release()

	resp, err := f.send(ctx, r, method, path, body, contentType)
	if err != nil && f.retryGET && method == http.MethodGet && ctx.Err() == nil {
		select {
		case <-ctx.Done():
		case <-time.After(f.retryBackoff):
			resp, err = f.send(ctx, r, method, path, nil, contentType)
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			// cliente desistiu; a chamada interna já foi cancelada junto
			log.Printf("gateway: client gone during %s %s: %v", method, path, ctx.Err())
			return
		}
		log.Printf("gateway: downstream %s %s failed: %v", method, path, err)
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("gateway: streaming downstream response for %s %s: %v", method, path, err)
	}
}

// send monta e emite a requisição interna. path já chega escapado
// segmento a segmento pelos handlers, então a URL é concatenada como
// texto: parsear de novo em url.URL e reescapar mandaria %20 como
// %2520 para o serviço interno.
func (f *Forwarder) send(ctx context.Context, r *http.Request, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	target := strings.TrimRight(f.base.String(), "/") + path

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	userID := ""
	if id, ok := IdentityFrom(ctx); ok {
		userID = id.UserID
	}
	f.gate.Inject(req.Header, userID)

	if rid := r.Header.Get(HeaderRequestID); rid != "" {
		req.Header.Set(HeaderRequestID, rid)
	}

	return f.client.Do(req)
}
