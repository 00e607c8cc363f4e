// backend-stub é um serviço interno falso para rodar o gateway
// localmente: valida a presença dos headers injetados e devolve
// respostas enlatadas das rotas de plano/recursos/pdf.
package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
)

func main() {
	secret := os.Getenv("INTERNAL_SECRET")

	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/session", func(w http.ResponseWriter, r *http.Request) {
		// qualquer token não vazio vira o usuário de teste
		body, _ := io.ReadAll(io.LimitReader(r.Body, 1<<16))
		var in struct {
			Token string `json:"token"`
		}
		if err := sonic.Unmarshal(body, &in); err != nil || strings.TrimSpace(in.Token) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"userId": "stub-user-1"})
	})

	guarded := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if secret != "" && r.Header.Get("x-internal-secret") != secret {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("/generate-plan", guarded(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"plan":   map[string]string{"subject": "stub", "owner": r.Header.Get("x-user-id")},
			"userId": r.Header.Get("x-user-id"),
		})
	}))
	mux.HandleFunc("/generate-plan/", guarded(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"plans": []any{}})
	}))
	mux.HandleFunc("/curate-resources", guarded(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"resources": []any{}})
	}))
	mux.HandleFunc("/curate-resources/", guarded(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"resources": []any{}})
	}))
	mux.HandleFunc("/pdf", guarded(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"pdfs": []any{}})
	}))
	mux.HandleFunc("/pdf/", guarded(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "path": r.URL.Path})
	}))
	mux.HandleFunc("/auth/recover", guarded(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "If an account with that email exists, recovery credentials have been sent.",
		})
	}))

	addr := ":5000"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("backend stub listening on %s (secret configured=%v)", addr, secret != "")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, _ := sonic.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
