package gateway

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
)

const contentTypeJSON = "application/json"

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "AcademIQ gateway is running",
	})
}

// POST /api/auth/recover: rota sem sessão. O serviço interno responde
// sempre com a mesma mensagem, exista a conta ou não.
func (g *Gateway) handleRecover(w http.ResponseWriter, r *http.Request) {
	var in recoverRequest
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	body, err := sonic.Marshal(in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	g.fwd.Forward(w, r, http.MethodPost, "/auth/recover", bytes.NewReader(body), contentTypeJSON)
}

// --- study plan ---

func (g *Gateway) handleListPlans(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	g.fwd.Forward(w, r, http.MethodGet, "/generate-plan/"+url.PathEscape(id.UserID), nil, contentTypeJSON)
}

func (g *Gateway) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var in planRequest
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "subject and examDate are required")
		return
	}

	id, _ := IdentityFrom(r.Context())
	in.UserID = id.UserID

	body, err := sonic.Marshal(in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	g.fwd.Forward(w, r, http.MethodPost, "/generate-plan", bytes.NewReader(body), contentTypeJSON)
}

func (g *Gateway) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	planID := r.URL.Query().Get("planId")
	if planID == "" {
		writeError(w, http.StatusBadRequest, "planId is required")
		return
	}
	g.fwd.Forward(w, r, http.MethodDelete, "/generate-plan/"+url.PathEscape(planID), nil, contentTypeJSON)
}

// --- curated resources ---

func (g *Gateway) handleListResources(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	g.fwd.Forward(w, r, http.MethodGet, "/curate-resources/"+url.PathEscape(id.UserID), nil, contentTypeJSON)
}

func (g *Gateway) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var in resourceRequest
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}

	id, _ := IdentityFrom(r.Context())
	in.UserID = id.UserID

	body, err := sonic.Marshal(in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	g.fwd.Forward(w, r, http.MethodPost, "/curate-resources", bytes.NewReader(body), contentTypeJSON)
}

func (g *Gateway) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	resourceID := r.URL.Query().Get("resourceId")
	if resourceID == "" {
		writeError(w, http.StatusBadRequest, "resourceId is required")
		return
	}
	g.fwd.Forward(w, r, http.MethodDelete, "/curate-resources/"+url.PathEscape(resourceID), nil, contentTypeJSON)
}

// --- pdf ---

func (g *Gateway) handleListPDFs(w http.ResponseWriter, r *http.Request) {
	g.fwd.Forward(w, r, http.MethodGet, "/pdf", nil, contentTypeJSON)
}

// Upload vai em streaming: o corpo multipart passa direto para o
// serviço interno, preservando o Content-Type (boundary incluso).
func (g *Gateway) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	g.fwd.Forward(w, r, http.MethodPost, "/pdf/upload", r.Body, r.Header.Get("Content-Type"))
}

func (g *Gateway) handleDeletePDF(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Document ID is required")
		return
	}
	g.fwd.Forward(w, r, http.MethodDelete, "/pdf/"+url.PathEscape(id), nil, contentTypeJSON)
}

func (g *Gateway) handleFetchPDF(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")
	g.fwd.Forward(w, r, http.MethodGet, "/pdf/"+url.PathEscape(documentID), nil, contentTypeJSON)
}

func (g *Gateway) handleChatPDF(w http.ResponseWriter, r *http.Request) {
	var in chatRequest
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	id, _ := IdentityFrom(r.Context())
	in.UserID = id.UserID

	body, err := sonic.Marshal(in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	documentID := chi.URLParam(r, "documentID")
	g.fwd.Forward(w, r, http.MethodPost, "/pdf/"+url.PathEscape(documentID)+"/chat", bytes.NewReader(body), contentTypeJSON)
}

// --- internal ---

func (g *Gateway) handleStats(w http.ResponseWriter, _ *http.Request) {
	if g.memory == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "stats disabled"})
		return
	}
	writeJSON(w, http.StatusOK, g.memory.Snapshot())
}
