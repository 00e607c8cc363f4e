package gateway

import (
	"errors"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes limita corpos JSON (o upload de PDF não passa por aqui,
// vai em streaming direto para o serviço interno).
const maxBodyBytes = 10 << 20 // 10mb

var validate = validator.New()

// Esquemas das rotas mutantes. UserID nunca vem do cliente: o handler
// preenche com a identidade resolvida da sessão antes do forward.

type planRequest struct {
	Subject  string `json:"subject" validate:"required,max=200"`
	ExamDate string `json:"examDate" validate:"required"`
	UserID   string `json:"userId,omitempty"`
}

type resourceRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	UserID  string `json:"userId,omitempty"`
}

type chatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
	UserID  string `json:"userId,omitempty"`
}

type recoverRequest struct {
	Email string `json:"email" validate:"required,email"`
}

var errInvalidBody = errors.New("invalid request body")

// decodeAndValidate lê o corpo, decodifica e valida o esquema.
// Qualquer falha vira 400 para o cliente; o corpo original nunca é
// ecoado de volta.
func decodeAndValidate(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errInvalidBody
	}
	if len(body) == 0 {
		return errInvalidBody
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		return errInvalidBody
	}
	if err := validate.Struct(v); err != nil {
		return errInvalidBody
	}
	return nil
}
