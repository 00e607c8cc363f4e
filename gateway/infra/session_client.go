package infra

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"academiq-gateway/gateway/domain"
)

// SessionClient valida credenciais de sessão contra o provedor de auth
// via HTTP (colaborador externo do gateway).
//
// Contrato do endpoint: POST {"token": "..."} e resposta 200 com
// {"userId": "..."} quando a sessão é válida. Qualquer outra resposta
// vira ErrUnauthenticated (o motivo não interessa ao gateway).
type SessionClient struct {
	endpoint string
	client   *http.Client
}

func NewSessionClient(endpoint string, timeout time.Duration) *SessionClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SessionClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID string `json:"userId"`
}

func (c *SessionClient) Verify(ctx context.Context, token string) (domain.Identity, error) {
	payload, err := sonic.Marshal(verifyRequest{Token: token})
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	var out verifyResponse
	if err := sonic.Unmarshal(body, &out); err != nil || out.UserID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	return domain.Identity{UserID: out.UserID}, nil
}
