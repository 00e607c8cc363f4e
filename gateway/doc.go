// Package gateway é a fronteira de confiança entre os clientes
// públicos e os serviços internos de IA do AcademIQ.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, autenticação, vagas)
//   - infra: implementações concretas (janela fixa, stats, semáforo, auth client)
//   - gateway (este pacote): middlewares HTTP, rotas e tradução para status/headers
//
// Fluxo de uma requisição pública:
//
//  1. Request-ID + CORS
//  2. Rate limit global por IP (reduz abuso antes de qualquer trabalho de identidade)
//  3. Rate limit da classe de rota, quando configurado (IA, recuperação de conta)
//  4. Autenticação de sessão (rotas que exigem login)
//  5. Validação do corpo (rotas mutantes)
//  6. Forward para o serviço interno com x-user-id e x-internal-secret injetados
//
// A primeira falha encerra a requisição; cada requisição produz
// exatamente uma resposta. Respostas do serviço interno passam
// inalteradas (status e corpo); falhas de transporte viram 503 com
// corpo genérico (o motivo real só aparece no log).
package gateway
