// Package infra contém as implementações concretas dos contratos do
// domínio: store de janela fixa, pool de vagas, stats em memória/Redis
// e o cliente HTTP do provedor de sessão.
package infra
