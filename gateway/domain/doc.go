// Package domain define os contratos e tipos do núcleo do gateway.
//
// Regras de rate limit, identidade de sessão e estatísticas, sem
// nenhuma dependência de net/http ou de infraestrutura concreta.
package domain
