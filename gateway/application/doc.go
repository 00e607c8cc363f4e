// Package application contém os casos de uso do gateway (decisão de
// rate limit, autenticação de sessão, aquisição de vaga de forward)
// sem conhecer net/http.
package application
