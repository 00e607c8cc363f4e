package domain

import "context"

// SlotPool representa um recurso de capacidade finita (aqui, o número
// de chamadas simultâneas em voo contra os serviços internos).
//
// Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar.
// Ao adquirir, a função de release deve ser chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
