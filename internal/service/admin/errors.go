package admin

import (
	"fmt"

	"github.com/kirinyoku/cinebook/internal/domain"
)

var (
	ErrRoomNotFound    = fmt.Errorf("%w: room not found", domain.ErrNotFound)
	ErrFilmNotFound    = fmt.Errorf("%w: film not found", domain.ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("%w: session not found", domain.ErrNotFound)

	ErrInvalidSession = fmt.Errorf("%w: invalid session", domain.ErrInvalidInput)
	ErrStartInPast    = fmt.Errorf("%w: session must start in the future", domain.ErrInvalidInput)
	ErrRoomChange     = fmt.Errorf("%w: a session cannot move to another room", domain.ErrInvalidInput)

	ErrNoWaiter          = fmt.Errorf("%w: vip room requires a waiter at the cinema", domain.ErrForbidden)
	ErrNoManager         = fmt.Errorf("%w: pre-release session requires a manager at the cinema", domain.ErrForbidden)
	ErrSessionHasTickets = fmt.Errorf("%w: session has sold tickets", domain.ErrForbidden)
	ErrRoomHasTickets    = fmt.Errorf("%w: unfinished sessions of the room have sold tickets", domain.ErrForbidden)
	ErrConcurrentUpdate  = fmt.Errorf("%w: concurrent update, try again", domain.ErrForbidden)
)
