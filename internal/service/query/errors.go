package query

import (
	"fmt"

	"github.com/kirinyoku/cinebook/internal/domain"
)

var (
	ErrSessionNotFound = fmt.Errorf("%w: session not found", domain.ErrNotFound)
	ErrTicketNotFound  = fmt.Errorf("%w: ticket not found", domain.ErrNotFound)
)
