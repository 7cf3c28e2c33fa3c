package booking

import (
	"fmt"

	"github.com/kirinyoku/cinebook/internal/domain"
)

var (
	ErrSessionNotFound  = fmt.Errorf("%w: session not found", domain.ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("%w: customer not found", domain.ErrNotFound)
	ErrTicketNotFound   = fmt.Errorf("%w: ticket not found", domain.ErrNotFound)
	ErrRoomNotFound     = fmt.Errorf("%w: room not found", domain.ErrNotFound)
	ErrRentalNotFound   = fmt.Errorf("%w: rental not found", domain.ErrNotFound)
	ErrCleaningNotFound = fmt.Errorf("%w: cleaning assignment not found", domain.ErrNotFound)
	ErrEmployeeNotFound = fmt.Errorf("%w: employee not found", domain.ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("%w: product not found", domain.ErrNotFound)

	ErrHalfReasonRequired = fmt.Errorf("%w: half ticket requires a reason", domain.ErrInvalidInput)
	ErrInvalidPayment     = fmt.Errorf("%w: invalid payment", domain.ErrInvalidInput)
	ErrInvalidWindow      = fmt.Errorf("%w: start must be before end", domain.ErrInvalidInput)
	ErrStartInPast        = fmt.Errorf("%w: start must be in the future", domain.ErrInvalidInput)
	ErrNegativeValue      = fmt.Errorf("%w: value must not be negative", domain.ErrInvalidInput)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)

	ErrSeatUnavailable       = fmt.Errorf("%w: seat unavailable", domain.ErrForbidden)
	ErrAgeRestricted         = fmt.Errorf("%w: customer below film minimum age", domain.ErrForbidden)
	ErrSessionStarted        = fmt.Errorf("%w: session already started", domain.ErrForbidden)
	ErrTicketCancelled       = fmt.Errorf("%w: ticket is cancelled", domain.ErrForbidden)
	ErrAlreadyCheckedIn      = fmt.Errorf("%w: ticket already checked in", domain.ErrForbidden)
	ErrCancellationClosed    = fmt.Errorf("%w: cancellation window closed", domain.ErrForbidden)
	ErrRentalCancelled       = fmt.Errorf("%w: rental is cancelled", domain.ErrForbidden)
	ErrRentalNotRequested    = fmt.Errorf("%w: rental is not awaiting approval", domain.ErrForbidden)
	ErrNotCleaningStaff      = fmt.Errorf("%w: employee is not cleaning staff", domain.ErrForbidden)
	ErrOutOfStock            = fmt.Errorf("%w: insufficient stock", domain.ErrForbidden)
	ErrConcurrentUpdate      = fmt.Errorf("%w: concurrent update, try again", domain.ErrForbidden)
	ErrIncompleteSession     = fmt.Errorf("%w: session without room or film", domain.ErrCriticalInconsistency)
	ErrProductNotRedeemable  = fmt.Errorf("%w: product has no points price", domain.ErrForbidden)
)
