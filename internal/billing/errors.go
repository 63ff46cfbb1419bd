package billing

import "errors"

// Error kinds surfaced to API clients. The text of each error is the
// message code returned in the response envelope.
var (
	ErrEntityNotFound        = errors.New("ENTITY_NOT_FOUND")
	ErrForbidden             = errors.New("FORBIDDEN")
	ErrInsufficientBalance   = errors.New("INSUFFICIENT_BALANCE")
	ErrJobAlreadyPaid        = errors.New("JOB_ALREADY_PAID")
	ErrMaxDeposit            = errors.New("CANNOT_DEPOSIT_MORE_THAN_25_PERCENT_OF_TOTAL_JOBS_TO_PAY")
	ErrNoDataWithinTimeframe = errors.New("NO_DATA_WITHIN_TIMEFRAME_ERROR")
	ErrInvalidAmount         = errors.New("INVALID_AMOUNT")
)
