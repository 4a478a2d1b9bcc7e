package escrow

import "fmt"

// Err is a simple string error helper.
type Err string

func (e Err) Error() string { return string(e) }

// Failure classes. Every concrete engine error wraps one of these, so
// callers branch with errors.Is on the class they care about.
var (
	ErrAuthorization = Err("authorization error")
	ErrState         = Err("state error")
	ErrTiming        = Err("timing error")
	ErrValidation    = Err("validation error")
)

var (
	ErrUnauthorizedActor  = fmt.Errorf("%w: signer does not hold the required role", ErrAuthorization)
	ErrInvalidStatus      = fmt.Errorf("%w: instruction not valid for current job status", ErrState)
	ErrJobExists          = fmt.Errorf("%w: job already exists for this buyer and job id", ErrState)
	ErrConfigExists       = fmt.Errorf("%w: config already initialized", ErrState)
	ErrSubmissionMissing  = fmt.Errorf("%w: submission is missing", ErrState)
	ErrDeadlineNotReached = fmt.Errorf("%w: deadline is not reached", ErrTiming)
	ErrInvalidReward      = fmt.Errorf("%w: reward must be greater than zero", ErrValidation)
	ErrInvalidFeeBps      = fmt.Errorf("%w: fee bps must be between 0 and 10000", ErrValidation)
	ErrInvalidDeadline    = fmt.Errorf("%w: deadline must be in the future or unset", ErrValidation)
	ErrInvalidPayout      = fmt.Errorf("%w: payout must not exceed reward", ErrValidation)
	ErrReasonTooLong      = fmt.Errorf("%w: dispute reason is too long", ErrValidation)
	ErrMathOverflow       = fmt.Errorf("%w: amount arithmetic overflow", ErrValidation)
	ErrInsufficientFunds  = fmt.Errorf("%w: insufficient account balance", ErrValidation)
)

// Lookup failures. These are not transition failures, so they carry no class.
var (
	ErrJobNotFound    = Err("job not found")
	ErrConfigNotFound = Err("config not initialized")
)
