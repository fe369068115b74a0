package entities

import "errors"

// ErrorKind groups ledger errors by how a caller should react to them
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindAuthorization      ErrorKind = "authorization_failure"
	KindStateViolation     ErrorKind = "state_violation"
	KindNotFound           ErrorKind = "not_found"
	KindResourceExhaustion ErrorKind = "resource_exhaustion"
	KindExternalFailure    ErrorKind = "external_failure"
	KindUnknown            ErrorKind = "unknown"
)

// LedgerError is a typed ledger failure with a stable code.
// Values are sentinels: compare with errors.Is.
type LedgerError struct {
	Code    string
	Kind    ErrorKind
	Message string
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	return e.Message
}

func newLedgerError(code string, kind ErrorKind, message string) *LedgerError {
	return &LedgerError{Code: code, Kind: kind, Message: message}
}

// Validation errors
var (
	ErrInvalidTicketPrice = newLedgerError("InvalidTicketPrice", KindValidation, "ticket price must be greater than zero")
	ErrInvalidPayment     = newLedgerError("InvalidPayment", KindValidation, "payment must equal the ticket price")
	ErrInvalidIdentity    = newLedgerError("InvalidIdentity", KindValidation, "identity is malformed")
	ErrInvalidAmount      = newLedgerError("InvalidAmount", KindValidation, "amount must be greater than zero")
)

// Authorization errors
var (
	ErrUnauthorized = newLedgerError("Unauthorized", KindAuthorization, "caller is not authorized for this operation")
)

// State violations
var (
	ErrAlreadyInitialized     = newLedgerError("AlreadyInitialized", KindStateViolation, "registry already initialized")
	ErrLotteryNotOpen         = newLedgerError("LotteryNotOpen", KindStateViolation, "lottery is not open")
	ErrLotteryNotDrawn        = newLedgerError("LotteryNotDrawn", KindStateViolation, "lottery has not been drawn")
	ErrAlreadyClaimed         = newLedgerError("AlreadyClaimed", KindStateViolation, "prize already claimed")
	ErrNotWinningTicket       = newLedgerError("NotWinningTicket", KindStateViolation, "ticket is not the winning ticket")
	ErrAccountAlreadyExists   = newLedgerError("AccountAlreadyExists", KindStateViolation, "account already exists")
	ErrLotteryAlreadyRecorded = newLedgerError("LotteryAlreadyRecorded", KindStateViolation, "lottery id already in use")
)

// Not found errors
var (
	ErrRegistryNotInitialized = newLedgerError("RegistryNotInitialized", KindNotFound, "registry has not been initialized")
	ErrLotteryNotFound        = newLedgerError("LotteryNotFound", KindNotFound, "lottery not found")
	ErrTicketNotFound         = newLedgerError("TicketNotFound", KindNotFound, "ticket not found")
	ErrAccountNotFound        = newLedgerError("AccountNotFound", KindNotFound, "account not found")
	ErrSettlementNotFound     = newLedgerError("SettlementNotFound", KindNotFound, "settlement not found")
)

// Resource exhaustion
var (
	ErrOverflow  = newLedgerError("Overflow", KindResourceExhaustion, "counter overflow")
	ErrNoTickets = newLedgerError("NoTickets", KindResourceExhaustion, "lottery has no tickets")
)

// External failures, safe to retry
var (
	ErrStoreConflict         = newLedgerError("StoreConflict", KindExternalFailure, "conflicting concurrent transaction")
	ErrInsufficientFunds     = newLedgerError("InsufficientFunds", KindExternalFailure, "insufficient funds")
	ErrInvalidDestination    = newLedgerError("InvalidDestination", KindExternalFailure, "transfer destination is invalid")
	ErrRandomnessUnavailable = newLedgerError("RandomnessUnavailable", KindExternalFailure, "randomness source unavailable")
)

// AsLedgerError extracts the LedgerError in err's chain, if any
func AsLedgerError(err error) (*LedgerError, bool) {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr, true
	}
	return nil, false
}

// KindOf returns the error kind of err, or KindUnknown for foreign errors
func KindOf(err error) ErrorKind {
	if ledgerErr, ok := AsLedgerError(err); ok {
		return ledgerErr.Kind
	}
	return KindUnknown
}

// CodeOf returns the stable code of err, or "Internal" for foreign errors
func CodeOf(err error) string {
	if ledgerErr, ok := AsLedgerError(err); ok {
		return ledgerErr.Code
	}
	return "Internal"
}

// IsRetryable reports whether repeating the operation may succeed
func IsRetryable(err error) bool {
	return KindOf(err) == KindExternalFailure
}
