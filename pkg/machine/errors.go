package machine

import (
	"errors"
)

// Domain-level error values returned by the machine.
var (
	ErrEmptyAlphabet        = errors.New("empty alphabet")
	ErrInvalidAlphabet      = errors.New("invalid alphabet")
	ErrInvalidSlots         = errors.New("invalid slots")
	ErrInvalidTier          = errors.New("invalid tier")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidPaytable      = errors.New("invalid paytable")
	ErrInvalidLedgerConfig  = errors.New("invalid ledger config")
	ErrInvalidMachineConfig = errors.New("invalid machine config")
	ErrEmptySequence        = errors.New("empty symbol sequence")
	ErrDuplicateRound       = errors.New("duplicate round")
	ErrUnknownSession       = errors.New("unknown session")
)

// OperationError tags a failure with the step that produced it, rendered as
// operation.subject.code ahead of the cause.
type OperationError struct {
	operation string
	subject   string
	code      string
	cause     error
}

func (failure OperationError) Error() string {
	return failure.operation + "." + failure.subject + "." + failure.code + ": " + failure.cause.Error()
}

func (failure OperationError) Unwrap() error {
	return failure.cause
}

// WrapError tags err; a nil err stays nil.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{operation: operation, subject: subject, code: code, cause: err}
}
