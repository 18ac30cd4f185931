package machine

import (
	"context"

	"github.com/shopspring/decimal"
)

// MachineOption configures a Machine instance.
type MachineOption func(*Machine)

// OperationLogger records domain-level events emitted by Machine operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes a state-changing ledger operation.
type OperationLog struct {
	Operation    string
	SessionID    string
	RoundID      string
	RoundNumber  int
	Amount       decimal.Decimal
	FreePlays    int
	FreePlayUsed bool
	Tier         Tier
	Snapshot     Snapshot
	Status       string
	Error        error
}

// RoundRecorder receives every completed round, e.g. to journal it.
type RoundRecorder interface {
	RecordRound(ctx context.Context, round Round) error
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) MachineOption {
	return func(machine *Machine) {
		machine.logger = logger
	}
}

// WithRoundRecorder wires a recorder that receives each completed round.
func WithRoundRecorder(recorder RoundRecorder) MachineOption {
	return func(machine *Machine) {
		machine.recorder = recorder
	}
}

// WithSessionID tags rounds and log entries with sessionID.
func WithSessionID(sessionID string) MachineOption {
	return func(machine *Machine) {
		machine.sessionID = sessionID
	}
}

// WithIDGenerator replaces the round id generator.
func WithIDGenerator(newID func() string) MachineOption {
	return func(machine *Machine) {
		if newID != nil {
			machine.newID = newID
		}
	}
}
