package machine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Machine plays rounds against a Ledger it exclusively owns.
type Machine struct {
	ledger    *Ledger
	source    SymbolSource
	alphabet  Alphabet
	logger    OperationLogger
	recorder  RoundRecorder
	sessionID string
	newID     func() string
	played    int
}

// NewMachine wires a Machine.
func NewMachine(ledger *Ledger, source SymbolSource, alphabet Alphabet, options ...MachineOption) (*Machine, error) {
	if ledger == nil {
		return nil, fmt.Errorf("%w: ledger dependency is nil", ErrInvalidMachineConfig)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: symbol source dependency is nil", ErrInvalidMachineConfig)
	}
	if alphabet.Len() == 0 {
		return nil, ErrEmptyAlphabet
	}
	machine := &Machine{
		ledger:   ledger,
		source:   source,
		alphabet: alphabet,
		newID:    uuid.NewString,
	}
	for _, option := range options {
		if option != nil {
			option(machine)
		}
	}
	return machine, nil
}

// PlayRound draws four symbols, takes payment, then pays the classified tier.
// Payment is always taken before the outcome is known. A recorder failure is
// returned, but the ledger keeps the round's effect.
func (machine *Machine) PlayRound(ctx context.Context) (Round, error) {
	if err := ctx.Err(); err != nil {
		return Round{}, WrapError(OperationPlayRound, errorSubjectRound, errorCodeCancelled, err)
	}
	machine.played++
	round := Round{
		ID:             machine.newID(),
		SessionID:      machine.sessionID,
		Number:         machine.played,
		PrizePotBefore: machine.ledger.PrizePot(),
	}

	round.Slots = DrawFour(machine.source, machine.alphabet)

	round.FreePlayUsed = machine.ledger.TakePayment()
	charged := machine.ledger.Paytable().CostOfPlay
	if round.FreePlayUsed {
		charged = decimal.Zero
	}
	machine.logOperation(ctx, round, OperationLog{
		Operation:    OperationTakePayment,
		Amount:       charged,
		FreePlayUsed: round.FreePlayUsed,
	})

	round.Tier = Classify(round.Slots)
	round.Payout = machine.ledger.Paytable().Payout(round.Tier)
	payoutError := machine.ledger.GiveWinnings(round.Payout)
	machine.logOperation(ctx, round, OperationLog{
		Operation: OperationGiveWinnings,
		Amount:    round.Payout,
		FreePlays: machine.ledger.CurrentGame().FreePlaysAwarded,
		Tier:      round.Tier,
		Error:     payoutError,
	})
	if payoutError != nil {
		return Round{}, WrapError(OperationPlayRound, errorSubjectPayout, errorCodeApply, payoutError)
	}

	round.After = machine.ledger.Snapshot()
	var recordError error
	if machine.recorder != nil {
		recordError = machine.recorder.RecordRound(ctx, round)
	}
	machine.logOperation(ctx, round, OperationLog{
		Operation: OperationPlayRound,
		Amount:    round.After.CurrentGame.Winnings,
		FreePlays: round.After.CurrentGame.FreePlaysAwarded,
		Tier:      round.Tier,
		Error:     recordError,
	})
	if recordError != nil {
		return round, WrapError(OperationPlayRound, errorSubjectRound, errorCodeRecord, recordError)
	}
	return round, nil
}

// Snapshot returns the current ledger view.
func (machine *Machine) Snapshot() Snapshot {
	return machine.ledger.Snapshot()
}

// RoundsPlayed returns how many rounds this machine has started.
func (machine *Machine) RoundsPlayed() int {
	return machine.played
}

// SessionID returns the session tag, empty when none was set.
func (machine *Machine) SessionID() string {
	return machine.sessionID
}

func (machine *Machine) logOperation(ctx context.Context, round Round, entry OperationLog) {
	if machine.logger == nil {
		return
	}
	entry.SessionID = round.SessionID
	entry.RoundID = round.ID
	entry.RoundNumber = round.Number
	entry.Snapshot = machine.ledger.Snapshot()
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	machine.logger.LogOperation(ctx, entry)
}
