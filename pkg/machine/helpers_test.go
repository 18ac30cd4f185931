package machine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(test *testing.T, raw string) decimal.Decimal {
	test.Helper()
	value, err := decimal.NewFromString(raw)
	if err != nil {
		test.Fatalf("decimal %q: %v", raw, err)
	}
	return value
}

func mustLedger(test *testing.T, pot string, cash string) *Ledger {
	test.Helper()
	ledger, err := NewLedger(DefaultPaytable(), mustDecimal(test, pot), mustDecimal(test, cash))
	if err != nil {
		test.Fatalf("new ledger: %v", err)
	}
	return ledger
}

func mustSlots(test *testing.T, raw ...string) Slots {
	test.Helper()
	slots, err := NewSlots(DefaultAlphabet(), raw)
	if err != nil {
		test.Fatalf("new slots %v: %v", raw, err)
	}
	return slots
}

func mustSlotsSource(test *testing.T, rounds ...Slots) *SequenceSource {
	test.Helper()
	source, err := NewSlotsSource(rounds...)
	if err != nil {
		test.Fatalf("slots source: %v", err)
	}
	return source
}

func mustMachine(test *testing.T, ledger *Ledger, source SymbolSource, options ...MachineOption) *Machine {
	test.Helper()
	machine, err := NewMachine(ledger, source, DefaultAlphabet(), options...)
	if err != nil {
		test.Fatalf("new machine: %v", err)
	}
	return machine
}

func assertDecimal(test *testing.T, name string, want string, got decimal.Decimal) {
	test.Helper()
	if !got.Equal(mustDecimal(test, want)) {
		test.Fatalf("expected %s %s, got %s", name, want, got.String())
	}
}

type recorderLogger struct {
	entries []OperationLog
}

func (logger *recorderLogger) LogOperation(_ context.Context, entry OperationLog) {
	logger.entries = append(logger.entries, entry)
}

type stubRecorder struct {
	rounds []Round
	err    error
}

func (recorder *stubRecorder) RecordRound(_ context.Context, round Round) error {
	if recorder.err != nil {
		return recorder.err
	}
	recorder.rounds = append(recorder.rounds, round)
	return nil
}
