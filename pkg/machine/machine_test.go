package machine

import (
	"context"
	"errors"
	"testing"
)

const fixedRoundID = "round-1"

func fixedID() string { return fixedRoundID }

func TestNewMachineValidatesDependencies(test *testing.T) {
	test.Parallel()
	ledger := mustLedger(test, "20", "10")
	source := mustSlotsSource(test, mustSlots(test, "A", "A", "A", "A"))

	if _, err := NewMachine(nil, source, DefaultAlphabet()); !errors.Is(err, ErrInvalidMachineConfig) {
		test.Fatalf("expected ErrInvalidMachineConfig for nil ledger, got %v", err)
	}
	if _, err := NewMachine(ledger, nil, DefaultAlphabet()); !errors.Is(err, ErrInvalidMachineConfig) {
		test.Fatalf("expected ErrInvalidMachineConfig for nil source, got %v", err)
	}
	if _, err := NewMachine(ledger, source, Alphabet{}); !errors.Is(err, ErrEmptyAlphabet) {
		test.Fatalf("expected ErrEmptyAlphabet, got %v", err)
	}
}

func TestPlayRoundPaysJackpot(test *testing.T) {
	test.Parallel()
	ledger := mustLedger(test, "20", "10")
	machine := mustMachine(test, ledger, mustSlotsSource(test, mustSlots(test, "A", "A", "A", "A")), WithIDGenerator(fixedID), WithSessionID("session-1"))

	round, err := machine.PlayRound(context.Background())
	if err != nil {
		test.Fatalf("play round: %v", err)
	}
	if round.Tier != TierJackpot {
		test.Fatalf("expected jackpot, got %s", round.Tier)
	}
	if round.ID != fixedRoundID || round.SessionID != "session-1" || round.Number != 1 {
		test.Fatalf("unexpected round identity: %+v", round)
	}
	assertDecimal(test, "prize pot before", "20", round.PrizePotBefore)
	assertDecimal(test, "player cash", "29.8", round.After.PlayerCash)
	assertDecimal(test, "prize pot", "0.2", round.After.PrizePot)
	assertDecimal(test, "winnings", "20", round.After.CurrentGame.Winnings)
	if round.FreePlayUsed {
		test.Fatalf("expected a paid round")
	}
}

func TestPlayRoundChargesBeforeLosing(test *testing.T) {
	test.Parallel()
	ledger := mustLedger(test, "20", "10")
	machine := mustMachine(test, ledger, mustSlotsSource(test, mustSlots(test, "A", "B", "C", "B")))

	round, err := machine.PlayRound(context.Background())
	if err != nil {
		test.Fatalf("play round: %v", err)
	}
	if round.Tier != TierNothing {
		test.Fatalf("expected nothing, got %s", round.Tier)
	}
	assertDecimal(test, "player cash", "9.8", round.After.PlayerCash)
	assertDecimal(test, "prize pot", "20.2", round.After.PrizePot)
	assertDecimal(test, "winnings", "0", round.After.CurrentGame.Winnings)
}

func TestPlayRoundPaymentPrecedesPayability(test *testing.T) {
	test.Parallel()
	// 9.9 + 0.2 covers the all-different payout only once the stake is in the pot.
	ledger := mustLedger(test, "9.9", "1")
	machine := mustMachine(test, ledger, mustSlotsSource(test, mustSlots(test, "A", "B", "C", "D")))

	round, err := machine.PlayRound(context.Background())
	if err != nil {
		test.Fatalf("play round: %v", err)
	}
	assertDecimal(test, "winnings", "10", round.After.CurrentGame.Winnings)
	assertDecimal(test, "prize pot", "0.1", round.After.PrizePot)
	assertDecimal(test, "player cash", "10.8", round.After.PlayerCash)
}

func TestPlayRoundShortfallThenFreePlay(test *testing.T) {
	test.Parallel()
	ledger := mustLedger(test, "0", "1")
	source := mustSlotsSource(test,
		mustSlots(test, "C", "C", "C", "C"),
		mustSlots(test, "A", "B", "A", "B"),
	)
	machine := mustMachine(test, ledger, source)

	first, err := machine.PlayRound(context.Background())
	if err != nil {
		test.Fatalf("first round: %v", err)
	}
	if first.After.CurrentGame.FreePlaysAwarded != 4 || first.After.FreePlays != 4 {
		test.Fatalf("expected 4 free plays, got %+v", first.After)
	}
	assertDecimal(test, "prize pot", "0.2", first.After.PrizePot)
	assertDecimal(test, "player cash", "0.8", first.After.PlayerCash)

	second, err := machine.PlayRound(context.Background())
	if err != nil {
		test.Fatalf("second round: %v", err)
	}
	if !second.FreePlayUsed {
		test.Fatalf("expected the second round to use a free play")
	}
	if second.After.FreePlays != 3 {
		test.Fatalf("expected 3 free plays left, got %d", second.After.FreePlays)
	}
	if second.After.CurrentGame.FreePlaysAwarded != 0 {
		test.Fatalf("expected current game cleared, got %+v", second.After.CurrentGame)
	}
	assertDecimal(test, "player cash", "0.8", second.After.PlayerCash)
	assertDecimal(test, "prize pot", "0.2", second.After.PrizePot)
	if machine.RoundsPlayed() != 2 {
		test.Fatalf("expected 2 rounds, got %d", machine.RoundsPlayed())
	}
}

func TestPlayRoundHonoursCancelledContext(test *testing.T) {
	test.Parallel()
	ledger := mustLedger(test, "20", "10")
	machine := mustMachine(test, ledger, mustSlotsSource(test, mustSlots(test, "A", "A", "A", "A")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := machine.PlayRound(ctx)
	if !errors.Is(err, context.Canceled) {
		test.Fatalf("expected context.Canceled, got %v", err)
	}
	assertDecimal(test, "player cash", "10", ledger.PlayerCash())
	if machine.RoundsPlayed() != 0 {
		test.Fatalf("expected no rounds, got %d", machine.RoundsPlayed())
	}
}

func TestPlayRoundRecordsRound(test *testing.T) {
	test.Parallel()
	recorder := &stubRecorder{}
	ledger := mustLedger(test, "20", "10")
	machine := mustMachine(test, ledger, mustSlotsSource(test, mustSlots(test, "A", "B", "B", "C")), WithRoundRecorder(recorder))

	round, err := machine.PlayRound(context.Background())
	if err != nil {
		test.Fatalf("play round: %v", err)
	}
	if len(recorder.rounds) != 1 || recorder.rounds[0].ID != round.ID {
		test.Fatalf("expected recorded round %s, got %+v", round.ID, recorder.rounds)
	}
	if recorder.rounds[0].Tier != TierDouble {
		test.Fatalf("expected double, got %s", recorder.rounds[0].Tier)
	}
}

func TestPlayRoundKeepsLedgerOnRecorderError(test *testing.T) {
	test.Parallel()
	recorderFailure := errors.New("journal down")
	recorder := &stubRecorder{err: recorderFailure}
	logger := &recorderLogger{}
	ledger := mustLedger(test, "20", "10")
	machine := mustMachine(test, ledger, mustSlotsSource(test, mustSlots(test, "A", "A", "A", "A")), WithRoundRecorder(recorder), WithOperationLogger(logger))

	round, err := machine.PlayRound(context.Background())
	if !errors.Is(err, recorderFailure) {
		test.Fatalf("expected recorder failure, got %v", err)
	}
	if round.Tier != TierJackpot {
		test.Fatalf("expected round to be returned, got %+v", round)
	}
	assertDecimal(test, "player cash", "29.8", ledger.PlayerCash())
	last := logger.entries[len(logger.entries)-1]
	if last.Operation != OperationPlayRound || last.Status != operationStatusError {
		test.Fatalf("expected failed play_round log, got %+v", last)
	}
}

func TestPlayRoundLogsOperations(test *testing.T) {
	test.Parallel()
	logger := &recorderLogger{}
	ledger := mustLedger(test, "20", "10")
	machine := mustMachine(test, ledger, mustSlotsSource(test, mustSlots(test, "A", "B", "C", "D")), WithOperationLogger(logger), WithSessionID("session-7"), WithIDGenerator(fixedID))

	if _, err := machine.PlayRound(context.Background()); err != nil {
		test.Fatalf("play round: %v", err)
	}
	wantOperations := []string{OperationTakePayment, OperationGiveWinnings, OperationPlayRound}
	if len(logger.entries) != len(wantOperations) {
		test.Fatalf("expected %d log entries, got %d", len(wantOperations), len(logger.entries))
	}
	for index, entry := range logger.entries {
		if entry.Operation != wantOperations[index] {
			test.Fatalf("entry %d: expected %s, got %s", index, wantOperations[index], entry.Operation)
		}
		if entry.Status != operationStatusOK || entry.Error != nil {
			test.Fatalf("entry %d: expected ok status, got %+v", index, entry)
		}
		if entry.SessionID != "session-7" || entry.RoundID != fixedRoundID || entry.RoundNumber != 1 {
			test.Fatalf("entry %d: unexpected identity %+v", index, entry)
		}
	}
	assertDecimal(test, "charged", "0.2", logger.entries[0].Amount)
	assertDecimal(test, "payout", "10", logger.entries[1].Amount)
	if logger.entries[1].Tier != TierAllDifferent {
		test.Fatalf("expected all different tier, got %s", logger.entries[1].Tier)
	}
}
