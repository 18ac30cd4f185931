package machine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Ledger is the single authority for money movement between the player and the prize pot.
// A Ledger belongs to one session and is not safe for concurrent use.
type Ledger struct {
	paytable    Paytable
	prizePot    decimal.Decimal
	playerCash  decimal.Decimal
	freePlays   int
	currentGame CurrentGame
}

// NewLedger validates the paytable and opening balances.
func NewLedger(paytable Paytable, openingPot decimal.Decimal, openingCash decimal.Decimal) (*Ledger, error) {
	if err := paytable.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLedgerConfig, err)
	}
	if openingPot.IsNegative() {
		return nil, fmt.Errorf("%w: opening prize pot is negative", ErrInvalidLedgerConfig)
	}
	if openingCash.IsNegative() {
		return nil, fmt.Errorf("%w: opening cash is negative", ErrInvalidLedgerConfig)
	}
	return &Ledger{
		paytable:    paytable,
		prizePot:    roundCurrency(openingPot),
		playerCash:  roundCurrency(openingCash),
		currentGame: CurrentGame{Winnings: decimal.Zero},
	}, nil
}

// TakePayment charges for one round. A free play is spent when available;
// otherwise costOfPlay moves from the player to the pot. Cash is allowed to go negative.
func (ledger *Ledger) TakePayment() (freePlayUsed bool) {
	if ledger.IsFreePlay() {
		ledger.freePlays--
		return true
	}
	cost := ledger.paytable.CostOfPlay
	ledger.playerCash = roundCurrency(ledger.playerCash.Sub(cost))
	ledger.prizePot = roundCurrency(ledger.prizePot.Add(cost))
	return false
}

// GiveWinnings pays amount from the pot, or grants free plays when the pot
// cannot cover it. A zero amount only clears the current game.
func (ledger *Ledger) GiveWinnings(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: payout %s is negative", ErrInvalidAmount, amount.String())
	}
	if amount.IsZero() {
		ledger.currentGame = CurrentGame{Winnings: decimal.Zero}
		return nil
	}
	if ledger.IsPayable(amount) {
		ledger.prizePot = roundCurrency(ledger.prizePot.Sub(amount))
		ledger.playerCash = roundCurrency(ledger.playerCash.Add(amount))
		ledger.currentGame = CurrentGame{Winnings: roundCurrency(amount)}
		return nil
	}
	awarded := ledger.shortfallFreePlays(amount)
	ledger.freePlays += awarded
	ledger.currentGame = CurrentGame{Winnings: decimal.Zero, FreePlaysAwarded: awarded}
	return nil
}

// The grant scales by multiplying with costOfPlay, truncated toward zero.
func (ledger *Ledger) shortfallFreePlays(amount decimal.Decimal) int {
	return int(amount.Mul(ledger.paytable.CostOfPlay).Floor().IntPart())
}

// IsPayable reports whether the pot can fund amount in cash.
func (ledger *Ledger) IsPayable(amount decimal.Decimal) bool {
	return ledger.prizePot.GreaterThanOrEqual(amount)
}

// IsFreePlay reports whether the next round is free.
func (ledger *Ledger) IsFreePlay() bool {
	return ledger.freePlays > 0
}

// Paytable returns the fixed paytable.
func (ledger *Ledger) Paytable() Paytable {
	return ledger.paytable
}

// PrizePot returns the pot balance.
func (ledger *Ledger) PrizePot() decimal.Decimal {
	return ledger.prizePot
}

// PlayerCash returns the player's bank, which may be negative.
func (ledger *Ledger) PlayerCash() decimal.Decimal {
	return ledger.playerCash
}

// FreePlays returns the outstanding free-play credits.
func (ledger *Ledger) FreePlays() int {
	return ledger.freePlays
}

// CurrentGame returns the outcome of the last round.
func (ledger *Ledger) CurrentGame() CurrentGame {
	return ledger.currentGame
}

// Snapshot returns a copy of every balance.
func (ledger *Ledger) Snapshot() Snapshot {
	return Snapshot{
		PrizePot:    ledger.prizePot,
		PlayerCash:  ledger.playerCash,
		FreePlays:   ledger.freePlays,
		CurrentGame: ledger.currentGame,
	}
}

func roundCurrency(value decimal.Decimal) decimal.Decimal {
	return value.Round(currencyPlaces)
}
