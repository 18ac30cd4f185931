package machine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is a single reel face.
type Symbol string

// String returns the symbol text.
func (symbol Symbol) String() string {
	return string(symbol)
}

// Alphabet is the ordered, non-empty set of symbols a draw chooses from.
type Alphabet struct {
	symbols []Symbol
}

// NewAlphabet validates and normalizes an alphabet. Symbols are trimmed and must be unique.
func NewAlphabet(raw ...string) (Alphabet, error) {
	if len(raw) == 0 {
		return Alphabet{}, ErrEmptyAlphabet
	}
	if len(raw) < 2 {
		return Alphabet{}, fmt.Errorf("%w: at least two symbols required", ErrInvalidAlphabet)
	}
	seen := make(map[Symbol]struct{}, len(raw))
	symbols := make([]Symbol, 0, len(raw))
	for _, value := range raw {
		symbol := Symbol(strings.TrimSpace(value))
		if symbol == "" {
			return Alphabet{}, fmt.Errorf("%w: blank symbol", ErrInvalidAlphabet)
		}
		if _, duplicate := seen[symbol]; duplicate {
			return Alphabet{}, fmt.Errorf("%w: duplicate symbol %q", ErrInvalidAlphabet, symbol)
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	}
	return Alphabet{symbols: symbols}, nil
}

// DefaultAlphabet returns the five-symbol reel A through E.
func DefaultAlphabet() Alphabet {
	return Alphabet{symbols: []Symbol{"A", "B", "C", "D", "E"}}
}

// Len returns the number of symbols.
func (alphabet Alphabet) Len() int {
	return len(alphabet.symbols)
}

// At returns the symbol at index.
func (alphabet Alphabet) At(index int) Symbol {
	return alphabet.symbols[index]
}

// Contains reports whether symbol belongs to the alphabet.
func (alphabet Alphabet) Contains(symbol Symbol) bool {
	for _, candidate := range alphabet.symbols {
		if candidate == symbol {
			return true
		}
	}
	return false
}

// Symbols returns a copy of the ordered symbols.
func (alphabet Alphabet) Symbols() []Symbol {
	symbols := make([]Symbol, len(alphabet.symbols))
	copy(symbols, alphabet.symbols)
	return symbols
}

// Slots holds the four symbols drawn in one round.
type Slots [SlotCount]Symbol

// NewSlots builds Slots from raw values, checking each against the alphabet.
func NewSlots(alphabet Alphabet, raw []string) (Slots, error) {
	if len(raw) != SlotCount {
		return Slots{}, fmt.Errorf("%w: expected %d symbols, got %d", ErrInvalidSlots, SlotCount, len(raw))
	}
	var slots Slots
	for index, value := range raw {
		symbol := Symbol(strings.TrimSpace(value))
		if !alphabet.Contains(symbol) {
			return Slots{}, fmt.Errorf("%w: symbol %q not in alphabet", ErrInvalidSlots, symbol)
		}
		slots[index] = symbol
	}
	return slots, nil
}

// Strings returns the slots as plain strings.
func (slots Slots) Strings() []string {
	values := make([]string, len(slots))
	for index, symbol := range slots {
		values[index] = symbol.String()
	}
	return values
}

// String renders the slots the way the console shows them.
func (slots Slots) String() string {
	return "[ " + strings.Join(slots.Strings(), " | ") + " ]"
}

// Tier classifies the outcome of a round.
type Tier int

const (
	TierNothing Tier = iota
	TierDouble
	TierAllDifferent
	TierJackpot
)

// String returns the stable tier name.
func (tier Tier) String() string {
	switch tier {
	case TierJackpot:
		return "jackpot"
	case TierAllDifferent:
		return "all_different"
	case TierDouble:
		return "double"
	case TierNothing:
		return "nothing"
	default:
		return fmt.Sprintf("tier(%d)", int(tier))
	}
}

// ParseTier validates a stored tier name.
func ParseTier(raw string) (Tier, error) {
	switch strings.TrimSpace(raw) {
	case "jackpot":
		return TierJackpot, nil
	case "all_different":
		return TierAllDifferent, nil
	case "double":
		return TierDouble, nil
	case "nothing":
		return TierNothing, nil
	default:
		return TierNothing, fmt.Errorf("%w: %q", ErrInvalidTier, raw)
	}
}

// Paytable fixes the cost of a round and the payout for each winning tier.
type Paytable struct {
	CostOfPlay   decimal.Decimal
	Jackpot      decimal.Decimal
	AllDifferent decimal.Decimal
	Double       decimal.Decimal
}

// DefaultPaytable returns cost 0.20, jackpot 20, all-different 10 and double 5x cost.
func DefaultPaytable() Paytable {
	costOfPlay := decimal.New(20, -2)
	return Paytable{
		CostOfPlay:   costOfPlay,
		Jackpot:      decimal.NewFromInt(20),
		AllDifferent: decimal.NewFromInt(10),
		Double:       costOfPlay.Mul(decimal.NewFromInt(doubleMultiple)),
	}
}

// Validate ensures the cost is positive and no payout is negative.
func (paytable Paytable) Validate() error {
	if !paytable.CostOfPlay.IsPositive() {
		return fmt.Errorf("%w: cost of play must be greater than zero", ErrInvalidPaytable)
	}
	if paytable.Jackpot.IsNegative() || paytable.AllDifferent.IsNegative() || paytable.Double.IsNegative() {
		return fmt.Errorf("%w: payouts must not be negative", ErrInvalidPaytable)
	}
	return nil
}

// Payout returns the amount owed for tier. TierNothing pays zero.
func (paytable Paytable) Payout(tier Tier) decimal.Decimal {
	switch tier {
	case TierJackpot:
		return paytable.Jackpot
	case TierAllDifferent:
		return paytable.AllDifferent
	case TierDouble:
		return paytable.Double
	default:
		return decimal.Zero
	}
}

// CurrentGame is the result of the most recent round. It is overwritten every round.
type CurrentGame struct {
	Winnings         decimal.Decimal
	FreePlaysAwarded int
}

// Snapshot is a read-only view of the ledger.
type Snapshot struct {
	PrizePot    decimal.Decimal
	PlayerCash  decimal.Decimal
	FreePlays   int
	CurrentGame CurrentGame
}

// Round describes one completed spin.
type Round struct {
	ID             string
	SessionID      string
	Number         int
	Slots          Slots
	Tier           Tier
	Payout         decimal.Decimal
	FreePlayUsed   bool
	PrizePotBefore decimal.Decimal
	After          Snapshot
}
