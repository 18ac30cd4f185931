package machine

import (
	"math/rand/v2"
)

// SymbolSource picks one symbol from an alphabet per draw.
type SymbolSource interface {
	Draw(alphabet Alphabet) Symbol
}

// RandomSource draws uniformly at random.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a uniform source. A zero seed yields an unseeded, non-repeatable source.
func NewRandomSource(seed uint64) *RandomSource {
	if seed == 0 {
		return &RandomSource{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &RandomSource{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Draw returns one symbol from alphabet. It panics on an empty alphabet.
func (source *RandomSource) Draw(alphabet Alphabet) Symbol {
	if alphabet.Len() == 0 {
		panic(ErrEmptyAlphabet)
	}
	return alphabet.At(source.rng.IntN(alphabet.Len()))
}

// DrawFour draws SlotCount symbols independently, with replacement.
func DrawFour(source SymbolSource, alphabet Alphabet) Slots {
	var slots Slots
	for index := range slots {
		slots[index] = source.Draw(alphabet)
	}
	return slots
}

// SequenceSource replays a fixed list of symbols, wrapping around at the end.
type SequenceSource struct {
	symbols []Symbol
	next    int
}

// NewSequenceSource returns a source that yields symbols in order.
func NewSequenceSource(symbols ...Symbol) (*SequenceSource, error) {
	if len(symbols) == 0 {
		return nil, ErrEmptySequence
	}
	sequence := make([]Symbol, len(symbols))
	copy(sequence, symbols)
	return &SequenceSource{symbols: sequence}, nil
}

// NewSlotsSource flattens whole rounds into a SequenceSource.
func NewSlotsSource(rounds ...Slots) (*SequenceSource, error) {
	symbols := make([]Symbol, 0, len(rounds)*SlotCount)
	for _, slots := range rounds {
		symbols = append(symbols, slots[:]...)
	}
	return NewSequenceSource(symbols...)
}

// Draw ignores the alphabet and returns the next scripted symbol.
func (source *SequenceSource) Draw(_ Alphabet) Symbol {
	symbol := source.symbols[source.next]
	source.next = (source.next + 1) % len(source.symbols)
	return symbol
}
