package machine

// Classify maps four symbols to exactly one tier. Tiers overlap by pattern, so
// they are checked jackpot first, then all-different, then double.
func Classify(slots Slots) Tier {
	switch {
	case isJackpot(slots):
		return TierJackpot
	case isAllDifferent(slots):
		return TierAllDifferent
	case isDouble(slots):
		return TierDouble
	default:
		return TierNothing
	}
}

func isJackpot(slots Slots) bool {
	for _, symbol := range slots[1:] {
		if symbol != slots[0] {
			return false
		}
	}
	return true
}

func isAllDifferent(slots Slots) bool {
	unique := make(map[Symbol]struct{}, len(slots))
	for _, symbol := range slots {
		unique[symbol] = struct{}{}
	}
	return len(unique) == len(slots)
}

// Only neighbouring reels count: [A B C B] is not a double.
func isDouble(slots Slots) bool {
	for index := 0; index < len(slots)-1; index++ {
		if slots[index] == slots[index+1] {
			return true
		}
	}
	return false
}
