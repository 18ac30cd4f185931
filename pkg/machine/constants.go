package machine

// Operation names reported to OperationLogger.
const (
	OperationTakePayment  = "take_payment"
	OperationGiveWinnings = "give_winnings"
	OperationPlayRound    = "play_round"
)

const (
	operationStatusOK    = "ok"
	operationStatusError = "error"

	errorSubjectRound  = "round"
	errorSubjectPayout = "payout"
	errorCodeCancelled = "cancelled"
	errorCodeRecord    = "record"
	errorCodeApply     = "apply"

	// SlotCount is the number of symbols drawn per round.
	SlotCount = 4

	currencyPlaces int32 = 2
	doubleMultiple int64 = 5
)
