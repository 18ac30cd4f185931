package oplog

import (
	"context"
	"errors"
	"testing"

	"github.com/MarkoPoloResearchLab/fruitmachine/pkg/machine"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogOperationWritesFields(test *testing.T) {
	test.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.LogOperation(context.Background(), machine.OperationLog{
		Operation:   machine.OperationGiveWinnings,
		SessionID:   "session-1",
		RoundID:     "round-1",
		RoundNumber: 3,
		Amount:      decimal.NewFromInt(10),
		Tier:        machine.TierAllDifferent,
		Status:      "ok",
		Snapshot: machine.Snapshot{
			PrizePot:   decimal.RequireFromString("10.2"),
			PlayerCash: decimal.RequireFromString("19.8"),
		},
	})

	require.Equal(test, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(test, zapcore.DebugLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(test, "give_winnings", fields["operation"])
	assert.Equal(test, "10.00", fields["amount"])
	assert.Equal(test, "10.20", fields["prize_pot"])
	assert.Equal(test, "all_different", fields["tier"])
	assert.Equal(test, "session-1", fields["session_id"])
	assert.EqualValues(test, 3, fields["round"])
}

func TestLogOperationErrorsAtErrorLevel(test *testing.T) {
	test.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.LogOperation(context.Background(), machine.OperationLog{
		Operation: machine.OperationPlayRound,
		Status:    "error",
		Error:     errors.New("journal down"),
	})

	require.Equal(test, 1, logs.Len())
	assert.Equal(test, zapcore.ErrorLevel, logs.All()[0].Level)
	assert.Equal(test, "journal down", logs.All()[0].ContextMap()["error"])
}

func TestParseLevel(test *testing.T) {
	test.Parallel()
	level, err := ParseLevel("")
	require.NoError(test, err)
	assert.Equal(test, zapcore.InfoLevel, level)

	level, err = ParseLevel(" DEBUG ")
	require.NoError(test, err)
	assert.Equal(test, zapcore.DebugLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(test, err)
}

func TestNilLoggerIsSafe(test *testing.T) {
	test.Parallel()
	assert.NotPanics(test, func() {
		NewZapLogger(nil).LogOperation(context.Background(), machine.OperationLog{Operation: machine.OperationTakePayment})
	})
}
