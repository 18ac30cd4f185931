// Package oplog adapts machine operation callbacks to zap.
package oplog

import (
	"context"
	"fmt"
	"strings"

	"github.com/MarkoPoloResearchLab/fruitmachine/pkg/machine"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger writes one structured line per machine operation.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger wraps logger. A nil logger discards everything.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger}
}

// LogOperation implements machine.OperationLogger.
func (zapLogger *ZapLogger) LogOperation(_ context.Context, entry machine.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
		zap.Int("round", entry.RoundNumber),
		zap.String("amount", entry.Amount.StringFixed(2)),
		zap.String("prize_pot", entry.Snapshot.PrizePot.StringFixed(2)),
		zap.String("player_cash", entry.Snapshot.PlayerCash.StringFixed(2)),
		zap.Int("free_plays", entry.Snapshot.FreePlays),
	}
	if entry.SessionID != "" {
		fields = append(fields, zap.String("session_id", entry.SessionID))
	}
	if entry.RoundID != "" {
		fields = append(fields, zap.String("round_id", entry.RoundID))
	}
	switch entry.Operation {
	case machine.OperationTakePayment:
		fields = append(fields, zap.Bool("free_play_used", entry.FreePlayUsed))
	case machine.OperationGiveWinnings, machine.OperationPlayRound:
		fields = append(fields, zap.String("tier", entry.Tier.String()), zap.Int("free_plays_awarded", entry.FreePlays))
	}
	if entry.Error != nil {
		zapLogger.logger.Error("machine operation failed", append(fields, zap.Error(entry.Error))...)
		return
	}
	zapLogger.logger.Debug("machine operation", fields...)
}

// NewLogger builds a production zap logger at level (debug, info, warn, error).
func NewLogger(level string) (*zap.Logger, error) {
	parsedLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parsedLevel)
	config.OutputPaths = []string{"stderr"}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}
	return logger, nil
}

// ParseLevel validates a textual log level.
func ParseLevel(level string) (zapcore.Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if normalized == "" {
		return zapcore.InfoLevel, nil
	}
	parsedLevel, err := zapcore.ParseLevel(normalized)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return parsedLevel, nil
}
