package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MarkoPoloResearchLab/fruitmachine/pkg/machine"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	constraintRoundsPrimary = "rounds_pkey"
	pgUniqueViolationCode   = "23505"
	sqlitePrimaryKeyCode    = 1555
	sqliteUniqueCode        = 2067
	errorOperationJournal   = "journal"
	errorSubjectSession     = "session"
	errorSubjectRound       = "round"
	errorCodeCreate         = "create"
	errorCodeDuplicate      = "duplicate"
	errorCodeFinish         = "finish"
	errorCodeInsert         = "insert"
	errorCodeInvalid        = "invalid"
	errorCodeList           = "list"
)

// SessionSummary is one row of the session history.
type SessionSummary struct {
	SessionID    string
	OpeningCash  decimal.Decimal
	OpeningPot   decimal.Decimal
	ClosingCash  *decimal.Decimal
	ClosingPot   *decimal.Decimal
	RoundsPlayed int
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Store journals sessions and rounds using GORM. It implements machine.RoundRecorder.
type Store struct {
	db    *gorm.DB
	nowFn func() time.Time
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db, nowFn: func() time.Time { return time.Now().UTC() }}
}

// StartSession inserts a session row and returns its id.
func (store *Store) StartSession(ctx context.Context, openingCash decimal.Decimal, openingPot decimal.Decimal) (string, error) {
	session := PlaySession{
		OpeningCash: openingCash,
		OpeningPot:  openingPot,
		StartedAt:   store.nowFn(),
	}
	if err := store.db.WithContext(ctx).Create(&session).Error; err != nil {
		return "", wrapJournalError(errorSubjectSession, errorCodeCreate, err)
	}
	return session.SessionID, nil
}

// FinishSession stores the closing balances of a session.
func (store *Store) FinishSession(ctx context.Context, sessionID string, snapshot machine.Snapshot, roundsPlayed int) error {
	finishedAt := store.nowFn()
	result := store.db.WithContext(ctx).
		Model(&PlaySession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"closing_cash":  snapshot.PlayerCash,
			"closing_pot":   snapshot.PrizePot,
			"rounds_played": roundsPlayed,
			"finished_at":   finishedAt,
		})
	if result.Error != nil {
		return wrapJournalError(errorSubjectSession, errorCodeFinish, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapJournalError(errorSubjectSession, errorCodeFinish, machine.ErrUnknownSession)
	}
	return nil
}

// RecordRound appends one completed round.
func (store *Store) RecordRound(ctx context.Context, round machine.Round) error {
	slots, err := json.Marshal(round.Slots.Strings())
	if err != nil {
		return wrapJournalError(errorSubjectRound, errorCodeInvalid, err)
	}
	record := RoundRecord{
		RoundID:          round.ID,
		SessionID:        round.SessionID,
		Number:           round.Number,
		Slots:            datatypes.JSON(slots),
		Tier:             round.Tier.String(),
		Payout:           round.Payout,
		FreePlayUsed:     round.FreePlayUsed,
		Winnings:         round.After.CurrentGame.Winnings,
		FreePlaysAwarded: round.After.CurrentGame.FreePlaysAwarded,
		PrizePotBefore:   round.PrizePotBefore,
		PrizePot:         round.After.PrizePot,
		PlayerCash:       round.After.PlayerCash,
		FreePlays:        round.After.FreePlays,
		CreatedAt:        store.nowFn(),
	}
	err = store.db.WithContext(ctx).Create(&record).Error
	if isRoundConflict(err) {
		return wrapJournalError(errorSubjectRound, errorCodeDuplicate, machine.ErrDuplicateRound)
	}
	if err != nil {
		return wrapJournalError(errorSubjectRound, errorCodeInsert, err)
	}
	return nil
}

// ListRounds returns the rounds of a session in play order, at most limit when limit > 0.
func (store *Store) ListRounds(ctx context.Context, sessionID string, limit int) ([]machine.Round, error) {
	query := store.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("number ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []RoundRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, wrapJournalError(errorSubjectRound, errorCodeList, err)
	}
	rounds := make([]machine.Round, 0, len(rows))
	for _, row := range rows {
		round, err := mapRoundRecord(row)
		if err != nil {
			return nil, wrapJournalError(errorSubjectRound, errorCodeInvalid, err)
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}

// ListSessions returns the most recent sessions first.
func (store *Store) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	query := store.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []PlaySession
	if err := query.Find(&rows).Error; err != nil {
		return nil, wrapJournalError(errorSubjectSession, errorCodeList, err)
	}
	summaries := make([]SessionSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, SessionSummary{
			SessionID:    row.SessionID,
			OpeningCash:  row.OpeningCash,
			OpeningPot:   row.OpeningPot,
			ClosingCash:  row.ClosingCash,
			ClosingPot:   row.ClosingPot,
			RoundsPlayed: row.RoundsPlayed,
			StartedAt:    row.StartedAt,
			FinishedAt:   row.FinishedAt,
		})
	}
	return summaries, nil
}

func mapRoundRecord(row RoundRecord) (machine.Round, error) {
	var values []string
	if err := json.Unmarshal(row.Slots, &values); err != nil {
		return machine.Round{}, err
	}
	if len(values) != machine.SlotCount {
		return machine.Round{}, fmt.Errorf("%w: stored %d symbols", machine.ErrInvalidSlots, len(values))
	}
	var slots machine.Slots
	for index, value := range values {
		slots[index] = machine.Symbol(value)
	}
	tier, err := machine.ParseTier(row.Tier)
	if err != nil {
		return machine.Round{}, err
	}
	return machine.Round{
		ID:             row.RoundID,
		SessionID:      row.SessionID,
		Number:         row.Number,
		Slots:          slots,
		Tier:           tier,
		Payout:         row.Payout,
		FreePlayUsed:   row.FreePlayUsed,
		PrizePotBefore: row.PrizePotBefore,
		After: machine.Snapshot{
			PrizePot:   row.PrizePot,
			PlayerCash: row.PlayerCash,
			FreePlays:  row.FreePlays,
			CurrentGame: machine.CurrentGame{
				Winnings:         row.Winnings,
				FreePlaysAwarded: row.FreePlaysAwarded,
			},
		},
	}, nil
}

func wrapJournalError(subject string, code string, err error) error {
	return machine.WrapError(errorOperationJournal, subject, code, err)
}

func isRoundConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode && pgErr.ConstraintName == constraintRoundsPrimary
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlitePrimaryKeyCode || code == sqliteUniqueCode
	}
	return false
}
