package journal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlaySession represents the play_sessions table.
type PlaySession struct {
	SessionID    string           `gorm:"type:uuid;primaryKey"`
	OpeningCash  decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	OpeningPot   decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	ClosingCash  *decimal.Decimal `gorm:"type:numeric(14,2)"`
	ClosingPot   *decimal.Decimal `gorm:"type:numeric(14,2)"`
	RoundsPlayed int              `gorm:"not null;default:0"`
	StartedAt    time.Time        `gorm:"not null;index:idx_play_sessions_started"`
	FinishedAt   *time.Time
}

func (PlaySession) TableName() string { return "play_sessions" }

func (session *PlaySession) BeforeCreate(tx *gorm.DB) error {
	if session.SessionID == "" {
		session.SessionID = uuid.NewString()
	}
	return nil
}

// RoundRecord mirrors the rounds table.
type RoundRecord struct {
	RoundID          string          `gorm:"type:uuid;primaryKey"`
	SessionID        string          `gorm:"type:uuid;not null;index:idx_rounds_session_number,priority:1"`
	Number           int             `gorm:"not null;index:idx_rounds_session_number,priority:2"`
	Slots            datatypes.JSON  `gorm:"not null"`
	Tier             string          `gorm:"not null"`
	Payout           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	FreePlayUsed     bool            `gorm:"not null"`
	Winnings         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	FreePlaysAwarded int             `gorm:"not null"`
	PrizePotBefore   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PrizePot         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PlayerCash       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	FreePlays        int             `gorm:"not null"`
	CreatedAt        time.Time       `gorm:"not null"`
}

func (RoundRecord) TableName() string { return "rounds" }

func (record *RoundRecord) BeforeCreate(tx *gorm.DB) error {
	if record.RoundID == "" {
		record.RoundID = uuid.NewString()
	}
	return nil
}
