// Package session drives a machine from a question-and-answer prompt.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MarkoPoloResearchLab/fruitmachine/pkg/machine"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	PromptStartingCash = "How much money would you like to start with? "
	PromptPlayAgain    = "Would you like to play again? y/n "

	affirmativeAnswer = "y"
	clearScreen       = "\033[H\033[2J"
	moneyPlaces       = 2
)

// Game is the part of machine.Machine a session needs.
type Game interface {
	PlayRound(ctx context.Context) (machine.Round, error)
	Snapshot() machine.Snapshot
	RoundsPlayed() int
}

// GameFactory builds a fresh game once the opening cash is known.
type GameFactory func(ctx context.Context, openingCash decimal.Decimal) (Game, error)

// Options tune rendering and input handling.
type Options struct {
	CurrencySymbol      string
	AllowFractionalCash bool
	ClearScreen         bool
	Logger              *zap.Logger
}

// Summary describes a finished session.
type Summary struct {
	Started     bool
	OpeningCash decimal.Decimal
	Rounds      int
	Final       machine.Snapshot
}

// Session is one player's run at the machine.
type Session struct {
	ask     Asker
	out     io.Writer
	newGame GameFactory
	options Options
}

// New wires a Session.
func New(ask Asker, out io.Writer, newGame GameFactory, options Options) (*Session, error) {
	if ask == nil {
		return nil, errors.New("session: asker is nil")
	}
	if out == nil {
		return nil, errors.New("session: output writer is nil")
	}
	if newGame == nil {
		return nil, errors.New("session: game factory is nil")
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return &Session{ask: ask, out: out, newGame: newGame, options: options}, nil
}

// Run asks for the opening cash, then plays rounds until the player declines,
// runs out of cash, input ends or ctx is cancelled between rounds.
func (session *Session) Run(ctx context.Context) (Summary, error) {
	session.clear()
	openingCash, err := session.askStartingCash(ctx)
	if errors.Is(err, io.EOF) {
		return Summary{}, nil
	}
	if err != nil {
		return Summary{}, err
	}

	game, err := session.newGame(ctx, openingCash)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Started: true, OpeningCash: openingCash}
	finish := func() Summary {
		summary.Rounds = game.RoundsPlayed()
		summary.Final = game.Snapshot()
		return summary
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(), err
		}
		session.clear()
		round, err := game.PlayRound(ctx)
		if err != nil {
			if round.Number == 0 {
				return finish(), err
			}
			session.options.Logger.Warn("round not journaled", zap.Int("round", round.Number), zap.Error(err))
		}
		if err := session.render(round); err != nil {
			return finish(), err
		}
		answer, err := session.ask(ctx, PromptPlayAgain)
		if errors.Is(err, io.EOF) {
			return finish(), nil
		}
		if err != nil {
			return finish(), err
		}
		if !round.After.PlayerCash.IsPositive() {
			session.printf("You have run out of money.\n")
			return finish(), nil
		}
		if !IsAffirmative(answer) {
			return finish(), nil
		}
	}
}

func (session *Session) askStartingCash(ctx context.Context) (decimal.Decimal, error) {
	for {
		answer, err := session.ask(ctx, PromptStartingCash)
		if err != nil {
			return decimal.Zero, err
		}
		cash, err := ParseStartingCash(answer, session.options.AllowFractionalCash)
		if err == nil {
			return cash, nil
		}
		session.options.Logger.Debug("starting cash rejected", zap.String("answer", answer), zap.Error(err))
		session.printf("Please enter an amount of zero or more.\n")
	}
}

func (session *Session) render(round machine.Round) error {
	after := round.After
	lines := []string{
		fmt.Sprintf("The prize pot is %s.", session.money(round.PrizePotBefore)),
		round.Slots.String(),
		fmt.Sprintf("You won %s.", session.money(after.CurrentGame.Winnings)),
		fmt.Sprintf("You won %d free plays.", after.CurrentGame.FreePlaysAwarded),
		fmt.Sprintf("You have %s in the bank.", session.money(after.PlayerCash)),
		fmt.Sprintf("Free plays: %d", after.FreePlays),
	}
	_, err := fmt.Fprintln(session.out, strings.Join(lines, "\n"))
	return err
}

func (session *Session) money(amount decimal.Decimal) string {
	return FormatMoney(session.options.CurrencySymbol, amount)
}

// FormatMoney renders amount to two places with the sign ahead of the symbol, e.g. -£0.20.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + symbol + amount.Neg().StringFixed(moneyPlaces)
	}
	return symbol + amount.StringFixed(moneyPlaces)
}

func (session *Session) clear() {
	if session.options.ClearScreen {
		session.printf(clearScreen)
	}
}

func (session *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(session.out, format, args...)
}

// IsAffirmative reports whether answer means yes. Anything but "y" is a no.
func IsAffirmative(answer string) bool {
	return strings.ToLower(strings.TrimSpace(answer)) == affirmativeAnswer
}
