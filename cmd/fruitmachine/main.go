package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/MarkoPoloResearchLab/fruitmachine/internal/config"
	"github.com/MarkoPoloResearchLab/fruitmachine/internal/journal"
	"github.com/MarkoPoloResearchLab/fruitmachine/internal/oplog"
	"github.com/MarkoPoloResearchLab/fruitmachine/internal/script"
	"github.com/MarkoPoloResearchLab/fruitmachine/internal/session"
	"github.com/MarkoPoloResearchLab/fruitmachine/pkg/machine"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fruitmachine: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &config.Config{}
	cmd := &cobra.Command{
		Use:           "fruitmachine",
		Short:         "Play a four-reel fruit machine at the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			*cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runPlay(ctx, *cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	config.RegisterFlags(cmd.PersistentFlags())
	cmd.AddCommand(newHistoryCommand())
	return cmd
}

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history [session-id]",
		Short: "List journaled sessions, or the rounds of one session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if !cfg.JournalEnabled() {
				return fmt.Errorf("--%s is required for history", config.FlagDatabaseURL)
			}
			db, cleanup, err := journal.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("database open: %w", err)
			}
			defer func() { _ = cleanup() }()
			store := journal.New(db)
			if len(args) == 1 {
				return printRounds(cmd.Context(), cmd.OutOrStdout(), store, args[0], cfg)
			}
			return printSessions(cmd.Context(), cmd.OutOrStdout(), store, cfg)
		},
	}
}

func runPlay(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	logger, err := oplog.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var store *journal.Store
	if cfg.JournalEnabled() {
		db, cleanup, err := journal.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database open: %w", err)
		}
		defer func() { _ = cleanup() }()
		store = journal.New(db)
	}

	var source machine.SymbolSource = machine.NewRandomSource(cfg.Seed)
	alphabet := machine.DefaultAlphabet()
	if cfg.ScriptPath != "" {
		parsed, err := script.Load(cfg.ScriptPath)
		if err != nil {
			return err
		}
		scripted, scriptedAlphabet, err := parsed.Source()
		if err != nil {
			return err
		}
		source, alphabet = scripted, scriptedAlphabet
		logger.Info("replaying scripted draws", zap.String("script", cfg.ScriptPath), zap.Int("draws", len(parsed.Draws)))
	}

	var sessionID string
	factory := func(ctx context.Context, openingCash decimal.Decimal) (session.Game, error) {
		ledger, err := machine.NewLedger(machine.DefaultPaytable(), cfg.OpeningPot, openingCash)
		if err != nil {
			return nil, err
		}
		options := []machine.MachineOption{machine.WithOperationLogger(oplog.NewZapLogger(logger))}
		if store != nil {
			sessionID, err = store.StartSession(ctx, openingCash, cfg.OpeningPot)
			if err != nil {
				return nil, err
			}
			options = append(options, machine.WithSessionID(sessionID), machine.WithRoundRecorder(store))
			logger.Info("session started", zap.String("session_id", sessionID))
		}
		return machine.NewMachine(ledger, source, alphabet, options...)
	}

	play, err := session.New(session.NewLineAsker(in, out), out, factory, session.Options{
		CurrencySymbol:      cfg.CurrencySymbol,
		AllowFractionalCash: cfg.AllowFractionalCash,
		ClearScreen:         cfg.ClearScreen,
		Logger:              logger,
	})
	if err != nil {
		return err
	}
	summary, runErr := play.Run(ctx)
	if store != nil && sessionID != "" {
		if err := store.FinishSession(context.WithoutCancel(ctx), sessionID, summary.Final, summary.Rounds); err != nil {
			logger.Warn("session not closed in journal", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if summary.Started {
		fmt.Fprintf(out, "\nThanks for playing. You leave with %s after %d rounds.\n",
			session.FormatMoney(cfg.CurrencySymbol, summary.Final.PlayerCash), summary.Rounds)
	}
	return nil
}

func printSessions(ctx context.Context, out io.Writer, store *journal.Store, cfg config.Config) error {
	sessions, err := store.ListSessions(ctx, cfg.HistoryLimit)
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "SESSION\tSTARTED\tROUNDS\tOPENING CASH\tCLOSING CASH")
	for _, summary := range sessions {
		closing := "-"
		if summary.ClosingCash != nil {
			closing = session.FormatMoney(cfg.CurrencySymbol, *summary.ClosingCash)
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\t%s\n",
			summary.SessionID,
			summary.StartedAt.Format("2006-01-02 15:04:05"),
			summary.RoundsPlayed,
			session.FormatMoney(cfg.CurrencySymbol, summary.OpeningCash),
			closing,
		)
	}
	return writer.Flush()
}

func printRounds(ctx context.Context, out io.Writer, store *journal.Store, sessionID string, cfg config.Config) error {
	rounds, err := store.ListRounds(ctx, sessionID, cfg.HistoryLimit)
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "ROUND\tSLOTS\tTIER\tWON\tFREE PLAYS WON\tCASH\tPOT")
	for _, round := range rounds {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			round.Number,
			round.Slots,
			round.Tier,
			session.FormatMoney(cfg.CurrencySymbol, round.After.CurrentGame.Winnings),
			round.After.CurrentGame.FreePlaysAwarded,
			session.FormatMoney(cfg.CurrencySymbol, round.After.PlayerCash),
			session.FormatMoney(cfg.CurrencySymbol, round.After.PrizePot),
		)
	}
	return writer.Flush()
}
