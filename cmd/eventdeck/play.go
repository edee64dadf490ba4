package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/aretw0/eventdeck"
	"github.com/aretw0/eventdeck/internal/config"
	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/internal/presentation/play"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/observability"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Swipe through the deck in the terminal",
	Long: `Opens an interactive deck. Arrow keys drag the top card, enter releases it,
f flings it, esc cancels the drag, m switches the feed, o offers fresh cards
and b applies them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("play needs an interactive terminal")
		}
		logPath, _ := cmd.Flags().GetString("log-file")
		session, _ := cmd.Flags().GetString("session")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		watch, _ := cmd.Flags().GetBool("watch")

		// The screen owns the terminal, so logs go to a file or nowhere.
		logger := logging.NewNop()
		if logPath != "" {
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()
			logger = logging.NewWriter(f, app.level)
		}
		if session == "" {
			session = app.cfg.Deck.Session
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runPlay(ctx, logger, session, metricsAddr, watch)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().String("log-file", "", "Write logs to this file")
	playCmd.Flags().String("session", "", "Resume this tally session")
	playCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	playCmd.Flags().Bool("watch", false, "Log config file changes while playing")
}

func runPlay(ctx context.Context, logger *slog.Logger, session, metricsAddr string, watch bool) error {
	cfg := app.cfg
	feeds, err := config.LoadCards(cfg.Deck.Cards)
	if err != nil {
		return err
	}

	hooks := observability.Chain(app.metrics.Hooks(), observability.LogHooks(logger))
	engine, err := eventdeck.New(
		eventdeck.WithConfig(cfg),
		eventdeck.WithLogger(logger),
		eventdeck.WithLifecycleHooks(hooks),
	)
	if err != nil {
		return err
	}
	deck, err := engine.NewDeck(ctx, feeds, session)
	if err != nil {
		return err
	}
	defer deck.Close()
	logger.Info("deck ready", "session", deck.SessionID(), "mode", deck.Mode())

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	host := play.New(screen, deck, engine.Scheduler(),
		play.WithLogger(logger),
		play.WithOffer(freshCards(deck)),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Quitting the host stops the side goroutines.
		defer cancel()
		return host.Run(ctx)
	})
	if metricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(ctx, metricsAddr, metricsHandler(app.registry), logger)
		})
	}
	if watch && app.cfgPath != "" {
		g.Go(func() error {
			return config.Watch(ctx, app.cfgPath, config.DefaultDebounce, func(next config.Config, err error) {
				if err != nil {
					logger.Warn("config reload rejected", "err", err)
					return
				}
				logger.Info("config changed; restart play to apply",
					"threshold", next.Gesture.Threshold, "mode", next.Deck.Mode)
			})
		})
	}
	err = g.Wait()
	logger.Info("play finished", "session", deck.SessionID(), "saved", len(deck.Tally().Saved))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// freshCards returns an offer source that prepends one generated card to the
// current feed, the way a refreshed listing would.
func freshCards(deck *eventdeck.Deck) func() []domain.Card {
	return func() []domain.Card {
		id := uuid.NewString()
		s := deck.Snapshot()
		cards := []domain.Card{{ID: id, Title: "Nuevo evento " + id[:8]}}
		if s.Card != nil {
			cards = append(cards, *s.Card)
		}
		if s.Next != nil {
			cards = append(cards, *s.Next)
		}
		return cards
	}
}
