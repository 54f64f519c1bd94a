package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/docqa-tools/reviewdeck/internal/api"
	"github.com/docqa-tools/reviewdeck/internal/config"
	"github.com/docqa-tools/reviewdeck/internal/evaluation"
	"github.com/docqa-tools/reviewdeck/internal/generation"
	"github.com/docqa-tools/reviewdeck/internal/logging"
	"github.com/docqa-tools/reviewdeck/internal/review"
	"github.com/docqa-tools/reviewdeck/internal/session"
	"github.com/docqa-tools/reviewdeck/internal/tui"
)

func main() {
	configPath := flag.String("config", "reviewdeck.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to a file only. The TUI owns the terminal, so a console
	// sink would tear the screen.
	log := logging.New(cfg.LogFile, cfg.Debug)
	defer log.Sync()

	client, err := api.New(cfg.BaseURL,
		api.WithLogger(log.Named("api")),
		api.WithTimeout(cfg.HTTPTimeout),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building API client: %v\n", err)
		os.Exit(1)
	}

	sess := session.New()
	loader := session.NewLoader(client, sess)
	reviewFlow := review.NewFlow(client, sess, log.Named("review"))
	aggregator := evaluation.New(sess, client, log.Named("evaluation"))

	bridge := tui.NewEventBridge()
	poller := generation.New(client, loader, sess, bridge,
		generation.WithInterval(cfg.PollInterval),
		generation.WithMaxAttempts(cfg.PollAttempts),
		generation.WithLogger(log.Named("generation")),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := tui.New(ctx, tui.Deps{
		Log:        log.Named("tui"),
		Session:    sess,
		Loader:     loader,
		Review:     reviewFlow,
		Evaluation: aggregator,
		Poller:     poller,
		Generator:  client,
		Events:     bridge.Events(),
	})

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error("tui exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
