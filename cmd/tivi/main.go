package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/tamojit-123/tivi/internal/config"
	"github.com/tamojit-123/tivi/internal/log"
	"github.com/tamojit-123/tivi/internal/showdetails"
	"github.com/tamojit-123/tivi/internal/store"
	"github.com/tamojit-123/tivi/internal/tmdb"
	"github.com/tamojit-123/tivi/internal/tracker"
	"github.com/tamojit-123/tivi/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("tivi %s\n", Version)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tivi [flags] <tmdb-show-id>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(showID string) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, logFile, err := log.Open(cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting tivi", "version", Version, "showID", showID)

	// Check if configured
	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	// Open the local tracker database
	showStore, err := store.NewShowStore(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer showStore.Close()

	// Wire client -> tracker -> view model
	client := tmdb.NewClient(cfg.Tmdb.APIKey, logger)
	svc := tracker.NewService(client, showStore, logger)
	vm := showdetails.NewViewModel(showID, svc, svc, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vm.Start(ctx)
	defer vm.Close()

	// Run the TUI
	p := tea.NewProgram(
		tui.NewModel(ctx, vm),
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the TMDB API key on first start
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Tivi!")
	fmt.Println()
	fmt.Print("Enter your TMDB API key (input hidden): ")

	keyBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read api key: %w", err)
	}

	key := strings.TrimSpace(string(keyBytes))
	if key == "" {
		return fmt.Errorf("api key is required")
	}

	if err := config.SaveAPIKey(key); err != nil {
		return err
	}
	cfg.Tmdb.APIKey = key

	fmt.Println("Saved. Starting up…")
	return nil
}
