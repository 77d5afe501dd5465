// Package main runs the PTCG Companion backend: a REST and websocket
// server over the collection, deck, wishlist, and gamification cores.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cardvault/ptcg-companion/internal/api"
	"github.com/cardvault/ptcg-companion/internal/api/handlers"
	"github.com/cardvault/ptcg-companion/internal/api/websocket"
	"github.com/cardvault/ptcg-companion/internal/cards/localdata"
	"github.com/cardvault/ptcg-companion/internal/cards/tcgapi"
	"github.com/cardvault/ptcg-companion/internal/collection"
	"github.com/cardvault/ptcg-companion/internal/config"
	"github.com/cardvault/ptcg-companion/internal/deck"
	"github.com/cardvault/ptcg-companion/internal/events"
	"github.com/cardvault/ptcg-companion/internal/gamification"
	"github.com/cardvault/ptcg-companion/internal/settings"
	"github.com/cardvault/ptcg-companion/internal/storage"
	"github.com/cardvault/ptcg-companion/internal/version"
	"github.com/cardvault/ptcg-companion/internal/wishlist"
)

var (
	port   = flag.Int("port", 0, "API server port (overrides config)")
	dbPath = flag.String("db-path", "", "Database path (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	finalDBPath, err := cfg.DatabasePath()
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}

	fmt.Printf("PTCG Companion %s\n", version.GetVersion())
	fmt.Printf("Database: %s\n", finalDBPath)

	storageConfig := storage.DefaultConfig(finalDBPath)
	storageConfig.AutoMigrate = true
	db, err := storage.Open(storageConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	stateRepo := storage.NewStateRepository(db.Conn())
	persister := storage.NewBlobPersister(stateRepo)

	// Stores restore their last persisted snapshot. A missing or corrupt
	// blob leaves the store at its defaults.
	collectionStore := collection.NewStore(persister)
	restoreState(stateRepo, collection.StateName, func(snap collection.Snapshot, version int) {
		collectionStore.Restore(snap, version)
	})

	deckStore := deck.NewStore(persister)
	restoreState(stateRepo, deck.StateName, func(snap deck.Snapshot, version int) {
		deckStore.Restore(snap, version)
	})

	wishlistStore := wishlist.NewStore(persister)
	restoreState(stateRepo, wishlist.StateName, func(snap wishlist.Snapshot, version int) {
		wishlistStore.Restore(snap, version)
	})

	settingsStore := settings.NewStore(persister)
	restoreState(stateRepo, settings.StateName, func(snap settings.Settings, version int) {
		settingsStore.Restore(snap, version)
	})

	dispatcher := events.NewDispatcher()
	tracker := gamification.NewTracker(dispatcher)
	restoreState(stateRepo, gamification.TrackerStateName, func(snap gamification.TrackerSnapshot, _ int) {
		tracker.Restore(snap.EarnedBadgeIDs)
	})

	// Bundled card data with optional live refresh.
	dataDir := cfg.Data.Dir
	if dataDir == "" {
		configDir, dirErr := config.Dir()
		if dirErr != nil {
			log.Fatalf("Failed to resolve config directory: %v", dirErr)
		}
		dataDir = filepath.Join(configDir, "data")
	}
	cardData := localdata.NewStore(dataDir)
	if cfg.Data.Watch {
		go func() {
			if err := cardData.Watch(context.Background()); err != nil && err != context.Canceled {
				log.Printf("Card data watcher stopped: %v", err)
			}
		}()
		defer cardData.Stop()
	}

	// Remote card API fallback.
	var remote *tcgapi.Client
	if cfg.CardAPI.BaseURL != "" {
		opts := []tcgapi.Option{tcgapi.WithBaseURL(cfg.CardAPI.BaseURL)}
		if cfg.CardAPI.APIKey != "" {
			opts = append(opts, tcgapi.WithAPIKey(cfg.CardAPI.APIKey))
		}
		remote = tcgapi.NewClient(opts...)
	}

	exportDir := cfg.Export.OutputDir
	if exportDir == "" {
		configDir, dirErr := config.Dir()
		if dirErr != nil {
			log.Fatalf("Failed to resolve config directory: %v", dirErr)
		}
		exportDir = filepath.Join(configDir, "exports")
	}

	apiConfig := &api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ExportDir:      exportDir,
	}
	server := api.NewServer(apiConfig, api.Deps{
		Collection: collectionStore,
		Decks:      deckStore,
		Wishlist:   wishlistStore,
		Settings:   settingsStore,
		Cards:      cardData,
		Remote:     remote,
		Dispatcher: dispatcher,
		Tracker:    tracker,
		Persister:  persister,
	})

	// Push badge unlocks and store updates to the browser.
	dispatcher.Register(websocket.NewObserver(server.WebSocketHub()))

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	// Seed the earned-badge set so startup does not replay old unlocks.
	// Runs after Start so any unlock the seed does emit reaches the hub's
	// live run loop.
	evaluator := handlers.NewBadgeEvaluator(collectionStore, cardData, tracker, persister)
	evaluator.Evaluate()

	fmt.Printf("API server running at http://localhost:%d\n", server.Port())
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("Stopped.")
}

// restoreState loads a persisted snapshot and applies it. Corrupt or
// missing blobs are logged and skipped so the owning store keeps its
// defaults.
func restoreState[T any](repo storage.StateRepository, name string, apply func(T, int)) {
	var snap T
	version, ok, err := repo.Load(context.Background(), name, &snap)
	if err != nil {
		log.Printf("[Startup] Failed to load %s state, using defaults: %v", name, err)
		return
	}
	if !ok {
		return
	}
	apply(snap, version)
}
