package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/cardvault/ptcg-companion/internal/api/handlers"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes(cfg *Config) {
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		collectionHandler := handlers.NewCollectionHandler(s.deps.Collection, s.deps.Cards, s.deps.Dispatcher, s.evaluator)
		r.Route("/collection", func(r chi.Router) {
			r.Get("/", collectionHandler.GetCollection)
			r.Delete("/", collectionHandler.ClearCollection)
			r.Get("/stats", collectionHandler.GetStats)
			r.Get("/sets", collectionHandler.GetSetSummaries)
			r.Get("/sets/{setID}", collectionHandler.GetSetProgress)
			r.Post("/cards", collectionHandler.AddCard)
			r.Put("/cards", collectionHandler.UpdateQuantity)
			r.Delete("/cards", collectionHandler.RemoveCard)
			r.Get("/recent", collectionHandler.GetRecent)
			r.Get("/top-value", collectionHandler.GetTopValue)
			r.Get("/favorite", collectionHandler.GetFavorite)
			r.Put("/favorite", collectionHandler.SetFavorite)
			r.Get("/value-history", collectionHandler.GetValueHistory)
			r.Post("/value-history", collectionHandler.SnapshotValue)
		})

		deckHandler := handlers.NewDeckHandler(s.deps.Decks, s.deps.Cards, s.deps.Dispatcher)
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.GetDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Get("/active", deckHandler.GetActiveDeck)
			r.Put("/active", deckHandler.SetActiveDeck)
			r.Get("/{deckID}", deckHandler.GetDeck)
			r.Put("/{deckID}", deckHandler.UpdateDeck)
			r.Delete("/{deckID}", deckHandler.DeleteDeck)
			r.Post("/{deckID}/cards", deckHandler.AddDeckCard)
			r.Put("/{deckID}/cards/{cardID}", deckHandler.UpdateDeckCard)
			r.Delete("/{deckID}/cards/{cardID}", deckHandler.RemoveDeckCard)
		})

		wishlistHandler := handlers.NewWishlistHandler(s.deps.Wishlist, s.deps.Cards)
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Post("/", wishlistHandler.AddCard)
			r.Delete("/", wishlistHandler.ClearWishlist)
			r.Get("/sets", wishlistHandler.GetWishlistBySet)
			r.Get("/recent", wishlistHandler.GetRecent)
			r.Delete("/{cardID}", wishlistHandler.RemoveCard)
		})

		settingsHandler := handlers.NewSettingsHandler(s.deps.Settings)
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.GetSettings)
			r.Put("/", settingsHandler.UpdateSettings)
			r.Post("/reset", settingsHandler.ResetSettings)
		})

		gamificationHandler := handlers.NewGamificationHandler(s.evaluator)
		r.Route("/gamification", func(r chi.Router) {
			r.Get("/level", gamificationHandler.GetLevel)
			r.Get("/levels", gamificationHandler.GetLevels)
			r.Get("/badges", gamificationHandler.GetBadges)
			r.Get("/stats", gamificationHandler.GetStats)
		})

		cardsHandler := handlers.NewCardsHandler(s.deps.Cards, s.deps.Remote)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardsHandler.SearchCards)
			r.Get("/{cardID}", cardsHandler.GetCard)
		})
		r.Route("/sets", func(r chi.Router) {
			r.Get("/", cardsHandler.GetSets)
			r.Get("/{setID}", cardsHandler.GetSet)
			r.Get("/{setID}/cards", cardsHandler.GetSetCards)
		})

		exportHandler := handlers.NewExportHandler(cfg.ExportDir, s.deps.Collection, s.deps.Decks, s.deps.Wishlist, s.evaluator, s.deps.Cards)
		r.Route("/export", func(r chi.Router) {
			r.Post("/collection", exportHandler.ExportCollection)
			r.Post("/decks", exportHandler.ExportDecks)
			r.Post("/wishlist", exportHandler.ExportWishlist)
			r.Post("/charts/value-history", exportHandler.ChartValueHistory)
			r.Post("/charts/set-completion", exportHandler.ChartSetCompletion)
			r.Post("/charts/type-distribution", exportHandler.ChartTypeDistribution)
		})
	})
}
