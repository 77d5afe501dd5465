// Package localdata loads bundled card and set data from JSON files on disk.
//
// The data directory layout mirrors the pokemon-tcg-data distribution:
//
//	<dir>/sets.json            - array of set definitions
//	<dir>/cards/<setID>.json   - array of cards for one set
//
// Loaded files are cached in memory. When watching is enabled the cache is
// invalidated automatically whenever a data file changes on disk.
package localdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/cardvault/ptcg-companion/internal/cards"
)

// Store serves card and set data from a local data directory.
type Store struct {
	dir string

	mu       sync.RWMutex
	sets     []cards.SetInfo
	setCards map[string][]cards.Card

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store backed by the given data directory.
// No files are read until data is requested.
func NewStore(dir string) *Store {
	return &Store{
		dir:      dir,
		setCards: make(map[string][]cards.Card),
		stopChan: make(chan struct{}),
	}
}

// Sets returns all bundled set definitions, sorted by release date
// (newest first). The result is loaded from sets.json on first use.
func (s *Store) Sets() ([]cards.SetInfo, error) {
	s.mu.RLock()
	cached := s.sets
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	path := filepath.Join(s.dir, "sets.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read set data: %w", err)
	}

	var sets []cards.SetInfo
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("failed to parse set data: %w", err)
	}

	sort.Slice(sets, func(i, j int) bool {
		return sets[i].ReleaseDate > sets[j].ReleaseDate
	})

	s.mu.Lock()
	s.sets = sets
	s.mu.Unlock()

	return sets, nil
}

// Set returns a single set definition by ID.
func (s *Store) Set(setID string) (*cards.SetInfo, error) {
	sets, err := s.Sets()
	if err != nil {
		return nil, err
	}
	for i := range sets {
		if sets[i].ID == setID {
			set := sets[i]
			return &set, nil
		}
	}
	return nil, fmt.Errorf("set %s not found in local data", setID)
}

// SetCards returns all cards in a set, loading cards/<setID>.json on
// first use and caching the result.
func (s *Store) SetCards(setID string) ([]cards.Card, error) {
	s.mu.RLock()
	cached, ok := s.setCards[setID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path := filepath.Join(s.dir, "cards", setID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card data for set %s: %w", setID, err)
	}

	var list []cards.Card
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse card data for set %s: %w", setID, err)
	}

	s.mu.Lock()
	s.setCards[setID] = list
	s.mu.Unlock()

	return list, nil
}

// Card looks up a single card by its full ID (e.g. "sv1-25"). The set
// portion of the ID selects which data file to search.
func (s *Store) Card(cardID string) (*cards.Card, error) {
	setID, _, ok := strings.Cut(cardID, "-")
	if !ok {
		return nil, fmt.Errorf("invalid card ID %q", cardID)
	}

	list, err := s.SetCards(setID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == cardID {
			card := list[i]
			return &card, nil
		}
	}
	return nil, fmt.Errorf("card %s not found in local data", cardID)
}

// SearchCards returns cards whose name contains the query, case
// insensitively, across all loaded sets. Sets that have not been
// loaded yet are read on demand.
func (s *Store) SearchCards(query string) ([]cards.Card, error) {
	sets, err := s.Sets()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var matches []cards.Card
	for _, set := range sets {
		list, err := s.SetCards(set.ID)
		if err != nil {
			// Sets listed in sets.json may not have a card file bundled.
			continue
		}
		for _, c := range list {
			if strings.Contains(strings.ToLower(c.Name), query) {
				matches = append(matches, c)
			}
		}
	}
	return matches, nil
}

// Invalidate drops all cached data so the next request re-reads from disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.sets = nil
	s.setCards = make(map[string][]cards.Card)
	s.mu.Unlock()
}

// Watch monitors the data directory for changes and invalidates the
// cache whenever a JSON file is written, created, or removed. Blocks
// until the context is cancelled or Stop is called.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("failed to watch data directory: %w", err)
	}
	// The cards subdirectory is optional; watch it when present.
	cardsDir := filepath.Join(s.dir, "cards")
	if info, statErr := os.Stat(cardsDir); statErr == nil && info.IsDir() {
		if err := watcher.Add(cardsDir); err != nil {
			return fmt.Errorf("failed to watch card data directory: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopChan:
			return nil
		case event := <-watcher.Events:
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				log.Printf("[LocalData] Data file changed (%s), invalidating cache", filepath.Base(event.Name))
				s.Invalidate()
			}
		case watchErr := <-watcher.Errors:
			log.Printf("[LocalData] File watcher error: %v", watchErr)
		}
	}
}

// Stop stops a running Watch loop.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}
