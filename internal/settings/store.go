// Package settings owns the user's display preferences.
package settings

import "sync"

const (
	// StateName is the persisted blob slot for the settings store.
	StateName = "settings"

	// SchemaVersion tags the persisted snapshot.
	SchemaVersion = 1

	// MaxShowcaseBadges caps how many badges the profile showcase holds.
	MaxShowcaseBadges = 4
)

// Settings is the flat user preference record. Currency codes and avatar
// URLs are opaque strings; the store does not validate them.
type Settings struct {
	CollectionMode   bool     `json:"collectionMode"`
	Currency         string   `json:"currency"`
	ProfilePublic    bool     `json:"profilePublic"`
	SelectedAvatar   string   `json:"selectedAvatar,omitempty"`
	ShowcaseBadgeIDs []string `json:"showcaseBadgeIds,omitempty"`
}

// UpdateParams carries a partial settings update; nil fields are left
// unchanged.
type UpdateParams struct {
	CollectionMode   *bool     `json:"collectionMode,omitempty"`
	Currency         *string   `json:"currency,omitempty"`
	ProfilePublic    *bool     `json:"profilePublic,omitempty"`
	SelectedAvatar   *string   `json:"selectedAvatar,omitempty"`
	ShowcaseBadgeIDs *[]string `json:"showcaseBadgeIds,omitempty"`
}

// Persister durably records a store snapshot (fire-and-forget).
type Persister interface {
	Persist(name string, version int, state any)
}

// Store holds the settings state.
type Store struct {
	mu sync.RWMutex

	settings Settings

	persister Persister
}

// Defaults returns the settings a fresh profile starts with.
func Defaults() Settings {
	return Settings{
		CollectionMode: true,
		Currency:       "USD",
		ProfilePublic:  true,
	}
}

// NewStore creates a settings store with default values.
func NewStore(persister Persister) *Store {
	return &Store{
		settings:  Defaults(),
		persister: persister,
	}
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Update merges a partial update into the settings. Showcase badge lists
// longer than the cap are truncated to the first MaxShowcaseBadges.
func (s *Store) Update(params UpdateParams) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if params.CollectionMode != nil {
		s.settings.CollectionMode = *params.CollectionMode
	}
	if params.Currency != nil {
		s.settings.Currency = *params.Currency
	}
	if params.ProfilePublic != nil {
		s.settings.ProfilePublic = *params.ProfilePublic
	}
	if params.SelectedAvatar != nil {
		s.settings.SelectedAvatar = *params.SelectedAvatar
	}
	if params.ShowcaseBadgeIDs != nil {
		s.settings.ShowcaseBadgeIDs = capBadges(*params.ShowcaseBadgeIDs)
	}

	s.save()
	return s.copyLocked()
}

// SetCollectionMode toggles collection mode.
func (s *Store) SetCollectionMode(enabled bool) {
	s.Update(UpdateParams{CollectionMode: &enabled})
}

// SetCurrency sets the display currency code.
func (s *Store) SetCurrency(code string) {
	s.Update(UpdateParams{Currency: &code})
}

// SetProfilePublic sets the profile sharing flag.
func (s *Store) SetProfilePublic(public bool) {
	s.Update(UpdateParams{ProfilePublic: &public})
}

// SetAvatar sets the avatar URL.
func (s *Store) SetAvatar(url string) {
	s.Update(UpdateParams{SelectedAvatar: &url})
}

// SetShowcaseBadges replaces the showcased badge ids, truncated to the cap.
func (s *Store) SetShowcaseBadges(ids []string) {
	s.Update(UpdateParams{ShowcaseBadgeIDs: &ids})
}

// Reset reinitializes the settings to defaults.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = Defaults()
	s.save()
}

// Snapshot returns the persisted representation of the store.
func (s *Store) Snapshot() Settings {
	return s.Get()
}

// Restore replaces the settings with a persisted snapshot, re-applying the
// showcase cap in case the blob predates it.
func (s *Store) Restore(snap Settings, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = version // single schema version so far

	snap.ShowcaseBadgeIDs = capBadges(snap.ShowcaseBadgeIDs)
	s.settings = snap
}

func (s *Store) copyLocked() Settings {
	c := s.settings
	c.ShowcaseBadgeIDs = append([]string(nil), s.settings.ShowcaseBadgeIDs...)
	return c
}

func capBadges(ids []string) []string {
	if len(ids) > MaxShowcaseBadges {
		ids = ids[:MaxShowcaseBadges]
	}
	return append([]string(nil), ids...)
}

func (s *Store) save() {
	if s.persister == nil {
		return
	}
	s.persister.Persist(StateName, SchemaVersion, s.copyLocked())
}
