package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cardvault/ptcg-companion/internal/api/response"
	"github.com/cardvault/ptcg-companion/internal/settings"
)

// SettingsHandler handles settings-related API requests.
type SettingsHandler struct {
	store *settings.Store
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// GetSettings returns the current settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.Get())
}

// UpdateSettings applies a partial settings update. Omitted fields keep
// their current values.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var params settings.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		response.BadRequest(w, err)
		return
	}

	response.Success(w, h.store.Update(params))
}

// ResetSettings restores the default settings.
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	response.Success(w, h.store.Get())
}
