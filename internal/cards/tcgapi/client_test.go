package tcgapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(WithBaseURL(server.URL), WithAPIKey("test-key"))
	return client, server
}

func TestClient_GetCard(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/base1-4" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Error("missing X-Api-Key header")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id":   "base1-4",
				"name": "Charizard",
				"set":  map[string]any{"id": "base1", "name": "Base", "total": 102},
				"tcgplayer": map[string]any{
					"prices": map[string]any{
						"holofoil": map[string]any{"market": 320.5},
					},
				},
			},
		})
	}))
	defer server.Close()

	card, err := client.GetCard(context.Background(), "base1-4")
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if card.Name != "Charizard" || card.Set.ID != "base1" {
		t.Errorf("card = %+v", card)
	}
	if card.TCGPlayer == nil || card.TCGPlayer.Prices["holofoil"].Market != 320.5 {
		t.Errorf("pricing not decoded: %+v", card.TCGPlayer)
	}
}

func TestClient_SearchCardsPagination(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "set.id:base1" {
			t.Errorf("query = %q", got)
		}
		pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
		data := []map[string]any{{"id": "base1-1", "name": "Alakazam"}}
		if pageNum == 2 {
			data = []map[string]any{{"id": "base1-2", "name": "Blastoise"}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":       data,
			"page":       pageNum,
			"pageSize":   1,
			"count":      1,
			"totalCount": 2,
		})
	}))
	defer server.Close()

	all, err := client.GetSetCards(context.Background(), "base1")
	if err != nil {
		t.Fatalf("GetSetCards failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "base1-1" || all[1].ID != "base1-2" {
		t.Errorf("cards = %+v", all)
	}
}

func TestClient_NotFound(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := client.GetCard(context.Background(), "missing-1")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestClient_APIError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad query","code":400}}`))
	}))
	defer server.Close()

	_, err := client.SearchCards(context.Background(), "???", 0, 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Err.Message != "bad query" || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("apiErr = %+v", apiErr)
	}
}
