package tcgapi

import (
	"fmt"

	"github.com/cardvault/ptcg-companion/internal/cards"
)

// CardPage is one page of a card search result.
type CardPage struct {
	Cards      []cards.Card `json:"cards"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	Count      int          `json:"count"`
	TotalCount int          `json:"totalCount"`
}

// cardResponse is the API envelope for a single card.
type cardResponse struct {
	Data cards.Card `json:"data"`
}

// cardListResponse is the API envelope for a card list.
type cardListResponse struct {
	Data       []cards.Card `json:"data"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	Count      int          `json:"count"`
	TotalCount int          `json:"totalCount"`
}

// setResponse is the API envelope for a single set.
type setResponse struct {
	Data cards.SetInfo `json:"data"`
}

// setListResponse is the API envelope for a set list.
type setListResponse struct {
	Data []cards.SetInfo `json:"data"`
}

// NotFoundError indicates the requested resource does not exist.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// APIError is a structured error response from the API.
type APIError struct {
	StatusCode int `json:"-"`
	Err        struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Err.Message)
}
