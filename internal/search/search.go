// Package search provides text search over a user's todos: Meilisearch when
// configured and healthy, otherwise a scan of the ledger document.
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Query is a user-scoped search request.
type Query struct {
	UserID string
	Text   string
	Limit  int
}

// Result is one matching todo.
type Result struct {
	TodoID    int64  `json:"id"`
	Text      string `json:"text"`
	Diamonds  int    `json:"diamonds"`
	Completed bool   `json:"completed"`
}

// Response is the search payload returned to clients.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// TodoRecord is the indexed shape of a todo. The document id is derived from
// the user id and todo id because index ids must be url-safe while user ids
// are opaque provider strings.
type TodoRecord struct {
	DocID     string `json:"docId"`
	UserID    string `json:"userId"`
	TodoID    int64  `json:"todoId"`
	Text      string `json:"text"`
	Diamonds  int    `json:"diamonds"`
	Completed bool   `json:"completed"`
}

func docID(userID string, todoID int64) string {
	sum := sha256.Sum256([]byte(userID))
	return fmt.Sprintf("%s-%d", hex.EncodeToString(sum[:8]), todoID)
}

// Searcher is a backend able to answer user-scoped todo queries.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Result, int, error)
}
