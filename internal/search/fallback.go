package search

import (
	"context"
	"strings"

	"petrock/internal/profile"
)

// LedgerScan answers queries by reading the user's ledger and substring
// matching. Slower per query but always consistent with the store, which
// makes it the safe fallback when Meilisearch is down.
type LedgerScan struct {
	profiles profile.Store
}

func NewLedgerScan(profiles profile.Store) *LedgerScan {
	return &LedgerScan{profiles: profiles}
}

func (s *LedgerScan) Search(ctx context.Context, q Query) ([]Result, int, error) {
	l, err := s.profiles.Get(ctx, q.UserID)
	if err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit == 0 {
		limit = 20
	}
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	var results []Result
	total := 0
	for _, todo := range l.Todos {
		if needle != "" && !strings.Contains(strings.ToLower(todo.Text), needle) {
			continue
		}
		total++
		if len(results) < limit {
			results = append(results, Result{
				TodoID:    todo.ID,
				Text:      todo.Text,
				Diamonds:  todo.Diamonds,
				Completed: todo.Completed,
			})
		}
	}
	return results, total, nil
}
