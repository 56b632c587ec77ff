package search

import (
	"context"
	"log"
)

// Service is the facade that tries Meilisearch first and falls back to a
// ledger scan. meili may be nil when Meilisearch is not configured.
type Service struct {
	meili    *Meili
	fallback Searcher
}

func NewService(meili *Meili, fallback Searcher) *Service {
	return &Service{meili: meili, fallback: fallback}
}

// Search tries Meilisearch if healthy, otherwise scans the ledger.
func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(ctx, q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to ledger scan: %v", err)
	}

	results, total, err := s.fallback.Search(ctx, q)
	if err != nil {
		log.Printf("search: ledger scan error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexTodo indexes a created or toggled todo (fire-and-forget).
func (s *Service) IndexTodo(userID string, todoID int64, text string, diamonds int, completed bool) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	record := TodoRecord{
		DocID:     docID(userID, todoID),
		UserID:    userID,
		TodoID:    todoID,
		Text:      text,
		Diamonds:  diamonds,
		Completed: completed,
	}
	go func() {
		if err := s.meili.IndexTodo(record); err != nil {
			log.Printf("search: index todo %d: %v", todoID, err)
		}
	}()
}

// RemoveTodo removes a deleted todo from the index (fire-and-forget).
func (s *Service) RemoveTodo(userID string, todoID int64) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteTodo(userID, todoID); err != nil {
			log.Printf("search: delete todo %d: %v", todoID, err)
		}
	}()
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
