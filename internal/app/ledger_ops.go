package app

import (
	"context"
	"log"
	"strings"

	"petrock/internal/audit"
	"petrock/internal/catalog"
	"petrock/internal/ledger"
	"petrock/internal/scoring"
)

// Every operation below is a fetch-compute-write cycle against the whole-
// document profile store. There is no locking between the read and the write;
// two concurrent writers to the same user can lose an update, which the
// upstream contract accepts.

// CreateTodo scores the task and appends a new todo. A scoring failure never
// blocks creation: the todo is stored with the minimum score and the failure
// is archived.
func (s *Service) CreateTodo(ctx context.Context, userID, text string) (ledger.Todo, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ledger.Todo{}, domainError(400, "VALIDATION_ERROR", "Todo text is required", nil)
	}

	diamonds, err := s.scores.FetchScore(ctx, trimmed)
	if err != nil {
		log.Printf("create todo: scoring failed, defaulting to %d: %v", scoring.MinScore, err)
		diamonds = scoring.MinScore
		s.audit.StoreAsync(audit.Record{Task: trimmed, Score: diamonds, Defaulted: true, Reason: err.Error()})
	}

	l, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return ledger.Todo{}, err
	}

	id := s.now().UnixMilli()
	for l.FindTodo(id) >= 0 {
		id++
	}
	todo := ledger.Todo{ID: id, Text: text, Diamonds: diamonds, Completed: false}
	l.Todos = append(l.Todos, todo)

	if err := s.profiles.Put(ctx, userID, l); err != nil {
		return ledger.Todo{}, err
	}

	s.search.IndexTodo(userID, todo.ID, todo.Text, todo.Diamonds, todo.Completed)
	return todo, nil
}

// ToggleTodo sets a todo's completed state and adjusts the balance by the
// todo's score, credit on completion and debit on reopening. The requested
// state is applied as-is, so repeating a request repeats its balance delta.
func (s *Service) ToggleTodo(ctx context.Context, userID string, todoID int64, completed bool) error {
	l, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}

	i := l.FindTodo(todoID)
	if i < 0 {
		return domainError(404, "NOT_FOUND", "Todo not found", nil)
	}

	l.Todos[i].Completed = completed
	if completed {
		l.Diamonds += l.Todos[i].Diamonds
	} else {
		l.Diamonds -= l.Todos[i].Diamonds
	}

	if err := s.profiles.Put(ctx, userID, l); err != nil {
		return err
	}

	s.search.IndexTodo(userID, todoID, l.Todos[i].Text, l.Todos[i].Diamonds, completed)
	return nil
}

// DeleteTodo removes a todo by id. Earned diamonds stay earned, and deleting
// an id that is not there is not an error.
func (s *Service) DeleteTodo(ctx context.Context, userID string, todoID int64) error {
	l, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}

	kept := l.Todos[:0:0]
	for _, todo := range l.Todos {
		if todo.ID != todoID {
			kept = append(kept, todo)
		}
	}
	l.Todos = kept

	if err := s.profiles.Put(ctx, userID, l); err != nil {
		return err
	}

	s.search.RemoveTodo(userID, todoID)
	return nil
}

func (s *Service) ListTodos(ctx context.Context, userID string) ([]ledger.Todo, error) {
	l, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if l.Todos == nil {
		return []ledger.Todo{}, nil
	}
	return l.Todos, nil
}

func (s *Service) GetBalance(ctx context.Context, userID string) (int, error) {
	l, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return l.Diamonds, nil
}

// SetBalance overwrites the balance with an absolute value. Purchases debit
// through this, so the read the client debited against may already be stale;
// that matches the upstream last-write-wins contract.
func (s *Service) SetBalance(ctx context.Context, userID string, diamonds int) error {
	l, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	l.Diamonds = diamonds
	return s.profiles.Put(ctx, userID, l)
}

func (s *Service) ListInventory(ctx context.Context, userID string) ([]ledger.Item, error) {
	l, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if l.Inventory == nil {
		return []ledger.Item{}, nil
	}
	return l.Inventory, nil
}

// PurchaseItem appends an item to the inventory. The balance is untouched
// here; the client debits separately through SetBalance. Owning the item
// already is a conflict and nothing is written.
func (s *Service) PurchaseItem(ctx context.Context, userID, itemID, category string) ([]ledger.Item, error) {
	if itemID == "" || category == "" {
		return nil, domainError(400, "VALIDATION_ERROR", "Item id and category are required", nil)
	}

	l, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if l.HasItem(itemID) {
		return nil, domainError(400, "STATE_CONFLICT", "Item already owned", nil)
	}

	l.Inventory = append(l.Inventory, ledger.Item{ID: itemID, Equipped: false, Category: category})
	if err := s.profiles.Put(ctx, userID, l); err != nil {
		return nil, err
	}
	return l.Inventory, nil
}

// EquipItem applies an equip or unequip and writes the resolved inventory.
func (s *Service) EquipItem(ctx context.Context, userID, itemID, category string, equip bool) ([]ledger.Item, error) {
	if itemID == "" || category == "" {
		return nil, domainError(400, "VALIDATION_ERROR", "Item id and category are required", nil)
	}

	l, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	l.Inventory = ledger.ResolveEquip(l.Inventory, itemID, category, equip)
	if err := s.profiles.Put(ctx, userID, l); err != nil {
		return nil, err
	}
	if l.Inventory == nil {
		return []ledger.Item{}, nil
	}
	return l.Inventory, nil
}

func (s *Service) Catalog() []catalog.Entry {
	return catalog.Entries()
}
