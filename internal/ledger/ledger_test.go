package ledger

import (
	"encoding/json"
	"testing"
)

func TestDecodeEmptyDocument(t *testing.T) {
	l, err := Decode(nil)
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if l.Diamonds != 0 || len(l.Todos) != 0 || len(l.Inventory) != 0 {
		t.Fatalf("expected zero ledger, got %+v", l)
	}
}

func TestDecodeToleratesExtraFields(t *testing.T) {
	raw := json.RawMessage(`{"diamonds": 42, "todos": [], "inventory": [], "theme": "dark"}`)
	l, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if l.Diamonds != 42 {
		t.Fatalf("diamonds = %d, want 42", l.Diamonds)
	}
}

func TestDecodeMalformedDocument(t *testing.T) {
	for _, raw := range []string{`"not an object"`, `{"todos": "nope"}`, `{"diamonds": []}`} {
		if _, err := Decode(json.RawMessage(raw)); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}

func TestFindTodo(t *testing.T) {
	l := Ledger{Todos: []Todo{{ID: 10}, {ID: 20}}}
	if i := l.FindTodo(20); i != 1 {
		t.Fatalf("FindTodo(20) = %d, want 1", i)
	}
	if i := l.FindTodo(30); i != -1 {
		t.Fatalf("FindTodo(30) = %d, want -1", i)
	}
}

func TestHasItem(t *testing.T) {
	l := Ledger{Inventory: []Item{{ID: "beanie", Category: "hats"}}}
	if !l.HasItem("beanie") {
		t.Fatal("expected beanie owned")
	}
	if l.HasItem("top-hat") {
		t.Fatal("top-hat should not be owned")
	}
}
