package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"petrock/internal/ledger"
	"petrock/internal/profile"
	"petrock/internal/scoring"
)

func loginFor(t *testing.T, server *HTTPServer, name string) string {
	t.Helper()
	rr := doRequest(server, http.MethodPost, "/api/session/login", fmt.Sprintf(`{"name":%q}`, name), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatalf("expected token")
	}
	return payload.Token
}

func doRequest(server *HTTPServer, method, path, body, token string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBufferString("{}")
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	server := NewHTTPServer(newTestService(nil, nil), "*")
	rr := doRequest(server, http.MethodGet, "/api/health", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestLedgerRoutesRequireSession(t *testing.T) {
	server := NewHTTPServer(newTestService(nil, nil), "*")
	for _, path := range []string{"/api/todos", "/api/diamonds", "/api/inventory", "/api/todos/search"} {
		rr := doRequest(server, http.MethodGet, path, "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d body=%s", path, rr.Code, rr.Body.String())
		}
	}
}

func TestShopIsPublic(t *testing.T) {
	server := NewHTTPServer(newTestService(nil, nil), "*")
	rr := doRequest(server, http.MethodGet, "/api/shop", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload struct {
		Items []struct {
			ID    string `json:"id"`
			Price int    `json:"price"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(payload.Items) == 0 {
		t.Fatalf("expected catalog entries")
	}
}

func TestScoreEndpointIsPublic(t *testing.T) {
	svc := newTestService(nil, nil)
	svc.scorer = &fakeOracle{fn: func(context.Context, string) (scoring.Result, error) {
		return scoring.Result{Value: 85, Raw: `{"score": 85}`}, nil
	}}
	server := NewHTTPServer(svc, "*")

	rr := doRequest(server, http.MethodPost, "/api/score", `{"task":"Clean the garage"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Diamonds    int    `json:"diamonds"`
		RawResponse string `json:"rawResponse"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Diamonds != 85 {
		t.Fatalf("expected 85 diamonds, got %d", payload.Diamonds)
	}
	if payload.RawResponse != `{"score": 85}` {
		t.Fatalf("expected raw reply echoed, got %q", payload.RawResponse)
	}
}

func TestScoreEndpointRejectsBlankTask(t *testing.T) {
	server := NewHTTPServer(newTestService(nil, nil), "*")
	rr := doRequest(server, http.MethodPost, "/api/score", `{"task":"  "}`, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestScoreEndpointSurfacesOracleFailure(t *testing.T) {
	svc := newTestService(nil, nil)
	svc.scorer = &fakeOracle{fn: func(context.Context, string) (scoring.Result, error) {
		return scoring.Result{}, scoring.ErrUnscorable
	}}
	server := NewHTTPServer(svc, "*")

	rr := doRequest(server, http.MethodPost, "/api/score", `{"task":"Mystery"}`, "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Code != "ANALYZE_FAILED" {
		t.Fatalf("expected ANALYZE_FAILED, got %q", payload.Code)
	}
}

func TestTodoLifecycleOverHTTP(t *testing.T) {
	svc := newTestService(nil, &fakeScores{fn: func(context.Context, string) (int, error) { return 10, nil }})
	server := NewHTTPServer(svc, "*")
	token := loginFor(t, server, "Avery")

	rr := doRequest(server, http.MethodPost, "/api/todos", `{"text":"Do the dishes"}`, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("create: %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		Todo ledger.Todo `json:"todo"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("parse create response: %v", err)
	}
	if created.Todo.Diamonds != 10 {
		t.Fatalf("expected score 10, got %d", created.Todo.Diamonds)
	}

	rr = doRequest(server, http.MethodPut, "/api/todos", fmt.Sprintf(`{"id":%d,"completed":true}`, created.Todo.ID), token)
	if rr.Code != http.StatusOK {
		t.Fatalf("complete: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodGet, "/api/diamonds", "", token)
	var balance struct {
		Diamonds int `json:"diamonds"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &balance); err != nil {
		t.Fatalf("parse balance: %v", err)
	}
	if balance.Diamonds != 10 {
		t.Fatalf("expected 10 after completion, got %d", balance.Diamonds)
	}

	rr = doRequest(server, http.MethodPut, "/api/todos", fmt.Sprintf(`{"id":%d,"completed":false}`, created.Todo.ID), token)
	if rr.Code != http.StatusOK {
		t.Fatalf("reopen: %d body=%s", rr.Code, rr.Body.String())
	}
	rr = doRequest(server, http.MethodGet, "/api/diamonds", "", token)
	_ = json.Unmarshal(rr.Body.Bytes(), &balance)
	if balance.Diamonds != 0 {
		t.Fatalf("expected 0 after reopen, got %d", balance.Diamonds)
	}

	rr = doRequest(server, http.MethodDelete, "/api/todos", fmt.Sprintf(`{"id":%d}`, created.Todo.ID), token)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodGet, "/api/todos", "", token)
	var listed struct {
		Todos []ledger.Todo `json:"todos"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("parse list: %v", err)
	}
	if len(listed.Todos) != 0 {
		t.Fatalf("expected empty list, got %+v", listed.Todos)
	}
}

func TestCreateTodoValidationOverHTTP(t *testing.T) {
	server := NewHTTPServer(newTestService(nil, nil), "*")
	token := loginFor(t, server, "Avery")

	rr := doRequest(server, http.MethodPost, "/api/todos", `{"text":"   "}`, token)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &payload)
	if payload.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %q", payload.Code)
	}
}

func TestShoppingFlowOverHTTP(t *testing.T) {
	server := NewHTTPServer(newTestService(nil, nil), "*")
	token := loginFor(t, server, "Avery")

	rr := doRequest(server, http.MethodPut, "/api/diamonds", `{"diamonds":300}`, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("seed balance: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodPost, "/api/inventory", `{"itemId":"beanie","category":"hats"}`, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("purchase: %d body=%s", rr.Code, rr.Body.String())
	}

	// Client debits the price with its own absolute write.
	rr = doRequest(server, http.MethodPut, "/api/diamonds", `{"diamonds":50}`, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("debit: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodPut, "/api/inventory", `{"itemId":"beanie","category":"hats","equip":true}`, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("equip: %d body=%s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Inventory []ledger.Item `json:"inventory"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse inventory: %v", err)
	}
	if len(payload.Inventory) != 1 || !payload.Inventory[0].Equipped {
		t.Fatalf("expected beanie equipped, got %+v", payload.Inventory)
	}

	rr = doRequest(server, http.MethodPost, "/api/inventory", `{"itemId":"beanie","category":"hats"}`, token)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("duplicate purchase: expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	var conflicted struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &conflicted)
	if conflicted.Code != "STATE_CONFLICT" {
		t.Fatalf("expected STATE_CONFLICT, got %q", conflicted.Code)
	}

	rr = doRequest(server, http.MethodGet, "/api/diamonds", "", token)
	var balance struct {
		Diamonds int `json:"diamonds"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &balance)
	if balance.Diamonds != 50 {
		t.Fatalf("expected balance 50, got %d", balance.Diamonds)
	}
}

func TestInventoryBodyFieldNames(t *testing.T) {
	server := NewHTTPServer(newTestService(nil, nil), "*")
	token := loginFor(t, server, "Avery")

	// The wire contract is itemId, not id; a body using the wrong key must
	// fail validation instead of silently purchasing nothing.
	rr := doRequest(server, http.MethodPost, "/api/inventory", `{"id":"beanie","category":"hats"}`, token)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown item key, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodPost, "/api/inventory", `{"itemId":"beanie","category":"hats"}`, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("purchase: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doRequest(server, http.MethodPut, "/api/inventory", `{"itemId":"beanie","category":"hats","equip":true}`, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("equip: %d body=%s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Inventory []ledger.Item `json:"inventory"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse inventory: %v", err)
	}
	if len(payload.Inventory) != 1 || !payload.Inventory[0].Equipped {
		t.Fatalf("expected beanie equipped, got %+v", payload.Inventory)
	}
}

func TestSearchTodosOverHTTP(t *testing.T) {
	profiles := profile.NewMemoryStore()
	svc := newTestService(profiles, nil)
	server := NewHTTPServer(svc, "*")
	token := loginFor(t, server, "Avery")

	for _, text := range []string{"Do the dishes", "Fold the laundry", "Wash dishes again"} {
		rr := doRequest(server, http.MethodPost, "/api/todos", fmt.Sprintf(`{"text":%q}`, text), token)
		if rr.Code != http.StatusOK {
			t.Fatalf("create %q: %d body=%s", text, rr.Code, rr.Body.String())
		}
	}

	rr := doRequest(server, http.MethodGet, "/api/todos/search?q=dishes", "", token)
	if rr.Code != http.StatusOK {
		t.Fatalf("search: %d body=%s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Results []struct {
			Text string `json:"text"`
		} `json:"results"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse search response: %v", err)
	}
	if payload.Total != 2 || len(payload.Results) != 2 {
		t.Fatalf("expected 2 dishes matches, got %+v", payload)
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (ledger.Ledger, error) {
	return ledger.Ledger{}, &profile.UpstreamError{Op: "get user", Err: errors.New("boom")}
}

func (failingStore) Put(context.Context, string, ledger.Ledger) error {
	return &profile.UpstreamError{Op: "update user", Err: errors.New("boom")}
}

func TestUpstreamStoreFailureMapsTo500(t *testing.T) {
	svc := newTestService(failingStore{}, nil)
	server := NewHTTPServer(svc, "*")
	token := loginFor(t, server, "Avery")

	rr := doRequest(server, http.MethodGet, "/api/todos", "", token)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &payload)
	if payload.Code != "UPSTREAM_STORE" {
		t.Fatalf("expected UPSTREAM_STORE, got %q", payload.Code)
	}
}

func TestSessionEndpointReportsAnonymous(t *testing.T) {
	server := NewHTTPServer(newTestService(nil, nil), "*")
	rr := doRequest(server, http.MethodGet, "/api/session", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload struct {
		Authenticated bool `json:"authenticated"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &payload)
	if payload.Authenticated {
		t.Fatalf("expected anonymous")
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	server := NewHTTPServer(newTestService(nil, nil), "*")
	token := loginFor(t, server, "Avery")
	rr := doRequest(server, http.MethodGet, "/api/nope", "", token)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
