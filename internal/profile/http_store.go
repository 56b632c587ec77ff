package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"petrock/internal/ledger"
)

// HTTPStore talks to a management-API style user store: the ledger lives in
// an opaque user_metadata attribute bag on the user's identity record, read
// and written whole. Access uses a client-credentials token cached until
// shortly before expiry.
type HTTPStore struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpc        *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewHTTPStore(baseURL, clientID, clientSecret string) *HTTPStore {
	return &HTTPStore{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpc:        &http.Client{Timeout: 15 * time.Second},
	}
}

type userRecord struct {
	UserMetadata json.RawMessage `json:"user_metadata"`
}

func (s *HTTPStore) Get(ctx context.Context, userID string) (ledger.Ledger, error) {
	body, err := s.do(ctx, http.MethodGet, s.userURL(userID), nil)
	if err != nil {
		return ledger.Ledger{}, &UpstreamError{Op: "get", Err: err}
	}

	var record userRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return ledger.Ledger{}, &UpstreamError{Op: "get", Err: fmt.Errorf("decode user record: %w", err)}
	}
	l, err := ledger.Decode(record.UserMetadata)
	if err != nil {
		return ledger.Ledger{}, &UpstreamError{Op: "get", Err: err}
	}
	return l, nil
}

func (s *HTTPStore) Put(ctx context.Context, userID string, l ledger.Ledger) error {
	payload, err := json.Marshal(map[string]ledger.Ledger{"user_metadata": l})
	if err != nil {
		return &UpstreamError{Op: "put", Err: err}
	}
	if _, err := s.do(ctx, http.MethodPatch, s.userURL(userID), payload); err != nil {
		return &UpstreamError{Op: "put", Err: err}
	}
	return nil
}

func (s *HTTPStore) userURL(userID string) string {
	return s.baseURL + "/api/v2/users/" + url.PathEscape(userID)
}

func (s *HTTPStore) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, data)
	}
	return data, nil
}

func (s *HTTPStore) accessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.token != "" && time.Now().Before(s.tokenExp) {
		token := s.token
		s.mu.Unlock()
		return token, nil
	}
	s.mu.Unlock()

	payload, err := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     s.clientID,
		"client_secret": s.clientSecret,
		"audience":      s.baseURL + "/api/v2/",
	})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/oauth/token", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, snippet)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access_token")
	}

	s.mu.Lock()
	s.token = parsed.AccessToken
	// renew a minute early to avoid using a token mid-expiry
	s.tokenExp = time.Now().Add(time.Duration(parsed.ExpiresIn)*time.Second - time.Minute)
	s.mu.Unlock()
	return parsed.AccessToken, nil
}
