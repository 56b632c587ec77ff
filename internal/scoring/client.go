package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the service's own public score endpoint. Todo creation scores
// through this extra network hop rather than in-process, so the scoring
// surface stays a single externally-reachable contract.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 35 * time.Second},
	}
}

// FetchScore posts the task to the score endpoint and returns the diamonds
// value. A non-positive or missing diamonds value degrades to MinScore; any
// transport or non-200 outcome is an error for the caller to fail open on.
func (c *Client) FetchScore(ctx context.Context, task string) (int, error) {
	body, err := json.Marshal(map[string]string{"task": task})
	if err != nil {
		return 0, fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/score", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("score request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("score endpoint returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Diamonds int `json:"diamonds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode score response: %w", err)
	}
	if parsed.Diamonds <= 0 {
		return MinScore, nil
	}
	return parsed.Diamonds, nil
}
