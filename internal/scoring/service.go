// Package scoring turns free-text task descriptions into a bounded difficulty
// score via an external oracle. The oracle's output format is not
// trustworthy, so parsing has two recovery tiers (structured JSON, then a
// numeric scrape) before giving up, and the result is always clamped into
// [1,100].
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinScore = 1
	MaxScore = 100
)

// ErrUnscorable means the oracle replied but nothing numeric could be
// recovered from the reply.
var ErrUnscorable = errors.New("unscorable oracle reply")

// Result is a successful scoring outcome. Raw carries the oracle's unmodified
// reply for diagnostics; it is never interpreted further.
type Result struct {
	Value int
	Raw   string
}

type Service struct {
	oracle Oracle
}

func NewService(oracle Oracle) *Service {
	return &Service{oracle: oracle}
}

// Score asks the oracle to rate the task and returns the clamped score. A
// transport or auth failure, and a reply with no recoverable number, both
// surface as errors; degrading to a default is the caller's decision.
func (s *Service) Score(ctx context.Context, task string) (Result, error) {
	reply, err := s.oracle.Complete(ctx, systemPrompt, userPrompt(task))
	if err != nil {
		return Result{}, err
	}

	value, err := parseScore(reply)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrUnscorable, err)
	}

	return Result{Value: Clamp(value), Raw: reply}, nil
}

var digitsPattern = regexp.MustCompile(`\d+`)

// parseScore recovers a number from the oracle reply. A reply that is valid
// JSON must be an object with a numeric "score" field; anything else that
// still parses as JSON (a bare number, a string, a typed mismatch) is a hard
// failure, not a scrape candidate. Only a reply that is not JSON at all falls
// back to scraping the first run of decimal digits.
func parseScore(reply string) (int, error) {
	trimmed := strings.TrimSpace(reply)
	if !json.Valid([]byte(trimmed)) {
		match := digitsPattern.FindString(reply)
		if match == "" {
			return 0, fmt.Errorf("no digits in reply")
		}
		value, err := strconv.Atoi(match)
		if err != nil {
			return 0, fmt.Errorf("parse digits %q: %w", match, err)
		}
		return value, nil
	}

	var parsed struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return 0, fmt.Errorf("score field missing or not numeric")
	}
	if parsed.Score == nil {
		return 0, fmt.Errorf("score field missing or not numeric")
	}
	return int(*parsed.Score), nil
}

// Clamp forces a score into [MinScore, MaxScore]. It runs unconditionally on
// every scoring path as a safety net, not a validator.
func Clamp(value int) int {
	if value < MinScore {
		return MinScore
	}
	if value > MaxScore {
		return MaxScore
	}
	return value
}
