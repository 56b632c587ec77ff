package app

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"petrock/internal/audit"
	"petrock/internal/auth"
	"petrock/internal/config"
	"petrock/internal/profile"
	"petrock/internal/scoring"
	"petrock/internal/search"
	"petrock/internal/session"
)

type Session struct {
	Token     string
	UserID    string
	UserName  string
	SID       string
	ExpiresAt time.Time
}

// scoreFetcher is the todo-creation scoring hop: a call to this service's own
// public score endpoint.
type scoreFetcher interface {
	FetchScore(ctx context.Context, task string) (int, error)
}

// OracleScorer is the direct oracle path backing the score endpoint.
type OracleScorer interface {
	Score(ctx context.Context, task string) (scoring.Result, error)
}

type Service struct {
	cfg      config.Config
	profiles profile.Store
	sessions session.Store
	scores   scoreFetcher
	scorer   OracleScorer // nil when no oracle credential is configured
	search   *search.Service
	audit    *audit.Archive // nil when no archive is configured
	now      func() time.Time
}

func New(cfg config.Config, profiles profile.Store, sessions session.Store, scores scoreFetcher, scorer OracleScorer, searchService *search.Service, archive *audit.Archive) *Service {
	return &Service{
		cfg:      cfg,
		profiles: profiles,
		sessions: sessions,
		scores:   scores,
		scorer:   scorer,
		search:   searchService,
		audit:    archive,
		now:      time.Now,
	}
}

// Login issues a session for a display name. The real identity provider
// lives outside this service; this mirrors its contract closely enough for
// development: the same name always maps to the same opaque user id.
func (s *Service) Login(ctx context.Context, name string) (Session, error) {
	userName := strings.TrimSpace(name)
	if userName == "" {
		userName = "User"
	}
	sum := sha256.Sum256([]byte(userName))
	userID := "local|" + hex.EncodeToString(sum[:8])

	now := s.now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	sid := newID("sid")

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), auth.Claims{
		Sub:  userID,
		Name: userName,
		SID:  sid,
		Exp:  expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	principal := session.Principal{UserID: userID, Name: userName, CreatedAt: now}
	if err := s.sessions.Save(ctx, auth.HashToken(token), principal, expiresAt); err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		SID:       sid,
		ExpiresAt: expiresAt,
	}, nil
}

// SessionFromToken validates a bearer token: the signature must check out and
// the session must still be live in the store.
func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}

	principal, err := s.sessions.Lookup(ctx, auth.HashToken(token))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Session{}, auth.ErrInvalidToken
		}
		return Session{}, err
	}

	return Session{
		Token:     token,
		UserID:    principal.UserID,
		UserName:  principal.Name,
		SID:       claims.SID,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, auth.HashToken(token))
}

// AnalyzeTask backs the public score endpoint: ask the oracle, archive the
// round-trip, surface hard failures to the caller. Fail-open defaulting is
// the todo-creation path's concern, not this one's.
func (s *Service) AnalyzeTask(ctx context.Context, task string) (scoring.Result, error) {
	if s.scorer == nil {
		return scoring.Result{}, domainError(500, "ORACLE_NOT_CONFIGURED", "Scoring oracle is not configured", nil)
	}

	result, err := s.scorer.Score(ctx, task)
	if err != nil {
		s.audit.StoreAsync(audit.Record{Task: task, Reason: err.Error()})
		return scoring.Result{}, err
	}

	s.audit.StoreAsync(audit.Record{Task: task, Score: result.Value, Raw: result.Raw})
	return result, nil
}

func (s *Service) SearchTodos(ctx context.Context, userID, text string, limit int) search.Response {
	return s.search.Search(ctx, search.Query{UserID: userID, Text: text, Limit: limit})
}

// Ping reports whether the session backend is reachable, plus the profile
// store when the backend supports liveness checks.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.sessions.Ping(ctx); err != nil {
		return err
	}
	if pinger, ok := s.profiles.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func newID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}
