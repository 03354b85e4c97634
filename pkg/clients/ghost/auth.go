package ghost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ghostplan/matrix/internal/config"
)

// ErrNoCredentials means the session has neither a static token nor login
// credentials to obtain one.
var ErrNoCredentials = errors.New("ghost auth: no token or credentials configured")

// AuthSession owns the bearer token used against the Ghost API. The token
// lifecycle is explicit: Init obtains it, Refresh replaces it, Clear drops
// it. A statically configured token disables login and refresh.
type AuthSession struct {
	mu       sync.RWMutex
	token    string
	static   bool
	email    string
	password string
	http     *resty.Client
}

// NewAuthSession builds a session from configuration. When cfg.Token is set
// the session is static; otherwise Init logs in with email and password.
func NewAuthSession(cfg config.GhostConfig) *AuthSession {
	s := &AuthSession{
		email:    cfg.Email,
		password: cfg.Password,
	}

	if cfg.Token != "" {
		s.token = cfg.Token
		s.static = true
		return s
	}

	s.http = resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return s
}

// Init establishes the session token. For a static token it only checks
// that one is present.
func (s *AuthSession) Init(ctx context.Context) error {
	if s.static {
		return nil
	}
	return s.login(ctx)
}

// Refresh obtains a fresh token by logging in again. Static sessions cannot
// refresh.
func (s *AuthSession) Refresh(ctx context.Context) error {
	if s.static {
		return ErrNoCredentials
	}
	return s.login(ctx)
}

// Clear drops the current token. Subsequent requests fail until Init or
// Refresh runs again.
func (s *AuthSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.static {
		s.token = ""
	}
}

// Token returns the current bearer token, possibly empty.
func (s *AuthSession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CanRefresh reports whether the session can obtain a new token on its own.
func (s *AuthSession) CanRefresh() bool {
	return !s.static && s.email != "" && s.password != ""
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *AuthSession) login(ctx context.Context) error {
	if s.email == "" || s.password == "" {
		return ErrNoCredentials
	}

	result := new(loginResponse)
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": s.email, "password": s.password}).
		SetResult(result).
		Post("/login")
	if err != nil {
		return fmt.Errorf("ghost login: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("ghost login: status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	if result.Token == "" {
		return errors.New("ghost login: empty token in response")
	}

	s.mu.Lock()
	s.token = result.Token
	s.mu.Unlock()
	return nil
}
