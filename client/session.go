package client

import (
	"context"
	"sync"

	"github.com/hazirlageldim/pickup-app/models"
)

// TokenSink receives the bearer token after sign-in; the HTTPGateway is the
// usual sink.
type TokenSink interface {
	SetToken(token string)
}

// Session holds the signed-in user. Sign-out is local only: the token is
// dropped, nothing is revoked server-side.
type Session struct {
	api  AuthAPI
	sink TokenSink

	mu    sync.RWMutex
	token string
	user  *models.User
}

func NewSession(api AuthAPI, sink TokenSink) *Session {
	return &Session{api: api, sink: sink}
}

// SignUp registers the account and signs straight in, the way the mobile
// flow does.
func (s *Session) SignUp(ctx context.Context, req RegisterRequest) error {
	if _, err := s.api.Register(ctx, req); err != nil {
		return err
	}
	return s.SignIn(ctx, req.Email, req.Password)
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = result.Token
	user := result.User
	s.user = &user
	s.mu.Unlock()

	if s.sink != nil {
		s.sink.SetToken(result.Token)
	}
	return nil
}

func (s *Session) SignOut() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.sink != nil {
		s.sink.SetToken("")
	}
}

func (s *Session) ResetPassword(ctx context.Context, email string) error {
	return s.api.ResetPassword(ctx, email)
}

// Current returns the signed-in user, false when signed out.
func (s *Session) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Session) IsBusiness() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.UserType == models.UserTypeBusiness
}
