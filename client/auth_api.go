package client

import (
	"context"
	"net/http"

	"github.com/hazirlageldim/pickup-app/models"
)

// RegisterRequest mirrors the backend's register payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	UserType string `json:"user_type"` // models.UserTypeCustomer / models.UserTypeBusiness
}

// LoginResult is what a successful login yields.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// AuthAPI is the account surface of the backend.
type AuthAPI interface {
	Register(ctx context.Context, req RegisterRequest) (string, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
	ResetPassword(ctx context.Context, email string) error
	Profile(ctx context.Context) (models.User, error)
}

func (g *HTTPGateway) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var out struct {
		UserID string `json:"user_id"`
	}
	if err := g.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

func (g *HTTPGateway) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := g.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

func (g *HTTPGateway) ResetPassword(ctx context.Context, email string) error {
	return g.do(ctx, http.MethodPost, "/auth/reset-password", nil, map[string]string{"email": email}, nil)
}

func (g *HTTPGateway) Profile(ctx context.Context) (models.User, error) {
	var user models.User
	if err := g.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
