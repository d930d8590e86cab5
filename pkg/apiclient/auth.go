package apiclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
)

// SessionWriter is the part of the session store the auth flow mutates.
type SessionWriter interface {
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

type Auth struct {
	client  *Client
	session SessionWriter
}

func NewAuth(client *Client, session SessionWriter) *Auth {
	return &Auth{client: client, session: session}
}

// Login exchanges credentials for a token and persists it.
func (a *Auth) Login(ctx context.Context, email, password string) (*User, error) {
	var resp authResponse
	body := map[string]string{"email": strings.TrimSpace(email), "password": password}
	if err := a.client.Do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &Error{kind: ErrMalformed, Message: "response has no access_token"}
	}
	if err := a.session.SetToken(ctx, resp.AccessToken); err != nil {
		return nil, errors.Wrap(err, "store token")
	}
	return resp.User, nil
}

// Register creates an account. A token in the response signs the user in.
func (a *Auth) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var resp authResponse
	if err := a.client.Do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken != "" {
		if err := a.session.SetToken(ctx, resp.AccessToken); err != nil {
			return nil, errors.Wrap(err, "store token")
		}
	}
	return resp.User, nil
}

func (a *Auth) Me(ctx context.Context) (*User, error) {
	var resp authResponse
	if err := a.client.Do(ctx, http.MethodGet, "/auth/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &Error{kind: ErrMalformed, Message: "response has no user"}
	}
	return resp.User, nil
}

// Logout is local only: the API keeps no server-side session.
func (a *Auth) Logout(ctx context.Context) error {
	return a.session.Clear(ctx)
}
