// Package account wraps the TripGo auth endpoints: login, register, logout.
// Login pins one canonical response contract; known legacy field aliases the
// backend has shipped in the past are rejected with a SchemaError instead of
// silently adapted.
package account

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-travel-client/restclient"
	"github.com/jrsteele09/go-travel-client/token"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	logoutPath   = "/auth/logout"
)

// Role is a named role attached to an account.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LoginResult is the canonical login payload.
type LoginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	AccountID    int64  `json:"accountId"`
	Email        string `json:"email"`
	Roles        []Role `json:"roles"`
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Account is the registered account record.
type Account struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Roles       []Role `json:"roles"`
	CreatedAt   string `json:"createdAt"`
}

// Service is the auth domain service. Login persists the token pair and the
// user record into the token store before returning.
type Service struct {
	client *restclient.Client
	tokens *token.Store
}

// NewService creates a Service.
func NewService(client *restclient.Client, tokens *token.Store) (*Service, error) {
	if client == nil {
		return nil, errors.New("[account.NewService] rest client is required")
	}
	if tokens == nil {
		return nil, errors.New("[account.NewService] token store is required")
	}
	return &Service{client: client, tokens: tokens}, nil
}

// Login authenticates with email and password. On success the token pair and
// user info are persisted; on any failure local state is untouched and the
// raw error comes back for the caller to surface.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body, err := s.client.Post(ctx, loginPath, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("login request failed")
		return LoginResult{}, err
	}

	result, err := decodeLoginResult(body)
	if err != nil {
		log.Error().Err(err).Msg("login response rejected")
		return LoginResult{}, err
	}

	if err := s.tokens.SaveTokens(result.AccessToken, result.RefreshToken); err != nil {
		return LoginResult{}, errors.Wrap(err, "[Service.Login] persist tokens")
	}
	if err := s.tokens.SaveUserInfo(token.UserInfo{
		AccountID: result.AccountID,
		Email:     result.Email,
		Roles:     roleNames(result.Roles),
	}); err != nil {
		return LoginResult{}, errors.Wrap(err, "[Service.Login] persist user info")
	}
	return result, nil
}

// Register creates a new account. It does not sign the user in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (Account, error) {
	account, err := restclient.PostResult[Account](ctx, s.client, registerPath, req)
	if err != nil {
		log.Error().Err(err).Msg("register request failed")
		return Account{}, err
	}
	return account, nil
}

// Logout notifies the backend best-effort and always clears local state. A
// failing logout endpoint never blocks the local sign-out.
func (s *Service) Logout(ctx context.Context) error {
	refreshToken, hasRefresh := s.tokens.RefreshToken()
	_, hasAccess := s.tokens.AccessToken()
	if hasRefresh && hasAccess {
		if _, err := s.client.Post(ctx, logoutPath, map[string]string{"refreshToken": refreshToken}); err != nil {
			log.Warn().Err(err).Msg("logout endpoint failed, clearing local state anyway")
		}
	}
	if err := s.tokens.ClearAll(); err != nil {
		return errors.Wrap(err, "[Service.Logout] clear tokens")
	}
	return nil
}

// IsAuthenticated reports whether an access token is stored.
func (s *Service) IsAuthenticated() bool {
	return s.tokens.IsAuthenticated()
}

// CurrentUser returns the cached user record from the last login.
func (s *Service) CurrentUser() (token.UserInfo, bool) {
	return s.tokens.UserInfo()
}

func roleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names
}
