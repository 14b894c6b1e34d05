package account_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-travel-client/account"
	"github.com/jrsteele09/go-travel-client/internal/apitest"
	"github.com/jrsteele09/go-travel-client/restclient"
	"github.com/jrsteele09/go-travel-client/storage/storefakes"
	"github.com/jrsteele09/go-travel-client/token"
)

type fixture struct {
	backend *apitest.Server
	tokens  *token.Store
	service *account.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	backend := apitest.NewServer(t)
	tokens, err := token.NewStore(storefakes.NewFakeStore())
	require.NoError(t, err)
	client, err := restclient.New(backend.URL(), tokens)
	require.NoError(t, err)
	service, err := account.NewService(client, tokens)
	require.NoError(t, err)
	return &fixture{backend: backend, tokens: tokens, service: service}
}

func TestLoginPersistsTokensAndUser(t *testing.T) {
	f := setup(t)
	f.backend.Handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		apitest.DecodeBody(t, r, &req)
		require.Equal(t, "a@b.com", req["email"])
		require.Equal(t, "secret123", req["password"])
		apitest.WriteResult(t, w, map[string]any{
			"accessToken":  "AT1",
			"refreshToken": "RT1",
			"accountId":    7,
			"email":        "a@b.com",
			"roles":        []map[string]any{{"id": 1, "name": "USER"}},
		})
	})

	result, err := f.service.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "AT1", result.AccessToken)
	require.Equal(t, int64(7), result.AccountID)

	access, _ := f.tokens.AccessToken()
	refresh, _ := f.tokens.RefreshToken()
	require.Equal(t, "AT1", access)
	require.Equal(t, "RT1", refresh)

	user, ok := f.tokens.UserInfo()
	require.True(t, ok)
	require.Equal(t, int64(7), user.AccountID)
	require.Equal(t, "a@b.com", user.Email)
	require.Equal(t, []string{"USER"}, user.Roles)
}

func TestLoginAcceptsStringRoles(t *testing.T) {
	f := setup(t)
	f.backend.Handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteResult(t, w, map[string]any{
			"accessToken":  "AT1",
			"refreshToken": "RT1",
			"accountId":    7,
			"email":        "a@b.com",
			"roles":        []string{"USER"},
		})
	})

	result, err := f.service.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, []account.Role{{Name: "USER"}}, result.Roles)
	require.True(t, f.tokens.IsAuthenticated())

	user, ok := f.tokens.UserInfo()
	require.True(t, ok)
	require.Equal(t, []string{"USER"}, user.Roles)
}

func TestLoginFailureLeavesStoreUntouched(t *testing.T) {
	f := setup(t)
	f.backend.HandleStatus(http.MethodPost, "/auth/login", http.StatusUnauthorized, "bad credentials")

	_, err := f.service.Login(context.Background(), "a@b.com", "wrong")
	require.True(t, restclient.IsStatus(err, http.StatusUnauthorized))
	require.False(t, f.tokens.IsAuthenticated())
}

func TestLoginRejectsLegacyTokenAlias(t *testing.T) {
	f := setup(t)
	f.backend.HandleResult(http.MethodPost, "/auth/login", map[string]any{
		// The misspelled field older backend builds have shipped.
		"accesToken":   "AT1",
		"refreshToken": "RT1",
		"accountId":    7,
		"email":        "a@b.com",
	})

	_, err := f.service.Login(context.Background(), "a@b.com", "secret123")
	var schemaErr *account.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, "accessToken", schemaErr.Field)
	require.Equal(t, "accesToken", schemaErr.Alias)
	require.False(t, f.tokens.IsAuthenticated())
}

func TestLoginRejectsSnakeCaseAliases(t *testing.T) {
	f := setup(t)
	f.backend.HandleResult(http.MethodPost, "/auth/login", map[string]any{
		"access_token":  "AT1",
		"refresh_token": "RT1",
		"account_id":    7,
	})

	_, err := f.service.Login(context.Background(), "a@b.com", "secret123")
	var schemaErr *account.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, "accessToken", schemaErr.Field)
	require.Equal(t, "access_token", schemaErr.Alias)
}

func TestLoginMissingTokensAltogether(t *testing.T) {
	f := setup(t)
	f.backend.HandleResult(http.MethodPost, "/auth/login", map[string]any{
		"accountId": 7,
		"email":     "a@b.com",
	})

	_, err := f.service.Login(context.Background(), "a@b.com", "secret123")
	require.Error(t, err)
	var schemaErr *account.SchemaError
	require.False(t, errors.As(err, &schemaErr))
}

func TestRegister(t *testing.T) {
	f := setup(t)
	f.backend.Handle(http.MethodPost, "/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req account.RegisterRequest
		apitest.DecodeBody(t, r, &req)
		require.Equal(t, "new@b.com", req.Email)
		apitest.WriteResult(t, w, account.Account{
			ID:       42,
			Email:    req.Email,
			FullName: req.FullName,
			Roles:    []account.Role{{ID: 1, Name: "USER"}},
		})
	})

	created, err := f.service.Register(context.Background(), account.RegisterRequest{
		Email:    "new@b.com",
		Password: "secret123",
		FullName: "New User",
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), created.ID)
	require.False(t, f.tokens.IsAuthenticated())
}

func TestLogoutClearsStateEvenWhenEndpointFails(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.tokens.SaveTokens("AT1", "RT1"))
	f.backend.HandleStatus(http.MethodPost, "/auth/logout", http.StatusInternalServerError, "boom")

	require.NoError(t, f.service.Logout(context.Background()))
	require.False(t, f.tokens.IsAuthenticated())
}

func TestLogoutSkipsEndpointWithoutTokens(t *testing.T) {
	f := setup(t)
	called := false
	f.backend.Handle(http.MethodPost, "/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		called = true
		apitest.WriteResult(t, w, nil)
	})

	require.NoError(t, f.service.Logout(context.Background()))
	require.False(t, called)
}
