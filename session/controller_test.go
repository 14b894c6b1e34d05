package session_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-travel-client/account"
	"github.com/jrsteele09/go-travel-client/internal/apitest"
	"github.com/jrsteele09/go-travel-client/restclient"
	"github.com/jrsteele09/go-travel-client/session"
	"github.com/jrsteele09/go-travel-client/storage/storefakes"
	"github.com/jrsteele09/go-travel-client/token"
)

type fixture struct {
	backend    *apitest.Server
	tokens     *token.Store
	controller *session.Controller
}

func setup(t *testing.T) *fixture {
	t.Helper()
	backend := apitest.NewServer(t)
	tokens, err := token.NewStore(storefakes.NewFakeStore())
	require.NoError(t, err)
	client, err := restclient.New(backend.URL(), tokens)
	require.NoError(t, err)
	auth, err := account.NewService(client, tokens)
	require.NoError(t, err)
	controller, err := session.NewController(auth)
	require.NoError(t, err)
	return &fixture{backend: backend, tokens: tokens, controller: controller}
}

func TestStartsLoading(t *testing.T) {
	f := setup(t)
	require.Equal(t, session.StatusLoading, f.controller.State().Status)
}

func TestCheckAuthAnonymousWithoutTokens(t *testing.T) {
	f := setup(t)
	state := f.controller.CheckAuth()
	require.Equal(t, session.StatusAnonymous, state.Status)
}

func TestCheckAuthRestoresCachedSession(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.tokens.SaveTokens("AT1", "RT1"))
	require.NoError(t, f.tokens.SaveUserInfo(token.UserInfo{AccountID: 7, Email: "a@b.com", Roles: []string{"USER"}}))

	state := f.controller.CheckAuth()
	require.Equal(t, session.StatusAuthenticated, state.Status)
	require.Equal(t, int64(7), state.User.AccountID)
}

func TestCheckAuthTokenWithoutUserInfoIsAnonymous(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.tokens.SaveTokens("AT1", "RT1"))

	state := f.controller.CheckAuth()
	require.Equal(t, session.StatusAnonymous, state.Status)
}

func TestLoginMovesToAuthenticated(t *testing.T) {
	f := setup(t)
	f.backend.HandleResult(http.MethodPost, "/auth/login", map[string]any{
		"accessToken":  "AT1",
		"refreshToken": "RT1",
		"accountId":    7,
		"email":        "a@b.com",
		"roles":        []map[string]any{{"id": 1, "name": "USER"}},
	})
	f.controller.CheckAuth()

	require.NoError(t, f.controller.Login(context.Background(), "a@b.com", "secret123"))

	state := f.controller.State()
	require.Equal(t, session.StatusAuthenticated, state.Status)
	require.Equal(t, int64(7), state.User.AccountID)
	require.Equal(t, []string{"USER"}, state.User.Roles)
	require.True(t, f.tokens.IsAuthenticated())
}

func TestLoginFailureRestoresPriorState(t *testing.T) {
	f := setup(t)
	f.backend.HandleStatus(http.MethodPost, "/auth/login", http.StatusUnauthorized, "bad credentials")
	f.controller.CheckAuth()

	err := f.controller.Login(context.Background(), "a@b.com", "wrong")
	require.True(t, restclient.IsStatus(err, http.StatusUnauthorized))
	require.Equal(t, session.StatusAnonymous, f.controller.State().Status)
}

func TestLogoutAlwaysLandsAnonymous(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.tokens.SaveTokens("AT1", "RT1"))
	require.NoError(t, f.tokens.SaveUserInfo(token.UserInfo{AccountID: 7, Email: "a@b.com"}))
	f.backend.HandleStatus(http.MethodPost, "/auth/logout", http.StatusInternalServerError, "boom")
	f.controller.CheckAuth()

	f.controller.Logout(context.Background())

	require.Equal(t, session.StatusAnonymous, f.controller.State().Status)
	require.False(t, f.tokens.IsAuthenticated())
}
