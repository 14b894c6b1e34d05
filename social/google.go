// Package social implements third-party sign-in for the travel client.
// Currently only Google is supported. The flow exchanges an authorization
// code for tokens, verifies the returned ID token against Google's OIDC
// provider and hands the verified identity back to the caller, who is
// expected to complete the login against the travel API.
package social

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Identity is the verified result of a social sign-in.
type Identity struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleSignIn drives the authorization-code flow against Google.
type GoogleSignIn struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// NewGoogleSignIn discovers the issuer's OIDC configuration and returns a
// sign-in helper bound to the supplied OAuth2 client configuration.
func NewGoogleSignIn(ctx context.Context, oauthConfig *oauth2.Config, issuerURL string) (*GoogleSignIn, error) {
	if oauthConfig == nil {
		return nil, errors.New("[NewGoogleSignIn] nil oauth config")
	}
	if oauthConfig.ClientID == "" {
		return nil, errors.New("[NewGoogleSignIn] missing client id")
	}

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, errors.Wrap(err, "[NewGoogleSignIn] oidc.NewProvider")
	}

	return &GoogleSignIn{
		oauthConfig: oauthConfig,
		verifier:    provider.Verifier(&oidc.Config{ClientID: oauthConfig.ClientID}),
	}, nil
}

// ConsentURL returns the Google consent page URL for the given state. Offline
// access is requested so a refresh token is issued on first consent.
func (g *GoogleSignIn) ConsentURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange swaps the authorization code for tokens, verifies the ID token and
// returns the identity claims it carries.
func (g *GoogleSignIn) Exchange(ctx context.Context, code string) (*Identity, error) {
	oauth2Token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "[GoogleSignIn.Exchange] code exchange")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("[GoogleSignIn.Exchange] no id_token in token response")
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrap(err, "[GoogleSignIn.Exchange] id token verification")
	}

	var identity Identity
	if err := idToken.Claims(&identity); err != nil {
		return nil, errors.Wrap(err, "[GoogleSignIn.Exchange] claims decode")
	}
	if identity.Subject == "" {
		return nil, errors.New("[GoogleSignIn.Exchange] id token missing subject")
	}
	return &identity, nil
}
