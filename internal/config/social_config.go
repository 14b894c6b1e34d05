package config

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type SocialConfig interface {
	GetGoogleOAuthConfig() *oauth2.Config
	GetGoogleIssuer() string
}

type Social struct{}

var _ SocialConfig = Social{}

func (Social) GetGoogleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
		ClientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
		RedirectURL:  GetEnv("GOOGLE_REDIRECT_URL", "http://localhost:8085/callback"),
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

func (Social) GetGoogleIssuer() string {
	return GetEnv("GOOGLE_ISSUER", "https://accounts.google.com")
}
