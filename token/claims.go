package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiry peeks at the stored access token's exp claim without
// verifying the signature. It exists for display (the CLI's whoami output);
// authentication decisions stay with the backend and the 401 refresh flow.
func (s *Store) AccessTokenExpiry() (time.Time, bool) {
	raw, ok := s.AccessToken()
	if !ok {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
