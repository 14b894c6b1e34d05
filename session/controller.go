// Package session tracks the client's authentication state. The controller
// is an explicit dependency handed to whatever consumes it, and its state is
// a single tagged value.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-travel-client/account"
	"github.com/jrsteele09/go-travel-client/token"
)

// Status tags the controller's state.
type Status int

const (
	StatusLoading Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// State is the controller's tagged state. User is set only when Status is
// StatusAuthenticated.
type State struct {
	Status Status
	User   token.UserInfo
}

// AuthService is the slice of the account service the controller drives.
type AuthService interface {
	Login(ctx context.Context, email, password string) (account.LoginResult, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	CurrentUser() (token.UserInfo, bool)
}

// Controller owns the session state machine:
// loading -> authenticated(user) | anonymous.
type Controller struct {
	auth AuthService

	lock  sync.RWMutex
	state State
}

// NewController creates a Controller in the loading state. Call CheckAuth
// once at startup to resolve it.
func NewController(auth AuthService) (*Controller, error) {
	if auth == nil {
		return nil, errors.New("[session.NewController] auth service is required")
	}
	return &Controller{
		auth:  auth,
		state: State{Status: StatusLoading},
	}, nil
}

// State returns the current session state.
func (c *Controller) State() State {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.state
}

// CheckAuth probes the token store and settles the state. A stored token
// without a cached user record reads as anonymous; errors never escape, they
// degrade to anonymous.
func (c *Controller) CheckAuth() State {
	c.setState(State{Status: StatusLoading})

	next := State{Status: StatusAnonymous}
	if c.auth.IsAuthenticated() {
		if user, ok := c.auth.CurrentUser(); ok {
			next = State{Status: StatusAuthenticated, User: user}
		} else {
			log.Warn().Msg("access token present without cached user info, treating as anonymous")
		}
	}
	c.setState(next)
	return next
}

// Login authenticates and moves to authenticated on success. On failure the
// prior state is restored and the error returned for the caller to surface.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	previous := c.setState(State{Status: StatusLoading})

	result, err := c.auth.Login(ctx, email, password)
	if err != nil {
		c.setState(previous)
		return err
	}

	c.setState(State{
		Status: StatusAuthenticated,
		User: token.UserInfo{
			AccountID: result.AccountID,
			Email:     result.Email,
			Roles:     roleNames(result.Roles),
		},
	})
	return nil
}

// Logout signs out and lands on anonymous unconditionally. Failures along
// the way are logged, never returned.
func (c *Controller) Logout(ctx context.Context) {
	c.setState(State{Status: StatusLoading})

	if err := c.auth.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("logout did not fully clear local state")
	}
	c.setState(State{Status: StatusAnonymous})
}

// setState swaps the state and returns the previous one.
func (c *Controller) setState(next State) State {
	c.lock.Lock()
	defer c.lock.Unlock()
	previous := c.state
	c.state = next
	return previous
}

func roleNames(roles []account.Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names
}
