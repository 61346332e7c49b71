package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"atelier/web/internal/content"
)

type Status string

const (
	StatusUnchecked Status = "unchecked"
	StatusValid     Status = "valid"
	StatusInvalid   Status = "invalid"
)

const (
	statusKey = "session_status"
	tokenKey  = "session_token"
)

// Verifier judges a stored credential. Satisfied by *content.Client.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// Guard gates every admin view. A request only reaches the wrapped handler
// after the stored credential positively verified; anything else redirects
// to the login page without rendering protected content.
type Guard struct {
	store     CredentialStore
	verifier  Verifier
	loginPath string
	timeout   time.Duration
	log       zerolog.Logger
}

func NewGuard(store CredentialStore, verifier Verifier, loginPath string, timeout time.Duration, log zerolog.Logger) *Guard {
	return &Guard{
		store:     store,
		verifier:  verifier,
		loginPath: loginPath,
		timeout:   timeout,
		log:       log.With().Str("component", "session_guard").Logger(),
	}
}

func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(statusKey, StatusUnchecked)

		token, ok := g.store.Token(c)
		if !ok {
			g.deny(c, false)
			return
		}

		// Expired tokens are cleared without a round-trip. The probe below
		// stays authoritative for everything else.
		if tokenExpired(token) {
			g.deny(c, true)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), g.timeout)
		defer cancel()

		err := g.verifier.Verify(ctx, token)
		switch {
		case err == nil:
			c.Set(statusKey, StatusValid)
			c.Set(tokenKey, token)
			c.Next()
		case errors.Is(err, content.ErrUnauthorized):
			g.deny(c, true)
		default:
			// The probe didn't positively succeed, so the view is not
			// admitted. The credential stays: a transient outage is not
			// proof the token is bad.
			g.log.Warn().Err(err).Msg("session verification did not complete")
			g.deny(c, false)
		}
	}
}

// Logout clears the credential and sends the caller to the login page. Works
// with or without a live session.
func (g *Guard) Logout(c *gin.Context) {
	g.store.Clear(c)
	c.Redirect(http.StatusSeeOther, g.loginPath)
}

func (g *Guard) deny(c *gin.Context, clear bool) {
	if clear {
		g.store.Clear(c)
	}
	c.Set(statusKey, StatusInvalid)
	c.Redirect(http.StatusSeeOther, g.loginPath)
	c.Abort()
}

// Token returns the verified credential for the current request. Empty
// outside guarded routes.
func Token(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// CurrentStatus reports how far the guard got with this request.
func CurrentStatus(c *gin.Context) Status {
	v, ok := c.Get(statusKey)
	if !ok {
		return StatusUnchecked
	}
	status, ok := v.(Status)
	if !ok {
		return StatusUnchecked
	}
	return status
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; only the API holds the signing key. Malformed or claimless
// tokens are left for the probe to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
