package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"atelier/web/internal/config"
)

// CredentialStore is the single owner of the stored bearer token. Protected
// views never touch the cookie directly; reads, writes, and clears all go
// through here.
type CredentialStore interface {
	Token(c *gin.Context) (string, bool)
	Write(c *gin.Context, token string)
	Clear(c *gin.Context)
}

// CookieStore keeps the token in an HttpOnly cookie under one fixed name.
// Two tabs writing concurrently can race; the last write wins, which is
// acceptable for a single-admin site.
type CookieStore struct {
	name   string
	secure bool
	maxAge time.Duration
}

func NewCookieStore(cfg config.SessionConfig) *CookieStore {
	return &CookieStore{
		name:   cfg.CookieName,
		secure: cfg.CookieSecure,
		maxAge: cfg.CookieMaxAge,
	}
}

func (s *CookieStore) Token(c *gin.Context) (string, bool) {
	token, err := c.Cookie(s.name)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (s *CookieStore) Write(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, token, int(s.maxAge.Seconds()), "/", "", s.secure, true)
}

func (s *CookieStore) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}
