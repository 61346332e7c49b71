package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"atelier/web/internal/ids"
)

const (
	csrfCookie = "atelier_csrf"

	// CSRFField is the hidden form field admin templates must carry.
	CSRFField = "csrf_token"

	csrfContextKey = "csrf_token"
)

// CSRF implements double-submit protection for the admin forms: a random
// token lives in its own cookie and must be echoed back in every mutating
// form post.
func CSRF(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(csrfCookie)
		if err != nil || token == "" {
			token = ids.New()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(csrfCookie, token, 0, "/", "", secure, true)
		}
		c.Set(csrfContextKey, token)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			submitted := c.PostForm(CSRFField)
			if subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
				c.Abort()
				c.String(http.StatusForbidden, "form token mismatch, reload the page and try again")
				return
			}
		}

		c.Next()
	}
}

// CSRFToken returns the token templates should embed in forms.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}
