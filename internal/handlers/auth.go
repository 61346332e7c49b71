package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"atelier/web/internal/content"
)

// LoginForm shows the login page. A caller that already holds a credential
// is sent straight to the dashboard; the guard will judge the token there.
func (h HandlerSet) LoginForm(c *gin.Context) {
	if _, ok := h.store.Token(c); ok {
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}
	h.render(c, http.StatusOK, "login", gin.H{"PageTitle": "log in", "Username": ""})
}

func (h HandlerSet) LoginSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" || password == "" {
		h.render(c, http.StatusBadRequest, "login", gin.H{
			"PageTitle": "log in",
			"Username":  username,
			"Error":     "username and password are required",
		})
		return
	}

	token, err := h.client.Login(c.Request.Context(), username, password)
	if err != nil {
		status := http.StatusBadGateway
		message := errorMessage(err)
		if errors.Is(err, content.ErrUnauthorized) {
			status = http.StatusUnauthorized
			message = "invalid credentials"
		}
		h.render(c, status, "login", gin.H{
			"PageTitle": "log in",
			"Username":  username,
			"Error":     message,
		})
		return
	}

	h.store.Write(c, token)
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}
