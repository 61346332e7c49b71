package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"atelier/web/internal/session"
)

func (h HandlerSet) Profile(c *gin.Context) {
	user, err := h.client.GetUser(c.Request.Context(), h.cfg.Site.AdminUserID)
	if err != nil {
		h.render(c, http.StatusOK, "profile", gin.H{
			"PageTitle": "profile",
			"Error":     errorMessage(err),
		})
		return
	}
	h.render(c, http.StatusOK, "profile", gin.H{
		"PageTitle": "profile",
		"User":      user,
	})
}

func (h HandlerSet) UpdateProfileForm(c *gin.Context) {
	user, err := h.client.GetUser(c.Request.Context(), h.cfg.Site.AdminUserID)
	if err != nil {
		h.render(c, http.StatusOK, "profile_edit", gin.H{
			"PageTitle": "update profile",
			"Username":  "",
			"Email":     "",
			"Error":     errorMessage(err),
		})
		return
	}
	h.render(c, http.StatusOK, "profile_edit", gin.H{
		"PageTitle": "update profile",
		"Username":  user.Username,
		"Email":     user.Email,
	})
}

func (h HandlerSet) UpdateProfileSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))

	if username == "" || email == "" {
		h.render(c, http.StatusBadRequest, "profile_edit", gin.H{
			"PageTitle": "update profile",
			"Username":  username,
			"Email":     email,
			"Error":     "username and email are required",
		})
		return
	}

	_, err := h.client.UpdateUser(c.Request.Context(), session.Token(c), h.cfg.Site.AdminUserID, username, email)
	if err != nil {
		h.render(c, http.StatusBadRequest, "profile_edit", gin.H{
			"PageTitle": "update profile",
			"Username":  username,
			"Email":     email,
			"Error":     errorMessage(err),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/profile")
}
