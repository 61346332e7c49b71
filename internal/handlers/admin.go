package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"atelier/web/internal/session"
	"atelier/web/internal/work"
)

func (h HandlerSet) Dashboard(c *gin.Context) {
	h.render(c, http.StatusOK, "dashboard", gin.H{"PageTitle": "dashboard"})
}

// AdminWorks lists every work, drafts included.
func (h HandlerSet) AdminWorks(c *gin.Context) {
	works, err := h.works.AllWorks(c.Request.Context())
	if err != nil {
		h.render(c, http.StatusOK, "admin_works", gin.H{
			"PageTitle": "works",
			"Error":     errorMessage(err),
		})
		return
	}
	h.render(c, http.StatusOK, "admin_works", gin.H{
		"PageTitle": "works",
		"Works":     works,
	})
}

func (h HandlerSet) AdminWorkDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}

	w, err := h.works.Get(c.Request.Context(), id)
	if err != nil {
		h.render(c, http.StatusNotFound, "admin_work_missing", gin.H{
			"PageTitle": "work not found",
			"Error":     errorMessage(err),
		})
		return
	}

	h.renderAdminWork(c, http.StatusOK, w, "")
}

func (h HandlerSet) CreateWorkForm(c *gin.Context) {
	h.render(c, http.StatusOK, "work_create", gin.H{
		"PageTitle":  "create work",
		"Categories": work.Categories,
		"Title":      "",
		"Author":     "",
		"Category":   "",
		"Content":    "",
	})
}

// CreateWorkSubmit validates and submits a new work. Failures re-render the
// form with the entered values preserved.
func (h HandlerSet) CreateWorkSubmit(c *gin.Context) {
	in := h.workInput(c, false)

	created, err := h.works.Create(c.Request.Context(), session.Token(c), in)
	if err != nil {
		h.render(c, http.StatusBadRequest, "work_create", gin.H{
			"PageTitle":  "create work",
			"Categories": work.Categories,
			"Error":      errorMessage(err),
			"Title":      in.Title,
			"Author":     in.Author,
			"Category":   string(in.Category),
			"Content":    textContent(in.Body),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/works/"+strconv.Itoa(created.ID))
}

func (h HandlerSet) UpdateWorkForm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}

	w, err := h.works.Get(c.Request.Context(), id)
	if err != nil {
		h.render(c, http.StatusNotFound, "admin_work_missing", gin.H{
			"PageTitle": "update",
			"Error":     errorMessage(err),
		})
		return
	}

	h.render(c, http.StatusOK, "work_edit", gin.H{
		"PageTitle": "update " + w.Title,
		"Work":      w,
		"Title":     w.Title,
		"Author":    w.Author,
		"Content":   stringValue(w.Content),
	})
}

func (h HandlerSet) UpdateWorkSubmit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}

	in := h.workInput(c, true)

	updated, err := h.works.Update(c.Request.Context(), session.Token(c), id, in)
	if err != nil {
		w, getErr := h.works.Get(c.Request.Context(), id)
		if getErr != nil {
			h.render(c, http.StatusNotFound, "admin_work_missing", gin.H{
				"PageTitle": "update",
				"Error":     errorMessage(getErr),
			})
			return
		}
		h.render(c, http.StatusBadRequest, "work_edit", gin.H{
			"PageTitle": "update " + w.Title,
			"Work":      w,
			"Error":     errorMessage(err),
			"Title":     in.Title,
			"Author":    in.Author,
			"Content":   textContent(in.Body),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/works/"+strconv.Itoa(updated.ID))
}

// TogglePublish flips visibility and re-renders the detail page from the
// authoritative response. On failure the page keeps showing the state it
// showed before.
func (h HandlerSet) TogglePublish(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}

	updated, err := h.works.TogglePublish(c.Request.Context(), session.Token(c), id)
	if err != nil {
		current, getErr := h.works.Get(c.Request.Context(), id)
		if getErr != nil {
			h.render(c, http.StatusNotFound, "admin_work_missing", gin.H{
				"PageTitle": "work not found",
				"Error":     errorMessage(getErr),
			})
			return
		}
		h.renderAdminWork(c, http.StatusOK, current, errorMessage(err))
		return
	}

	h.renderAdminWork(c, http.StatusOK, updated, "")
}

func (h HandlerSet) DeleteWork(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}

	if err := h.works.Delete(c.Request.Context(), session.Token(c), id); err != nil {
		current, getErr := h.works.Get(c.Request.Context(), id)
		if getErr != nil {
			h.render(c, http.StatusNotFound, "admin_work_missing", gin.H{
				"PageTitle": "work not found",
				"Error":     errorMessage(getErr),
			})
			return
		}
		h.renderAdminWork(c, http.StatusOK, current, errorMessage(err))
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/works")
}

func (h HandlerSet) renderAdminWork(c *gin.Context, status int, w work.Work, errMsg string) {
	data := gin.H{
		"PageTitle": w.Title,
		"Work":      w,
		"ImageURL":  h.imageURL(w),
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	h.render(c, status, "admin_work", data)
}

// workInput assembles a lifecycle input from the submitted form. The body
// kind follows the derived content type; an image form without a fresh file
// falls back to the stored reference carried in hidden fields.
func (h HandlerSet) workInput(c *gin.Context, forUpdate bool) work.Input {
	category := work.Category(strings.TrimSpace(c.PostForm("category")))

	var body work.Body
	if category.Valid() {
		switch category.ContentType() {
		case work.ContentTypeText:
			body = work.TextBody{Content: c.PostForm("content")}
		case work.ContentTypeImage:
			img := work.ImageBody{}
			if file, header, err := c.Request.FormFile("file"); err == nil {
				img.File = &work.FileUpload{Name: header.Filename, Reader: file}
			} else if forUpdate {
				img.ExistingPath = c.PostForm("existing_image_path")
				img.ExistingName = c.PostForm("existing_image_name")
			}
			body = img
		}
	}

	return work.Input{
		Title:    strings.TrimSpace(c.PostForm("title")),
		Author:   strings.TrimSpace(c.PostForm("author")),
		Category: category,
		Body:     body,
	}
}

func textContent(body work.Body) string {
	if text, ok := body.(work.TextBody); ok {
		return text.Content
	}
	return ""
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
