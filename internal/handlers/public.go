package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atelier/web/internal/work"
)

func (h HandlerSet) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "home", gin.H{"PageTitle": "home"})
}

func (h HandlerSet) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about", gin.H{"PageTitle": "about"})
}

func (h HandlerSet) Contact(c *gin.Context) {
	h.render(c, http.StatusOK, "contact", gin.H{"PageTitle": "contact"})
}

func (h HandlerSet) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found", gin.H{"PageTitle": "not found"})
}

// Works renders the public gallery: published works grouped by category.
// A fetch failure renders the empty-gallery placeholder rather than a
// broken page.
func (h HandlerSet) Works(c *gin.Context) {
	works, err := h.works.PublicWorks(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("gallery fetch failed")
		h.render(c, http.StatusOK, "works", gin.H{
			"PageTitle": "works",
			"Error":     errorMessage(err),
		})
		return
	}

	published := work.Published(works)
	h.render(c, http.StatusOK, "works", gin.H{
		"PageTitle": "works",
		"Grouped":   work.GroupByCategory(published),
		"HasWorks":  len(published) > 0,
	})
}

func (h HandlerSet) CategoryWorks(c *gin.Context) {
	category, ok := work.ParseCategory(c.Param("category"))
	if !ok {
		h.NotFound(c)
		return
	}

	works, err := h.works.CategoryWorks(c.Request.Context(), category)
	if err != nil {
		h.log.Warn().Err(err).Str("category", string(category)).Msg("category fetch failed")
		h.render(c, http.StatusOK, "category", gin.H{
			"PageTitle": string(category),
			"Category":  category,
			"Error":     errorMessage(err),
		})
		return
	}

	published := work.Published(works)
	h.render(c, http.StatusOK, "category", gin.H{
		"PageTitle": string(category),
		"Category":  category,
		"Works":     published,
		"HasWorks":  len(published) > 0,
	})
}

// WorkDetail shows one published work. Drafts stay invisible on the public
// site, indistinguishable from works that don't exist.
func (h HandlerSet) WorkDetail(c *gin.Context) {
	if _, ok := work.ParseCategory(c.Param("category")); !ok {
		h.NotFound(c)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}

	w, err := h.works.Get(c.Request.Context(), id)
	if err != nil {
		h.NotFound(c)
		return
	}
	if !w.IsPublished {
		h.NotFound(c)
		return
	}

	h.render(c, http.StatusOK, "work", gin.H{
		"PageTitle": w.Title,
		"Work":      w,
		"ImageURL":  h.imageURL(w),
	})
}
