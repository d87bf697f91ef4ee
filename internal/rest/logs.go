package rest

import (
	"net/http"

	"picshare/api"
	"picshare/images/domain"

	"github.com/gin-gonic/gin"
)

// ListViews returns the audit trail, newest-first within each day. The
// paged store sequence is drained here; the caller gets a plain list.
func (h *Api) ListViews(c *gin.Context) {
	scope := domain.ScopeAllTime
	if c.Query("scope") == "today" {
		scope = domain.ScopeToday
	}

	pager, err := h.logs.Query(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	views := []api.LogEntryView{}
	for pager.HasMore() {
		page, err := pager.NextPage(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		for _, entry := range page {
			views = append(views, api.LogEntryView{
				UserID:    entry.UserID,
				Username:  entry.Username,
				ImageID:   entry.ImageID,
				Caption:   entry.Caption,
				URI:       entry.URI,
				EntryDate: entry.EntryDate,
			})
		}
	}

	c.JSON(http.StatusOK, views)
}
