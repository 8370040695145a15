package handler

import (
	"github.com/gin-gonic/gin"

	"conduit-api/internal/app"
	"conduit-api/internal/transport/http/response"
)

type TagHandler struct {
	tagService *app.TagService
}

func NewTagHandler(tagService *app.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// List serves GET /api/tags?username=&limit=.
func (h *TagHandler) List(c *gin.Context) {
	query := app.ParseTagQuery(c.Query("username"), c.Query("limit"))
	tags, err := h.tagService.GetTags(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"tags": tags})
}
