package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"conduit-api/internal/repository"
	"conduit-api/internal/transport/http/middleware"
	"conduit-api/internal/transport/http/response"
)

type RowCounter interface {
	Counts(ctx context.Context) (*repository.RowCounts, error)
}

// DebugHandler exposes database sanity checks and the decoded caller token.
type DebugHandler struct {
	stats  RowCounter
	dbName string
}

func NewDebugHandler(stats RowCounter, dbName string) *DebugHandler {
	return &DebugHandler{stats: stats, dbName: dbName}
}

func (h *DebugHandler) DB(c *gin.Context) {
	counts, err := h.stats.Counts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"db": h.dbName, "counts": counts})
}

func (h *DebugHandler) WhoAmI(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.OK(c, gin.H{"user": nil})
		return
	}
	response.OK(c, gin.H{"user": gin.H{
		"id":       claims.UserID,
		"username": claims.Username,
		"email":    claims.Email,
	}})
}
