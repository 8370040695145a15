package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"conduit-api/internal/app"
	"conduit-api/internal/transport/http/middleware"
	"conduit-api/internal/transport/http/response"
)

type ProfileHandler struct {
	profileService *app.ProfileService
}

func NewProfileHandler(profileService *app.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	viewer, _ := middleware.CurrentUsername(c)
	profile, err := h.profileService.GetProfile(c.Request.Context(), c.Param("username"), viewer)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"profile": profile})
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	h.changeFollow(c, h.profileService.Follow)
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	h.changeFollow(c, h.profileService.Unfollow)
}

func (h *ProfileHandler) changeFollow(c *gin.Context, op func(ctx context.Context, subject, acting string) (*app.Profile, error)) {
	acting, ok := middleware.CurrentUsername(c)
	if !ok {
		writeError(c, app.ErrUnauthorized)
		return
	}
	profile, err := op(c.Request.Context(), c.Param("username"), acting)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"profile": profile})
}
