package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"conduit-api/internal/app"
	"conduit-api/internal/pkg/optional"
	"conduit-api/internal/transport/http/middleware"
	"conduit-api/internal/transport/http/response"
)

type UserHandler struct {
	authService *app.AuthService
}

type RegisterRequest struct {
	User struct {
		Email    string  `json:"email" binding:"max=128"`
		Username string  `json:"username" binding:"max=64"`
		Password string  `json:"password" binding:"max=128"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	} `json:"user"`
}

type LoginRequest struct {
	User struct {
		Email    string `json:"email" binding:"max=128"`
		Password string `json:"password" binding:"max=128"`
	} `json:"user"`
}

// UpdateUserRequest distinguishes an absent field from an explicit null.
type UpdateUserRequest struct {
	User struct {
		Email    optional.Field[string] `json:"email"`
		Username optional.Field[string] `json:"username"`
		Password optional.Field[string] `json:"password"`
		Bio      optional.Field[string] `json:"bio"`
		Image    optional.Field[string] `json:"image"`
	} `json:"user"`
}

func NewUserHandler(authService *app.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Email:    req.User.Email,
		Username: req.User.Username,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.User.Email,
		Password: req.User.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"user": user})
}

func (h *UserHandler) Current(c *gin.Context) {
	username, ok := middleware.CurrentUsername(c)
	if !ok {
		writeError(c, app.ErrUnauthorized)
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), username)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"user": user})
}

func (h *UserHandler) Update(c *gin.Context) {
	username, ok := middleware.CurrentUsername(c)
	if !ok {
		writeError(c, app.ErrUnauthorized)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), app.UpdateUserInput{
		Email:    req.User.Email,
		Username: req.User.Username,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	}, username)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"user": user})
}
