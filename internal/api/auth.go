package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/service"
	"github.com/macrolog/macrolog/backend/internal/types"
)

type AuthHandler struct {
	authService  service.IAuthService
	loginLimiter gin.HandlerFunc
}

// NewAuthHandler creates the auth handler. loginLimiter may be nil.
func NewAuthHandler(authService service.IAuthService, loginLimiter gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{authService: authService, loginLimiter: loginLimiter}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	auth.POST("/register", h.Register)
	if h.loginLimiter != nil {
		auth.POST("/login", h.loginLimiter, h.Login)
	} else {
		auth.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes registers auth routes that need a token
func (h *AuthHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/auth/me", h.Me)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{
		"token": token,
		"user":  user,
	})
}
