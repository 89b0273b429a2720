package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpercimsit/emlak-website/internal/model"
	"github.com/alpercimsit/emlak-website/internal/service"
)

// AuthHandler serves admin login and token verification.
type AuthHandler struct {
	Auth *service.AuthService
	// LoginGuard runs before Login, typically the login rate limiter. Optional.
	LoginGuard gin.HandlerFunc
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/auth")
	if h.LoginGuard != nil {
		grp.POST("/login", h.LoginGuard, h.Login)
	} else {
		grp.POST("/login", h.Login)
	}
	grp.POST("/verify", h.Verify)
}

// Login answers 200 {token, username} or an empty 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	token, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{Token: token, Username: req.Username})
}

// Verify always answers 200; a bad or missing token yields {"valid": false}.
func (h *AuthHandler) Verify(c *gin.Context) {
	valid, username := h.Auth.Verify(c.GetHeader("Authorization"))
	c.JSON(http.StatusOK, model.VerifyResponse{Valid: valid, Username: username})
}
