package handlers

import (
	"errors"
	"net/http"

	"carvewood-storefront/cms"
	"carvewood-storefront/session"
	"carvewood-storefront/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	CMS      *cms.Client
	Sessions *session.Store
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	creds, err := h.CMS.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var vErr *cms.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Registration is temporarily unavailable"})
		return
	}

	if err := h.saveSession(c, creds); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": creds.Token,
		"user":  creds.User,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	creds, err := h.CMS.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, cms.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Login is temporarily unavailable"})
		return
	}

	if err := h.saveSession(c, creds); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": creds.Token,
		"user":  creds.User,
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	id := c.GetString("session_id")
	if id != "" {
		if err := h.Sessions.Delete(id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) saveSession(c *gin.Context, creds *cms.Credentials) error {
	id := c.GetString("session_id")
	if id == "" {
		return errors.New("no session id on request")
	}
	return h.Sessions.Save(id, session.Session{Token: creds.Token, User: creds.User})
}
