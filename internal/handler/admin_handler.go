package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
	"github.com/vidpass/vidpass/internal/service"
)

type AdminHandler struct {
	admins *service.AdminService
}

func NewAdminHandler(admins *service.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

type credsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminHandler) Register(c *gin.Context) {
	var req credsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}
	err := h.admins.Register(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": "Admin Registered Successfully"})
	case errors.Is(err, appErr.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
	case errors.Is(err, appErr.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Admin already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database Error"})
	}
}

// Login renders unknown-email and wrong-password differently on purpose:
// unifying the two would change the observable API.
func (h *AdminHandler) Login(c *gin.Context) {
	var req credsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}
	sessionToken, err := h.admins.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Authenticated", "token": sessionToken})
	case errors.Is(err, appErr.ErrNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Admin Not Found"})
	case errors.Is(err, appErr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database Error"})
	}
}

type resetRequest struct {
	Email string `json:"email"`
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}
	err := h.admins.RequestPasswordReset(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password Reset Link Sent"})
	case errors.Is(err, appErr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Admin Not Found"})
	case errors.Is(err, appErr.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database Error"})
	}
}
