package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
	"github.com/vidpass/vidpass/internal/service"
)

type SigninHandler struct {
	access *service.AccessService
}

func NewSigninHandler(access *service.AccessService) *SigninHandler {
	return &SigninHandler{access: access}
}

type signinRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Signin redeems an email+code pair. Every miss is the same 401: whether
// the email exists is never revealed.
func (h *SigninHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Credentials"})
		return
	}
	err := h.access.Redeem(c.Request.Context(), req.Email, req.OTP)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Access Granted"})
	case errors.Is(err, appErr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database Error"})
	}
}
