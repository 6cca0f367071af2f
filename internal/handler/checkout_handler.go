package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vidpass/vidpass/internal/payment"
)

type CheckoutHandler struct {
	checkout *payment.CheckoutClient
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout *payment.CheckoutClient, logger *zap.Logger) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

type checkoutRequest struct {
	Email string `json:"email"`
}

func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required for payment"})
		return
	}
	session, err := h.checkout.CreateSession(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		h.logger.Error("create checkout session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Payment Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": session.ID, "url": session.URL})
}
