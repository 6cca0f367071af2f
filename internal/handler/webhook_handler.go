package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/vidpass/vidpass/internal/payment"
	"github.com/vidpass/vidpass/internal/service"
)

const seenEventCacheSize = 4096

type WebhookHandler struct {
	access *service.AccessService
	secret string
	seen   *lru.Cache[string, struct{}]
	logger *zap.Logger
}

func NewWebhookHandler(access *service.AccessService, secret string, logger *zap.Logger) (*WebhookHandler, error) {
	seen, err := lru.New[string, struct{}](seenEventCacheSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{access: access, secret: secret, seen: seen, logger: logger}, nil
}

// HandleEvent verifies the provider signature over the raw body before
// anything touches it, then reacts to completed checkouts by issuing an
// access code. Every verified event is acknowledged with 200 regardless of
// type; duplicate deliveries of one event are acknowledged without reissue.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	payloadBytes, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook Error: unreadable body"})
		return
	}
	header := c.GetHeader(payment.SignatureHeader)
	if err := payment.VerifyPayload(payloadBytes, header, h.secret); err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook Error: signature verification failed"})
		return
	}
	event, err := payment.ParseEvent(payloadBytes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook Error: malformed event"})
		return
	}
	if event.ID != "" {
		if _, dup := h.seen.Get(event.ID); dup {
			h.logger.Info("duplicate event delivery", zap.String("event_id", event.ID))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
	}
	if event.IsCheckoutCompleted() {
		email := event.Data.Object.CustomerEmail
		if email == "" {
			h.logger.Warn("completed checkout without customer email", zap.String("event_id", event.ID))
		} else if _, err := h.access.Issue(c.Request.Context(), email); err != nil {
			h.logger.Error("store access code failed", zap.String("email", email), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database Error"})
			return
		}
	} else {
		h.logger.Info("unhandled event type", zap.String("type", event.Type))
	}
	if event.ID != "" {
		h.seen.Add(event.ID, struct{}{})
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
