package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vidpass/vidpass/internal/middleware"
)

type RouterDeps struct {
	Webhook   *WebhookHandler
	Admin     *AdminHandler
	Signin    *SigninHandler
	Checkout  *CheckoutHandler
	Videos    *VideoHandler
	JWTSecret []byte
}

func RegisterRoutes(engine *gin.Engine, deps RouterDeps) {
	// The webhook route must see the raw body, so it lives outside any
	// group that might re-read or transform the request.
	engine.POST("/webhook/stripe", deps.Webhook.HandleEvent)

	engine.GET("/payment-success", PaymentSuccess)
	engine.GET("/payment-cancelled", PaymentCancelled)

	api := engine.Group("/api")
	api.POST("/admin/register", deps.Admin.Register)
	api.POST("/admin/login", deps.Admin.Login)
	api.POST("/admin/reset-password", deps.Admin.ResetPassword)
	api.POST("/signin", deps.Signin.Signin)
	api.POST("/create-checkout-session", deps.Checkout.CreateSession)
	api.GET("/videos", deps.Videos.List)
	api.GET("/media/:key", deps.Videos.Media)

	adminGroup := api.Group("")
	adminGroup.Use(middleware.AdminAuth(deps.JWTSecret))
	adminGroup.POST("/upload-video", deps.Videos.Upload)
}
