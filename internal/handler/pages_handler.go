package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const paymentSuccessPage = `<h2>Payment Successful!</h2>
<p>Thank you for your purchase.</p>
<a href="/">Go back to Home</a>`

const paymentCancelledPage = `<h2>Payment Cancelled!</h2>
<p>Your payment was not completed.</p>
<a href="/">Try Again</a>`

func PaymentSuccess(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(paymentSuccessPage))
}

func PaymentCancelled(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(paymentCancelledPage))
}
