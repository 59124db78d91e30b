package payments

import (
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures the payment endpoints behind authentication
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller, authMiddleware gin.HandlerFunc) {
	paymentRoutes := rg.Group("/payments")
	paymentRoutes.Use(authMiddleware)
	{
		paymentRoutes.POST("", controller.Initiate)
		paymentRoutes.GET("/:transactionId", controller.Get)
		paymentRoutes.GET("/:transactionId/verify", controller.Verify)
		paymentRoutes.GET("/booking/:bookingId", controller.ListByBooking)
	}
}
