package refunds

import (
	"github.com/gin-gonic/gin"
)

// SetupRefundRoutes configures the refund endpoints. Refunds are an
// operational action, so the whole group requires the admin role.
func SetupRefundRoutes(rg *gin.RouterGroup, controller *Controller, authMiddleware gin.HandlerFunc, adminMiddleware gin.HandlerFunc) {
	refundRoutes := rg.Group("/refunds")
	refundRoutes.Use(authMiddleware, adminMiddleware)
	{
		refundRoutes.POST("", controller.Create)
	}
}
