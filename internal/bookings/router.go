package bookings

import (
	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking endpoints. All routes sit
// behind authentication; completion additionally requires the admin role.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, authMiddleware gin.HandlerFunc, adminMiddleware gin.HandlerFunc) {
	bookingRoutes := rg.Group("/bookings")
	bookingRoutes.Use(authMiddleware)
	{
		bookingRoutes.POST("", controller.Create)
		bookingRoutes.GET("", controller.ListMine)
		bookingRoutes.GET("/:id", controller.Get)
		bookingRoutes.GET("/ticket/:ticketId", controller.GetByTicket)
		bookingRoutes.POST("/:id/cancel", controller.Cancel)
		bookingRoutes.POST("/:id/complete", adminMiddleware, controller.Complete)
	}
}
