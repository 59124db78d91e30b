package inventory

import (
	"github.com/gin-gonic/gin"
)

// SetupInventoryRoutes configures event inventory routes. Reads are
// public; mutations require the ADMIN role (middleware applied by the
// caller so this package stays free of auth concerns).
func SetupInventoryRoutes(rg *gin.RouterGroup, controller *Controller, adminMiddleware ...gin.HandlerFunc) {
	events := rg.Group("/events")
	{
		events.GET("", controller.ListInventories)
		events.GET("/:id", controller.GetInventory)
	}

	admin := rg.Group("/events")
	admin.Use(adminMiddleware...)
	{
		admin.POST("", controller.CreateInventory)
		admin.POST("/:id/publish", controller.PublishInventory)
		admin.POST("/:id/deactivate", controller.DeactivateInventory)
	}
}
