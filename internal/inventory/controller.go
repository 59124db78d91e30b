package inventory

import (
	"errors"
	"net/http"

	"eventhub/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	manager *Manager
}

func NewController(manager *Manager) *Controller {
	return &Controller{manager: manager}
}

// CreateInventory handles POST /api/v1/events
func (c *Controller) CreateInventory(ctx *gin.Context) {
	var req CreateInventoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	inv, err := c.manager.Create(ctx.Request.Context(), req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create event inventory", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Event inventory created", inv.ToResponse())
}

// GetInventory handles GET /api/v1/events/:id
func (c *Controller) GetInventory(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	inv, err := c.manager.Get(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to fetch event", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Event fetched", inv.ToResponse())
}

// ListInventories handles GET /api/v1/events
func (c *Controller) ListInventories(ctx *gin.Context) {
	inventories, err := c.manager.List(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list events", err.Error())
		return
	}

	out := make([]InventoryResponse, 0, len(inventories))
	for i := range inventories {
		out = append(out, inventories[i].ToResponse())
	}
	response.Success(ctx, http.StatusOK, "Events fetched", out)
}

// PublishInventory handles POST /api/v1/events/:id/publish
func (c *Controller) PublishInventory(ctx *gin.Context) {
	c.setActive(ctx, true, "Event published")
}

// DeactivateInventory handles POST /api/v1/events/:id/deactivate
func (c *Controller) DeactivateInventory(ctx *gin.Context) {
	c.setActive(ctx, false, "Event deactivated")
}

func (c *Controller) setActive(ctx *gin.Context, active bool, message string) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	var opErr error
	if active {
		opErr = c.manager.Publish(ctx.Request.Context(), eventID)
	} else {
		opErr = c.manager.Deactivate(ctx.Request.Context(), eventID)
	}
	if opErr != nil {
		if errors.Is(opErr, ErrEventNotFound) {
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to update event", opErr.Error())
		return
	}

	response.Success(ctx, http.StatusOK, message, nil)
}
