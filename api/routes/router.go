// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"eventhub/internal/bookings"
	"eventhub/internal/inventory"
	"eventhub/internal/notifications"
	"eventhub/internal/payments"
	"eventhub/internal/refunds"
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/database"
	"eventhub/internal/shared/middleware"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer
	log      *logger.Logger

	// Wired during SetupRoutes; later groups depend on earlier ones
	inventoryManager *inventory.Manager
	bookingService   bookings.Service
	paymentService   payments.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
		log:      log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := payments.RegisterValidations(v); err != nil {
			r.log.Error("failed to register payment validations", "error", err)
		}
	}

	r.setupHealthRoutes(engine)

	authMiddleware := middleware.JWTAuth(r.config)
	adminMiddleware := middleware.RequireRole("ADMIN")

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Order matters: bookings need inventory, payments need bookings,
		// refunds need both
		r.setupInventoryRoutes(api, authMiddleware, adminMiddleware)
		r.setupBookingRoutes(api, authMiddleware, adminMiddleware)
		r.setupPaymentRoutes(api, authMiddleware)
		r.setupRefundRoutes(api, authMiddleware, adminMiddleware)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "eventhub-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "eventhub-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupInventoryRoutes configures event inventory routes
func (r *Router) setupInventoryRoutes(rg *gin.RouterGroup, authMiddleware, adminMiddleware gin.HandlerFunc) {
	inventoryRepo := inventory.NewRepository(r.db.GetPostgreSQL())
	r.inventoryManager = inventory.NewManager(inventoryRepo, r.log)
	inventoryController := inventory.NewController(r.inventoryManager)

	inventory.SetupInventoryRoutes(rg, inventoryController, authMiddleware, adminMiddleware)
}

// setupBookingRoutes configures booking lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup, authMiddleware, adminMiddleware gin.HandlerFunc) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	r.bookingService = bookings.NewService(bookingRepo, r.inventoryManager, r.producer, bookings.Config{
		SinglePerUser: r.config.Booking.SinglePerUser,
	}, r.log)
	bookingController := bookings.NewController(r.bookingService)

	bookings.SetupBookingRoutes(rg, bookingController, authMiddleware, adminMiddleware)
}

// setupPaymentRoutes configures payment lifecycle routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	r.paymentService = payments.NewService(paymentRepo, r.bookingService, payments.NewSimulatedGateway(), r.producer, payments.Config{
		ReleaseOnFailure: r.config.Payment.ReleaseOnFailure,
	}, r.log)
	paymentController := payments.NewController(r.paymentService)

	payments.SetupPaymentRoutes(rg, paymentController, authMiddleware)
}

// setupRefundRoutes configures refund routes
func (r *Router) setupRefundRoutes(rg *gin.RouterGroup, authMiddleware, adminMiddleware gin.HandlerFunc) {
	coordinator := refunds.NewCoordinator(r.paymentService, r.bookingService, r.producer, r.log)
	refundController := refunds.NewController(coordinator)

	refunds.SetupRefundRoutes(rg, refundController, authMiddleware, adminMiddleware)
}
