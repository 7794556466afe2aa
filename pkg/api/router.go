package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jaycollett/OpenIRBlaster/pkg/api/handlers"
	"github.com/jaycollett/OpenIRBlaster/pkg/blaster/schema"
	"github.com/jaycollett/OpenIRBlaster/pkg/hub"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	hub       *hub.Hub
	validator *schema.Validator
}

// NewRouter creates a new API router
func NewRouter(h *hub.Hub, validator *schema.Validator) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:    engine,
		hub:       h,
		validator: validator,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.hub)
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		// Health
		v1.GET("/health", healthHandler.Health)

		// Learning sessions
		learnHandler := handlers.NewLearnHandler(r.hub)
		learn := v1.Group("/learn")
		{
			learn.POST("/start", learnHandler.Start)
			learn.GET("/status", learnHandler.Status)
			learn.POST("/save", learnHandler.Save)
			learn.POST("/cancel", learnHandler.Cancel)
			learn.POST("/send", learnHandler.SendPending)
			learn.GET("/events", learnHandler.Events)
		}

		// Stored codes
		codesHandler := handlers.NewCodesHandler(r.hub, r.validator)
		codes := v1.Group("/codes")
		{
			codes.GET("", codesHandler.ListCodes)
			codes.GET("/:id", codesHandler.GetCode)
			codes.PATCH("/:id", codesHandler.UpdateCode)
			codes.DELETE("/:id", codesHandler.DeleteCode)
			codes.POST("/:id/send", codesHandler.SendCode)
		}

		// Raw transmit
		v1.POST("/send", codesHandler.SendRaw)

		// Device record and introspection
		deviceHandler := handlers.NewDeviceHandler(r.hub)
		v1.GET("/device", deviceHandler.GetDevice)
		v1.GET("/diagnostics", deviceHandler.Diagnostics)
		v1.GET("/export", deviceHandler.Export)
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
