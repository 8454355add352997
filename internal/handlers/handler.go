package handlers

import (
	"furnace_engine/internal/logger"
	"furnace_engine/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Snapshot stream over WebSocket, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerFurnaceRoutes(api)
		h.registerCatalogRoutes(api)
		api.GET("/logs", h.getLogs)
	}
}

func (h *Handler) registerFurnaceRoutes(api *gin.RouterGroup) {
	furnaces := api.Group("/furnaces")
	{
		furnaces.GET("", h.listFurnaces)
		// Body example: {"location":"world:10:64:-3","archetype":"STONE_FURNACE"}
		furnaces.POST("", h.registerFurnace)
		furnaces.GET("/:location", h.getFurnace)
		furnaces.DELETE("/:location", h.unregisterFurnace)
		furnaces.PUT("/:location/slots/:kind/:index", h.setSlot)
		furnaces.POST("/:location/shutdown", h.shutdownFurnace)
		furnaces.POST("/:location/restart", h.restartFurnace)
	}
}

func (h *Handler) registerCatalogRoutes(api *gin.RouterGroup) {
	cat := api.Group("/catalog")
	{
		cat.GET("/fuels", h.listFuels)
		cat.POST("/fuels", h.addFuel)
		cat.DELETE("/fuels/:id", h.removeFuel)
		cat.GET("/recipes", h.listRecipes)
		cat.POST("/recipes", h.addRecipe)
		cat.DELETE("/recipes/:id", h.removeRecipe)
		cat.GET("/archetypes", h.listArchetypes)
	}
}
