package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"eventhub/internal/domain/user"
	"eventhub/internal/handler/api"
	"eventhub/internal/handler/middleware"
	"eventhub/internal/infra/ratelimit"
	"eventhub/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterDeps struct {
	Config         config.Config
	Logger         *middleware.Logger
	BookingHandler *api.BookingHandler
	AuthMiddleware *middleware.AuthMiddleware
	Limiter        ratelimit.Limiter
}

func NewRouter(engine *gin.Engine, deps RouterDeps) {
	setupMiddleware(engine, deps)
	setupRoutes(engine, deps)
}

func setupMiddleware(engine *gin.Engine, deps RouterDeps) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(deps.Config.CORS))
	engine.Use(deps.Logger.LoggingMiddleware())
	engine.Use(middleware.Metrics())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, deps RouterDeps) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var createMw []gin.HandlerFunc
	if deps.Config.RateLimit.Enabled && deps.Limiter != nil {
		createMw = append(createMw, middleware.RateLimit(deps.Limiter, "bookings"))
	}

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		{
			authRequired := bookings.Group("")
			authRequired.Use(deps.AuthMiddleware.RequireAuth(), deps.AuthMiddleware.RequireRoleAtLeast(user.RoleCustomer))
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: deps.BookingHandler.Create, Mw: createMw},
			})

			// the checkout guard reports 401 itself
			optional := bookings.Group("")
			optional.Use(deps.AuthMiddleware.OptionalAuth())
			addRoutes(optional, []route{
				{Method: http.MethodGet, Path: "/:id/checkout", Handler: deps.BookingHandler.Checkout},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
