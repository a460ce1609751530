package components

import (
	"eventhub/internal/handler"
	"eventhub/internal/handler/api"
	"eventhub/internal/handler/middleware"
	"eventhub/internal/infra/ratelimit"
	"eventhub/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(registerRoutes),
)

func registerRoutes(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	bookingHandler *api.BookingHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter ratelimit.Limiter,
) {
	handler.NewRouter(engine, handler.RouterDeps{
		Config:         cfg,
		Logger:         logger,
		BookingHandler: bookingHandler,
		AuthMiddleware: authMiddleware,
		Limiter:        limiter,
	})
}
