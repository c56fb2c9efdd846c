package router

import (
	"net/http"
	"path"
	"time"

	"github.com/Payphone-Digital/jury/config"
	"github.com/Payphone-Digital/jury/internal/handler"
	"github.com/Payphone-Digital/jury/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler     *handler.AuthHandler
	userHandler     *handler.UserHandler
	penaltyHandler  *handler.PenaltyHandler
	expenseHandler  *handler.ExpenseHandler
	logHandler      *handler.LogHandler
	tierHandler     *handler.TierHandler
	activityHandler *handler.ActivityHandler
	healthHandler   *handler.HealthHandler

	gate   *middleware.Gate
	Config *config.Config
}

// Handlers groups the endpoint handlers mounted by the router.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Penalty  *handler.PenaltyHandler
	Expense  *handler.ExpenseHandler
	Log      *handler.LogHandler
	Tier     *handler.TierHandler
	Activity *handler.ActivityHandler
	Health   *handler.HealthHandler
}

func NewRouter(h Handlers, gate *middleware.Gate, config *config.Config) *Router {
	return &Router{
		authHandler:     h.Auth,
		userHandler:     h.User,
		penaltyHandler:  h.Penalty,
		expenseHandler:  h.Expense,
		logHandler:      h.Log,
		tierHandler:     h.Tier,
		activityHandler: h.Activity,
		healthHandler:   h.Health,

		gate:   gate,
		Config: config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestContext())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.SecurityLoggingMiddleware())
	router.Use(middleware.CORS(r.Config.CORS.AllowedOrigins))
	router.Use(middleware.RequestTimeout(r.Config.App.Timeout))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.BasicHealth)
		api.GET("/health/live", r.healthHandler.BasicHealth)
		api.GET("/health/ready", r.healthHandler.Ready)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))
			v1.Use(r.gate.Authenticate(), r.gate.Authorize())

			r.handle(v1, http.MethodGet, "/health", middleware.PolicyPublic, r.healthHandler.HealthCheck)

			r.authRoutes(v1)
			r.userRoutes(v1)
			r.penaltyRoutes(v1)
			r.expenseRoutes(v1)
			r.logRoutes(v1)
			r.tierRoutes(v1)
			r.activityRoutes(v1)
		}
	}

	return router
}

// handle mounts a route and records its policy in the access table
// under the same full path gin reports for it.
func (r *Router) handle(rg *gin.RouterGroup, method, relativePath string, policy middleware.Policy, h gin.HandlerFunc) {
	rg.Handle(method, relativePath, h)
	r.gate.Table().Set(method, path.Join(rg.BasePath(), relativePath), policy)
}
