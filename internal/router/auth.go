package router

import (
	"net/http"

	"github.com/Payphone-Digital/jury/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")

	r.handle(auth, http.MethodPost, "/login", middleware.PolicyPublic, r.authHandler.Login)
	r.handle(auth, http.MethodPost, "/register", middleware.PolicyPublic, r.authHandler.Register)
	r.handle(auth, http.MethodPost, "/refresh", middleware.PolicyPublic, r.authHandler.RefreshToken)

	r.handle(auth, http.MethodPost, "/revoke", middleware.PolicyAuthenticated, r.authHandler.RevokeToken)
	r.handle(auth, http.MethodGet, "/me", middleware.PolicyAuthenticated, r.authHandler.Me)
}
