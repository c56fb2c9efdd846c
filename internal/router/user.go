package router

import (
	"net/http"

	"github.com/Payphone-Digital/jury/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")

	r.handle(users, http.MethodGet, "", middleware.PolicyAuthenticated, r.userHandler.GetAll)
	r.handle(users, http.MethodGet, "/:id", middleware.PolicyAuthenticated, r.userHandler.GetByID)

	// account management is reserved to the jury
	r.handle(users, http.MethodPost, "", middleware.PolicyJuryOnly, r.userHandler.CreateUser)
	r.handle(users, http.MethodPut, "/:id", middleware.PolicyJuryOnly, r.userHandler.UpdateUser)
	r.handle(users, http.MethodDelete, "/:id", middleware.PolicyJuryOnly, r.userHandler.DeleteUser)
	r.handle(users, http.MethodPost, "/:id/restore", middleware.PolicyJuryOnly, r.userHandler.RestoreUser)
	r.handle(users, http.MethodPost, "/appoint-jury", middleware.PolicyJuryOnly, r.userHandler.AppointJury)
}
