package router

import (
	"net/http"

	"github.com/Payphone-Digital/jury/internal/middleware"
	"github.com/gin-gonic/gin"
)

// crudEndpoints is the handler set of a soft-deletable resource.
type crudEndpoints interface {
	GetAll(*gin.Context)
	GetByID(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
	Restore(*gin.Context)
}

// resourcePolicies sets who may read and who may write. Restore is
// always jury only.
type resourcePolicies struct {
	read  middleware.Policy
	write middleware.Policy
}

func (r *Router) resourceRoutes(version *gin.RouterGroup, prefix string, h crudEndpoints, p resourcePolicies) {
	group := version.Group(prefix)

	r.handle(group, http.MethodGet, "", p.read, h.GetAll)
	r.handle(group, http.MethodGet, "/:id", p.read, h.GetByID)
	r.handle(group, http.MethodPost, "", p.write, h.Create)
	r.handle(group, http.MethodPut, "/:id", p.write, h.Update)
	r.handle(group, http.MethodDelete, "/:id", p.write, h.Delete)
	r.handle(group, http.MethodPost, "/:id/restore", middleware.PolicyJuryOnly, h.Restore)
}

func (r *Router) penaltyRoutes(version *gin.RouterGroup) {
	r.resourceRoutes(version, "/penalties", r.penaltyHandler, resourcePolicies{
		read:  middleware.PolicyAuthenticated,
		write: middleware.PolicyAuthenticated,
	})
}

func (r *Router) expenseRoutes(version *gin.RouterGroup) {
	r.resourceRoutes(version, "/expenses", r.expenseHandler, resourcePolicies{
		read:  middleware.PolicyAuthenticated,
		write: middleware.PolicyAuthenticated,
	})
}

func (r *Router) logRoutes(version *gin.RouterGroup) {
	r.resourceRoutes(version, "/logs", r.logHandler, resourcePolicies{
		read:  middleware.PolicyAuthenticated,
		write: middleware.PolicyAuthenticated,
	})
}

func (r *Router) tierRoutes(version *gin.RouterGroup) {
	r.resourceRoutes(version, "/tiers", r.tierHandler, resourcePolicies{
		read:  middleware.PolicyAuthenticated,
		write: middleware.PolicyJuryOnly,
	})
}

func (r *Router) activityRoutes(version *gin.RouterGroup) {
	r.resourceRoutes(version, "/activities", r.activityHandler, resourcePolicies{
		read:  middleware.PolicyAuthenticated,
		write: middleware.PolicyAuthenticated,
	})
}
