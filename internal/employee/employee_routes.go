package employee

import (
	"github.com/gin-gonic/gin"

	"go-pto/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	group := r.Group("/employees")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("", middleware.RBACAuthorize(rbacService, "employee", "manage"), handler.Create)
		group.GET("", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetAll)
		group.GET("/:id", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetByID)
		group.PUT("/:id", middleware.RBACAuthorize(rbacService, "employee", "manage"), handler.Update)
	}
}
