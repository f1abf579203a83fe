package leavepolicy

import (
	"github.com/gin-gonic/gin"

	"go-pto/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	group := r.Group("/leave-policies")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("", middleware.RBACAuthorize(rbacService, "leave_policy", "manage"), handler.Create)
		group.GET("", middleware.RBACAuthorize(rbacService, "leave_policy", "read"), handler.GetAll)
		group.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_policy", "read"), handler.GetByID)
		group.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_policy", "manage"), handler.Update)
		group.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_policy", "manage"), handler.Delete)
	}
}
