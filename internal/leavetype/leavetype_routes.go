package leavetype

import (
	"github.com/gin-gonic/gin"

	"go-pto/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	group := r.Group("/leave-types")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/options", handler.GetOptions)

		group.POST("", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.Create)
		group.GET("", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetAll)
		group.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetByID)
		group.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.Update)
		group.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_type", "manage"), handler.Delete)
	}
}
