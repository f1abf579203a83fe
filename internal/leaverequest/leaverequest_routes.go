package leaverequest

import (
	"github.com/gin-gonic/gin"

	"go-pto/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	group := r.Group("/leave-requests")
	group.Use(middleware.AuthMiddleware())
	{
		// Every employee can raise, inspect and withdraw their own requests.
		group.POST("", handler.Submit)
		group.GET("/mine", handler.GetMine)
		group.GET("/:id", handler.GetByID)
		group.POST("/:id/cancel", handler.Cancel)

		// Decisions and the company-wide listing are gated.
		group.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.GetAll)
		group.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.Approve)
		group.POST("/:id/deny", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.Deny)
	}
}
