package leavebalance

import (
	"github.com/gin-gonic/gin"

	"go-pto/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/leave-balances")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", handler.ListMine)
		group.GET("/summary", handler.Summary)
	}
}
