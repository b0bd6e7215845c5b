package handlers

import (
	"backoffice/internal/models"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth          *AuthHandler
	Products      *ProductHandler
	Orders        *OrderHandler
	Users         *UserHandler
	Notifications *NotificationHandler
}

// RegisterRoutes mounts the back-office API on router.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	private := api.Group("", h.Auth.RequireAuth())
	private.GET("/auth/me", h.Auth.Me)
	private.GET("/notification", h.Notifications.Current)
	private.DELETE("/notification", h.Notifications.Dismiss)

	products := private.Group("/products", h.Auth.RequireRole(models.RoleProductManager))
	{
		products.GET("", h.Products.List)
		products.POST("", h.Products.Create)
		products.GET("/:id", h.Products.Get)
		products.PUT("/:id", h.Products.Update)
		products.DELETE("/:id", h.Products.Delete)
	}

	orders := private.Group("/orders", h.Auth.RequireRole(models.RoleSaleManager))
	{
		orders.GET("", h.Orders.List)
		orders.POST("", h.Orders.Create)
		orders.GET("/:id", h.Orders.Get)
		orders.PUT("/:id", h.Orders.Update)
		orders.DELETE("/:id", h.Orders.Delete)
		orders.POST("/:id/status", h.Orders.UpdateStatus)
		orders.POST("/:id/cancel", h.Orders.Cancel)
		orders.POST("/:id/recreate", h.Orders.Recreate)
	}

	users := private.Group("/users", h.Auth.RequireRole())
	{
		users.GET("", h.Users.List)
		users.POST("", h.Users.Create)
		users.GET("/:id", h.Users.Get)
		users.PUT("/:id", h.Users.Update)
		users.DELETE("/:id", h.Users.Delete)
	}
}
