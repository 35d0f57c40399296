package router

import (
	"github.com/gin-gonic/gin"

	"github.com/grocery/admin/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers served under the API prefix
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Order     *handler.OrderHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
}

// Guards are the middleware placed in front of groups of routes
type Guards struct {
	// Session rejects requests without a live admin session
	Session gin.HandlerFunc
	// AuthLimit throttles the public auth endpoints; nil disables it
	AuthLimit gin.HandlerFunc
	// Enrich runs after Session on every protected route; nil disables it
	Enrich gin.HandlerFunc
}

func (g Guards) protected() []gin.HandlerFunc {
	chain := []gin.HandlerFunc{g.Session}
	if g.Enrich != nil {
		chain = append(chain, g.Enrich)
	}
	return chain
}

// Groups builds the admin console route groups
func Groups(h Handlers, g Guards) []RouteRegistrar {
	auth := NewDomainGroup("auth", "/auth")
	public := auth.Group("auth-public", "")
	if g.AuthLimit != nil {
		public.Use(g.AuthLimit)
	}
	public.POST("/login", h.Auth.Login)
	public.POST("/forgot-password", h.Auth.ForgotPassword)
	public.POST("/reset-password", h.Auth.ResetPassword)

	account := auth.Group("auth-session", "").Use(g.protected()...)
	account.POST("/logout", h.Auth.Logout)
	account.GET("/me", h.Auth.Me)
	account.PUT("/profile", h.Auth.UpdateProfile)

	products := NewDomainGroup("products", "/products").Use(g.protected()...)
	products.GET("", h.Product.List)
	products.POST("", h.Product.Create)
	products.GET("/:id", h.Product.Get)
	products.PUT("/:id", h.Product.Update)
	products.PATCH("/:id/status", h.Product.SetStatus)
	products.DELETE("/:id", h.Product.Delete)

	categories := NewDomainGroup("categories", "/categories").Use(g.protected()...)
	categories.GET("", h.Category.List)
	categories.POST("", h.Category.Create)
	categories.GET("/:id", h.Category.Get)
	categories.PUT("/:id", h.Category.Update)
	categories.PATCH("/:id/status", h.Category.SetStatus)
	categories.DELETE("/:id", h.Category.Delete)

	orders := NewDomainGroup("orders", "/orders").Use(g.protected()...)
	orders.GET("", h.Order.List)
	orders.GET("/:id", h.Order.Get)
	orders.PATCH("/:id/status", h.Order.UpdateStatus)

	dashboard := NewDomainGroup("dashboard", "/dashboard").Use(g.protected()...)
	dashboard.GET("", h.Dashboard.Get)

	system := NewDomainGroup("system", "").Use(g.protected()...)
	system.GET("/statuses", h.System.Statuses)
	system.GET("/icons", h.System.Icons)

	return []RouteRegistrar{auth, products, categories, orders, dashboard, system}
}
