package router

import (
	"time"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/config"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/handler"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/middleware"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/repository"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts, wired at the composition
// root in cmd/server.
type Handlers struct {
	Health    *handler.HealthHandler
	Products  *handler.ProductHandler
	Import    *handler.ImportHandler
	Orders    *handler.OrderHandler
	Allowlist *handler.AllowlistHandler
	Files     *handler.FileHandler
}

// New builds the Gin engine with the full middleware chain and route table.
func New(cfg *config.Config, h *Handlers, allowlist repository.AllowlistRepository) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
		middleware.ErrorHandler(),
		middleware.RateLimiter(300, time.Minute),
	)

	r.GET("/health", h.Health.Check)

	v1 := r.Group("/v1")
	v1.Use(middleware.Auth(cfg.JWTSecret, allowlist))
	{
		v1.GET("/products", h.Products.List)
		v1.GET("/products/:id", h.Products.Get)

		v1.POST("/orders", h.Orders.Submit)
		v1.GET("/orders", h.Orders.ListMine)
		v1.GET("/orders/:id", h.Orders.Get)
		v1.POST("/orders/:id/cancel", h.Orders.Cancel)

		v1.GET("/files/sign-download", h.Files.SignDownload)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("/products", h.Products.Create)
		admin.PATCH("/products/:id", h.Products.Update)
		admin.DELETE("/products/:id", h.Products.Deactivate)
		admin.POST("/products/:id/reactivate", h.Products.Reactivate)
		admin.POST("/products/import", h.Import.Run)

		admin.GET("/orders", h.Orders.ListAll)

		admin.GET("/allowlist", h.Allowlist.List)
		admin.POST("/allowlist", h.Allowlist.Create)
		admin.PATCH("/allowlist/:id", h.Allowlist.Update)
		admin.DELETE("/allowlist/:id", h.Allowlist.Deactivate)

		admin.POST("/files/sign-upload", h.Files.SignUpload)
	}

	return r
}
