package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/construlink/contracts-admin/internal/http/middleware"
	"github.com/construlink/contracts-admin/internal/model"
)

// NewRouter wires the route surface: a public login endpoint, a small
// authenticated session area, and the admin console gated to the admin
// role.
func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, allowedOrigins []string, environment string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/auth/login", handler.login)

	authed := router.Group("/")
	authed.Use(authMiddleware)
	authed.POST("/auth/logout", handler.logout)
	authed.GET("/auth/session", handler.session)
	authed.GET("/auth/state", handler.authState)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("/users", handler.registerUser)
		admin.GET("/users", handler.listUsers)

		admin.GET("/contracts", handler.listContracts)
		admin.POST("/contracts", handler.createContract)
		admin.GET("/contracts/stream", handler.streamContracts)
		admin.GET("/contracts/:id", handler.getContract)
		admin.PATCH("/contracts/:id", handler.updateContract)
		admin.DELETE("/contracts/:id", handler.deleteContract)
		admin.POST("/contracts/:id/pdf", handler.uploadContractPDF)
		admin.GET("/contracts/:id/pdf", handler.downloadContractPDF)
		admin.GET("/contracts/:id/sheet", handler.contractSheet)

		admin.GET("/prices", handler.listPrices)
		admin.POST("/prices", handler.createPrice)
		admin.GET("/prices/stream", handler.streamPrices)
		admin.GET("/prices/export", handler.exportPrices)
		admin.PATCH("/prices/:id", handler.updatePrice)
		admin.DELETE("/prices/:id", handler.deletePrice)
	}

	return router
}
