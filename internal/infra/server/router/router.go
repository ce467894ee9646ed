// Package router provides HTTP route configuration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/receipt-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/middleware"
)

// Router holds the gin engine and all controllers.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	authController        *controller.AuthController
	groupController       *controller.GroupController
	mappingController     *controller.MappingController
	transactionController *controller.TransactionController
	authMiddleware        *middleware.AuthMiddleware
	loginRateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new router with all controllers.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	groupController *controller.GroupController,
	mappingController *controller.MappingController,
	transactionController *controller.TransactionController,
	authMiddleware *middleware.AuthMiddleware,
	loginRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		engine:                gin.New(),
		healthController:      healthController,
		authController:        authController,
		groupController:       groupController,
		mappingController:     mappingController,
		transactionController: transactionController,
		authMiddleware:        authMiddleware,
		loginRateLimiter:      loginRateLimiter,
	}
}

// Setup configures all routes and middleware.
func (r *Router) Setup(environment string) {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r.engine.Use(gin.Recovery())
	r.engine.Use(gin.Logger())

	if r.healthController != nil {
		r.engine.GET("/health", r.healthController.Check)
	}

	api := r.engine.Group("/api/v1")

	if r.authController != nil {
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			if r.loginRateLimiter != nil {
				auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
			} else {
				auth.POST("/login", r.authController.Login)
			}
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authController.Logout)
		}
	}

	if r.authMiddleware == nil {
		return
	}
	protected := api.Group("")
	protected.Use(r.authMiddleware.Authenticate())

	if r.groupController != nil {
		groups := protected.Group("/groups")
		{
			groups.POST("", r.groupController.Create)
			groups.GET("", r.groupController.List)
			groups.GET("/:id", r.groupController.Get)
			groups.DELETE("/:id", r.groupController.Delete)
			groups.POST("/:id/invitations", r.groupController.Invite)
			groups.DELETE("/:id/invitations/:invitationId", r.groupController.CancelInvitation)
			groups.POST("/:id/leave", r.groupController.Leave)
			groups.POST("/:id/transfer", r.groupController.TransferOwnership)
			groups.POST("/:id/sharing", r.groupController.ToggleSharing)
		}
		protected.POST("/invitations/respond", r.groupController.RespondInvitation)
	}

	if r.mappingController != nil {
		mappings := protected.Group("/mappings")
		{
			mappings.PUT("", r.mappingController.Upsert)
			mappings.GET("", r.mappingController.List)
			mappings.DELETE("/:id", r.mappingController.Delete)
		}
	}

	if r.transactionController != nil {
		transactions := protected.Group("/transactions")
		{
			transactions.POST("", r.transactionController.Create)
			transactions.GET("", r.transactionController.List)
			transactions.POST("/scan", r.transactionController.Scan)
			transactions.GET("/:id", r.transactionController.Get)
			transactions.PATCH("/:id", r.transactionController.Update)
			transactions.DELETE("/:id", r.transactionController.Delete)
		}
	}
}

// Engine returns the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
