package server

import (
	"github.com/gin-contrib/cors"
	"go.uber.org/fx"

	"github.com/looplj/orghub/internal/server/api"
	"github.com/looplj/orghub/internal/server/biz"
	"github.com/looplj/orghub/internal/server/middleware"
)

type Handlers struct {
	fx.In

	System  *api.SystemHandlers
	Auth    *api.AuthHandlers
	Org     *api.OrgHandlers
	Project *api.ProjectHandlers
	Role    *api.RoleHandlers
}

type Services struct {
	fx.In

	AuthService   *biz.AuthService
	UserService   *biz.UserService
	ClaimsService *biz.ClaimsService
	OrgService    *biz.OrgService
}

func SetupRoutes(server *Server, handlers Handlers, services Services) {
	server.Use(middleware.AccessLog())
	server.Use(middleware.WithLoggingTracing(server.Config.Trace))

	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.AllowedOrigins
		corsConfig.AllowMethods = server.Config.CORS.AllowedMethods
		corsConfig.AllowHeaders = server.Config.CORS.AllowedHeaders
		corsConfig.ExposeHeaders = server.Config.CORS.ExposedHeaders
		corsConfig.AllowCredentials = server.Config.CORS.AllowCredentials
		corsConfig.MaxAge = server.Config.CORS.MaxAge

		corsHandler := cors.New(corsConfig)
		server.Use(corsHandler)
		server.OPTIONS("*any", corsHandler)
	}

	deps := middleware.ScopeDeps{
		Auth:   services.AuthService,
		Users:  services.UserService,
		Claims: services.ClaimsService,
		Orgs:   services.OrgService,
	}

	publicGroup := server.Group("", middleware.WithTimeout(server.Config.RequestTimeout))
	{
		// Health check endpoint - no authentication required
		publicGroup.GET("/health", handlers.System.Health)
		publicGroup.POST("/auth/signin", handlers.Auth.SignIn)
		publicGroup.POST("/auth/signout", handlers.Auth.SignOut)
	}

	// Authenticated but organization-optional: organization discovery and
	// selection have to work before any organization is selected.
	sessionGroup := server.Group("/api",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithOptionalOrgScope(deps),
	)
	{
		sessionGroup.GET("/organizations", handlers.Org.ListMyOrganizations)
		sessionGroup.POST("/organizations/select", handlers.Org.SelectOrganization)
	}

	orgGroup := server.Group("/api",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithOrgScope(deps, middleware.ScopeOptions{RequireOrg: true}),
	)
	{
		orgGroup.GET("/organization/context", handlers.Org.CurrentOrganizationContext)

		orgGroup.GET("/projects", handlers.Project.List)
		orgGroup.POST("/projects", handlers.Project.Create)
		orgGroup.GET("/projects/:id", handlers.Project.Get)
		orgGroup.PUT("/projects/:id", handlers.Project.Update)
		orgGroup.DELETE("/projects/:id", handlers.Project.Delete)
	}

	adminGroup := server.Group("/api/admin",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithAdminScope(deps),
	)
	{
		adminGroup.GET("/roles", handlers.Role.ListRoles)
		adminGroup.GET("/roles/:roleId/overrides", handlers.Role.ListOverrides)
		adminGroup.PUT("/roles/:roleId/overrides", handlers.Role.SetOverride)
		adminGroup.DELETE("/roles/:roleId/overrides", handlers.Role.RemoveOverride)
	}
}
