package router

import (
	"github.com/gin-gonic/gin"
	"github.com/zreport/backend/internal/domain/identity"
	"github.com/zreport/backend/internal/interfaces/http/handler"
	"github.com/zreport/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth       *handler.AuthHandler
	Reports    *handler.ReportHandler
	MasterData *handler.MasterDataHandler
	Health     *handler.HealthHandler
}

// APIConfig selects the middleware wrapped around the API groups
type APIConfig struct {
	// Authenticate guards every route except login and health
	Authenticate gin.HandlerFunc
	// LoginLimiter, when set, throttles login attempts per client
	LoginLimiter gin.HandlerFunc
}

// RegisterAPI mounts the Z-report API on engine
func RegisterAPI(engine *gin.Engine, h Handlers, cfg APIConfig) {
	engine.GET("/health", h.Health.Health)

	public := NewDomainGroup("public", "")
	public.GET("/health", h.Health.Health)
	if cfg.LoginLimiter != nil {
		public.POST("/auth/login", cfg.LoginLimiter, h.Auth.Login)
	} else {
		public.POST("/auth/login", h.Auth.Login)
	}

	protected := []gin.HandlerFunc{cfg.Authenticate, middleware.EnrichSpan()}
	can := middleware.RequireAction

	authRoutes := NewDomainGroup("auth", "/auth").Use(protected...)
	authRoutes.GET("/me", h.Auth.Me)
	authRoutes.POST("/logout", h.Auth.Logout)

	reportRoutes := NewDomainGroup("reports", "/reports").Use(protected...).Use(middleware.NoCache())
	reportRoutes.PUT("", can(identity.ActionEditReport), h.Reports.Upsert)
	reportRoutes.GET("", can(identity.ActionViewReports), h.Reports.List)
	reportRoutes.GET("/export", can(identity.ActionExportReports), h.Reports.Export)
	reportRoutes.GET("/calendar", can(identity.ActionViewReports), h.Reports.Calendar)
	reportRoutes.GET("/:id", can(identity.ActionViewReports), h.Reports.Get)
	reportRoutes.POST("/:id/submit", can(identity.ActionSubmitReport), h.Reports.Submit)
	reportRoutes.POST("/:id/lock", can(identity.ActionLockReport), h.Reports.Lock)

	view := can(identity.ActionViewMasterData)
	manage := can(identity.ActionManageMasterData)
	md := h.MasterData

	tillRoutes := NewDomainGroup("tills", "/tills").Use(protected...)
	tillRoutes.GET("", view, md.ListTills)
	tillRoutes.POST("", manage, md.CreateTill)
	tillRoutes.GET("/:id", view, md.GetTill)
	tillRoutes.PUT("/:id", manage, md.UpdateTill)

	bankRoutes := NewDomainGroup("banks", "/banks").Use(protected...)
	bankRoutes.GET("", view, md.ListBanks)
	bankRoutes.POST("", manage, md.CreateBank)
	bankRoutes.GET("/:id", view, md.GetBank)
	bankRoutes.PUT("/:id", manage, md.UpdateBank)

	terminalRoutes := NewDomainGroup("terminals", "/terminals").Use(protected...)
	terminalRoutes.GET("", view, md.ListTerminals)
	terminalRoutes.POST("", manage, md.CreateTerminal)
	terminalRoutes.GET("/:id", view, md.GetTerminal)
	terminalRoutes.PUT("/:id", manage, md.UpdateTerminal)

	cashierRoutes := NewDomainGroup("cashiers", "/cashiers").Use(protected...)
	cashierRoutes.GET("", view, md.ListCashiers)
	cashierRoutes.POST("", manage, md.CreateCashier)
	cashierRoutes.GET("/:id", view, md.GetCashier)
	cashierRoutes.PUT("/:id", manage, md.UpdateCashier)

	NewRouter(engine, WithAPIVersion("v1")).
		Register(public).
		Register(authRoutes).
		Register(reportRoutes).
		Register(tillRoutes).
		Register(bankRoutes).
		Register(terminalRoutes).
		Register(cashierRoutes).
		Setup()
}
