package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/engagement-backend/internal/config"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/handler"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/middleware"
)

type Handlers struct {
	Jobs         *handler.JobHandler
	Applications *handler.ApplicationHandler
	Contracts    *handler.ContractHandler
	Payments     *handler.PaymentHandler
	Health       *handler.HealthHandler
	WS           *handler.WSHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.TokenParser) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Tracing())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	// без таймаута запроса: соединение живёт долго
	r.GET("/ws", middleware.Auth(tokens), h.WS.ServeWS)

	var (
		employer      = middleware.RequireRoles(valueobject.RoleEmployer)
		talent        = middleware.RequireRoles(valueobject.RoleTalent)
		staff         = middleware.RequireRoles(valueobject.RoleStaff, valueobject.RoleAdmin)
		employerStaff = middleware.RequireRoles(valueobject.RoleEmployer, valueobject.RoleStaff, valueobject.RoleAdmin)
		parties       = middleware.RequireRoles(valueobject.RoleEmployer, valueobject.RoleTalent)
		id            = middleware.UUIDValidator("id")
	)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	public := api.Group("")
	public.Use(middleware.OptionalAuth(tokens))
	{
		public.GET("/jobs", h.Jobs.Search)
		public.GET("/jobs/:id", id, h.Jobs.Get)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(tokens))
	protected.Use(middleware.RateLimit(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		// Вакансии
		protected.GET("/jobs/my", employer, h.Jobs.ListMine)
		protected.POST("/jobs", employer, h.Jobs.Create)
		protected.PUT("/jobs/:id", employer, id, h.Jobs.Update)
		protected.POST("/jobs/:id/approve", staff, id, h.Jobs.Approve)
		protected.POST("/jobs/:id/reject", staff, id, h.Jobs.Reject)
		protected.POST("/jobs/:id/close", employerStaff, id, h.Jobs.Close)
		protected.DELETE("/jobs/:id", employerStaff, id, h.Jobs.Delete)

		// Отклики
		protected.POST("/jobs/:id/applications", talent, id, h.Applications.Apply)
		protected.GET("/jobs/:id/applications", employerStaff, id, h.Applications.ListForJob)
		protected.GET("/jobs/:id/applications/stats", employerStaff, id, h.Applications.JobStats)
		protected.GET("/applications/my", talent, h.Applications.ListMine)
		protected.GET("/applications/my/stats", talent, h.Applications.MyStats)
		protected.GET("/applications/:id", id, h.Applications.Get)
		protected.PUT("/applications/:id/status", employerStaff, id, h.Applications.UpdateStatus)
		protected.POST("/applications/:id/recommend", staff, id, h.Applications.Recommend)
		protected.DELETE("/applications/:id", talent, id, h.Applications.Withdraw)

		// Контракты
		protected.POST("/contracts", employerStaff, h.Contracts.Create)
		protected.GET("/contracts/my", parties, h.Contracts.ListMine)
		protected.GET("/contracts/stats", h.Contracts.Stats)
		protected.GET("/contracts/:id", id, h.Contracts.Get)
		protected.PUT("/contracts/:id", employer, id, h.Contracts.Update)
		protected.PUT("/contracts/:id/status", id, h.Contracts.UpdateStatus)
		protected.POST("/contracts/:id/document", employer, id, h.Contracts.AttachDocument)
		protected.GET("/contracts/:id/payments", id, h.Payments.ListForContract)

		// Платежи
		protected.POST("/payments", staff, h.Payments.Record)
		protected.GET("/payments/stats", staff, h.Payments.Stats)
		protected.GET("/payments/revenue", staff, h.Payments.Revenue)
		protected.GET("/payments/:id", staff, id, h.Payments.Get)
		protected.PUT("/payments/:id/status", staff, id, h.Payments.UpdateStatus)
		protected.POST("/payments/:id/refund", staff, id, h.Payments.Refund)
	}

	return r
}
