package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simstock-api/internal/application/auth"
	"github.com/jhoicas/simstock-api/internal/application/availability"
	"github.com/jhoicas/simstock-api/internal/application/reconcile"
	"github.com/jhoicas/simstock-api/internal/application/simimport"
	"github.com/jhoicas/simstock-api/internal/application/usecase"
	"github.com/jhoicas/simstock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	AvailabilityUC *availability.UseCase
	SimUC          *usecase.SimUseCase
	ImportUC       *simimport.UseCase
	UsageUC        *usecase.UsageUseCase
	SyncUC         *reconcile.SyncUseCase
	JWTSecret      string
	PublicAPIKey   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	simHandler := NewSimHandler(deps.SimUC, deps.ImportUC)

	// API pública con X-API-KEY
	api.Get("/public/msisdn", RequireAPIKey(deps.PublicAPIKey), simHandler.PublicMSISDN)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(entity.RoleAdmin, entity.RoleOperator)
	adminOnly := RequireRole(entity.RoleAdmin)

	availabilityHandler := NewAvailabilityHandler(deps.AvailabilityUC)
	protected.Get("/availability", availabilityHandler.Evaluate)

	sims := protected.Group("/sims")
	sims.Get("/", simHandler.List)
	sims.Post("/", writers, simHandler.Upsert)
	sims.Get("/stats", simHandler.Stats)
	sims.Post("/import", writers, simHandler.Import)
	sims.Get("/:iccid/history.pdf", simHandler.HistoryPDF)
	sims.Get("/:iccid", simHandler.Detail)

	usageHandler := NewUsageHandler(deps.UsageUC)
	categories := protected.Group("/usage-categories")
	categories.Get("/", usageHandler.ListCategories)
	categories.Post("/", adminOnly, usageHandler.CreateCategory)
	categories.Get("/:id", usageHandler.GetCategory)
	categories.Patch("/:id", adminOnly, usageHandler.UpdateCategory)

	rules := protected.Group("/usage-rules")
	rules.Get("/", usageHandler.ListRules)
	rules.Post("/", adminOnly, usageHandler.CreateRule)

	syncHandler := NewSyncHandler(deps.SyncUC)
	sync := protected.Group("/sync")
	sync.Post("/", writers, syncHandler.Run)
	sync.Get("/sources", syncHandler.Sources)
	sync.Get("/logs", syncHandler.Logs)
}
