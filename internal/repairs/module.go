// Package repairs provides the repair intake and staff dashboard module.
package repairs

import (
	"repair_portal_backend/internal/events"
	apphttp "repair_portal_backend/internal/http"
	"repair_portal_backend/internal/repairs/dashboard"
	"repair_portal_backend/internal/repairs/handler"
	"repair_portal_backend/internal/repairs/idempotency"
	"repair_portal_backend/internal/repairs/intake"
	"repair_portal_backend/internal/repairs/ports"
	"repair_portal_backend/internal/repairs/transport"
	"repair_portal_backend/platform/config"
	"repair_portal_backend/platform/httpkit"
	"repair_portal_backend/platform/logger"
	"repair_portal_backend/platform/validator"
)

// Roles accepted on the staff routes.
const (
	RoleStaff  = "staff"
	RoleWorker = "repair_worker"
)

// OrderStore is the full order surface the module needs from the backend.
type OrderStore interface {
	ports.OrderCreator
	ports.OrderReader
	ports.MetadataWriter
}

// Deps groups the module's collaborators. Notifier, Scheduler, Idempotency
// and Bus may be nil.
type Deps struct {
	Catalog     ports.ServiceCatalog
	Workers     ports.WorkerPool
	Orders      OrderStore
	Notifier    ports.RequestNotifier
	Scheduler   ports.EscalationScheduler
	Idempotency idempotency.Store
	Bus         events.Bus
	Validator   *validator.Validator
	Config      config.IntakeConfig
	Log         *logger.Logger
}

// Module is the repairs module implementing http.Module.
type Module struct {
	handler *handler.Handler
	limiter *httpkit.IPRateLimiter
}

// NewModule wires the intake and dashboard services.
func NewModule(deps Deps) *Module {
	cfg := deps.Config

	intakeSvc := intake.New(intake.Deps{
		Catalog:   deps.Catalog,
		Workers:   deps.Workers,
		Orders:    deps.Orders,
		Notifier:  deps.Notifier,
		Scheduler: deps.Scheduler,
		Bus:       deps.Bus,
		Log:       deps.Log,
	}, intake.Options{
		WorkerGroup:      cfg.GetWorkerGroupName(),
		EscalationGroup:  cfg.GetEscalationGroup(),
		EscalationWindow: cfg.GetEscalationWindow(),
	})

	dashboardSvc := dashboard.New(deps.Orders, deps.Orders, deps.Workers, deps.Bus, deps.Log, dashboard.Options{
		DefaultGroup:    cfg.GetWorkerGroupName(),
		DefaultPageSize: cfg.GetDashboardPageSize(),
	})

	h := handler.New(handler.Config{
		Intake:      intakeSvc,
		Dashboard:   dashboardSvc,
		Idempotency: deps.Idempotency,
		Validator:   deps.Validator,
		Gate:        transport.GateOptions{PhoneRegion: cfg.GetPhoneDefaultRegion()},
		Log:         deps.Log,
	})

	return &Module{
		handler: h,
		limiter: httpkit.NewPerMinuteLimiter(cfg.GetIntakeRatePerMinute(), deps.Log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "repairs"
}

// RegisterRoutes mounts the public intake route and the staff routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.API.POST("/service-request", m.limiter.RateLimit(), m.handler.CreateServiceRequest)

	staff := ctx.Staff.Group("", httpkit.RequireRole(RoleStaff, RoleWorker))
	staff.GET("/repairs", m.handler.ListRepairs)
	staff.PATCH("/repairs/:orderId/stage", m.handler.AdvanceStage)

	ctx.Staff.GET("/workers", httpkit.RequireRole(RoleStaff), m.handler.ListWorkers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
