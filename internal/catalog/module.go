// Package catalog provides the repair service catalog module.
package catalog

import (
	"fmt"

	"repair_portal_backend/internal/catalog/handler"
	"repair_portal_backend/internal/catalog/repository"
	"repair_portal_backend/internal/catalog/service"
	apphttp "repair_portal_backend/internal/http"
	"repair_portal_backend/platform/config"
	"repair_portal_backend/platform/logger"
	"repair_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Reader
}

// NewModule picks the catalog source: the Postgres table when a pool is
// given, otherwise the YAML file at the configured path.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, cfg config.CatalogConfig, log *logger.Logger) (*Module, error) {
	var repo repository.Reader
	if pool != nil {
		repo = repository.New(pool)
		log.Info("service catalog source", "source", "postgres")
	} else {
		fileRepo, err := repository.LoadFile(cfg.GetServiceCatalogPath())
		if err != nil {
			return nil, fmt.Errorf("catalog module: %w", err)
		}
		repo = fileRepo
		log.Info("service catalog source", "source", "file", "path", cfg.GetServiceCatalogPath())
	}
	return NewModuleWithRepository(repo, val, log), nil
}

// NewModuleWithRepository builds the module around an existing reader.
func NewModuleWithRepository(repo repository.Reader, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the catalog reader for cross-module adapters.
func (m *Module) Repository() repository.Reader {
	return m.repo
}

// RegisterRoutes mounts the public catalog routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/repair-services", m.handler.ListServices)
	ctx.V1.GET("/repair-services/:slug", m.handler.GetService)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
