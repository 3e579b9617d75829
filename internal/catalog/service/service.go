package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"repair_portal_backend/internal/catalog/repository"
	"repair_portal_backend/internal/catalog/transport"
	"repair_portal_backend/platform/apperr"
	"repair_portal_backend/platform/logger"
)

const (
	codeServiceNotFound = "SERVICE_NOT_FOUND"
	codeCatalogFailed   = "CATALOG_UNAVAILABLE"
)

// Service provides read access to the repair service catalog.
type Service struct {
	repo repository.Reader
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Reader, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetBySlug returns one active catalog entry.
func (s *Service) GetBySlug(ctx context.Context, slug string) (transport.ServiceItemResponse, error) {
	svc, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ServiceItemResponse{}, apperr.NotFound("repair service not found").WithCode(codeServiceNotFound)
		}
		s.log.Error("catalog lookup failed", slog.String("slug", slug), slog.String("error", err.Error()))
		return transport.ServiceItemResponse{}, apperr.Wrap(apperr.KindInternal, "catalog lookup failed", err).WithCode(codeCatalogFailed)
	}
	return transport.ServiceItemResponse{OK: true, Service: toResponse(svc)}, nil
}

// List returns the active catalog narrowed by the request filters.
func (s *Service) List(ctx context.Context, req transport.ListServicesRequest) (transport.ServiceListResponse, error) {
	items, err := s.repo.List(ctx, repository.ListFilter{
		Category: strings.TrimSpace(req.Category),
		Group:    strings.TrimSpace(req.Group),
	})
	if err != nil {
		s.log.Error("catalog list failed", slog.String("error", err.Error()))
		return transport.ServiceListResponse{}, apperr.Wrap(apperr.KindInternal, "catalog list failed", err).WithCode(codeCatalogFailed)
	}

	resp := transport.ServiceListResponse{OK: true, Items: make([]transport.ServiceResponse, 0, len(items)), Total: len(items)}
	for _, item := range items {
		resp.Items = append(resp.Items, toResponse(item))
	}
	return resp, nil
}

func toResponse(svc repository.Service) transport.ServiceResponse {
	return transport.ServiceResponse{
		Slug:     svc.Slug,
		Name:     svc.Name,
		Category: svc.Category,
		Group:    svc.Group,
	}
}
