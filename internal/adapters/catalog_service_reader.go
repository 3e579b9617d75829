package adapters

import (
	"context"
	"errors"
	"fmt"

	catrepo "repair_portal_backend/internal/catalog/repository"
	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/ports"
)

// CatalogServiceReader adapts the catalog repository for the repairs domain.
type CatalogServiceReader struct {
	repo catrepo.Reader
}

// NewCatalogServiceReader creates a new catalog reader adapter.
func NewCatalogServiceReader(repo catrepo.Reader) *CatalogServiceReader {
	return &CatalogServiceReader{repo: repo}
}

// GetBySlug maps catalog misses to domain.ErrServiceNotFound.
func (a *CatalogServiceReader) GetBySlug(ctx context.Context, slug string) (domain.ServiceDefinition, error) {
	svc, err := a.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, catrepo.ErrNotFound) {
			return domain.ServiceDefinition{}, domain.ErrServiceNotFound
		}
		return domain.ServiceDefinition{}, fmt.Errorf("catalog adapter: %w", err)
	}
	return domain.ServiceDefinition{
		Name:     svc.Name,
		Category: svc.Category,
		Group:    svc.Group,
		Slug:     svc.Slug,
	}, nil
}

// Compile-time check that CatalogServiceReader implements ports.ServiceCatalog.
var _ ports.ServiceCatalog = (*CatalogServiceReader)(nil)
