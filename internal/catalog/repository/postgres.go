package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const servicesTable = "repair_services"

var serviceColumns = []string{"slug", "name", "category", "service_grp", "active", "sort_order"}

// Repo reads the catalog from the repair_services table.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a Postgres-backed catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Reader = (*Repo)(nil)

// GetBySlug returns the active service with the given slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (Service, error) {
	query, args, err := buildGetQuery(slug)
	if err != nil {
		return Service{}, fmt.Errorf("build get service query: %w", err)
	}

	var svc Service
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&svc.Slug, &svc.Name, &svc.Category, &svc.Group, &svc.Active, &svc.SortOrder,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, ErrNotFound
		}
		return Service{}, fmt.Errorf("get service %q: %w", slug, err)
	}
	return svc, nil
}

// List returns active services ordered by sort_order then name.
func (r *Repo) List(ctx context.Context, filter ListFilter) ([]Service, error) {
	query, args, err := buildListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build list services query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	items := make([]Service, 0)
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.Slug, &svc.Name, &svc.Category, &svc.Group, &svc.Active, &svc.SortOrder); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		items = append(items, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return items, nil
}

func buildGetQuery(slug string) (string, []interface{}, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return psql.Select(serviceColumns...).
		From(servicesTable).
		Where(sq.Eq{"slug": slug, "active": true}).
		ToSql()
}

func buildListQuery(filter ListFilter) (string, []interface{}, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select(serviceColumns...).
		From(servicesTable).
		Where(sq.Eq{"active": true})
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.Group != "" {
		builder = builder.Where(sq.Eq{"service_grp": filter.Group})
	}
	return builder.OrderBy("sort_order ASC", "name ASC").ToSql()
}
