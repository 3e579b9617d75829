// Package repository holds the repair service catalog storage.
package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no active service has the requested slug.
var ErrNotFound = errors.New("repair service not found")

// Service is one orderable repair service.
type Service struct {
	Slug      string `yaml:"slug" db:"slug"`
	Name      string `yaml:"name" db:"name"`
	Category  string `yaml:"category" db:"category"`
	Group     string `yaml:"group" db:"service_grp"`
	Active    bool   `yaml:"-" db:"active"`
	SortOrder int    `yaml:"sortOrder" db:"sort_order"`
}

// ListFilter narrows List results. Empty fields match everything.
type ListFilter struct {
	Category string
	Group    string
}

// Reader is the read side of the catalog. Both the YAML file and the
// Postgres table implement it.
type Reader interface {
	GetBySlug(ctx context.Context, slug string) (Service, error)
	List(ctx context.Context, filter ListFilter) ([]Service, error)
}
