package repository

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type fileDocument struct {
	Services []fileEntry `yaml:"services"`
}

type fileEntry struct {
	Slug      string `yaml:"slug"`
	Name      string `yaml:"name"`
	Category  string `yaml:"category"`
	Group     string `yaml:"group"`
	Active    *bool  `yaml:"active"`
	SortOrder int    `yaml:"sortOrder"`
}

// FileRepository serves the catalog from a YAML document loaded once.
type FileRepository struct {
	bySlug  map[string]Service
	ordered []Service
}

// LoadFile reads and parses the YAML catalog at path.
func LoadFile(path string) (*FileRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service catalog: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML builds a repository from raw YAML. Slugs must be unique and
// every entry needs a slug and a name. Entries without an explicit
// active flag are active.
func ParseYAML(data []byte) (*FileRepository, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse service catalog: %w", err)
	}

	repo := &FileRepository{bySlug: make(map[string]Service, len(doc.Services))}
	for i, entry := range doc.Services {
		slug := strings.TrimSpace(entry.Slug)
		name := strings.TrimSpace(entry.Name)
		if slug == "" || name == "" {
			return nil, fmt.Errorf("service catalog entry %d: slug and name are required", i)
		}
		if _, dup := repo.bySlug[slug]; dup {
			return nil, fmt.Errorf("service catalog: duplicate slug %q", slug)
		}

		svc := Service{
			Slug:      slug,
			Name:      name,
			Category:  strings.TrimSpace(entry.Category),
			Group:     strings.TrimSpace(entry.Group),
			Active:    entry.Active == nil || *entry.Active,
			SortOrder: entry.SortOrder,
		}
		repo.bySlug[slug] = svc
		repo.ordered = append(repo.ordered, svc)
	}

	sort.SliceStable(repo.ordered, func(i, j int) bool {
		return repo.ordered[i].SortOrder < repo.ordered[j].SortOrder
	})
	return repo, nil
}

// GetBySlug returns the active service with the given slug.
func (r *FileRepository) GetBySlug(_ context.Context, slug string) (Service, error) {
	svc, ok := r.bySlug[slug]
	if !ok || !svc.Active {
		return Service{}, ErrNotFound
	}
	return svc, nil
}

// List returns active services in sort order.
func (r *FileRepository) List(_ context.Context, filter ListFilter) ([]Service, error) {
	out := make([]Service, 0, len(r.ordered))
	for _, svc := range r.ordered {
		if !svc.Active {
			continue
		}
		if filter.Category != "" && svc.Category != filter.Category {
			continue
		}
		if filter.Group != "" && svc.Group != filter.Group {
			continue
		}
		out = append(out, svc)
	}
	return out, nil
}

var _ Reader = (*FileRepository)(nil)
