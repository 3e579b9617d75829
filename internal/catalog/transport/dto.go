// Package transport holds the catalog request and response shapes.
package transport

// ListServicesRequest filters the public service list.
type ListServicesRequest struct {
	Category string `form:"category" json:"category" validate:"max=80"`
	Group    string `form:"group" json:"group" validate:"max=80"`
}

type ServiceResponse struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Group    string `json:"group,omitempty"`
}

type ServiceListResponse struct {
	OK    bool              `json:"ok"`
	Items []ServiceResponse `json:"items"`
	Total int               `json:"total"`
}

type ServiceItemResponse struct {
	OK      bool            `json:"ok"`
	Service ServiceResponse `json:"service"`
}
