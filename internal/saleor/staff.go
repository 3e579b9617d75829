package saleor

import (
	"context"
	"strings"
)

// StaffUser is a member of a permission group.
type StaffUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsActive  bool   `json:"isActive"`
}

// DisplayName is "First Last", falling back to the email address.
func (u StaffUser) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

const permissionGroupMembersQuery = `
query PermissionGroupMembers($search: String!) {
	permissionGroups(first: 20, filter: { search: $search }) {
		edges {
			node {
				name
				users { id email firstName lastName isActive }
			}
		}
	}
}`

// PermissionGroupMembers returns the users of the group named exactly name,
// in the order the backend lists them. An unknown group yields ErrNotFound.
func (c *Client) PermissionGroupMembers(ctx context.Context, name string) ([]StaffUser, error) {
	var data struct {
		PermissionGroups struct {
			Edges []struct {
				Node struct {
					Name  string      `json:"name"`
					Users []StaffUser `json:"users"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"permissionGroups"`
	}
	if err := c.Do(ctx, permissionGroupMembersQuery, map[string]any{"search": name}, &data); err != nil {
		return nil, err
	}

	for _, edge := range data.PermissionGroups.Edges {
		if edge.Node.Name == name {
			return edge.Node.Users, nil
		}
	}
	return nil, ErrNotFound
}
