package saleor

import (
	"context"
	"time"
)

// MetadataItem mirrors Saleor's MetadataItem / MetadataInput.
type MetadataItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Money mirrors Saleor's Money.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Order is the subset of Saleor's Order the repair pipeline reads.
type Order struct {
	ID       string         `json:"id"`
	Number   string         `json:"number"`
	Created  time.Time      `json:"created"`
	Total    Money          `json:"-"`
	Metadata []MetadataItem `json:"metadata"`
}

type orderNode struct {
	ID       string         `json:"id"`
	Number   string         `json:"number"`
	Created  time.Time      `json:"created"`
	Metadata []MetadataItem `json:"metadata"`
	Total    struct {
		Gross Money `json:"gross"`
	} `json:"total"`
}

func (n orderNode) toOrder() Order {
	return Order{ID: n.ID, Number: n.Number, Created: n.Created, Total: n.Total.Gross, Metadata: n.Metadata}
}

const orderFields = `
	id
	number
	created
	total { gross { amount currency } }
	metadata { key value }
`

const draftOrderCreateMutation = `
mutation DraftOrderCreate($input: DraftOrderCreateInput!) {
	draftOrderCreate(input: $input) {
		order { id number }
		errors { field code message }
	}
}`

const updateMetadataMutation = `
mutation UpdateMetadata($id: ID!, $input: [MetadataInput!]!) {
	updateMetadata(id: $id, input: $input) {
		errors { field code message }
	}
}`

const orderQuery = `
query RepairOrder($id: ID!) {
	order(id: $id) {` + orderFields + `}
}`

// Repair orders stay drafts, and the orders root field never lists drafts.
const ordersByMetadataQuery = `
query RepairOrders($first: Int!, $metadata: [MetadataFilter!]) {
	draftOrders(first: $first, filter: { metadata: $metadata }, sortBy: { field: CREATED_AT, direction: DESC }) {
		edges { node {` + orderFields + `} }
	}
}`

const countOrdersByMetadataQuery = `
query RepairOrderCount($metadata: [MetadataFilter!]) {
	draftOrders(first: 1, filter: { metadata: $metadata }) {
		totalCount
	}
}`

// DraftOrderInput is the data for a new draft order.
type DraftOrderInput struct {
	UserEmail *string
	Metadata  []MetadataItem
}

// OrderRef identifies a created order.
type OrderRef struct {
	ID     string
	Number string
}

// CreateDraftOrder creates a draft order carrying metadata in one mutation.
func (c *Client) CreateDraftOrder(ctx context.Context, in DraftOrderInput) (OrderRef, error) {
	input := map[string]any{"metadata": in.Metadata}
	if c.channelID != "" {
		input["channelId"] = c.channelID
	}
	if in.UserEmail != nil && *in.UserEmail != "" {
		input["userEmail"] = *in.UserEmail
	}

	var data struct {
		DraftOrderCreate struct {
			Order *struct {
				ID     string `json:"id"`
				Number string `json:"number"`
			} `json:"order"`
			Errors []MutationError `json:"errors"`
		} `json:"draftOrderCreate"`
	}
	if err := c.Do(ctx, draftOrderCreateMutation, map[string]any{"input": input}, &data); err != nil {
		return OrderRef{}, err
	}

	payload := data.DraftOrderCreate
	if len(payload.Errors) > 0 {
		return OrderRef{}, &MutationErrors{Mutation: "draftOrderCreate", Errors: payload.Errors}
	}
	if payload.Order == nil {
		return OrderRef{}, &MutationErrors{Mutation: "draftOrderCreate", Errors: []MutationError{{Code: "NO_ORDER", Message: "no order returned"}}}
	}
	return OrderRef{ID: payload.Order.ID, Number: payload.Order.Number}, nil
}

// UpdateMetadata merges items into the object's public metadata. Keys that
// are not listed keep their values.
func (c *Client) UpdateMetadata(ctx context.Context, id string, items []MetadataItem) error {
	var data struct {
		UpdateMetadata struct {
			Errors []MutationError `json:"errors"`
		} `json:"updateMetadata"`
	}
	if err := c.Do(ctx, updateMetadataMutation, map[string]any{"id": id, "input": items}, &data); err != nil {
		return err
	}
	if errs := data.UpdateMetadata.Errors; len(errs) > 0 {
		for _, e := range errs {
			if e.Code == "NOT_FOUND" {
				return ErrNotFound
			}
		}
		return &MutationErrors{Mutation: "updateMetadata", Errors: errs}
	}
	return nil
}

// Order fetches one order. A null result yields ErrNotFound.
func (c *Client) Order(ctx context.Context, id string) (Order, error) {
	var data struct {
		Order *orderNode `json:"order"`
	}
	if err := c.Do(ctx, orderQuery, map[string]any{"id": id}, &data); err != nil {
		return Order{}, err
	}
	if data.Order == nil {
		return Order{}, ErrNotFound
	}
	return data.Order.toOrder(), nil
}

// OrdersByMetadata lists draft orders whose metadata has key == value,
// newest first.
func (c *Client) OrdersByMetadata(ctx context.Context, key, value string, first int) ([]Order, error) {
	var data struct {
		Orders struct {
			Edges []struct {
				Node orderNode `json:"node"`
			} `json:"edges"`
		} `json:"draftOrders"`
	}
	vars := map[string]any{
		"first":    first,
		"metadata": []MetadataItem{{Key: key, Value: value}},
	}
	if err := c.Do(ctx, ordersByMetadataQuery, vars, &data); err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(data.Orders.Edges))
	for _, edge := range data.Orders.Edges {
		out = append(out, edge.Node.toOrder())
	}
	return out, nil
}

// CountOrdersByMetadata returns how many draft orders have key == value.
func (c *Client) CountOrdersByMetadata(ctx context.Context, key, value string) (int, error) {
	var data struct {
		Orders struct {
			TotalCount int `json:"totalCount"`
		} `json:"draftOrders"`
	}
	vars := map[string]any{"metadata": []MetadataItem{{Key: key, Value: value}}}
	if err := c.Do(ctx, countOrdersByMetadataQuery, vars, &data); err != nil {
		return 0, err
	}
	return data.Orders.TotalCount, nil
}
