// Package adapters translates external systems into the ports the repairs
// domain declares. Nothing outside the composition root should import it.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/ports"
	"repair_portal_backend/internal/saleor"
)

// SaleorOrderAPI is the slice of the commerce client the order adapter uses.
type SaleorOrderAPI interface {
	CreateDraftOrder(ctx context.Context, in saleor.DraftOrderInput) (saleor.OrderRef, error)
	UpdateMetadata(ctx context.Context, id string, items []saleor.MetadataItem) error
	Order(ctx context.Context, id string) (saleor.Order, error)
	OrdersByMetadata(ctx context.Context, key, value string, first int) ([]saleor.Order, error)
}

// SaleorOrders stores repair orders as draft orders whose metadata bag
// carries the repair fields.
type SaleorOrders struct {
	api SaleorOrderAPI
}

// NewSaleorOrders creates the order adapter.
func NewSaleorOrders(api SaleorOrderAPI) *SaleorOrders {
	return &SaleorOrders{api: api}
}

// CreateOrder writes the order and its whole metadata bag in one mutation.
func (a *SaleorOrders) CreateOrder(ctx context.Context, customerEmail *string, metadata []domain.MetadataItem) (domain.OrderRef, error) {
	ref, err := a.api.CreateDraftOrder(ctx, saleor.DraftOrderInput{
		UserEmail: customerEmail,
		Metadata:  toSaleorMetadata(metadata),
	})
	if err != nil {
		return domain.OrderRef{}, fmt.Errorf("saleor orders adapter: create: %w", err)
	}
	return domain.OrderRef{ID: ref.ID, Number: ref.Number}, nil
}

// GetOrder maps a missing backend order to domain.ErrOrderNotFound.
func (a *SaleorOrders) GetOrder(ctx context.Context, orderID string) (domain.OrderSnapshot, error) {
	order, err := a.api.Order(ctx, orderID)
	if err != nil {
		if errors.Is(err, saleor.ErrNotFound) {
			return domain.OrderSnapshot{}, domain.ErrOrderNotFound
		}
		return domain.OrderSnapshot{}, fmt.Errorf("saleor orders adapter: get %s: %w", orderID, err)
	}
	return toSnapshot(order), nil
}

func (a *SaleorOrders) ListByMetadata(ctx context.Context, key, value string, first int) ([]domain.OrderSnapshot, error) {
	orders, err := a.api.OrdersByMetadata(ctx, key, value, first)
	if err != nil {
		return nil, fmt.Errorf("saleor orders adapter: list by %s: %w", key, err)
	}
	out := make([]domain.OrderSnapshot, 0, len(orders))
	for _, order := range orders {
		out = append(out, toSnapshot(order))
	}
	return out, nil
}

func (a *SaleorOrders) UpdateMetadata(ctx context.Context, orderID string, items []domain.MetadataItem) error {
	if err := a.api.UpdateMetadata(ctx, orderID, toSaleorMetadata(items)); err != nil {
		if errors.Is(err, saleor.ErrNotFound) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("saleor orders adapter: update metadata %s: %w", orderID, err)
	}
	return nil
}

func toSaleorMetadata(items []domain.MetadataItem) []saleor.MetadataItem {
	out := make([]saleor.MetadataItem, len(items))
	for i, item := range items {
		out[i] = saleor.MetadataItem{Key: item.Key, Value: item.Value}
	}
	return out
}

func toSnapshot(order saleor.Order) domain.OrderSnapshot {
	meta := make([]domain.MetadataItem, len(order.Metadata))
	for i, item := range order.Metadata {
		meta[i] = domain.MetadataItem{Key: item.Key, Value: item.Value}
	}
	return domain.OrderSnapshot{
		ID:        order.ID,
		Number:    order.Number,
		CreatedAt: order.Created,
		Total:     domain.Money{Amount: order.Total.Amount, Currency: order.Total.Currency},
		Metadata:  meta,
	}
}

var (
	_ ports.OrderCreator   = (*SaleorOrders)(nil)
	_ ports.OrderReader    = (*SaleorOrders)(nil)
	_ ports.MetadataWriter = (*SaleorOrders)(nil)
)
