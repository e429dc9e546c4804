// Package checkout turns a cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucsky/cuid"
	"github.com/sirupsen/logrus"
	"github.com/tokodemo/storefront/internal/events"
	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

type Request struct {
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	StoreID         *int64            `json:"store_id,omitempty"`
	DeliveryAddress string            `json:"delivery_address,omitempty"`
	Items           []models.CartItem `json:"items"`
}

type Service struct {
	orders   repositories.OrderRepository
	producer events.Producer
	log      *logrus.Logger
}

func NewService(orders repositories.OrderRepository, producer events.Producer, log *logrus.Logger) *Service {
	return &Service{orders: orders, producer: producer, log: log}
}

// PlaceOrder validates the request, computes the total, persists the order
// and emits an order-placed event when a producer is configured.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*models.Order, error) {
	if req.CustomerName == "" || req.CustomerPhone == "" {
		return nil, errors.New("customer name and phone are required")
	}
	if len(req.Items) == 0 {
		return nil, errors.New("cart is empty")
	}

	var total int64
	for _, it := range req.Items {
		if it.Qty < 0 {
			return nil, fmt.Errorf("negative qty for variant %d", it.VariantID)
		}
		total += it.Subtotal()
	}

	order := &models.Order{
		Reference:       cuid.New(),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Total:           total,
		StoreID:         req.StoreID,
		DeliveryAddress: req.DeliveryAddress,
	}
	if err := s.orders.PlaceOrder(ctx, order, req.Items); err != nil {
		return nil, fmt.Errorf("placing order: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.OrderPlaced(order); err != nil {
			// The order is already committed; a lost event must not fail
			// the checkout.
			s.log.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event")
		}
	}

	s.log.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"reference": order.Reference,
		"total":     order.Total,
	}).Info("order placed")
	return order, nil
}
