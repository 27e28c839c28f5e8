package app

import (
	"context"
	"fmt"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

// portalService implements the PortalService interface for the customer
// self-service views
type portalService struct {
	customerSvc customers.CustomerService
	bikeRepo    customers.BikeRepository
	orderRepo   orders.OrderRepository
	logger      logger.Logger
}

// NewPortalService creates a new instance of PortalService
func NewPortalService(
	customerSvc customers.CustomerService,
	bikeRepo customers.BikeRepository,
	orderRepo orders.OrderRepository,
	logger logger.Logger,
) (orders.PortalService, error) {
	return &portalService{
		customerSvc: customerSvc,
		bikeRepo:    bikeRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}, nil
}

// Overview lists the customer's bikes with their latest orders
func (s *portalService) Overview(ctx context.Context, userID int64) (*orders.PortalOverview, error) {
	customer, err := s.customerSvc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	bikes, err := s.bikeRepo.ListByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	withOrders := make([]*orders.BikeWithLastOrder, len(bikes))
	for i, bike := range bikes {
		lastOrder, err := s.orderRepo.GetLatestByBikeID(ctx, bike.ID)
		if err != nil {
			return nil, err
		}
		withOrders[i] = &orders.BikeWithLastOrder{Bike: bike, LastOrder: lastOrder}
	}

	return &orders.PortalOverview{Customer: customer, Bikes: withOrders}, nil
}

// BikeDetail returns one of the customer's bikes with its order history
func (s *portalService) BikeDetail(ctx context.Context, userID, bikeID int64) (*orders.BikeDetail, error) {
	customer, err := s.customerSvc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	bike, err := s.bikeRepo.GetByID(ctx, bikeID)
	if err != nil {
		return nil, err
	}
	if bike.CustomerID != customer.ID {
		return nil, fmt.Errorf("bike %d does not belong to customer %d", bikeID, customer.ID)
	}

	orderList, err := s.orderRepo.ListByBikeID(ctx, bikeID)
	if err != nil {
		return nil, err
	}

	return &orders.BikeDetail{Bike: bike, Orders: orderList}, nil
}

// Loyalty computes the customer's reward standing
func (s *portalService) Loyalty(ctx context.Context, userID int64) (*orders.LoyaltySummary, error) {
	customer, err := s.customerSvc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.orderRepo.TotalPaidByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	summary := orders.ComputeLoyalty(total)
	return &summary, nil
}
