package main

import (
	"context"

	"go.uber.org/zap"
)

// OrderServiceProvider defines the order operations exposed to the api layer.
type OrderServiceProvider interface {
	Create(ctx context.Context, order Order) (Order, error)
	GetOne(ctx context.Context, id string) (Order, error)
	GetAllForUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (Order, error)
	Cancel(ctx context.Context, id string) (Order, error)
}

type OrderService struct {
	logger     *zap.Logger
	config     *Config
	clock      Clocker
	idsHandler UIDHandler
	storage    OrderStorage
	books      BookServiceProvider
	users      UserServiceProvider
}

func NewOrderService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, storage OrderStorage, books BookServiceProvider, users UserServiceProvider) OrderServiceProvider {
	return &OrderService{
		logger:     logger,
		config:     config,
		clock:      clock,
		idsHandler: ids,
		storage:    storage,
		books:      books,
		users:      users,
	}
}

// Create validates the candidate order, checks the referenced user
// and books, withdraws the ordered quantities from stock, computes
// the line subtotals and the total, then persists the order in the
// PENDING state. Stock already withdrawn is restored when a later
// item of the same order cannot be served.
func (os *OrderService) Create(ctx context.Context, order Order) (Order, error) {
	if err := ValidateOrder(&order); err != nil {
		return order, err
	}

	if _, err := os.users.GetOne(ctx, order.UserID); err != nil {
		return order, err
	}

	reserved := make([]OrderItem, 0, len(order.Items))
	for i := range order.Items {
		book, err := os.books.GetOne(ctx, order.Items[i].BookID)
		if err != nil {
			os.restoreStock(ctx, reserved)
			return order, err
		}

		if err := os.books.ReduceStock(ctx, book.ID, order.Items[i].Quantity); err != nil {
			os.restoreStock(ctx, reserved)
			return order, err
		}

		order.Items[i].SetUnitPrice(book.Price)
		reserved = append(reserved, order.Items[i])
	}

	order.ID = os.idsHandler.Generate(OrderIDPrefix)
	order.OrderDate = os.clock.Now().UTC()
	order.Status = OrderPending
	order.TotalAmount = order.Total()

	if err := os.storage.Add(ctx, order); err != nil {
		os.restoreStock(ctx, order.Items)
		return order, err
	}
	return order, nil
}

func (os *OrderService) GetOne(ctx context.Context, id string) (Order, error) {
	return os.storage.GetOne(ctx, id)
}

func (os *OrderService) GetAllForUser(ctx context.Context, userID string) ([]Order, error) {
	return os.storage.GetAllByUser(ctx, userID)
}

// UpdateStatus moves an order to the next state when the transition
// is allowed. Cancellations go through Cancel so the reserved stock
// is returned to the catalog.
func (os *OrderService) UpdateStatus(ctx context.Context, id string, status OrderStatus) (Order, error) {
	if !status.IsValid() {
		return Order{}, validationError("unknown order status")
	}
	if status == OrderCancelled {
		return os.Cancel(ctx, id)
	}

	order, err := os.storage.GetOne(ctx, id)
	if err != nil {
		return order, err
	}

	if !order.Status.CanTransitionTo(status) {
		return order, ErrOrderTransition
	}

	if err := os.storage.UpdateStatus(ctx, id, status); err != nil {
		return order, err
	}
	order.Status = status
	return order, nil
}

// Cancel moves an order to the CANCELLED state and restores the
// quantities it had withdrawn from stock.
func (os *OrderService) Cancel(ctx context.Context, id string) (Order, error) {
	order, err := os.storage.GetOne(ctx, id)
	if err != nil {
		return order, err
	}

	if !order.Status.CanTransitionTo(OrderCancelled) {
		return order, ErrOrderTransition
	}

	if err := os.storage.UpdateStatus(ctx, id, OrderCancelled); err != nil {
		return order, err
	}
	os.restoreStock(ctx, order.Items)
	order.Status = OrderCancelled
	return order, nil
}

// restoreStock returns previously withdrawn quantities to the catalog.
// Failures are logged only: the books may have been deleted meanwhile
// and the order flow must not fail on restoration.
func (os *OrderService) restoreStock(ctx context.Context, items []OrderItem) {
	for i := range items {
		book, err := os.books.GetOne(ctx, items[i].BookID)
		if err != nil {
			os.logger.Error("service: failed to restore book stock", zap.String("book.id", items[i].BookID), zap.Error(err))
			continue
		}
		if err := os.books.UpdateStock(ctx, book.ID, book.StockQuantity+items[i].Quantity); err != nil {
			os.logger.Error("service: failed to restore book stock", zap.String("book.id", items[i].BookID), zap.Error(err))
		}
	}
}
