package services

import (
	"context"
	"fmt"
	"log"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/store/internal/models"
	"github.com/example/store/internal/validation"
)

const (
	amountMaxDigits     = 10
	amountDecimalPlaces = 2
)

// OrderService creates, edits and removes orders.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService constructs OrderService.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// OrderInput carries the fields accepted when placing an order.
type OrderInput struct {
	CustomerID  uint               `json:"customer" validate:"required"`
	TotalAmount *decimal.Decimal   `json:"total_amount" validate:"required"`
	Status      models.OrderStatus `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
}

// OrderPatch carries a partial edit; nil fields are left untouched.
type OrderPatch struct {
	CustomerID  *uint               `json:"customer"`
	TotalAmount *decimal.Decimal    `json:"total_amount"`
	Status      *models.OrderStatus `json:"status" validate:"omitnil,oneof=pending processing shipped delivered cancelled"`
}

// Create validates in and stores a new order. The status defaults to pending.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	errs := validation.Struct(in)
	if in.TotalAmount != nil {
		checkAmount(errs, *in.TotalAmount)
	}

	var customer *models.Customer
	if _, bad := errs["customer"]; !bad {
		var err error
		customer, err = s.lookupCustomer(ctx, errs, in.CustomerID)
		if err != nil {
			return nil, err
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID:  in.CustomerID,
		TotalAmount: *in.TotalAmount,
		Status:      in.Status,
	}

	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, validation.Field("customer", missingCustomer(in.CustomerID))
		}
		return nil, errors.Wrap(err, "create order")
	}
	order.Customer = customer

	log.Printf("[Order] %s placed, total %s, status %s", order, order.TotalAmount.StringFixed(amountDecimalPlaces), order.Status)
	return order, nil
}

// Get returns the order with its customer.
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Customer").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "order %d", id)
		}
		return nil, errors.Wrapf(err, "load order %d", id)
	}
	return &order, nil
}

// Update applies patch to the order. Any status may be set regardless of the
// current one; the order date never changes.
func (s *OrderService) Update(ctx context.Context, id uint, patch OrderPatch) (*models.Order, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	errs := validation.Struct(patch)
	if patch.TotalAmount != nil {
		checkAmount(errs, *patch.TotalAmount)
	}
	if _, bad := errs["customer"]; !bad && patch.CustomerID != nil {
		if _, err := s.lookupCustomer(ctx, errs, *patch.CustomerID); err != nil {
			return nil, err
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.CustomerID != nil {
		updates["customer_id"] = *patch.CustomerID
	}
	if patch.TotalAmount != nil {
		updates["total_amount"] = *patch.TotalAmount
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, errors.Wrapf(err, "update order %d", id)
		}
	}

	return s.Get(ctx, id)
}

// SetStatus moves the order to status.
func (s *OrderService) SetStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	return s.Update(ctx, id, OrderPatch{Status: &status})
}

// Delete removes a single order.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Order{}, id)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "delete order %d", id)
	}
	if result.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "order %d", id)
	}
	return nil
}

func (s *OrderService) lookupCustomer(ctx context.Context, errs validation.Errors, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).First(&customer, id).Error
	switch {
	case err == nil:
		return &customer, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		errs.Add("customer", missingCustomer(id))
		return nil, nil
	}
	return nil, errors.Wrapf(err, "load customer %d", id)
}

func checkAmount(errs validation.Errors, amount decimal.Decimal) {
	if msg := validation.MinValue(amount, decimal.Zero); msg != "" {
		errs.Add("total_amount", msg)
		return
	}
	if msg := validation.Decimal(amount, amountMaxDigits, amountDecimalPlaces); msg != "" {
		errs.Add("total_amount", msg)
	}
}

func missingCustomer(id uint) string {
	return fmt.Sprintf("customer instance with id %d does not exist.", id)
}
