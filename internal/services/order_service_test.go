package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/store/internal/models"
	"github.com/example/store/internal/testutil"
)

func newAda(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()
	ada, err := NewCustomerService(db).Create(context.Background(), CustomerInput{Name: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	return ada
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	ada := newAda(t, db)
	svc := NewOrderService(db)

	order, err := svc.Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("19.99")})
	require.NoError(t, err)

	assert.EqualValues(t, 1, order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.OrderDate.IsZero())
	assert.Equal(t, "Order 1 by Ada Lovelace", order.String())

	loaded, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "19.99", loaded.TotalAmount.StringFixed(2))
	assert.Equal(t, models.OrderStatusPending, loaded.Status)
	assert.Equal(t, "Order 1 by Ada Lovelace", loaded.String())
}

func TestCreateOrderAmountBounds(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	ada := newAda(t, db)
	svc := NewOrderService(db)

	_, err := svc.Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("-0.01")})
	assert.Equal(t, "Ensure this value is greater than or equal to 0.", requireFieldError(t, err, "total_amount"))

	zero, err := svc.Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("0")})
	require.NoError(t, err)
	assert.True(t, zero.TotalAmount.IsZero())

	_, err = svc.Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("1.005")})
	requireFieldError(t, err, "total_amount")

	_, err = svc.Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("123456789.00")})
	requireFieldError(t, err, "total_amount")

	_, err = svc.Create(ctx, OrderInput{CustomerID: ada.ID})
	assert.Equal(t, "This field is required.", requireFieldError(t, err, "total_amount"))
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(testutil.NewDB(t))

	_, err := svc.Create(ctx, OrderInput{CustomerID: 42, TotalAmount: amount("1.00")})
	assert.Equal(t, "customer instance with id 42 does not exist.", requireFieldError(t, err, "customer"))

	_, err = svc.Create(ctx, OrderInput{TotalAmount: amount("1.00")})
	assert.Equal(t, "This field is required.", requireFieldError(t, err, "customer"))
}

func TestCreateOrderStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	ada := newAda(t, db)
	svc := NewOrderService(db)

	shipped, err := svc.Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("5"), Status: models.OrderStatusShipped})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)

	_, err = svc.Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("5"), Status: "refunded"})
	assert.Equal(t, "Select a valid choice. refunded is not one of the available choices.", requireFieldError(t, err, "status"))
}

func TestUpdateOrderAllowsAnyTransition(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	ada := newAda(t, db)
	svc := NewOrderService(db)

	order, err := svc.Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("19.99")})
	require.NoError(t, err)

	for _, status := range []models.OrderStatus{
		models.OrderStatusDelivered,
		models.OrderStatusPending,
		models.OrderStatusCancelled,
		models.OrderStatusProcessing,
	} {
		updated, err := svc.SetStatus(ctx, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	updated, err := svc.Update(ctx, order.ID, OrderPatch{TotalAmount: amount("25.50")})
	require.NoError(t, err)
	assert.Equal(t, "25.50", updated.TotalAmount.StringFixed(2))
	assert.WithinDuration(t, order.OrderDate, updated.OrderDate, time.Millisecond)

	_, err = svc.Update(ctx, order.ID, OrderPatch{TotalAmount: amount("-1")})
	requireFieldError(t, err, "total_amount")

	_, err = svc.Update(ctx, order.ID, OrderPatch{CustomerID: ptr(uint(77))})
	requireFieldError(t, err, "customer")

	_, err = svc.Update(ctx, order.ID, OrderPatch{CustomerID: ptr(uint(0))})
	assert.Equal(t, "customer instance with id 0 does not exist.", requireFieldError(t, err, "customer"))

	bad := models.OrderStatus("lost")
	_, err = svc.Update(ctx, order.ID, OrderPatch{Status: &bad})
	requireFieldError(t, err, "status")
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	ada := newAda(t, db)
	svc := NewOrderService(db)

	order, err := svc.Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("1")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, order.ID))
	assert.ErrorIs(t, svc.Delete(ctx, order.ID), ErrNotFound)

	_, err = NewCustomerService(db).Get(ctx, ada.ID)
	assert.NoError(t, err)
}
