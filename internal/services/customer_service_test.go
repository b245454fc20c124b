package services

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/store/internal/models"
	"github.com/example/store/internal/testutil"
	"github.com/example/store/internal/validation"
)

func ptr[T any](v T) *T {
	return &v
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func requireFieldError(t *testing.T, err error, field string) string {
	t.Helper()
	var errs validation.Errors
	require.True(t, errors.As(err, &errs), "expected validation error, got %v", err)
	require.Contains(t, errs, field)
	return errs[field]
}

func TestCreateCustomer(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(testutil.NewDB(t))

	before := time.Now().UTC().Add(-time.Second)
	customer, err := svc.Create(ctx, CustomerInput{Name: " Ada Lovelace ", Email: "ada@example.com"})
	require.NoError(t, err)

	assert.NotZero(t, customer.ID)
	assert.Equal(t, "Ada Lovelace", customer.Name)
	assert.Nil(t, customer.PhoneNumber)
	assert.True(t, customer.RegisteredAt.After(before))

	loaded, err := svc.Get(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", loaded.Email)
	assert.Equal(t, "Ada Lovelace", loaded.String())
	assert.WithinDuration(t, customer.RegisteredAt, loaded.RegisteredAt, time.Millisecond)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(testutil.NewDB(t))

	_, err := svc.Create(ctx, CustomerInput{Name: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CustomerInput{Name: "Other", Email: "ada@example.com"})
	assert.Equal(t, MsgDuplicateEmail, requireFieldError(t, err, "email"))
}

func TestCreateCustomerValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(testutil.NewDB(t))

	_, err := svc.Create(ctx, CustomerInput{Name: "Ada", Email: "ada-at-example.com"})
	assert.Equal(t, validation.MsgInvalidEmail, requireFieldError(t, err, "email"))

	_, err = svc.Create(ctx, CustomerInput{Email: "ada@example.com"})
	assert.Equal(t, validation.MsgRequired, requireFieldError(t, err, "name"))

	_, err = svc.Create(ctx, CustomerInput{Name: "Ada", Email: "ada@example.com", PhoneNumber: ptr("+44 20 7946 0958 1")})
	requireFieldError(t, err, "phone_number")
}

func TestCreateCustomerEmptyPhoneIsNull(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(testutil.NewDB(t))

	customer, err := svc.Create(ctx, CustomerInput{Name: "Ada", Email: "ada@example.com", PhoneNumber: ptr("  ")})
	require.NoError(t, err)
	assert.Nil(t, customer.PhoneNumber)

	withPhone, err := svc.Create(ctx, CustomerInput{Name: "Bob", Email: "bob@example.com", PhoneNumber: ptr("555-0100")})
	require.NoError(t, err)
	require.NotNil(t, withPhone.PhoneNumber)
	assert.Equal(t, "555-0100", *withPhone.PhoneNumber)
}

func TestUpdateCustomer(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(testutil.NewDB(t))

	ada, err := svc.Create(ctx, CustomerInput{Name: "Ada", Email: "ada@example.com", PhoneNumber: ptr("555-0100")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CustomerInput{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, ada.ID, CustomerPatch{Name: ptr("Ada Lovelace"), PhoneNumber: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "ada@example.com", updated.Email)
	assert.Nil(t, updated.PhoneNumber)
	assert.WithinDuration(t, ada.RegisteredAt, updated.RegisteredAt, time.Millisecond)

	_, err = svc.Update(ctx, ada.ID, CustomerPatch{Email: ptr("bob@example.com")})
	assert.Equal(t, MsgDuplicateEmail, requireFieldError(t, err, "email"))

	_, err = svc.Update(ctx, ada.ID, CustomerPatch{Email: ptr("ada@example.com")})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, ada.ID, CustomerPatch{Name: ptr("")})
	assert.Equal(t, validation.MsgRequired, requireFieldError(t, err, "name"))

	_, err = svc.Update(ctx, ada.ID, CustomerPatch{Name: ptr("   ")})
	assert.Equal(t, validation.MsgRequired, requireFieldError(t, err, "name"))

	_, err = svc.Update(ctx, ada.ID, CustomerPatch{Email: ptr(" ")})
	assert.Equal(t, validation.MsgRequired, requireFieldError(t, err, "email"))

	_, err = svc.Update(ctx, ada.ID, CustomerPatch{Email: ptr("not-an-email")})
	assert.Equal(t, validation.MsgInvalidEmail, requireFieldError(t, err, "email"))

	stored, err := svc.Get(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", stored.Name)
	assert.Equal(t, "ada@example.com", stored.Email)

	_, err = svc.Update(ctx, 9999, CustomerPatch{Name: ptr("Nobody")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCustomerCascadesOrders(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	customers := NewCustomerService(db)
	orders := NewOrderService(db)

	ada, err := customers.Create(ctx, CustomerInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	bob, err := customers.Create(ctx, CustomerInput{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	const n = 3
	for i := 0; i < n; i++ {
		_, err := orders.Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("10.00")})
		require.NoError(t, err)
	}
	kept, err := orders.Create(ctx, OrderInput{CustomerID: bob.ID, TotalAmount: amount("5.00")})
	require.NoError(t, err)

	removed, err := customers.Delete(ctx, ada.ID)
	require.NoError(t, err)
	assert.EqualValues(t, n, removed)

	var remaining int64
	require.NoError(t, db.Model(&models.Order{}).Where("customer_id = ?", ada.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	_, err = customers.Get(ctx, ada.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = orders.Get(ctx, kept.ID)
	assert.NoError(t, err)

	_, err = customers.Delete(ctx, ada.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForeignKeyCascadesWithoutService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)

	ada, err := NewCustomerService(db).Create(ctx, CustomerInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = NewOrderService(db).Create(ctx, OrderInput{CustomerID: ada.ID, TotalAmount: amount("1")})
	require.NoError(t, err)

	require.NoError(t, db.Exec("DELETE FROM customers WHERE id = ?", ada.ID).Error)

	var remaining int64
	require.NoError(t, db.Model(&models.Order{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
