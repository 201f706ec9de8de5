// backend-go/internal/service/order_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backend-go/internal/domain"
)

func TestCancelMovesRowsToCancelled(t *testing.T) {
	orders := newFakeOrderRepo(nil)
	orders.rows = []domain.OrderRow{
		{ID: 1, CompanyID: 1, Status: domain.StatusSupplying},
		{ID: 2, CompanyID: 1, Status: domain.StatusShipping},
		{ID: 3, CompanyID: 2, Status: domain.StatusSupplying},
	}
	svc := NewOrderService(orders)

	affected, err := svc.Cancel(context.Background(), testActor(), []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.Equal(t, domain.StatusCancelled, orders.rows[0].Status)
	assert.Equal(t, domain.StatusCancelled, orders.rows[1].Status)
	// Another company's row never changes.
	assert.Equal(t, domain.StatusSupplying, orders.rows[2].Status)
}

func TestCancelAndDeleteRequireIDs(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(nil))

	_, err := svc.Cancel(context.Background(), testActor(), nil)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	err = svc.Delete(context.Background(), testActor(), nil)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestDeleteRemovesOwnRowsOnly(t *testing.T) {
	orders := newFakeOrderRepo(nil)
	orders.rows = []domain.OrderRow{
		{ID: 1, CompanyID: 1},
		{ID: 2, CompanyID: 2},
	}
	svc := NewOrderService(orders)

	require.NoError(t, svc.Delete(context.Background(), testActor(), []int64{1, 2}))
	require.Len(t, orders.rows, 1)
	assert.Equal(t, int64(2), orders.rows[0].CompanyID)
}

func TestListScopedToCompany(t *testing.T) {
	orders := newFakeOrderRepo(nil)
	orders.rows = []domain.OrderRow{
		{ID: 1, CompanyID: 1, Status: domain.StatusSupplying},
		{ID: 2, CompanyID: 1, Status: domain.StatusShipping},
		{ID: 3, CompanyID: 2, Status: domain.StatusSupplying},
	}
	svc := NewOrderService(orders)

	got, err := svc.List(context.Background(), testActor(), domain.OrderFilter{Status: domain.StatusSupplying})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}
