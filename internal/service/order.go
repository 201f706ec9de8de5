// backend-go/internal/service/order.go
package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

// OrderService exposes the permanent order rows: filtered listing, bulk
// cancellation, and the admin-only bulk delete.
type OrderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

func (s *OrderService) List(ctx context.Context, actor domain.Actor, filter domain.OrderFilter) ([]domain.OrderRow, error) {
	if !actor.Valid() {
		return nil, domain.ErrBadRequest
	}
	return s.orders.ListRows(ctx, actor.CompanyID, filter)
}

// Cancel moves the rows to the terminal cancelled state.
func (s *OrderService) Cancel(ctx context.Context, actor domain.Actor, ids []int64) (int64, error) {
	if !actor.Valid() {
		return 0, domain.ErrBadRequest
	}
	if len(ids) == 0 {
		return 0, domain.ErrBadRequest
	}

	affected, err := s.orders.UpdateStatus(ctx, actor.CompanyID, ids, domain.StatusCancelled)
	if err != nil {
		return 0, err
	}
	log.Info().Int64("rows", affected).Int64("company_id", actor.CompanyID).Msg("order rows cancelled")
	return affected, nil
}

// Delete hard-deletes rows. Explicit admin action; confirmed rows are never
// removed any other way.
func (s *OrderService) Delete(ctx context.Context, actor domain.Actor, ids []int64) error {
	if !actor.Valid() {
		return domain.ErrBadRequest
	}
	if len(ids) == 0 {
		return domain.ErrBadRequest
	}
	return s.orders.DeleteRows(ctx, actor.CompanyID, ids)
}
