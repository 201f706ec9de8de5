// backend-go/internal/service/settlement.go
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/orderdesk/backend-go/internal/cache"
	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

// SettlementService maintains the persisted per-mall aggregates. They are a
// deliberate cache with manual invalidation: Refresh recomputes from order
// rows on demand, reads never do.
type SettlementService struct {
	settlements repository.SettlementRepository
	summaries   cache.SettlementCache
}

func NewSettlementService(settlements repository.SettlementRepository, summaries cache.SettlementCache) *SettlementService {
	return &SettlementService{settlements: settlements, summaries: summaries}
}

// Refresh recomputes the aggregates for the period, derives the profit
// figures, upserts every mall's settlement, and drops the company's cached
// summaries.
func (s *SettlementService) Refresh(ctx context.Context, actor domain.Actor, start, end time.Time) ([]domain.Settlement, error) {
	if !actor.Valid() {
		return nil, domain.ErrBadRequest
	}
	if !end.After(start) {
		return nil, domain.ErrBadRequest
	}

	settlements, err := s.settlements.AggregateByMall(ctx, actor.CompanyID, start, end)
	if err != nil {
		return nil, err
	}

	for i := range settlements {
		st := &settlements[i]
		st.CompanyID = actor.CompanyID
		st.StartDate = start
		st.EndDate = end
		computeProfits(st)

		if err := s.settlements.Upsert(ctx, st); err != nil {
			return nil, err
		}
	}

	if err := s.summaries.Invalidate(ctx, actor.CompanyID); err != nil {
		log.Warn().Err(err).Int64("company_id", actor.CompanyID).Msg("settlement cache invalidation failed")
	}

	log.Info().
		Int64("company_id", actor.CompanyID).
		Int("malls", len(settlements)).
		Time("start", start).
		Time("end", end).
		Msg("settlements refreshed")
	return settlements, nil
}

// List reads the persisted aggregates, serving from the summary cache when it
// has the period.
func (s *SettlementService) List(ctx context.Context, actor domain.Actor, start, end *time.Time) ([]domain.Settlement, error) {
	if !actor.Valid() {
		return nil, domain.ErrBadRequest
	}

	if cached, ok, err := s.summaries.Get(ctx, actor.CompanyID, start, end); err != nil {
		log.Warn().Err(err).Msg("settlement cache read failed")
	} else if ok {
		return cached, nil
	}

	settlements, err := s.settlements.List(ctx, actor.CompanyID, start, end)
	if err != nil {
		return nil, err
	}

	if err := s.summaries.Set(ctx, actor.CompanyID, start, end, settlements); err != nil {
		log.Warn().Err(err).Msg("settlement cache write failed")
	}
	return settlements, nil
}

// computeProfits derives the profit amounts and rates from the raw sums.
// Total profit is sales minus supply cost; net profit additionally loses the
// cancelled amount. Rates are percentages of the order amount.
func computeProfits(s *domain.Settlement) {
	s.TotalProfit = s.OrderAmount - s.SupplyAmount
	s.NetProfit = s.TotalProfit - s.CancelAmount
	if s.OrderAmount > 0 {
		s.TotalProfitRate = float64(s.TotalProfit) / float64(s.OrderAmount) * 100
		s.NetProfitRate = float64(s.NetProfit) / float64(s.OrderAmount) * 100
	} else {
		s.TotalProfitRate = 0
		s.NetProfitRate = 0
	}
}
