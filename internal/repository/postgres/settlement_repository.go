// backend-go/internal/repository/postgres/settlement_repository.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

type settlementRepository struct {
	db *DB
}

func NewSettlementRepository(db *DB) repository.SettlementRepository {
	return &settlementRepository{db: db}
}

// AggregateByMall recomputes grouped sums from order rows. Amount columns come
// from the row payload; non-numeric cells count as zero rather than failing
// the whole aggregate.
func (r *settlementRepository) AggregateByMall(ctx context.Context, companyID int64, start, end time.Time) ([]domain.Settlement, error) {
	query := `
		SELECT
			COALESCE(r.mall_id, 0) AS mall_id,
			COALESCE(m.name, '') AS mall_name,
			COUNT(*) FILTER (WHERE r.status <> 'cancelled') AS order_count,
			COUNT(*) FILTER (WHERE r.status = 'cancelled') AS cancel_count,
			COALESCE(SUM(
				CASE WHEN r.status <> 'cancelled'
				THEN COALESCE(NULLIF(regexp_replace(r.row_data ->> '판매가', '[^0-9]', '', 'g'), '')::bigint, 0)
				     * GREATEST(COALESCE(NULLIF(regexp_replace(r.row_data ->> '수량', '[^0-9]', '', 'g'), '')::int, 1), 1)
				ELSE 0 END), 0) AS order_amount,
			COALESCE(SUM(
				CASE WHEN r.status = 'cancelled'
				THEN COALESCE(NULLIF(regexp_replace(r.row_data ->> '판매가', '[^0-9]', '', 'g'), '')::bigint, 0)
				     * GREATEST(COALESCE(NULLIF(regexp_replace(r.row_data ->> '수량', '[^0-9]', '', 'g'), '')::int, 1), 1)
				ELSE 0 END), 0) AS cancel_amount,
			COALESCE(SUM(CASE WHEN r.status <> 'cancelled' THEN r.supply_price ELSE 0 END), 0) AS supply_amount
		FROM order_rows r
		LEFT JOIN malls m ON m.id = r.mall_id
		WHERE r.company_id = $1
		  AND r.created_at >= $2
		  AND r.created_at < $3
		GROUP BY r.mall_id, m.name
		ORDER BY mall_name ASC
	`

	var settlements []domain.Settlement
	if err := r.db.SelectContext(ctx, &settlements, query, companyID, start, end); err != nil {
		return nil, fmt.Errorf("failed to aggregate settlements: %w", err)
	}
	return settlements, nil
}

func (r *settlementRepository) Upsert(ctx context.Context, s *domain.Settlement) error {
	query := `
		INSERT INTO settlements (
			company_id, mall_id, mall_name, start_date, end_date,
			order_count, cancel_count, order_amount, cancel_amount,
			supply_amount, total_profit, net_profit, total_profit_rate,
			net_profit_rate, refreshed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (company_id, mall_id, start_date, end_date)
		DO UPDATE SET
			mall_name = EXCLUDED.mall_name,
			order_count = EXCLUDED.order_count,
			cancel_count = EXCLUDED.cancel_count,
			order_amount = EXCLUDED.order_amount,
			cancel_amount = EXCLUDED.cancel_amount,
			supply_amount = EXCLUDED.supply_amount,
			total_profit = EXCLUDED.total_profit,
			net_profit = EXCLUDED.net_profit,
			total_profit_rate = EXCLUDED.total_profit_rate,
			net_profit_rate = EXCLUDED.net_profit_rate,
			refreshed_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		s.CompanyID, s.MallID, s.MallName, s.StartDate, s.EndDate,
		s.OrderCount, s.CancelCount, s.OrderAmount, s.CancelAmount,
		s.SupplyAmount, s.TotalProfit, s.NetProfit, s.TotalProfitRate,
		s.NetProfitRate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert settlement: %w", err)
	}
	return nil
}

func (r *settlementRepository) List(ctx context.Context, companyID int64, start, end *time.Time) ([]domain.Settlement, error) {
	query := `
		SELECT id, company_id, mall_id, mall_name, start_date, end_date,
		       order_count, cancel_count, order_amount, cancel_amount,
		       supply_amount, total_profit, net_profit, total_profit_rate,
		       net_profit_rate, refreshed_at
		FROM settlements
		WHERE company_id = $1
	`
	args := []any{companyID}
	argCounter := 2
	var conditions []string

	if start != nil {
		conditions = append(conditions, fmt.Sprintf("start_date >= $%d", argCounter))
		args = append(args, *start)
		argCounter++
	}
	if end != nil {
		conditions = append(conditions, fmt.Sprintf("end_date <= $%d", argCounter))
		args = append(args, *end)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_date DESC, mall_name ASC"

	var settlements []domain.Settlement
	if err := r.db.SelectContext(ctx, &settlements, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}
