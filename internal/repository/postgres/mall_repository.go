// backend-go/internal/repository/postgres/mall_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

type mallRepository struct {
	db *DB
}

func NewMallRepository(db *DB) repository.MallRepository {
	return &mallRepository{db: db}
}

func (r *mallRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Mall, error) {
	var m domain.Mall
	if err := r.db.GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mall: %w", err)
	}
	return &m, nil
}

func (r *mallRepository) GetByID(ctx context.Context, companyID, id int64) (*domain.Mall, error) {
	query := `
		SELECT id, company_id, name, code, created_at, updated_at
		FROM malls
		WHERE company_id = $1 AND id = $2
	`
	return r.getOne(ctx, query, companyID, id)
}

// GetByName resolves a vendor name with exact-match priority over a
// case-insensitive fallback.
func (r *mallRepository) GetByName(ctx context.Context, companyID int64, name string) (*domain.Mall, error) {
	query := `
		SELECT id, company_id, name, code, created_at, updated_at
		FROM malls
		WHERE company_id = $1 AND name = $2
		ORDER BY id ASC
		LIMIT 1
	`
	mall, err := r.getOne(ctx, query, companyID, name)
	if err != nil || mall != nil {
		return mall, err
	}

	query = `
		SELECT id, company_id, name, code, created_at, updated_at
		FROM malls
		WHERE company_id = $1 AND LOWER(name) = LOWER($2)
		ORDER BY id ASC
		LIMIT 1
	`
	return r.getOne(ctx, query, companyID, name)
}

func (r *mallRepository) List(ctx context.Context, companyID int64) ([]domain.Mall, error) {
	query := `
		SELECT id, company_id, name, code, created_at, updated_at
		FROM malls
		WHERE company_id = $1
		ORDER BY name ASC
	`

	var malls []domain.Mall
	if err := r.db.SelectContext(ctx, &malls, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list malls: %w", err)
	}
	return malls, nil
}

func (r *mallRepository) Upsert(ctx context.Context, m *domain.Mall) (int64, error) {
	query := `
		INSERT INTO malls (company_id, name, code, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (company_id, name)
		DO UPDATE SET code = EXCLUDED.code, updated_at = NOW()
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, m.CompanyID, m.Name, m.Code).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert mall: %w", err)
	}
	return id, nil
}
