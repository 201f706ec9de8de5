// backend-go/internal/repository/postgres/template_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

type templateRepository struct {
	db *DB
}

func NewTemplateRepository(db *DB) repository.TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) GetByID(ctx context.Context, companyID, id int64) (*domain.Template, error) {
	query := `
		SELECT id, company_id, mall_id, name, columns, object_key, created_at, updated_at
		FROM templates
		WHERE company_id = $1 AND id = $2
	`

	var t domain.Template
	if err := r.db.GetContext(ctx, &t, query, companyID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &t, nil
}

func (r *templateRepository) List(ctx context.Context, companyID int64) ([]domain.Template, error) {
	query := `
		SELECT id, company_id, mall_id, name, columns, object_key, created_at, updated_at
		FROM templates
		WHERE company_id = $1
		ORDER BY name ASC
	`

	var templates []domain.Template
	if err := r.db.SelectContext(ctx, &templates, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (r *templateRepository) Create(ctx context.Context, t *domain.Template) (int64, error) {
	query := `
		INSERT INTO templates (company_id, mall_id, name, columns, object_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (company_id, name)
		DO UPDATE SET
			mall_id = EXCLUDED.mall_id,
			columns = EXCLUDED.columns,
			object_key = EXCLUDED.object_key,
			updated_at = NOW()
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		t.CompanyID, t.MallID, t.Name, t.Columns, t.ObjectKey,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create template: %w", err)
	}
	return id, nil
}
