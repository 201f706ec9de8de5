// backend-go/internal/repository/postgres/product_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

const productColumns = `
	id, company_id, code, name, sabang_name, cost_price, sale_price,
	vendor_name, is_inhouse, carrier, pack_count, shipping_fee, tax_category,
	created_at, updated_at
`

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) GetByID(ctx context.Context, companyID, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND id = $2`
	return r.getOne(ctx, query, companyID, id)
}

func (r *productRepository) GetByCode(ctx context.Context, companyID int64, code string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND code = $2`
	return r.getOne(ctx, query, companyID, code)
}

func (r *productRepository) GetByExactName(ctx context.Context, companyID int64, name string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1 AND name = $2
		ORDER BY id ASC
		LIMIT 1
	`
	return r.getOne(ctx, query, companyID, name)
}

func (r *productRepository) ListAll(ctx context.Context, companyID int64) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1
		ORDER BY id ASC
	`

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context, companyID int64, search string, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1
		  AND ($2 = '' OR code ILIKE '%' || $2 || '%' OR name ILIKE '%' || $2 || '%')
		ORDER BY code ASC
		LIMIT $3 OFFSET $4
	`

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, companyID, search, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Upsert(ctx context.Context, p *domain.Product) (int64, error) {
	query := `
		INSERT INTO products (
			company_id, code, name, sabang_name, cost_price, sale_price,
			vendor_name, is_inhouse, carrier, pack_count, shipping_fee,
			tax_category, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (company_id, code)
		DO UPDATE SET
			name = EXCLUDED.name,
			sabang_name = EXCLUDED.sabang_name,
			cost_price = EXCLUDED.cost_price,
			sale_price = EXCLUDED.sale_price,
			vendor_name = EXCLUDED.vendor_name,
			is_inhouse = EXCLUDED.is_inhouse,
			carrier = EXCLUDED.carrier,
			pack_count = EXCLUDED.pack_count,
			shipping_fee = EXCLUDED.shipping_fee,
			tax_category = EXCLUDED.tax_category,
			updated_at = NOW()
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		p.CompanyID, p.Code, p.Name, p.SabangName, p.CostPrice, p.SalePrice,
		p.VendorName, p.IsInhouse, p.Carrier, p.PackCount, p.ShippingFee,
		p.TaxCategory,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert product: %w", err)
	}
	return id, nil
}
