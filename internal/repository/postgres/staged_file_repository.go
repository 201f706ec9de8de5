// backend-go/internal/repository/postgres/staged_file_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

const stagedFileColumns = `
	id, company_id, user_id, file_name, mall_id, mall_name, sheet,
	code_map, product_id_map, object_key, created_at
`

type stagedFileRepository struct {
	db *DB
}

func NewStagedFileRepository(db *DB) repository.StagedFileRepository {
	return &stagedFileRepository{db: db}
}

func (r *stagedFileRepository) Create(ctx context.Context, f *domain.StagedFile) error {
	query := `
		INSERT INTO staged_files (
			id, company_id, user_id, file_name, mall_id, mall_name, sheet,
			code_map, product_id_map, object_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.CompanyID, f.UserID, f.FileName, f.MallID, f.MallName,
		f.Table, f.CodeMap, f.ProductIDMap, f.ObjectKey,
	)
	if err != nil {
		return fmt.Errorf("failed to create staged file: %w", err)
	}
	return nil
}

func (r *stagedFileRepository) GetByIDs(ctx context.Context, companyID int64, ids []string) ([]domain.StagedFile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+stagedFileColumns+`
		FROM staged_files
		WHERE company_id = ? AND id IN (?)
		ORDER BY created_at ASC`, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build staged file query: %w", err)
	}

	var files []domain.StagedFile
	if err := r.db.SelectContext(ctx, &files, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get staged files: %w", err)
	}
	return files, nil
}

func (r *stagedFileRepository) ListByUser(ctx context.Context, companyID, userID int64) ([]domain.StagedFile, error) {
	query := `
		SELECT ` + stagedFileColumns + `
		FROM staged_files
		WHERE company_id = $1 AND user_id = $2
		ORDER BY created_at ASC
	`

	var files []domain.StagedFile
	if err := r.db.SelectContext(ctx, &files, query, companyID, userID); err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}
	return files, nil
}

func (r *stagedFileRepository) UpdateMaps(ctx context.Context, id string, codeMap domain.StringMap, productIDMap domain.Int64Map) error {
	query := `
		UPDATE staged_files
		SET code_map = $2, product_id_map = $3
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, codeMap, productIDMap); err != nil {
		return fmt.Errorf("failed to update staged file maps: %w", err)
	}
	return nil
}

func (r *stagedFileRepository) Delete(ctx context.Context, companyID, userID int64, id string) error {
	query := `DELETE FROM staged_files WHERE company_id = $1 AND user_id = $2 AND id = $3`

	if _, err := r.db.ExecContext(ctx, query, companyID, userID, id); err != nil {
		return fmt.Errorf("failed to delete staged file: %w", err)
	}
	return nil
}
