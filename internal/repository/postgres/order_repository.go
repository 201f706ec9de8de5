// backend-go/internal/repository/postgres/order_repository.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

const orderRowColumns = `
	id, upload_id, company_id, mall_id, vendor_name, row_data, row_order,
	status, internal_code, sabang_code, supply_price, created_at, updated_at
`

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) ExistingFileNames(ctx context.Context, companyID int64, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT file_name
		FROM uploads
		WHERE company_id = ? AND file_name IN (?)
		ORDER BY file_name ASC`, companyID, names)
	if err != nil {
		return nil, fmt.Errorf("failed to build filename query: %w", err)
	}

	var existing []string
	if err := r.db.SelectContext(ctx, &existing, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to check existing file names: %w", err)
	}
	return existing, nil
}

// ReserveCodes advances the per-mall sequence by count in a single statement.
// Mall 0 is the shared scope for rows whose vendor could not be resolved.
// Concurrent confirms serialize on the sequence row, so two requests can
// never be handed overlapping ranges.
func (r *orderRepository) ReserveCodes(ctx context.Context, companyID, mallID int64, count int) (int64, error) {
	query := `
		INSERT INTO internal_code_seqs (company_id, mall_id, last_seq)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, mall_id)
		DO UPDATE SET last_seq = internal_code_seqs.last_seq + $3
		RETURNING last_seq
	`

	var lastSeq int64
	if err := r.db.QueryRowContext(ctx, query, companyID, mallID, count).Scan(&lastSeq); err != nil {
		return 0, fmt.Errorf("failed to reserve internal codes: %w", err)
	}
	return lastSeq, nil
}

// SaveConfirmed writes the whole batch and deletes the consumed staged files
// in one transaction: either every row of every file lands, or none do.
func (r *orderRepository) SaveConfirmed(ctx context.Context, batch []*repository.ConfirmedUpload, stagedFileIDs []string) ([]repository.SavedUpload, error) {
	saved := make([]repository.SavedUpload, 0, len(batch))

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		uploadQuery := `
			INSERT INTO uploads (
				company_id, user_id, file_name, mall_id, vendor_name,
				original_header, header, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING id
		`
		rowQuery := `
			INSERT INTO order_rows (
				upload_id, company_id, mall_id, vendor_name, row_data,
				row_order, status, internal_code, sabang_code, supply_price,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			RETURNING id
		`

		rowStmt, err := tx.PrepareContext(ctx, rowQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare row insert: %w", err)
		}
		defer rowStmt.Close()

		for _, cu := range batch {
			u := cu.Upload
			var uploadID int64
			err := tx.QueryRowContext(ctx, uploadQuery,
				u.CompanyID, u.UserID, u.FileName, u.MallID, u.VendorName,
				u.OriginalHeader, u.Header,
			).Scan(&uploadID)
			if err != nil {
				return fmt.Errorf("failed to insert upload %s: %w", u.FileName, err)
			}

			rowIDs := make([]int64, 0, len(cu.Rows))
			for _, row := range cu.Rows {
				var rowID int64
				err := rowStmt.QueryRowContext(ctx,
					uploadID, row.CompanyID, row.MallID, row.VendorName,
					row.RowData, row.RowOrder, row.Status, row.InternalCode,
					row.SabangCode, row.SupplyPrice,
				).Scan(&rowID)
				if err != nil {
					return fmt.Errorf("failed to insert order row %d of %s: %w", row.RowOrder, u.FileName, err)
				}
				rowIDs = append(rowIDs, rowID)
			}

			saved = append(saved, repository.SavedUpload{UploadID: uploadID, RowIDs: rowIDs})
		}

		if len(stagedFileIDs) > 0 {
			query, args, err := sqlx.In(`DELETE FROM staged_files WHERE id IN (?)`, stagedFileIDs)
			if err != nil {
				return fmt.Errorf("failed to build staged delete: %w", err)
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
				return fmt.Errorf("failed to delete staged files: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *orderRepository) ListRows(ctx context.Context, companyID int64, f domain.OrderFilter) ([]domain.OrderRow, error) {
	query := `SELECT ` + orderRowColumns + ` FROM order_rows WHERE company_id = $1`
	args := []any{companyID}
	argCounter := 2
	var conditions []string

	if f.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argCounter))
		args = append(args, *f.StartDate)
		argCounter++
	}
	if f.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", argCounter))
		args = append(args, *f.EndDate)
		argCounter++
	}
	if f.MallID != nil {
		conditions = append(conditions, fmt.Sprintf("mall_id = $%d", argCounter))
		args = append(args, *f.MallID)
		argCounter++
	}
	if f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, f.Status)
		argCounter++
	}
	if f.SearchField != "" && f.SearchValue != "" {
		conditions = append(conditions,
			fmt.Sprintf("row_data ->> $%d ILIKE '%%' || $%d || '%%'", argCounter, argCounter+1))
		args = append(args, f.SearchField, f.SearchValue)
		argCounter += 2
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY upload_id ASC, row_order ASC"

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCounter)
		args = append(args, f.Limit)
		argCounter++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCounter)
		args = append(args, f.Offset)
	}

	var rows []domain.OrderRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list order rows: %w", err)
	}
	return rows, nil
}

func (r *orderRepository) GetRowsByIDs(ctx context.Context, companyID int64, ids []int64) ([]domain.OrderRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+orderRowColumns+`
		FROM order_rows
		WHERE company_id = ? AND id IN (?)
		ORDER BY upload_id ASC, row_order ASC`, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build row query: %w", err)
	}

	var rows []domain.OrderRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get order rows: %w", err)
	}
	return rows, nil
}

// MarkPODownloaded advances rows to po_downloaded in a single bulk update,
// restricted to rows still in supplying so later states never regress.
func (r *orderRepository) MarkPODownloaded(ctx context.Context, companyID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`
		UPDATE order_rows
		SET status = ?, updated_at = NOW()
		WHERE company_id = ? AND status = ? AND id IN (?)`,
		domain.StatusPODownloaded, companyID, domain.StatusSupplying, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build status update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark rows downloaded: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, companyID int64, ids []int64, status domain.OrderStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`
		UPDATE order_rows
		SET status = ?, updated_at = NOW()
		WHERE company_id = ? AND id IN (?)`, status, companyID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build status update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update row status: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

func (r *orderRepository) DeleteRows(ctx context.Context, companyID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		DELETE FROM order_rows WHERE company_id = ? AND id IN (?)`, companyID, ids)
	if err != nil {
		return fmt.Errorf("failed to build row delete: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete order rows: %w", err)
	}
	return nil
}
