// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/orderdesk/backend-go/internal/domain"
)

// Lookup methods return (nil, nil) when no row matches; errors are reserved
// for storage failures.

type ProductRepository interface {
	GetByID(ctx context.Context, companyID, id int64) (*domain.Product, error)
	GetByCode(ctx context.Context, companyID int64, code string) (*domain.Product, error)
	GetByExactName(ctx context.Context, companyID int64, name string) (*domain.Product, error)
	// ListAll returns the whole catalog in insertion (id) order.
	ListAll(ctx context.Context, companyID int64) ([]domain.Product, error)
	List(ctx context.Context, companyID int64, search string, limit, offset int) ([]domain.Product, error)
	Upsert(ctx context.Context, p *domain.Product) (int64, error)
}

type MallRepository interface {
	GetByID(ctx context.Context, companyID, id int64) (*domain.Mall, error)
	// GetByName prefers an exact match and falls back to a case-insensitive
	// one.
	GetByName(ctx context.Context, companyID int64, name string) (*domain.Mall, error)
	List(ctx context.Context, companyID int64) ([]domain.Mall, error)
	Upsert(ctx context.Context, m *domain.Mall) (int64, error)
}

type StagedFileRepository interface {
	Create(ctx context.Context, f *domain.StagedFile) error
	GetByIDs(ctx context.Context, companyID int64, ids []string) ([]domain.StagedFile, error)
	ListByUser(ctx context.Context, companyID, userID int64) ([]domain.StagedFile, error)
	UpdateMaps(ctx context.Context, id string, codeMap domain.StringMap, productIDMap domain.Int64Map) error
	Delete(ctx context.Context, companyID, userID int64, id string) error
}

// ConfirmedUpload is one staged file's fully built permanent form, handed to
// the store for the all-or-nothing write phase of confirmation.
type ConfirmedUpload struct {
	Upload domain.Upload
	Rows   []domain.OrderRow
}

// SavedUpload reports the identities assigned during the write phase.
type SavedUpload struct {
	UploadID int64
	RowIDs   []int64
}

type OrderRepository interface {
	// ExistingFileNames returns the subset of names already confirmed for the
	// company.
	ExistingFileNames(ctx context.Context, companyID int64, names []string) ([]string, error)
	// ReserveCodes advances the per-company, per-mall sequence by count in a
	// single statement and returns the new high-water mark.
	ReserveCodes(ctx context.Context, companyID, mallID int64, count int) (int64, error)
	// SaveConfirmed inserts every upload header and row and deletes the
	// consumed staged files inside one transaction.
	SaveConfirmed(ctx context.Context, batch []*ConfirmedUpload, stagedFileIDs []string) ([]SavedUpload, error)
	ListRows(ctx context.Context, companyID int64, f domain.OrderFilter) ([]domain.OrderRow, error)
	GetRowsByIDs(ctx context.Context, companyID int64, ids []int64) ([]domain.OrderRow, error)
	// MarkPODownloaded advances rows from supplying to po_downloaded in one
	// bulk update; rows already past that state are left untouched.
	MarkPODownloaded(ctx context.Context, companyID int64, ids []int64) (int64, error)
	UpdateStatus(ctx context.Context, companyID int64, ids []int64, status domain.OrderStatus) (int64, error)
	DeleteRows(ctx context.Context, companyID int64, ids []int64) error
}

type TemplateRepository interface {
	GetByID(ctx context.Context, companyID, id int64) (*domain.Template, error)
	List(ctx context.Context, companyID int64) ([]domain.Template, error)
	// Create inserts a template; an existing (company, name) pair is updated
	// in place so seeding can re-run.
	Create(ctx context.Context, t *domain.Template) (int64, error)
}

type SettlementRepository interface {
	// AggregateByMall recomputes grouped sums over order rows for the period.
	AggregateByMall(ctx context.Context, companyID int64, start, end time.Time) ([]domain.Settlement, error)
	Upsert(ctx context.Context, s *domain.Settlement) error
	List(ctx context.Context, companyID int64, start, end *time.Time) ([]domain.Settlement, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Upsert(ctx context.Context, u *domain.User) (int64, error)
}
