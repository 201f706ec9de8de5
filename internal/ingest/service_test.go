// backend-go/internal/ingest/service_test.go
package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/service"
	"github.com/orderdesk/backend-go/internal/storage"
)

type memStagedRepo struct {
	files map[string]domain.StagedFile
}

func (m *memStagedRepo) Create(ctx context.Context, f *domain.StagedFile) error {
	m.files[f.ID] = *f
	return nil
}

func (m *memStagedRepo) GetByIDs(ctx context.Context, companyID int64, ids []string) ([]domain.StagedFile, error) {
	out := make([]domain.StagedFile, 0, len(ids))
	for _, id := range ids {
		if f, ok := m.files[id]; ok && f.CompanyID == companyID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memStagedRepo) ListByUser(ctx context.Context, companyID, userID int64) ([]domain.StagedFile, error) {
	out := make([]domain.StagedFile, 0)
	for _, f := range m.files {
		if f.CompanyID == companyID && f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memStagedRepo) UpdateMaps(ctx context.Context, id string, codeMap domain.StringMap, productIDMap domain.Int64Map) error {
	return nil
}

func (m *memStagedRepo) Delete(ctx context.Context, companyID, userID int64, id string) error {
	delete(m.files, id)
	return nil
}

type stubMallRepo struct{}

func (stubMallRepo) GetByID(ctx context.Context, companyID, id int64) (*domain.Mall, error) {
	return nil, nil
}
func (stubMallRepo) GetByName(ctx context.Context, companyID int64, name string) (*domain.Mall, error) {
	return nil, nil
}
func (stubMallRepo) List(ctx context.Context, companyID int64) ([]domain.Mall, error) {
	return nil, nil
}
func (stubMallRepo) Upsert(ctx context.Context, m *domain.Mall) (int64, error) { return 0, nil }

type stubProductRepo struct{}

func (stubProductRepo) GetByID(ctx context.Context, companyID, id int64) (*domain.Product, error) {
	return nil, nil
}
func (stubProductRepo) GetByCode(ctx context.Context, companyID int64, code string) (*domain.Product, error) {
	return nil, nil
}
func (stubProductRepo) GetByExactName(ctx context.Context, companyID int64, name string) (*domain.Product, error) {
	return nil, nil
}
func (stubProductRepo) ListAll(ctx context.Context, companyID int64) ([]domain.Product, error) {
	return nil, nil
}
func (stubProductRepo) List(ctx context.Context, companyID int64, search string, limit, offset int) ([]domain.Product, error) {
	return nil, nil
}
func (stubProductRepo) Upsert(ctx context.Context, p *domain.Product) (int64, error) { return 0, nil }

func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "상품명"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "위젯"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestScanStagesAndParksSpreadsheets(t *testing.T) {
	store := storage.NewMemoryStorage()
	staged := &memStagedRepo{files: make(map[string]domain.StagedFile)}
	staging := service.NewStagingService(staged, stubMallRepo{}, stubProductRepo{}, store)

	ctx := context.Background()
	require.NoError(t, store.PutObject(ctx, "inbox/orders.xlsx", workbookBytes(t)))
	require.NoError(t, store.PutObject(ctx, "inbox/readme.txt", []byte("ignore me")))
	// A broken workbook is skipped and left in the inbox for the next scan.
	require.NoError(t, store.PutObject(ctx, "inbox/broken.xlsx", []byte("not a workbook")))

	svc := NewService(store, staging, "inbox/", domain.Actor{UserID: 1, CompanyID: 1})
	result, err := svc.Scan(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 1, result.Staged)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, []string{"orders.xlsx"}, result.Files)

	// The handled object moved out of the inbox.
	_, err = store.GetObject(ctx, "inbox/orders.xlsx")
	assert.Error(t, err)
	_, err = store.GetObject(ctx, "processed/orders.xlsx")
	assert.NoError(t, err)

	// The failing one stayed put.
	_, err = store.GetObject(ctx, "inbox/broken.xlsx")
	assert.NoError(t, err)

	files, err := staged.ListByUser(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "orders.xlsx", files[0].FileName)
}

func TestScanRequiresConfiguredActor(t *testing.T) {
	store := storage.NewMemoryStorage()
	staging := service.NewStagingService(&memStagedRepo{files: map[string]domain.StagedFile{}}, stubMallRepo{}, stubProductRepo{}, store)

	svc := NewService(store, staging, "inbox/", domain.Actor{})
	_, err := svc.Scan(context.Background())
	assert.Error(t, err)
}

func TestRescanSkipsParkedObjects(t *testing.T) {
	store := storage.NewMemoryStorage()
	staged := &memStagedRepo{files: make(map[string]domain.StagedFile)}
	staging := service.NewStagingService(staged, stubMallRepo{}, stubProductRepo{}, store)

	ctx := context.Background()
	require.NoError(t, store.PutObject(ctx, "inbox/orders.xlsx", workbookBytes(t)))

	svc := NewService(store, staging, "inbox/", domain.Actor{UserID: 1, CompanyID: 1})
	first, err := svc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Staged)

	second, err := svc.Scan(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Scanned)
	assert.Zero(t, second.Staged)
}
