// backend-go/internal/service/fakes_test.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

type fakeProductRepo struct {
	products []domain.Product
}

func (f *fakeProductRepo) GetByID(ctx context.Context, companyID, id int64) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].CompanyID == companyID && f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByCode(ctx context.Context, companyID int64, code string) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].CompanyID == companyID && f.products[i].Code == code {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByExactName(ctx context.Context, companyID int64, name string) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].CompanyID == companyID && f.products[i].Name == name {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) ListAll(ctx context.Context, companyID int64) ([]domain.Product, error) {
	out := make([]domain.Product, 0)
	for _, p := range f.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) List(ctx context.Context, companyID int64, search string, limit, offset int) ([]domain.Product, error) {
	out := make([]domain.Product, 0)
	for _, p := range f.products {
		if p.CompanyID == companyID && (search == "" || strings.Contains(p.Name, search)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Upsert(ctx context.Context, p *domain.Product) (int64, error) {
	f.products = append(f.products, *p)
	return int64(len(f.products)), nil
}

type fakeMallRepo struct {
	malls   []domain.Mall
	lookups int
}

func (f *fakeMallRepo) GetByID(ctx context.Context, companyID, id int64) (*domain.Mall, error) {
	for i := range f.malls {
		if f.malls[i].CompanyID == companyID && f.malls[i].ID == id {
			m := f.malls[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMallRepo) GetByName(ctx context.Context, companyID int64, name string) (*domain.Mall, error) {
	f.lookups++
	for i := range f.malls {
		if f.malls[i].CompanyID == companyID && f.malls[i].Name == name {
			m := f.malls[i]
			return &m, nil
		}
	}
	for i := range f.malls {
		if f.malls[i].CompanyID == companyID && strings.EqualFold(f.malls[i].Name, name) {
			m := f.malls[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMallRepo) List(ctx context.Context, companyID int64) ([]domain.Mall, error) {
	return f.malls, nil
}

func (f *fakeMallRepo) Upsert(ctx context.Context, m *domain.Mall) (int64, error) {
	f.malls = append(f.malls, *m)
	return int64(len(f.malls)), nil
}

type fakeStagedRepo struct {
	files map[string]domain.StagedFile
}

func newFakeStagedRepo() *fakeStagedRepo {
	return &fakeStagedRepo{files: make(map[string]domain.StagedFile)}
}

func (f *fakeStagedRepo) Create(ctx context.Context, file *domain.StagedFile) error {
	f.files[file.ID] = *file
	return nil
}

func (f *fakeStagedRepo) GetByIDs(ctx context.Context, companyID int64, ids []string) ([]domain.StagedFile, error) {
	out := make([]domain.StagedFile, 0, len(ids))
	for _, id := range ids {
		file, ok := f.files[id]
		if ok && file.CompanyID == companyID {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *fakeStagedRepo) ListByUser(ctx context.Context, companyID, userID int64) ([]domain.StagedFile, error) {
	out := make([]domain.StagedFile, 0)
	for _, file := range f.files {
		if file.CompanyID == companyID && file.UserID == userID {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *fakeStagedRepo) UpdateMaps(ctx context.Context, id string, codeMap domain.StringMap, productIDMap domain.Int64Map) error {
	file, ok := f.files[id]
	if !ok {
		return nil
	}
	file.CodeMap = codeMap
	file.ProductIDMap = productIDMap
	f.files[id] = file
	return nil
}

func (f *fakeStagedRepo) Delete(ctx context.Context, companyID, userID int64, id string) error {
	file, ok := f.files[id]
	if ok && file.CompanyID == companyID && file.UserID == userID {
		delete(f.files, id)
	}
	return nil
}

type fakeOrderRepo struct {
	staged *fakeStagedRepo

	uploads    []domain.Upload
	rows       []domain.OrderRow
	seqs       map[[2]int64]int64
	nextUpload int64
	nextRow    int64
}

func newFakeOrderRepo(staged *fakeStagedRepo) *fakeOrderRepo {
	return &fakeOrderRepo{staged: staged, seqs: make(map[[2]int64]int64)}
}

func (f *fakeOrderRepo) ExistingFileNames(ctx context.Context, companyID int64, names []string) ([]string, error) {
	var out []string
	for _, name := range names {
		for _, u := range f.uploads {
			if u.CompanyID == companyID && u.FileName == name {
				out = append(out, name)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ReserveCodes(ctx context.Context, companyID, mallID int64, count int) (int64, error) {
	key := [2]int64{companyID, mallID}
	f.seqs[key] += int64(count)
	return f.seqs[key], nil
}

func (f *fakeOrderRepo) SaveConfirmed(ctx context.Context, batch []*repository.ConfirmedUpload, stagedFileIDs []string) ([]repository.SavedUpload, error) {
	saved := make([]repository.SavedUpload, 0, len(batch))
	for _, cu := range batch {
		f.nextUpload++
		upload := cu.Upload
		upload.ID = f.nextUpload
		f.uploads = append(f.uploads, upload)

		rowIDs := make([]int64, 0, len(cu.Rows))
		for _, row := range cu.Rows {
			f.nextRow++
			row.ID = f.nextRow
			row.UploadID = upload.ID
			row.CreatedAt = time.Now()
			f.rows = append(f.rows, row)
			rowIDs = append(rowIDs, row.ID)
		}
		saved = append(saved, repository.SavedUpload{UploadID: upload.ID, RowIDs: rowIDs})
	}
	if f.staged != nil {
		for _, id := range stagedFileIDs {
			delete(f.staged.files, id)
		}
	}
	return saved, nil
}

func (f *fakeOrderRepo) ListRows(ctx context.Context, companyID int64, filter domain.OrderFilter) ([]domain.OrderRow, error) {
	out := make([]domain.OrderRow, 0)
	for _, row := range f.rows {
		if row.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.MallID != nil && (row.MallID == nil || *row.MallID != *filter.MallID) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeOrderRepo) GetRowsByIDs(ctx context.Context, companyID int64, ids []int64) ([]domain.OrderRow, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]domain.OrderRow, 0, len(ids))
	for _, row := range f.rows {
		if row.CompanyID == companyID && want[row.ID] {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) MarkPODownloaded(ctx context.Context, companyID int64, ids []int64) (int64, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var affected int64
	for i := range f.rows {
		row := &f.rows[i]
		if row.CompanyID == companyID && want[row.ID] && row.Status == domain.StatusSupplying {
			row.Status = domain.StatusPODownloaded
			affected++
		}
	}
	return affected, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, companyID int64, ids []int64, status domain.OrderStatus) (int64, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var affected int64
	for i := range f.rows {
		if f.rows[i].CompanyID == companyID && want[f.rows[i].ID] {
			f.rows[i].Status = status
			affected++
		}
	}
	return affected, nil
}

func (f *fakeOrderRepo) DeleteRows(ctx context.Context, companyID int64, ids []int64) error {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.CompanyID == companyID && want[row.ID] {
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return nil
}

type fakeTemplateRepo struct {
	templates []domain.Template
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, companyID, id int64) (*domain.Template, error) {
	for i := range f.templates {
		if f.templates[i].CompanyID == companyID && f.templates[i].ID == id {
			t := f.templates[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeTemplateRepo) List(ctx context.Context, companyID int64) ([]domain.Template, error) {
	return f.templates, nil
}

func (f *fakeTemplateRepo) Create(ctx context.Context, t *domain.Template) (int64, error) {
	f.templates = append(f.templates, *t)
	return int64(len(f.templates)), nil
}
