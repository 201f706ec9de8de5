// backend-go/cmd/seed/seeders_test.go
package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backend-go/internal/domain"
)

type seedProductRepo struct {
	upserted []domain.Product
}

func (f *seedProductRepo) GetByID(ctx context.Context, companyID, id int64) (*domain.Product, error) {
	return nil, nil
}

func (f *seedProductRepo) GetByCode(ctx context.Context, companyID int64, code string) (*domain.Product, error) {
	return nil, nil
}

func (f *seedProductRepo) GetByExactName(ctx context.Context, companyID int64, name string) (*domain.Product, error) {
	return nil, nil
}

func (f *seedProductRepo) ListAll(ctx context.Context, companyID int64) ([]domain.Product, error) {
	return nil, nil
}

func (f *seedProductRepo) List(ctx context.Context, companyID int64, search string, limit, offset int) ([]domain.Product, error) {
	return nil, nil
}

func (f *seedProductRepo) Upsert(ctx context.Context, p *domain.Product) (int64, error) {
	f.upserted = append(f.upserted, *p)
	return int64(len(f.upserted)), nil
}

type seedMallRepo struct {
	upserted []domain.Mall
	byName   map[string]domain.Mall
}

func (f *seedMallRepo) GetByID(ctx context.Context, companyID, id int64) (*domain.Mall, error) {
	return nil, nil
}

func (f *seedMallRepo) GetByName(ctx context.Context, companyID int64, name string) (*domain.Mall, error) {
	m, ok := f.byName[name]
	if !ok || m.CompanyID != companyID {
		return nil, nil
	}
	return &m, nil
}

func (f *seedMallRepo) List(ctx context.Context, companyID int64) ([]domain.Mall, error) {
	return nil, nil
}

func (f *seedMallRepo) Upsert(ctx context.Context, m *domain.Mall) (int64, error) {
	f.upserted = append(f.upserted, *m)
	return int64(len(f.upserted)), nil
}

type seedTemplateRepo struct {
	created []domain.Template
}

func (f *seedTemplateRepo) GetByID(ctx context.Context, companyID, id int64) (*domain.Template, error) {
	return nil, nil
}

func (f *seedTemplateRepo) List(ctx context.Context, companyID int64) ([]domain.Template, error) {
	return nil, nil
}

func (f *seedTemplateRepo) Create(ctx context.Context, t *domain.Template) (int64, error) {
	f.created = append(f.created, *t)
	return int64(len(f.created)), nil
}

type seedUserRepo struct {
	upserted []domain.User
}

func (f *seedUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return nil, nil
}

func (f *seedUserRepo) Upsert(ctx context.Context, u *domain.User) (int64, error) {
	f.upserted = append(f.upserted, *u)
	return int64(len(f.upserted)), nil
}

func TestLoadProducts(t *testing.T) {
	csv := strings.Join([]string{
		"code,name,sabang_name,cost_price,sale_price,vendor_name,is_inhouse,carrier,pack_count,shipping_fee,tax_category",
		"P-001,유기농 사과즙,사방 사과즙,4500,9900,쿠팡,true,CJ,30,2500,과세",
		"P-002,배도라지즙,,5000,12000,스마트스토어,0,로젠,50,0,면세",
	}, "\n")

	repo := &seedProductRepo{}
	count, err := loadProducts(context.Background(), repo, 1, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, repo.upserted, 2)

	p := repo.upserted[0]
	assert.Equal(t, int64(1), p.CompanyID)
	assert.Equal(t, "P-001", p.Code)
	assert.Equal(t, "유기농 사과즙", p.Name)
	assert.Equal(t, int64(4500), p.CostPrice)
	assert.Equal(t, int64(9900), p.SalePrice)
	assert.True(t, p.IsInhouse)
	assert.Equal(t, 30, p.PackCount)
	assert.False(t, repo.upserted[1].IsInhouse)
}

func TestLoadProductsSkipsShortRows(t *testing.T) {
	reader := strings.NewReader("code,name\nP-001,사과즙\n")

	repo := &seedProductRepo{}
	count, err := loadProducts(context.Background(), repo, 1, reader)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, repo.upserted)
}

func TestLoadMalls(t *testing.T) {
	reader := strings.NewReader("name,code\n쿠팡,CP\n스마트스토어,SS\n")

	repo := &seedMallRepo{}
	count, err := loadMalls(context.Background(), repo, 1, reader)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, repo.upserted, 2)
	assert.Equal(t, "쿠팡", repo.upserted[0].Name)
	assert.Equal(t, "CP", repo.upserted[0].Code)
	assert.Equal(t, int64(1), repo.upserted[0].CompanyID)
}

func TestLoadTemplatesResolvesMallByName(t *testing.T) {
	raw := []byte(`[
		{
			"name": "쿠팡 발주서",
			"mall_name": "쿠팡",
			"object_key": "templates/coupang.xlsx",
			"columns": [{"column_key": "상품명", "column_label": "상품명"}]
		},
		{
			"name": "공용 양식",
			"columns": [{"column_key": "수취인명", "column_label": "수취인명"}]
		}
	]`)

	templates := &seedTemplateRepo{}
	malls := &seedMallRepo{byName: map[string]domain.Mall{
		"쿠팡": {ID: 10, CompanyID: 1, Name: "쿠팡", Code: "CP"},
	}}

	count, err := loadTemplates(context.Background(), templates, malls, 1, raw)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, templates.created, 2)

	first := templates.created[0]
	require.NotNil(t, first.MallID)
	assert.Equal(t, int64(10), *first.MallID)
	assert.Equal(t, "templates/coupang.xlsx", first.ObjectKey)
	assert.Nil(t, templates.created[1].MallID)
}

func TestLoadTemplatesRejectsUnknownMall(t *testing.T) {
	raw := []byte(`[{"name": "양식", "mall_name": "없는몰", "columns": []}]`)

	_, err := loadTemplates(context.Background(), &seedTemplateRepo{}, &seedMallRepo{}, 1, raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "없는몰")
}

func TestLoadUsers(t *testing.T) {
	reader := strings.NewReader("email,name,grade\nadmin@example.com,관리자,admin\nstaff@example.com,직원,online\n")

	repo := &seedUserRepo{}
	count, err := loadUsers(context.Background(), repo, 1, reader)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, repo.upserted, 2)
	assert.Equal(t, "admin@example.com", repo.upserted[0].Email)
	assert.Equal(t, "admin", repo.upserted[0].Grade)
	assert.Equal(t, int64(1), repo.upserted[1].CompanyID)
}
