// backend-go/internal/service/staging_test.go
package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/storage"
)

func workbookBytes(t *testing.T, header []string, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, name))
	}
	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

type stagingFixture struct {
	staged   *fakeStagedRepo
	malls    *fakeMallRepo
	products *fakeProductRepo
	store    *storage.MemoryStorage
	service  *StagingService
}

func newStagingFixture() *stagingFixture {
	staged := newFakeStagedRepo()
	malls := &fakeMallRepo{malls: []domain.Mall{
		{ID: 10, CompanyID: 1, Name: "쿠팡", Code: "CP"},
	}}
	products := &fakeProductRepo{products: []domain.Product{
		{ID: 7, CompanyID: 1, Code: "P-100", Name: "위젯"},
	}}
	store := storage.NewMemoryStorage()
	return &stagingFixture{
		staged:   staged,
		malls:    malls,
		products: products,
		store:    store,
		service:  NewStagingService(staged, malls, products, store),
	}
}

func TestStageParsesAndStoresOriginal(t *testing.T) {
	f := newStagingFixture()
	raw := workbookBytes(t,
		[]string{"상품명", "수취인명", "수량"},
		[][]string{
			{"위젯", "김철수", "1"},
			{"가젯"},
		})

	file, err := f.service.Stage(context.Background(), testActor(), "orders.xlsx", bytes.NewReader(raw), "쿠팡")
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.NotEmpty(t, file.ID)
	assert.Equal(t, "orders.xlsx", file.FileName)
	require.NotNil(t, file.MallID)
	assert.Equal(t, int64(10), *file.MallID)
	assert.Equal(t, "쿠팡", file.MallName)

	assert.Equal(t, []string{"상품명", "수취인명", "수량"}, file.Table.Header)
	require.Len(t, file.Table.Rows, 2)
	// Short rows are padded to the header width.
	assert.Equal(t, []string{"가젯", "", ""}, file.Table.Rows[1])

	stored, err := f.store.GetObject(context.Background(), file.ObjectKey)
	require.NoError(t, err)
	assert.Equal(t, raw, stored)
	assert.Contains(t, f.staged.files, file.ID)
}

func TestStageUnknownVendorStillStages(t *testing.T) {
	f := newStagingFixture()
	raw := workbookBytes(t, []string{"상품명"}, [][]string{{"위젯"}})

	file, err := f.service.Stage(context.Background(), testActor(), "orders.xlsx", bytes.NewReader(raw), "없는몰")
	require.NoError(t, err)
	assert.Nil(t, file.MallID)
	assert.Equal(t, "없는몰", file.MallName)
}

func TestStageRejectsUnreadableWorkbook(t *testing.T) {
	f := newStagingFixture()

	_, err := f.service.Stage(context.Background(), testActor(), "bad.xlsx", bytes.NewReader([]byte("not a workbook")), "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Empty(t, f.staged.files)
}

func TestAssignCodeRecordsProductID(t *testing.T) {
	f := newStagingFixture()
	f.staged.files["f1"] = domain.StagedFile{
		ID: "f1", CompanyID: 1, UserID: 1, FileName: "orders.xlsx",
		CodeMap: domain.StringMap{}, ProductIDMap: domain.Int64Map{},
	}

	// A catalog code records both maps.
	file, err := f.service.AssignCode(context.Background(), testActor(), "f1", "위젯 대용량", "P-100")
	require.NoError(t, err)
	assert.Equal(t, "P-100", file.CodeMap["위젯 대용량"])
	assert.Equal(t, int64(7), file.ProductIDMap["위젯 대용량"])

	// A direct-input code keeps the code and drops the stale id.
	file, err = f.service.AssignCode(context.Background(), testActor(), "f1", "위젯 대용량", "MANUAL-1")
	require.NoError(t, err)
	assert.Equal(t, "MANUAL-1", file.CodeMap["위젯 대용량"])
	assert.NotContains(t, file.ProductIDMap, "위젯 대용량")

	stored := f.staged.files["f1"]
	assert.Equal(t, "MANUAL-1", stored.CodeMap["위젯 대용량"])
}

func TestDiscardRemovesFileAndObject(t *testing.T) {
	f := newStagingFixture()
	require.NoError(t, f.store.PutObject(context.Background(), "staged/1/f1.xlsx", []byte("raw")))
	f.staged.files["f1"] = domain.StagedFile{
		ID: "f1", CompanyID: 1, UserID: 1, ObjectKey: "staged/1/f1.xlsx",
	}

	require.NoError(t, f.service.Discard(context.Background(), testActor(), "f1"))
	assert.Empty(t, f.staged.files)

	_, err := f.store.GetObject(context.Background(), "staged/1/f1.xlsx")
	assert.Error(t, err)
}

func TestStagedFileOwnership(t *testing.T) {
	f := newStagingFixture()
	f.staged.files["theirs"] = domain.StagedFile{ID: "theirs", CompanyID: 1, UserID: 2}

	_, err := f.service.AssignCode(context.Background(), testActor(), "missing", "위젯", "P-100")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.service.Discard(context.Background(), testActor(), "theirs")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, f.staged.files, "theirs")
}
