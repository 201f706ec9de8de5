// backend-go/internal/xlsx/xlsx_test.go
package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParsePadsShortRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"상품명", "수취인명", "수량"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"위젯", "김철수", "1"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"가젯"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	header, rows, err := Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"상품명", "수취인명", "수량"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"위젯", "김철수", "1"}, rows[0])
	assert.Equal(t, []string{"가젯", "", ""}, rows[1])
}

func TestParseRejectsGarbage(t *testing.T) {
	_, _, err := Parse(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestBuildFreshAppliesNumberFormats(t *testing.T) {
	data, err := Build(BuildInput{
		Header: []string{"상품명", "수량", "전화번호"},
		Rows: [][]any{
			{"위젯", int64(3), "01012345678"},
		},
		PhoneCols: map[int]bool{2: true},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetList()[0]

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"위젯", "3", "01012345678"}, rows[1])

	// Numeric cells carry the integer builtin, phone cells the text builtin.
	quantityStyle, err := f.GetCellStyle(sheet, "B2")
	require.NoError(t, err)
	style, err := f.GetStyle(quantityStyle)
	require.NoError(t, err)
	assert.Equal(t, 1, style.NumFmt)

	phoneStyle, err := f.GetCellStyle(sheet, "C2")
	require.NoError(t, err)
	style, err = f.GetStyle(phoneStyle)
	require.NoError(t, err)
	assert.Equal(t, 49, style.NumFmt)
}

func TestBuildFromOriginalReplacesData(t *testing.T) {
	original := excelize.NewFile()
	sheet := original.GetSheetName(0)
	require.NoError(t, original.SetSheetRow(sheet, "A1", &[]any{"상품명", "수량"}))
	require.NoError(t, original.SetSheetRow(sheet, "A2", &[]any{"OLD", "9"}))
	require.NoError(t, original.SetSheetRow(sheet, "A3", &[]any{"OLD", "9"}))
	buf, err := original.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, original.Close())

	data, err := Build(BuildInput{
		Original: buf.Bytes(),
		Header:   []string{"상품명", "수량"},
		Rows: [][]any{
			{"위젯", int64(1)},
		},
	})
	require.NoError(t, err)

	header, rows, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"상품명", "수량"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"위젯", "1"}, rows[0])
}

func TestBuildFromCorruptOriginal(t *testing.T) {
	_, err := Build(BuildInput{
		Original: []byte("not a workbook"),
		Header:   []string{"상품명"},
	})
	assert.Error(t, err)
}
