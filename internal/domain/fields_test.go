// backend-go/internal/domain/fields_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, FieldProductName, CanonicalKey("상품명"))
	assert.Equal(t, FieldProductName, CanonicalKey(" 제품명 "))
	assert.Equal(t, FieldInternalCode, CanonicalKey("관리코드"))
	assert.Equal(t, FieldCompanyName, CanonicalKey("업체명"))
	// Canonical keys pass through unchanged.
	assert.Equal(t, FieldQuantity, CanonicalKey(FieldQuantity))
	// Unknown headers come back trimmed.
	assert.Equal(t, "특이사항", CanonicalKey(" 특이사항 "))
}

func TestFieldValuePriority(t *testing.T) {
	row := RowData{
		"배송메세지": "후순위",
		"배송메시지": "우선",
	}
	v, ok := FieldValue(row, FieldDeliveryMessage)
	require.True(t, ok)
	assert.Equal(t, "우선", v)

	// Canonical key itself works as a payload key.
	row = RowData{FieldQuantity: "3"}
	v, ok = FieldValue(row, FieldQuantity)
	require.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = FieldValue(RowData{}, FieldQuantity)
	assert.False(t, ok)
}

func TestHeaderPredicates(t *testing.T) {
	assert.True(t, IsPhoneHeader("수취인 전화번호"))
	assert.True(t, IsPhoneHeader("핸드폰"))
	assert.False(t, IsPhoneHeader("주소"))

	assert.True(t, IsAddressHeader("수취인주소"))
	assert.False(t, IsAddressHeader("우편번호"))

	assert.True(t, IsBoxHeader("박스수"))
	assert.True(t, IsCompanyNameHeader(" 업체명 "))
	assert.False(t, IsCompanyNameHeader("쇼핑몰명"))
	assert.True(t, IsShopNameHeader("쇼핑몰명"))
	assert.True(t, IsRecipientHeader("받는분"))
	assert.True(t, IsDeliveryMessageHeader("배송메세지"))
}

func TestFindColumn(t *testing.T) {
	header := []string{"상품명", "업체명", "수량"}
	assert.Equal(t, 1, FindColumn(header, IsCompanyNameHeader))
	assert.Equal(t, -1, FindColumn(header, IsPhoneHeader))
}
