// backend-go/internal/domain/fields.go
package domain

import "strings"

// Canonical field keys. Template column_key values join to this table; row
// payloads stay keyed by the localized header names from the uploaded file,
// and Aliases maps those names back onto canonical keys.
const (
	FieldProductName     = "product_name"
	FieldProductCode     = "product_code"
	FieldProductID       = "product_id"
	FieldInternalCode    = "internal_code"
	FieldRecipientName   = "recipient_name"
	FieldOrdererName     = "orderer_name"
	FieldAddress         = "address"
	FieldPostalCode      = "postal_code"
	FieldQuantity        = "quantity"
	FieldSalePrice       = "sale_price"
	FieldSupplyPrice     = "supply_price"
	FieldDeliveryMessage = "delivery_message"
	FieldPhone           = "phone"
	FieldCompanyName     = "company_name"
	FieldShopName        = "shop_name"
	FieldBoxCount        = "box_count"
	FieldSabangName      = "sabang_name"
	FieldOrderStatus     = "order_status"
	FieldOrderNumber     = "order_number"
)

// Row payload keys for fields injected during confirmation. These are the
// localized names the rest of the payload already uses.
const (
	RowKeyProductCode  = "상품코드"
	RowKeyProductID    = "상품ID"
	RowKeyInternalCode = "관리코드"
	RowKeySabangName   = "사방넷품명"
	RowKeySalePrice    = "판매가"
)

// aliasPairs is the field-alias table in priority order: when a row carries
// several aliases of one key, the earlier alias wins.
var aliasPairs = []struct{ Alias, Key string }{
	{"상품명", FieldProductName},
	{"제품명", FieldProductName},
	{"상품코드", FieldProductCode},
	{"상품ID", FieldProductID},
	{"관리코드", FieldInternalCode},
	{"수취인명", FieldRecipientName},
	{"수취인", FieldRecipientName},
	{"받는분", FieldRecipientName},
	{"주문자명", FieldOrdererName},
	{"주문자", FieldOrdererName},
	{"주소", FieldAddress},
	{"수취인주소", FieldAddress},
	{"우편번호", FieldPostalCode},
	{"수량", FieldQuantity},
	{"판매가", FieldSalePrice},
	{"공급가", FieldSupplyPrice},
	{"배송메시지", FieldDeliveryMessage},
	{"배송메세지", FieldDeliveryMessage},
	{"전화번호", FieldPhone},
	{"핸드폰", FieldPhone},
	{"휴대폰", FieldPhone},
	{"연락처", FieldPhone},
	{"업체명", FieldCompanyName},
	{"쇼핑몰명", FieldShopName},
	{"쇼핑몰", FieldShopName},
	{"박스", FieldBoxCount},
	{"박스수", FieldBoxCount},
	{"사방넷품명", FieldSabangName},
	{"주문상태", FieldOrderStatus},
	{"주문번호", FieldOrderNumber},
	{"사방넷주문번호", FieldOrderNumber},
}

// Aliases maps localized header strings onto canonical field keys.
// First-class data, not inferred at runtime; extend aliasPairs rather than
// adding header heuristics to calling code.
var Aliases = func() map[string]string {
	m := make(map[string]string, len(aliasPairs))
	for _, p := range aliasPairs {
		m[p.Alias] = p.Key
	}
	return m
}()

// CanonicalKey resolves a header string to its canonical field key, falling
// back to the trimmed header itself for unmapped columns.
func CanonicalKey(header string) string {
	h := strings.TrimSpace(header)
	if key, ok := Aliases[h]; ok {
		return key
	}
	return h
}

var phoneMarkers = []string{"전화", "전번", "핸드폰", "휴대폰", "연락처"}

// IsPhoneHeader reports whether a column holds phone numbers and must be
// exported as text so leading zeros survive.
func IsPhoneHeader(header string) bool {
	for _, m := range phoneMarkers {
		if strings.Contains(header, m) {
			return true
		}
	}
	return false
}

// IsAddressHeader matches address columns while skipping postal-code columns.
func IsAddressHeader(header string) bool {
	return strings.Contains(header, "주소") && !strings.Contains(header, "우편")
}

func IsBoxHeader(header string) bool {
	return strings.Contains(header, "박스")
}

func IsCompanyNameHeader(header string) bool {
	return CanonicalKey(header) == FieldCompanyName
}

func IsShopNameHeader(header string) bool {
	return CanonicalKey(header) == FieldShopName
}

func IsRecipientHeader(header string) bool {
	return CanonicalKey(header) == FieldRecipientName
}

func IsDeliveryMessageHeader(header string) bool {
	return CanonicalKey(header) == FieldDeliveryMessage
}

// FindColumn returns the index of the first header matching pred, or -1.
func FindColumn(header []string, pred func(string) bool) int {
	for i, h := range header {
		if pred(h) {
			return i
		}
	}
	return -1
}

// FieldValue reads a row payload by canonical key: aliases are tried in
// table order, then the key itself.
func FieldValue(row RowData, key string) (any, bool) {
	for _, p := range aliasPairs {
		if p.Key != key {
			continue
		}
		if v, ok := row[p.Alias]; ok {
			return v, true
		}
	}
	if v, ok := row[key]; ok {
		return v, true
	}
	return nil, false
}
