// backend-go/internal/domain/json.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RowData is an order row's dynamic payload, keyed by localized header names.
type RowData map[string]any

// StringMap persists a name -> product-code map as JSONB.
type StringMap map[string]string

// Int64Map persists a name -> product-id map as JSONB.
type Int64Map map[string]int64

// StringSlice persists a header row as JSONB.
type StringSlice []string

// TableJSON persists a parsed spreadsheet as JSONB.
type TableJSON Table

// TemplateColumns persists a template's ordered column list as JSONB.
type TemplateColumns []TemplateColumn

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func jsonScan(dst any, src any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(s, dst)
	case string:
		return json.Unmarshal([]byte(s), dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
}

func (m RowData) Value() (driver.Value, error) { return jsonValue(map[string]any(m)) }

func (m *RowData) Scan(src any) error { return jsonScan((*map[string]any)(m), src) }

func (m StringMap) Value() (driver.Value, error) { return jsonValue(map[string]string(m)) }

func (m *StringMap) Scan(src any) error { return jsonScan((*map[string]string)(m), src) }

func (m Int64Map) Value() (driver.Value, error) { return jsonValue(map[string]int64(m)) }

func (m *Int64Map) Scan(src any) error { return jsonScan((*map[string]int64)(m), src) }

func (s StringSlice) Value() (driver.Value, error) { return jsonValue([]string(s)) }

func (s *StringSlice) Scan(src any) error { return jsonScan((*[]string)(s), src) }

func (t TableJSON) Value() (driver.Value, error) { return jsonValue(Table(t)) }

func (t *TableJSON) Scan(src any) error { return jsonScan((*Table)(t), src) }

func (c TemplateColumns) Value() (driver.Value, error) { return jsonValue([]TemplateColumn(c)) }

func (c *TemplateColumns) Scan(src any) error { return jsonScan((*[]TemplateColumn)(c), src) }

// Clone returns a shallow copy so enrichment never mutates a caller's map.
func (m RowData) Clone() RowData {
	out := make(RowData, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
