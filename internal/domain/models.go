// backend-go/internal/domain/models.go
package domain

import (
	"time"
)

// Actor is the authenticated request context: every core operation is scoped
// to a company and a user, with an optional grade ("online" users get
// per-row vendor resolution during confirmation).
type Actor struct {
	UserID    int64  `json:"user_id"`
	CompanyID int64  `json:"company_id"`
	Grade     string `json:"grade"`
}

// GradeOnline marks users whose uploads mix vendors within one file.
const GradeOnline = "online"

func (a Actor) Valid() bool {
	return a.UserID > 0 && a.CompanyID > 0
}

func (a Actor) IsOnline() bool {
	return a.Grade == GradeOnline
}

// Company owns every other entity; all lookups are company-scoped.
type Company struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	CodePrefix string    `json:"code_prefix" db:"code_prefix"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// User is a back-office operator within a company.
type User struct {
	ID        int64     `json:"id" db:"id"`
	CompanyID int64     `json:"company_id" db:"company_id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Grade     string    `json:"grade" db:"grade"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product is a catalog entry. Code is unique within a company; ID is the
// durable identity used when a name changes across catalog revisions.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	CompanyID   int64     `json:"company_id" db:"company_id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	SabangName  string    `json:"sabang_name" db:"sabang_name"`
	CostPrice   int64     `json:"cost_price" db:"cost_price"`
	SalePrice   int64     `json:"sale_price" db:"sale_price"`
	VendorName  string    `json:"vendor_name" db:"vendor_name"`
	IsInhouse   bool      `json:"is_inhouse" db:"is_inhouse"`
	Carrier     string    `json:"carrier" db:"carrier"`
	PackCount   int       `json:"pack_count" db:"pack_count"`
	ShippingFee int64     `json:"shipping_fee" db:"shipping_fee"`
	TaxCategory string    `json:"tax_category" db:"tax_category"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Mall is a sales channel / vendor. Name lookup is case-insensitive with
// exact-match priority.
type Mall struct {
	ID        int64     `json:"id" db:"id"`
	CompanyID int64     `json:"company_id" db:"company_id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Table is a parsed spreadsheet: one header row plus data rows.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// StagedFile is an uploaded spreadsheet pending confirmation. Owned
// exclusively by the uploading user; deleted once confirmed or discarded.
type StagedFile struct {
	ID           string    `json:"id" db:"id"`
	CompanyID    int64     `json:"company_id" db:"company_id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	FileName     string    `json:"file_name" db:"file_name"`
	MallID       *int64    `json:"mall_id" db:"mall_id"`
	MallName     string    `json:"mall_name" db:"mall_name"`
	Table        TableJSON `json:"table" db:"sheet"`
	CodeMap      StringMap `json:"code_map" db:"code_map"`
	ProductIDMap Int64Map  `json:"product_id_map" db:"product_id_map"`
	ObjectKey    string    `json:"object_key" db:"object_key"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Upload is the permanent header of a confirmed batch. OriginalHeader keeps
// the pristine uploaded schema; Header is the working schema after
// confirmation-time column injection.
type Upload struct {
	ID             int64       `json:"id" db:"id"`
	CompanyID      int64       `json:"company_id" db:"company_id"`
	UserID         int64       `json:"user_id" db:"user_id"`
	FileName       string      `json:"file_name" db:"file_name"`
	MallID         *int64      `json:"mall_id" db:"mall_id"`
	VendorName     string      `json:"vendor_name" db:"vendor_name"`
	OriginalHeader StringSlice `json:"original_header" db:"original_header"`
	Header         StringSlice `json:"header" db:"header"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// OrderRow is one fulfillment line. RowData carries the original spreadsheet
// columns keyed by their localized header names, plus injected fields.
// RowOrder preserves the position in the original file regardless of any
// display-time sorting.
type OrderRow struct {
	ID           int64       `json:"id" db:"id"`
	UploadID     int64       `json:"upload_id" db:"upload_id"`
	CompanyID    int64       `json:"company_id" db:"company_id"`
	MallID       *int64      `json:"mall_id" db:"mall_id"`
	VendorName   string      `json:"vendor_name" db:"vendor_name"`
	RowData      RowData     `json:"row_data" db:"row_data"`
	RowOrder     int         `json:"row_order" db:"row_order"`
	Status       OrderStatus `json:"status" db:"status"`
	InternalCode string      `json:"internal_code" db:"internal_code"`
	SabangCode   string      `json:"sabang_code" db:"sabang_code"`
	SupplyPrice  int64       `json:"supply_price" db:"supply_price"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// TemplateColumn is one ordered export column. ColumnKey is the durable join
// key into the field-alias table and must never change once rows reference
// it; DisplayName is the header actually rendered in the exported sheet.
type TemplateColumn struct {
	ColumnKey   string `json:"column_key"`
	ColumnLabel string `json:"column_label"`
	DisplayName string `json:"display_name"`
}

// Template is a per-vendor export column-order specification, optionally
// carrying the vendor's original workbook whose styles are cloned on export.
type Template struct {
	ID        int64           `json:"id" db:"id"`
	CompanyID int64           `json:"company_id" db:"company_id"`
	MallID    *int64          `json:"mall_id" db:"mall_id"`
	Name      string          `json:"name" db:"name"`
	Columns   TemplateColumns `json:"columns" db:"columns"`
	ObjectKey string          `json:"object_key" db:"object_key"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Settlement is a persisted, manually refreshed aggregate over order rows for
// one mall (or purchase vendor) and date range.
type Settlement struct {
	ID              int64     `json:"id" db:"id"`
	CompanyID       int64     `json:"company_id" db:"company_id"`
	MallID          *int64    `json:"mall_id" db:"mall_id"`
	MallName        string    `json:"mall_name" db:"mall_name"`
	StartDate       time.Time `json:"start_date" db:"start_date"`
	EndDate         time.Time `json:"end_date" db:"end_date"`
	OrderCount      int       `json:"order_count" db:"order_count"`
	CancelCount     int       `json:"cancel_count" db:"cancel_count"`
	OrderAmount     int64     `json:"order_amount" db:"order_amount"`
	CancelAmount    int64     `json:"cancel_amount" db:"cancel_amount"`
	SupplyAmount    int64     `json:"supply_amount" db:"supply_amount"`
	TotalProfit     int64     `json:"total_profit" db:"total_profit"`
	NetProfit       int64     `json:"net_profit" db:"net_profit"`
	TotalProfitRate float64   `json:"total_profit_rate" db:"total_profit_rate"`
	NetProfitRate   float64   `json:"net_profit_rate" db:"net_profit_rate"`
	RefreshedAt     time.Time `json:"refreshed_at" db:"refreshed_at"`
}

// OrderFilter selects permanent order rows for listing or export.
type OrderFilter struct {
	StartDate   *time.Time  `json:"start_date"`
	EndDate     *time.Time  `json:"end_date"`
	MallID      *int64      `json:"mall_id"`
	SearchField string      `json:"search_field"`
	SearchValue string      `json:"search_value"`
	Status      OrderStatus `json:"status"`
	Limit       int         `json:"limit"`
	Offset      int         `json:"offset"`
}
