// backend-go/internal/service/export.go
package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
	"github.com/orderdesk/backend-go/internal/storage"
	"github.com/orderdesk/backend-go/internal/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// recipientMarker is prefixed onto recipient-name cells on export. Applied
// idempotently, never doubled.
const recipientMarker = "*"

// ExportOptions tune one export call.
type ExportOptions struct {
	// IsInhouse keeps only rows whose resolved product is fulfilled in-house.
	IsInhouse bool `json:"is_inhouse"`
	// PreferSabangName renders the vendor-facing product name in the
	// product-name column when the catalog has one.
	PreferSabangName bool `json:"prefer_sabang_name"`
}

// ExportRequest selects the rows: an explicit id list, a filter, or neither
// (all rows for the company). At most one selector may be set.
type ExportRequest struct {
	TemplateID int64               `json:"template_id"`
	RowIDs     []int64             `json:"row_ids"`
	Filter     *domain.OrderFilter `json:"filter"`
	Options    ExportOptions       `json:"options"`
}

type ExportResult struct {
	Data        []byte
	FileName    string
	ContentType string
}

// ExportService shapes permanent order rows into a vendor template and
// materializes the spreadsheet, cloning styles from the template's original
// workbook when one is stored.
type ExportService struct {
	orders    repository.OrderRepository
	templates repository.TemplateRepository
	products  repository.ProductRepository
	store     storage.ObjectStorage
	collator  *collate.Collator

	// cjAllowCodes is the fixed product allow-list for the CJ outsource
	// convention.
	cjAllowCodes map[string]bool
}

func NewExportService(
	orders repository.OrderRepository,
	templates repository.TemplateRepository,
	products repository.ProductRepository,
	store storage.ObjectStorage,
	cjAllowCodes []string,
) *ExportService {
	allow := make(map[string]bool, len(cjAllowCodes))
	for _, code := range cjAllowCodes {
		allow[strings.TrimSpace(code)] = true
	}
	return &ExportService{
		orders:       orders,
		templates:    templates,
		products:     products,
		store:        store,
		collator:     collate.New(language.Korean),
		cjAllowCodes: allow,
	}
}

// exportRow is one order row plus its catalog enrichment and sort keys.
type exportRow struct {
	row           domain.OrderRow
	product       *domain.Product
	productName   string
	recipientName string
}

// Export resolves the template, loads and enriches the selected rows, maps
// them into the template's column order, sorts, and writes the workbook. As a
// side effect, purchase-order templates advance exported rows still in
// supplying to po_downloaded.
func (s *ExportService) Export(ctx context.Context, actor domain.Actor, req ExportRequest) (*ExportResult, error) {
	if !actor.Valid() {
		return nil, domain.ErrBadRequest
	}
	if len(req.RowIDs) > 0 && req.Filter != nil {
		return nil, domain.ErrBadRequest
	}

	tpl, err := s.templates.GetByID(ctx, actor.CompanyID, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, domain.ErrNotFound
	}
	if len(tpl.Columns) == 0 {
		return nil, domain.ErrInvalidTemplate
	}

	columns := append(domain.TemplateColumns{}, tpl.Columns...)
	cj := IsCJOutsourceTemplate(tpl.Name)
	if cj {
		columns = ApplyCJOutsourceColumns(columns)
	}

	rows, err := s.loadRows(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	exports, err := s.enrichRows(ctx, actor, rows, req.Options)
	if err != nil {
		return nil, err
	}
	if cj {
		exports = s.filterCJRows(exports)
		if len(exports) == 0 {
			return nil, domain.ErrNoData
		}
	}

	sort.SliceStable(exports, func(i, j int) bool {
		if c := s.collator.CompareString(exports[i].productName, exports[j].productName); c != 0 {
			return c < 0
		}
		return s.collator.CompareString(exports[i].recipientName, exports[j].recipientName) < 0
	})

	header := make([]string, len(columns))
	phoneCols := make(map[int]bool)
	for i, col := range columns {
		header[i] = col.DisplayName
		if header[i] == "" {
			header[i] = col.ColumnLabel
		}
		if domain.IsPhoneHeader(header[i]) {
			phoneCols[i] = true
		}
	}

	cells := make([][]any, 0, len(exports))
	for _, er := range exports {
		cells = append(cells, s.mapRow(er, columns, req.Options))
	}

	var original []byte
	if tpl.ObjectKey != "" {
		original, err = s.store.GetObject(ctx, tpl.ObjectKey)
		if err != nil {
			return nil, &domain.CorruptTemplateError{Err: err}
		}
	}

	data, err := xlsx.Build(xlsx.BuildInput{
		Original:  original,
		Header:    header,
		Rows:      cells,
		PhoneCols: phoneCols,
	})
	if err != nil {
		if original != nil {
			return nil, &domain.CorruptTemplateError{Err: err}
		}
		return nil, err
	}

	if IsPurchaseOrderTemplate(tpl.Name) {
		ids := make([]int64, 0, len(exports))
		for _, er := range exports {
			ids = append(ids, er.row.ID)
		}
		advanced, err := s.orders.MarkPODownloaded(ctx, actor.CompanyID, ids)
		if err != nil {
			log.Error().Err(err).Int64("template_id", tpl.ID).Msg("failed to advance exported rows")
		} else if advanced > 0 {
			log.Info().Int64("rows", advanced).Int64("template_id", tpl.ID).Msg("rows marked po_downloaded")
		}
	}

	return &ExportResult{
		Data:        data,
		FileName:    fmt.Sprintf("%s_%s.xlsx", tpl.Name, time.Now().Format("20060102")),
		ContentType: xlsxContentType,
	}, nil
}

func (s *ExportService) loadRows(ctx context.Context, actor domain.Actor, req ExportRequest) ([]domain.OrderRow, error) {
	if len(req.RowIDs) > 0 {
		return s.orders.GetRowsByIDs(ctx, actor.CompanyID, req.RowIDs)
	}
	filter := domain.OrderFilter{}
	if req.Filter != nil {
		filter = *req.Filter
	}
	return s.orders.ListRows(ctx, actor.CompanyID, filter)
}

// enrichRows overlays current catalog data on each row: the stored product id
// wins over the stored product code, so catalog renames do not break
// historical rows. A sale price from the catalog overrides the copied one; a
// blank vendor-facing name removes the stale copy instead of leaving it.
func (s *ExportService) enrichRows(ctx context.Context, actor domain.Actor, rows []domain.OrderRow, opts ExportOptions) ([]exportRow, error) {
	byID := make(map[int64]*domain.Product)
	byCode := make(map[string]*domain.Product)

	out := make([]exportRow, 0, len(rows))
	for _, row := range rows {
		data := row.RowData.Clone()
		row.RowData = data

		product, err := s.resolveProduct(ctx, actor.CompanyID, data, byID, byCode)
		if err != nil {
			return nil, err
		}
		if product != nil {
			if product.SalePrice > 0 {
				data[domain.RowKeySalePrice] = product.SalePrice
			}
			if product.SabangName != "" {
				data[domain.RowKeySabangName] = product.SabangName
			} else {
				delete(data, domain.RowKeySabangName)
			}
		} else {
			log.Debug().Str("internal_code", row.InternalCode).Msg("no catalog match for exported row")
		}

		if opts.IsInhouse && (product == nil || !product.IsInhouse) {
			continue
		}

		out = append(out, exportRow{
			row:           row,
			product:       product,
			productName:   stringField(data, domain.FieldProductName),
			recipientName: stringField(data, domain.FieldRecipientName),
		})
	}
	return out, nil
}

func (s *ExportService) resolveProduct(
	ctx context.Context,
	companyID int64,
	data domain.RowData,
	byID map[int64]*domain.Product,
	byCode map[string]*domain.Product,
) (*domain.Product, error) {
	if raw, ok := domain.FieldValue(data, domain.FieldProductID); ok {
		if id := digitsToInt64(fmt.Sprint(raw)); id > 0 {
			if p, seen := byID[id]; seen {
				return p, nil
			}
			p, err := s.products.GetByID(ctx, companyID, id)
			if err != nil {
				return nil, err
			}
			byID[id] = p
			if p != nil {
				return p, nil
			}
		}
	}
	if raw, ok := domain.FieldValue(data, domain.FieldProductCode); ok {
		code := strings.TrimSpace(fmt.Sprint(raw))
		if code != "" {
			if p, seen := byCode[code]; seen {
				return p, nil
			}
			p, err := s.products.GetByCode(ctx, companyID, code)
			if err != nil {
				return nil, err
			}
			byCode[code] = p
			return p, nil
		}
	}
	return nil, nil
}

// filterCJRows keeps in-house rows whose product code is on the CJ allow-list.
func (s *ExportService) filterCJRows(rows []exportRow) []exportRow {
	out := make([]exportRow, 0, len(rows))
	for _, er := range rows {
		if er.product == nil || !er.product.IsInhouse {
			continue
		}
		if !s.cjAllowCodes[er.product.Code] {
			continue
		}
		out = append(out, er)
	}
	return out
}

// mapRow projects one enriched row into the template's column order.
func (s *ExportService) mapRow(er exportRow, columns domain.TemplateColumns, opts ExportOptions) []any {
	data := er.row.RowData
	cells := make([]any, len(columns))
	for i, col := range columns {
		key := domain.CanonicalKey(col.ColumnKey)
		switch {
		case key == "":
			cells[i] = ""
		case key == domain.FieldCompanyName:
			cells[i] = er.row.VendorName
		case key == domain.FieldInternalCode:
			cells[i] = er.row.InternalCode
		case key == domain.FieldRecipientName:
			cells[i] = markRecipient(er.recipientName)
		case key == domain.FieldProductName && opts.PreferSabangName:
			if sabang := stringField(data, domain.FieldSabangName); sabang != "" {
				cells[i] = sabang
			} else {
				cells[i] = er.productName
			}
		default:
			v, ok := domain.FieldValue(data, key)
			if !ok || v == nil {
				cells[i] = ""
				continue
			}
			cells[i] = normalizeCell(v)
		}
	}
	return cells
}

// markRecipient prefixes the marker exactly once.
func markRecipient(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, recipientMarker) {
		return name
	}
	return recipientMarker + name
}

// normalizeCell converts digit-only strings to integers so spreadsheet cells
// get a numeric format; everything else passes through.
func normalizeCell(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || len(trimmed) > 18 {
		return s
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return s
		}
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return s
	}
	return n
}

func stringField(data domain.RowData, key string) string {
	v, ok := domain.FieldValue(data, key)
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// IsCJOutsourceTemplate reports whether a template follows the CJ outsource
// naming convention.
func IsCJOutsourceTemplate(name string) bool {
	return strings.Contains(name, "외주") && strings.Contains(name, "CJ")
}

// IsPurchaseOrderTemplate reports whether downloading this template counts as
// a purchase-order download for the status pipeline.
func IsPurchaseOrderTemplate(name string) bool {
	return strings.Contains(name, "발주")
}

// ApplyCJOutsourceColumns is the one-off schema patch for the CJ outsource
// convention: a blank column right after the second address-like column, and
// a vendor-name column right after the first box-count column. Both inserts
// skip when the target is already present.
func ApplyCJOutsourceColumns(columns domain.TemplateColumns) domain.TemplateColumns {
	out := append(domain.TemplateColumns{}, columns...)

	addressSeen := 0
	for i, col := range out {
		if !domain.IsAddressHeader(col.DisplayName) {
			continue
		}
		addressSeen++
		if addressSeen < 2 {
			continue
		}
		if i+1 >= len(out) || out[i+1].ColumnKey != "" || out[i+1].DisplayName != "" {
			blank := domain.TemplateColumn{}
			out = append(out[:i+1], append(domain.TemplateColumns{blank}, out[i+1:]...)...)
		}
		break
	}

	hasCompany := false
	for _, col := range out {
		if domain.CanonicalKey(col.ColumnKey) == domain.FieldCompanyName {
			hasCompany = true
			break
		}
	}
	if !hasCompany {
		for i, col := range out {
			if !domain.IsBoxHeader(col.DisplayName) {
				continue
			}
			company := domain.TemplateColumn{
				ColumnKey:   domain.FieldCompanyName,
				ColumnLabel: "업체명",
				DisplayName: "업체명",
			}
			out = append(out[:i+1], append(domain.TemplateColumns{company}, out[i+1:]...)...)
			break
		}
	}

	return out
}
