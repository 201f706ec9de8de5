// backend-go/internal/service/confirm.go
package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

// DeliverySentinel separates vendor text from the appended internal code in a
// delivery-message cell. Everything after the first sentinel is the code
// segment and gets replaced on re-confirmation, never accumulated.
const DeliverySentinel = "★"

// unresolvedMallScope is the shared code-sequence scope for rows whose vendor
// could not be resolved to a mall.
const unresolvedMallScope int64 = 0

// ConfirmService turns staged files into permanent order rows with freshly
// minted, collision-free internal codes. Exactly once per staged file.
type ConfirmService struct {
	staged repository.StagedFileRepository
	orders repository.OrderRepository
	malls  repository.MallRepository

	// codePrefix scopes codes for rows with no resolved mall.
	codePrefix string
}

func NewConfirmService(
	staged repository.StagedFileRepository,
	orders repository.OrderRepository,
	malls repository.MallRepository,
	codePrefix string,
) *ConfirmService {
	if codePrefix == "" {
		codePrefix = "OD"
	}
	return &ConfirmService{
		staged:     staged,
		orders:     orders,
		malls:      malls,
		codePrefix: codePrefix,
	}
}

// ConfirmResult reports what a confirmation run persisted.
type ConfirmResult struct {
	SavedCount int                      `json:"saved_count"`
	TotalRows  int                      `json:"total_rows"`
	Uploads    []ConfirmedUploadSummary `json:"uploads"`
}

type ConfirmedUploadSummary struct {
	UploadID   int64   `json:"upload_id"`
	FileName   string  `json:"file_name"`
	RowCount   int     `json:"row_count"`
	RowIDs     []int64 `json:"row_ids"`
	MallID     *int64  `json:"mall_id"`
	VendorName string  `json:"vendor_name"`
}

// pendingRow is one staged spreadsheet row after vendor resolution, waiting
// for its internal code.
type pendingRow struct {
	fileIdx    int
	rowOrder   int
	vendorName string
	mall       *domain.Mall
	scope      int64
	data       domain.RowData
	code       string
}

// Confirm converts the staged files into permanent uploads and rows.
//
// Preconditions fail the whole batch before any write: unknown or foreign
// staged files, and file names already confirmed for the company. Per-row
// enrichment misses (no catalog match, no mall match) never abort the batch.
// The write phase runs in one transaction, so a mid-batch failure leaves
// permanent storage untouched.
func (s *ConfirmService) Confirm(ctx context.Context, actor domain.Actor, fileIDs []string) (*ConfirmResult, error) {
	if !actor.Valid() {
		return nil, domain.ErrBadRequest
	}
	if len(fileIDs) == 0 {
		return nil, domain.ErrBadRequest
	}

	files, err := s.staged.GetByIDs(ctx, actor.CompanyID, fileIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.StagedFile, len(files))
	for i := range files {
		byID[files[i].ID] = &files[i]
	}

	// The same id submitted twice must not confirm the file twice.
	ordered := make([]*domain.StagedFile, 0, len(fileIDs))
	ids := make([]string, 0, len(fileIDs))
	seenIDs := make(map[string]bool, len(fileIDs))
	for _, id := range fileIDs {
		if seenIDs[id] {
			continue
		}
		seenIDs[id] = true
		f, ok := byID[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if f.UserID != actor.UserID {
			return nil, domain.ErrForbidden
		}
		ordered = append(ordered, f)
		ids = append(ids, id)
	}

	// A name repeated inside the batch would collide on the uploads unique
	// constraint mid-transaction, so reject it up front like an already
	// confirmed name.
	names := make([]string, 0, len(ordered))
	seenNames := make(map[string]bool, len(ordered))
	var repeated []string
	for _, f := range ordered {
		if seenNames[f.FileName] {
			repeated = append(repeated, f.FileName)
			continue
		}
		seenNames[f.FileName] = true
		names = append(names, f.FileName)
	}
	if len(repeated) > 0 {
		return nil, &domain.DuplicateFilenamesError{Names: repeated}
	}
	existing, err := s.orders.ExistingFileNames(ctx, actor.CompanyID, names)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, &domain.DuplicateFilenamesError{Names: existing}
	}

	mc := newMallCache(s.malls, actor.CompanyID)

	pending := make([][]pendingRow, len(ordered))
	perScope := make(map[int64]int)
	for i, f := range ordered {
		rows, err := s.resolveRows(ctx, actor, f, mc)
		if err != nil {
			return nil, err
		}
		pending[i] = rows
		for _, r := range rows {
			perScope[r.scope]++
		}
	}

	starts, err := s.reserveScopes(ctx, actor.CompanyID, perScope)
	if err != nil {
		return nil, err
	}

	batch := make([]*repository.ConfirmedUpload, 0, len(ordered))
	totalRows := 0
	for i, f := range ordered {
		cu := s.buildUpload(actor, f, pending[i], starts)
		totalRows += len(cu.Rows)
		batch = append(batch, cu)
	}

	saved, err := s.orders.SaveConfirmed(ctx, batch, ids)
	if err != nil {
		return nil, err
	}

	result := &ConfirmResult{TotalRows: totalRows, Uploads: make([]ConfirmedUploadSummary, 0, len(saved))}
	for i, su := range saved {
		u := batch[i].Upload
		result.SavedCount += len(su.RowIDs)
		result.Uploads = append(result.Uploads, ConfirmedUploadSummary{
			UploadID:   su.UploadID,
			FileName:   u.FileName,
			RowCount:   len(su.RowIDs),
			RowIDs:     su.RowIDs,
			MallID:     u.MallID,
			VendorName: u.VendorName,
		})
	}
	return result, nil
}

// resolveRows maps each staged row to its vendor and code scope. For online
// users the vendor comes from the row's company-name or shop-name column,
// falling back to the file-level vendor; everyone else shares the file-level
// vendor.
func (s *ConfirmService) resolveRows(ctx context.Context, actor domain.Actor, f *domain.StagedFile, mc *mallCache) ([]pendingRow, error) {
	header := f.Table.Header
	companyCol := domain.FindColumn(header, domain.IsCompanyNameHeader)
	shopCol := domain.FindColumn(header, domain.IsShopNameHeader)

	out := make([]pendingRow, 0, len(f.Table.Rows))
	for rowIdx, cells := range f.Table.Rows {
		vendor := f.MallName
		if actor.IsOnline() {
			if v := cellAt(cells, companyCol); v != "" {
				vendor = v
			} else if v := cellAt(cells, shopCol); v != "" {
				vendor = v
			}
		}

		mall, err := mc.lookup(ctx, vendor)
		if err != nil {
			return nil, err
		}
		scope := unresolvedMallScope
		if mall != nil {
			scope = mall.ID
		} else if vendor != "" {
			log.Debug().Str("vendor", vendor).Str("file", f.FileName).Msg("no mall resolved for vendor")
		}

		data := make(domain.RowData, len(header)+4)
		for col, h := range header {
			key := strings.TrimSpace(h)
			if key == "" {
				continue
			}
			data[key] = cellAt(cells, col)
		}

		out = append(out, pendingRow{
			fileIdx:    rowIdx,
			rowOrder:   rowIdx,
			vendorName: vendor,
			mall:       mall,
			scope:      scope,
			data:       data,
		})
	}
	return out, nil
}

// reserveScopes issues one batched sequence reservation per mall scope and
// returns the first code number of each reserved range.
func (s *ConfirmService) reserveScopes(ctx context.Context, companyID int64, perScope map[int64]int) (map[int64]int64, error) {
	scopes := make([]int64, 0, len(perScope))
	for scope := range perScope {
		scopes = append(scopes, scope)
	}
	sort.Slice(scopes, func(i, j int) bool { return scopes[i] < scopes[j] })

	starts := make(map[int64]int64, len(scopes))
	for _, scope := range scopes {
		count := perScope[scope]
		last, err := s.orders.ReserveCodes(ctx, companyID, scope, count)
		if err != nil {
			return nil, err
		}
		starts[scope] = last - int64(count) + 1
	}
	return starts, nil
}

// buildUpload assembles the permanent form of one staged file: internal codes
// minted in original row order, product code/id injected from the file's
// name maps, delivery message stamped for non-online users.
func (s *ConfirmService) buildUpload(actor domain.Actor, f *domain.StagedFile, rows []pendingRow, starts map[int64]int64) *repository.ConfirmedUpload {
	var fileMallID *int64
	fileVendor := f.MallName
	orderRows := make([]domain.OrderRow, 0, len(rows))

	for i := range rows {
		r := &rows[i]

		seq := starts[r.scope]
		starts[r.scope] = seq + 1
		r.code = fmt.Sprintf("%s-%06d", s.scopePrefix(r.mall), seq)

		row := s.buildRow(actor, f, r)
		orderRows = append(orderRows, row)

		if r.mall != nil && fileMallID == nil {
			id := r.mall.ID
			fileMallID = &id
		}
	}
	if fileMallID == nil && f.MallID != nil {
		fileMallID = f.MallID
	}

	upload := domain.Upload{
		CompanyID:      actor.CompanyID,
		UserID:         actor.UserID,
		FileName:       f.FileName,
		MallID:         fileMallID,
		VendorName:     fileVendor,
		OriginalHeader: append(domain.StringSlice{}, f.Table.Header...),
		Header:         workingHeader(f.Table.Header),
	}
	return &repository.ConfirmedUpload{Upload: upload, Rows: orderRows}
}

func (s *ConfirmService) buildRow(actor domain.Actor, f *domain.StagedFile, r *pendingRow) domain.OrderRow {
	data := r.data

	name := productNameOf(data)
	if code, ok := lookupByName(f.CodeMap, name); ok {
		data[domain.RowKeyProductCode] = code
	}
	if id, ok := lookupByName(f.ProductIDMap, name); ok {
		data[domain.RowKeyProductID] = strconv.FormatInt(id, 10)
	}

	status := domain.StatusSupplying
	if raw, ok := domain.FieldValue(data, domain.FieldOrderStatus); ok {
		if parsed, known := domain.ParseOrderStatus(strings.TrimSpace(fmt.Sprint(raw))); known {
			status = parsed
		}
	}

	data[domain.RowKeyInternalCode] = r.code

	if !actor.IsOnline() {
		stampDeliveryMessage(data, r.code)
	}

	var sabangCode string
	if actor.IsOnline() {
		if v, ok := domain.FieldValue(data, domain.FieldOrderNumber); ok {
			sabangCode = strings.TrimSpace(fmt.Sprint(v))
		}
	}

	var supplyPrice int64
	if v, ok := domain.FieldValue(data, domain.FieldSupplyPrice); ok {
		supplyPrice = digitsToInt64(fmt.Sprint(v))
	}

	var mallID *int64
	if r.mall != nil {
		id := r.mall.ID
		mallID = &id
	}

	return domain.OrderRow{
		CompanyID:    actor.CompanyID,
		MallID:       mallID,
		VendorName:   r.vendorName,
		RowData:      data,
		RowOrder:     r.rowOrder,
		Status:       status,
		InternalCode: r.code,
		SabangCode:   sabangCode,
		SupplyPrice:  supplyPrice,
	}
}

func (s *ConfirmService) scopePrefix(mall *domain.Mall) string {
	if mall != nil && mall.Code != "" {
		return mall.Code
	}
	return s.codePrefix
}

// workingHeader appends the injected columns to the original schema without
// duplicating ones the upload already carried.
func workingHeader(original []string) domain.StringSlice {
	header := append(domain.StringSlice{}, original...)
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	for _, key := range []string{domain.RowKeyProductCode, domain.RowKeyProductID, domain.RowKeyInternalCode} {
		if !present[key] {
			header = append(header, key)
		}
	}
	return header
}

// stampDeliveryMessage writes the internal code into the delivery-message
// cell. Any previously stamped code segment is replaced, so re-running the
// step is idempotent.
func stampDeliveryMessage(data domain.RowData, code string) {
	for _, alias := range []string{"배송메시지", "배송메세지"} {
		raw, ok := data[alias]
		if !ok {
			continue
		}
		msg := fmt.Sprint(raw)
		if i := strings.Index(msg, DeliverySentinel); i >= 0 {
			msg = msg[:i]
		}
		data[alias] = msg + DeliverySentinel + code
		return
	}
}

func productNameOf(data domain.RowData) string {
	if v, ok := domain.FieldValue(data, domain.FieldProductName); ok {
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return ""
}

// lookupByName resolves a spreadsheet product name against a name-keyed map:
// exact match first, then whitespace-insensitive, then substring in either
// direction.
func lookupByName[V any](m map[string]V, name string) (V, bool) {
	var zero V
	if len(m) == 0 || name == "" {
		return zero, false
	}
	if v, ok := m[name]; ok {
		return v, true
	}

	squeezed := squeeze(name)
	for k, v := range m {
		if squeeze(k) == squeezed {
			return v, true
		}
	}
	for k, v := range m {
		if strings.Contains(name, k) || strings.Contains(k, name) {
			return v, true
		}
	}
	return zero, false
}

func squeeze(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

func digitsToInt64(s string) int64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func cellAt(cells []string, col int) string {
	if col < 0 || col >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col])
}

// mallCache memoizes vendor-name lookups for the lifetime of one confirm or
// export call, including known misses.
type mallCache struct {
	repo      repository.MallRepository
	companyID int64
	seen      map[string]*domain.Mall
}

func newMallCache(repo repository.MallRepository, companyID int64) *mallCache {
	return &mallCache{repo: repo, companyID: companyID, seen: make(map[string]*domain.Mall)}
}

func (c *mallCache) lookup(ctx context.Context, name string) (*domain.Mall, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(name)
	if mall, ok := c.seen[key]; ok {
		return mall, nil
	}
	mall, err := c.repo.GetByName(ctx, c.companyID, name)
	if err != nil {
		return nil, err
	}
	c.seen[key] = mall
	return mall, nil
}
