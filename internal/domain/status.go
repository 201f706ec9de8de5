// backend-go/internal/domain/status.go
package domain

// OrderStatus tracks a row through the fulfillment pipeline:
// supplying -> po_downloaded -> dispatched -> shipping, with cancelled as a
// terminal branch. Downloads never regress a row already past po_downloaded.
type OrderStatus string

const (
	StatusSupplying    OrderStatus = "supplying"
	StatusPODownloaded OrderStatus = "po_downloaded"
	StatusDispatched   OrderStatus = "dispatched"
	StatusShipping     OrderStatus = "shipping"
	StatusCancelled    OrderStatus = "cancelled"
)

var statusRank = map[OrderStatus]int{
	StatusSupplying:    0,
	StatusPODownloaded: 1,
	StatusDispatched:   2,
	StatusShipping:     3,
}

// statusAliases maps the localized status strings found in uploaded
// spreadsheets onto pipeline states.
var statusAliases = map[string]OrderStatus{
	"supplying":     StatusSupplying,
	"po_downloaded": StatusPODownloaded,
	"dispatched":    StatusDispatched,
	"shipping":      StatusShipping,
	"cancelled":     StatusCancelled,
	"공급중":           StatusSupplying,
	"발주서 다운로드":      StatusPODownloaded,
	"송장출력":          StatusDispatched,
	"배송중":           StatusShipping,
	"취소":            StatusCancelled,
}

// ParseOrderStatus maps a raw status cell onto a pipeline state. The second
// return reports whether the value was recognized.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st, ok := statusAliases[s]
	return st, ok
}

// Rank orders the forward pipeline states. Cancelled is not part of the
// forward pipeline and ranks below every other state.
func (s OrderStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// AtOrPast reports whether s has reached other in the forward pipeline.
func (s OrderStatus) AtOrPast(other OrderStatus) bool {
	return s.Rank() >= other.Rank() && other.Rank() >= 0
}
