package types

// Filter represents query parameters for filtering and pagination.
//
//	/api/reservations?filter[status]=pending,approved&filter[equipment_id]=EQ-20260301-000001&limit=20&page=2
type Filter struct {
	Search         string            `json:"search,omitempty"`
	Sort           map[string]string `json:"sort,omitempty"`
	Filter         map[string]string `json:"filter,omitempty"`
	Limit          int               `json:"limit"`
	Offset         int               `json:"offset"`
	Page           int               `json:"page"`
	WithPagination bool              `json:"with_pagination"`
}

// Value returns the raw filter value for field.
func (f Filter) Value(field string) (string, bool) {
	if f.Filter == nil {
		return "", false
	}
	v, ok := f.Filter[field]
	return v, ok && v != ""
}

// Paginate cuts items down to the requested page. A filter without
// pagination returns items unchanged.
func Paginate[T any](items []T, f Filter) []T {
	if !f.WithPagination || f.Limit <= 0 {
		return items
	}
	start := f.Offset
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return []T{}
	}
	end := start + f.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}
