package utils

// Page describes the slice of a listing a caller asked for, plus the
// derived total-page count.
type Page struct {
	Skip       int   `json:"-"`
	Take       int   `json:"limit"`
	Current    int   `json:"page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit bounds caller-supplied page sizes at the transport layer.
	MaxLimit = 100
)

// Paginate computes skip/take and the total page count for a listing.
// Non-positive page or limit fall back to the defaults.
func Paginate(page, limit int, totalCount int64) Page {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	return Page{
		Skip:       (page - 1) * limit,
		Take:       limit,
		Current:    page,
		Total:      totalCount,
		TotalPages: totalPages,
	}
}

// ClampLimit applies the server-side page size cap.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
