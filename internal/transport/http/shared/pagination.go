package shared

import (
	"net/http"
	"strconv"
)

// Pagination is a sanitized limit/offset pair taken from the query
// string.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset from the query string. Absent
// or malformed values fall back to defaultLimit and 0; the limit is
// clamped to maxLimit when maxLimit is positive.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := Pagination{Limit: defaultLimit}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		page.Limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		page.Offset = v
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}
