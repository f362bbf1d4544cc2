package query

import (
	"strings"
	"time"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Params is the normalized descriptor for a filtered, sorted, paginated listing.
// Handlers fill it from query-string values and call Normalize before the
// repository sees it.
type Params struct {
	Search     string
	Department string
	Campaign   string
	Status     string
	Shift      string
	RoleName   string
	DateFrom   *time.Time
	DateTo     *time.Time
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// Normalize clamps pagination into valid positive ranges and restricts the
// sort column to the allow-list. Unknown sort columns fall back to defaultSort
// rather than failing.
func (p *Params) Normalize(allowedSort []string, defaultSort string, defaultLimit, maxLimit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	sortOK := false
	for _, col := range allowedSort {
		if p.SortBy == col {
			sortOK = true
			break
		}
	}
	if !sortOK {
		p.SortBy = defaultSort
	}

	if strings.EqualFold(p.SortOrder, OrderDesc) {
		p.SortOrder = OrderDesc
	} else {
		p.SortOrder = OrderAsc
	}
}

// Offset returns the row offset for the current page.
func (p *Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause renders the normalized sort as a SQL ORDER BY fragment. Safe
// because Normalize restricted SortBy to the allow-list.
func (p *Params) OrderClause() string {
	return p.SortBy + " " + p.SortOrder
}

// TotalPages is ceil(totalCount/limit); zero rows yield zero pages.
func TotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((totalCount + int64(limit) - 1) / int64(limit))
}

// ListResponse is the envelope every listing endpoint returns. Metadata is
// computed from the independent total count, so requesting a page past the end
// returns empty items with exact numbers.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalCount int64       `json:"total_count"`
	TotalPages int         `json:"total_pages"`
}

func NewListResponse(items interface{}, p Params, totalCount int64) ListResponse {
	return ListResponse{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalCount: totalCount,
		TotalPages: TotalPages(totalCount, p.Limit),
	}
}

// MutationResponse is the envelope for create/update/delete operations.
type MutationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}
