package queryparams

import "strings"

const (
	DefaultPage    = 1
	DefaultLimit   = 10
	MaxLimit       = 50
	DefaultSortBy  = "created_at"
	DefaultOrderBy = "desc"
)

// ListParams carries the common pagination/sort query string of list endpoints.
type ListParams struct {
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
	Search  string `query:"q"`
	SortBy  string `query:"sort_by"`
	OrderBy string `query:"order_by"`
}

// DefaultListParams returns first-page params sorted by sortBy descending.
func DefaultListParams(sortBy string) ListParams {
	return ListParams{Page: DefaultPage, Limit: DefaultLimit, SortBy: sortBy, OrderBy: DefaultOrderBy}
}

// Validate clamps page/limit into range and normalises sort direction.
func (p *ListParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	p.Search = strings.TrimSpace(p.Search)
	p.OrderBy = strings.ToLower(p.OrderBy)
	if p.OrderBy != "asc" && p.OrderBy != "desc" {
		p.OrderBy = DefaultOrderBy
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
}

// CalculateOffset returns the SQL OFFSET for the current page.
func (p ListParams) CalculateOffset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// SortColumn resolves SortBy against an allow-list (api name -> column).
// Unknown names fall back to def.
func (p ListParams) SortColumn(allowed map[string]string, def string) string {
	if col, ok := allowed[p.SortBy]; ok {
		return col
	}
	return def
}

// CalculateTotalPages is ceil(total/limit); zero items means zero pages.
func CalculateTotalPages(totalItems int64, limit int) int {
	if limit <= 0 || totalItems <= 0 {
		return 0
	}
	return int((totalItems + int64(limit) - 1) / int64(limit))
}

// PaginationMeta describes one page of a list.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResult is the envelope of every list endpoint.
type PaginatedResult struct {
	Data any            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResult wraps rows with meta computed from params and total.
func NewPaginatedResult(data any, totalItems int64, params ListParams) *PaginatedResult {
	return &PaginatedResult{
		Data: data,
		Meta: PaginationMeta{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      totalItems,
			TotalPages: CalculateTotalPages(totalItems, params.Limit),
		},
	}
}
