package cases

// Query filter untuk list case
type Query struct {
	Page     int
	PageSize int
	Search   string
	Status   Status
}

// Normalize applies paging defaults and caps.
func (q Query) Normalize() Query {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
	return q
}

// Offset of the first row on the page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// PaginatedResult represents a paginated response with data and metadata
type PaginatedResult struct {
	Data       []*Case `json:"data"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	Total      int64   `json:"totalItems"`
	TotalPages int     `json:"totalPages"`
}

// NewPaginatedResult fills the page metadata from q and total.
func NewPaginatedResult(data []*Case, q Query, total int64) PaginatedResult {
	pages := 0
	if q.PageSize > 0 {
		pages = int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	}
	if data == nil {
		data = []*Case{}
	}
	return PaginatedResult{
		Data:       data,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: pages,
	}
}
