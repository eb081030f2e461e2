package model

// Pagination is the metadata returned alongside a page of results.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// PaginationResult is one page of attractions.
type PaginationResult struct {
	Attractions []Attraction `json:"attractions"`
	Pagination  Pagination   `json:"pagination"`
}

// NewPagination computes page metadata from the total item count. totalPages
// is ceil(total/limit), so an empty result has zero pages.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 && total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
		ItemsPerPage: limit,
	}
}

// NewPaginationResult wraps items with freshly computed pagination metadata.
func NewPaginationResult(items []Attraction, page, limit int, total int64) *PaginationResult {
	if items == nil {
		items = []Attraction{}
	}
	return &PaginationResult{
		Attractions: items,
		Pagination:  NewPagination(page, limit, total),
	}
}
