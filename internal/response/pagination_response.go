package response

// Pagination mirrors the paging block returned by the data service for job
// listings.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

// SinglePage describes an unpaged listing of n items.
func SinglePage(n int) *Pagination {
	p := &Pagination{Page: 1, PageSize: n, TotalPages: 1, TotalItems: int64(n)}
	if n > 0 {
		p.From, p.To = 1, n
	}
	return p
}
