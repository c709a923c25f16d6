package pager

// Page is the exported snapshot of a pager.
// Nil MaxPerPage means unbounded; nil PreviousPage/NextPage means there is none.
type Page[T any] struct {
	CurrentPage  int  `json:"current_page"`
	MaxPerPage   *int `json:"max_per_page"`
	TotalPages   int  `json:"total_pages"`
	TotalResults int  `json:"total_results"`
	PreviousPage *int `json:"previous_page"`
	NextPage     *int `json:"next_page"`
	Items        []T  `json:"items"`
}

// HaveToPaginate mirrors Pager.HaveToPaginate for an exported page.
func (p Page[T]) HaveToPaginate() bool { return p.TotalPages >= 2 }
