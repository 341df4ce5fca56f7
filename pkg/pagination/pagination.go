package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params carries normalized page/limit values for offset pagination.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into their allowed ranges.
func Normalize(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page wraps a listing response together with its paging metadata.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// NewPage builds a paged response, guaranteeing a non-nil items slice.
func NewPage[T any](items []T, total int64, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}
}
