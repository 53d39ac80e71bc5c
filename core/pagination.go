package core

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// All requests every matching record in a single page.
var All = PageRequest{Page: 1, Limit: -1}

type PageRequest struct {
	Page  int `json:"page" query:"page"`
	Limit int `json:"limit" query:"limit"`
}

// Clean applies the defaults and clamps the limit to MaxLimit.
func (p *PageRequest) Clean() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.Limit < 1:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
}

func (p PageRequest) Unbounded() bool { return p.Limit < 0 }

func (p PageRequest) Offset() int {
	if p.Unbounded() || p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewPage[T any](data []T, req PageRequest, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	limit := req.Limit
	if req.Unbounded() {
		limit = total
	}
	var pages int
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Page[T]{
		Data:       data,
		Pagination: Pagination{Page: req.Page, Limit: limit, Total: total, TotalPages: pages},
	}
}

// MapPage converts the records of a page keeping its pagination.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	data := make([]R, len(p.Data))
	for i, v := range p.Data {
		data[i] = fn(v)
	}
	return Page[R]{Data: data, Pagination: p.Pagination}
}
