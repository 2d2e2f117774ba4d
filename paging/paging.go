// Package paging provides page-number pagination parameters and metadata.
package paging

// DefaultSize default page size
const DefaultSize = 20

// MaxSize maximum allowed page size
const MaxSize = 100

// Params represents page-number pagination parameters.
type Params struct {
	Page int `json:"page" form:"page"`
	Size int `json:"size" form:"size"`
}

// Normalize clamps the parameters into their valid ranges.
func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
}

// Offset returns the number of records to skip for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

// Meta describes the position of a page within the full result set.
type Meta struct {
	Page         int  `json:"current_page"`
	Size         int  `json:"per_page"`
	TotalResults int  `json:"total_results"`
	TotalPages   int  `json:"total_pages"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
	NextPage     *int `json:"next_page"`
	PreviousPage *int `json:"previous_page"`
}

// BuildMeta computes pagination metadata from the authoritative total.
// The total comes from the index, never from the number of records the
// page actually carries, so a page past the end still reports where it
// sits in the result set.
func BuildMeta(page, size, total int) Meta {
	m := Meta{
		Page:         page,
		Size:         size,
		TotalResults: total,
	}
	if total <= 0 {
		return m
	}

	m.TotalPages = (total + size - 1) / size
	m.HasNext = page < m.TotalPages
	m.HasPrevious = page > 1

	if m.HasNext {
		next := page + 1
		m.NextPage = &next
	}
	if m.HasPrevious {
		prev := page - 1
		m.PreviousPage = &prev
	}
	return m
}
