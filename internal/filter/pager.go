package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/usestring/filterkit/pkg/query"
)

const (
	// DefaultCountPerPage is the page size when none is configured.
	DefaultCountPerPage = 10
	// DefaultRangeSize is the number of page links in a page range.
	DefaultRangeSize = 3
)

// Pager windows results to one page.
type Pager struct {
	field        string
	countPerPage int
	maxPages     int // 0 means unlimited
	rangeSize    int
}

// PagerOption configures a Pager.
type PagerOption func(*Pager)

// WithCountPerPage sets the page size. Values below 1 are ignored.
func WithCountPerPage(n int) PagerOption {
	return func(p *Pager) {
		if n >= 1 {
			p.countPerPage = n
		}
	}
}

// WithMaxPages caps the requested page. Values below 1 mean unlimited.
func WithMaxPages(n int) PagerOption {
	return func(p *Pager) {
		if n < 1 {
			n = 0
		}
		p.maxPages = n
	}
}

// WithRangeSize sets how many page numbers the page range holds. Values below 1 are ignored.
func WithRangeSize(n int) PagerOption {
	return func(p *Pager) {
		if n >= 1 {
			p.rangeSize = n
		}
	}
}

// NewPager creates a pager reading the page number from field.
func NewPager(field string, opts ...PagerOption) *Pager {
	p := &Pager{
		field:        field,
		countPerPage: DefaultCountPerPage,
		rangeSize:    DefaultRangeSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pager) Kind() Kind           { return KindPager }
func (p *Pager) RequestField() string { return p.field }

// CountPerPage returns the configured page size.
func (p *Pager) CountPerPage() int { return p.countPerPage }

// MaxPages returns the page cap, 0 when unlimited.
func (p *Pager) MaxPages() int { return p.maxPages }

// RangeSize returns the page range size.
func (p *Pager) RangeSize() int { return p.rangeSize }

// Bind parses the requested page. Absent, malformed or non-positive values
// select page 1; pages beyond MaxPages are clamped to it. The page is also
// capped so its offset stays well inside the int range.
func (p *Pager) Bind(r Request) Binding {
	page := 1
	if raw, ok := r.QueryParam(p.field); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 1 {
			page = n
		}
	}
	if p.maxPages > 0 && page > p.maxPages {
		page = p.maxPages
	}
	if limit := max(1, math.MaxInt/p.countPerPage/2); page > limit {
		page = limit
	}
	return pagerBinding{pager: p, page: page}
}

type pagerBinding struct {
	pager *Pager
	page  int
}

func (b pagerBinding) offset() int { return (b.page - 1) * b.pager.countPerPage }

func (b pagerBinding) Apply(q *query.Builder) {
	q.SetWindow(b.offset(), b.pager.countPerPage)
}

func (b pagerBinding) View(_ query.Query, res *query.Result) ViewState {
	total := 0
	if res != nil {
		total = res.TotalHits
	}
	count := b.pager.countPerPage
	totalPages := (total + count - 1) / count

	lastPage := totalPages
	if b.pager.maxPages > 0 && lastPage > b.pager.maxPages {
		lastPage = b.pager.maxPages
	}

	state := PagerState{
		CurrentPage:  b.page,
		CountPerPage: count,
		Offset:       b.offset(),
		TotalHits:    total,
		TotalPages:   totalPages,
		LastPage:     lastPage,
		Pages:        PageRange(b.page, totalPages, b.pager.rangeSize),
	}
	if b.page > 1 {
		state.PreviousPage = b.page - 1
	}
	if b.page < lastPage {
		state.NextPage = b.page + 1
	}
	return state
}

// PagerState is the pager's view state.
type PagerState struct {
	CurrentPage  int `json:"current_page"`
	CountPerPage int `json:"count_per_page"`
	Offset       int `json:"offset"`
	TotalHits    int `json:"total_hits"`

	// TotalPages is derived from the hit count and ignores MaxPages.
	TotalPages int `json:"total_pages"`
	// LastPage is TotalPages capped by MaxPages.
	LastPage int `json:"last_page"`

	// PreviousPage and NextPage are 0 when there is no such page.
	PreviousPage int `json:"previous_page,omitempty"`
	NextPage     int `json:"next_page,omitempty"`

	Pages []int `json:"pages"`
}

func (PagerState) Kind() Kind { return KindPager }

// PageRange returns up to size consecutive page numbers around current,
// bounded by [1, totalPages]. The bound is the hit-derived page count, so
// the range may reach past a MaxPages cap. A current page beyond totalPages
// yields the last size pages.
func PageRange(current, totalPages, size int) []int {
	if size < 1 {
		size = 1
	}
	start := current - size/2
	if start < 1 {
		start = 1
	}
	end := totalPages
	if size-1 < totalPages-start {
		end = start + size - 1
	} else {
		start = max(1, end-size+1)
	}

	pages := make([]int, 0, max(0, end-start+1))
	for i := range cap(pages) {
		pages = append(pages, start+i)
	}
	return pages
}
