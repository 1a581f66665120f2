package filter

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/usestring/filterkit/pkg/query"
)

func TestPager_BindNormalizesPage(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		maxPages int
		expected int
	}{
		{"absent", Params{}, 0, 1},
		{"valid", Params{"page": "4"}, 0, 4},
		{"whitespace", Params{"page": " 2 "}, 0, 2},
		{"malformed", Params{"page": "two"}, 0, 1},
		{"zero", Params{"page": "0"}, 0, 1},
		{"negative", Params{"page": "-3"}, 0, 1},
		{"clamped to max pages", Params{"page": "9"}, 3, 3},
		{"within max pages", Params{"page": "2"}, 3, 2},
		{"unlimited", Params{"page": "1000"}, 0, 1000},
		{"offset overflow capped", Params{"page": strconv.Itoa(math.MaxInt/2 + 2)}, 0, math.MaxInt / 5 / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPager("page", WithCountPerPage(5), WithMaxPages(tt.maxPages))
			b := p.Bind(tt.params).(pagerBinding)
			assert.Equal(t, tt.expected, b.page)
		})
	}
}

func TestPager_ApplySetsWindow(t *testing.T) {
	p := NewPager("page", WithCountPerPage(5))
	builder := query.NewBuilder()

	p.Bind(Params{"page": "3"}).Apply(builder)

	q := builder.Build()
	assert.Equal(t, &query.Window{Offset: 10, Limit: 5}, q.Window)
}

func TestPager_HugePageKeepsOffsetNonNegative(t *testing.T) {
	p := NewPager("page", WithCountPerPage(2))
	builder := query.NewBuilder()

	b := p.Bind(Params{"page": strconv.Itoa(math.MaxInt)})
	b.Apply(builder)
	q := builder.Build()

	state := b.View(q, &query.Result{TotalHits: 4}).(PagerState)
	assert.GreaterOrEqual(t, state.Offset, 0)
	assert.Equal(t, state.Offset, q.Window.Offset)
	assert.Equal(t, math.MaxInt/2/2, state.CurrentPage)
	assert.Equal(t, []int{1, 2}, state.Pages)
}

func TestPageRange_HugeInputs(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, PageRange(1, 3, math.MaxInt))
	assert.Equal(t, []int{math.MaxInt - 1, math.MaxInt}, PageRange(math.MaxInt, math.MaxInt, 3)[1:])
}

func TestPager_InvalidOptionsKeepDefaults(t *testing.T) {
	p := NewPager("page", WithCountPerPage(0), WithMaxPages(-1), WithRangeSize(0))
	assert.Equal(t, DefaultCountPerPage, p.CountPerPage())
	assert.Equal(t, 0, p.MaxPages())
	assert.Equal(t, DefaultRangeSize, p.RangeSize())
}

func TestPager_ViewState(t *testing.T) {
	p := NewPager("page", WithCountPerPage(2), WithMaxPages(3))

	state := p.Bind(Params{"page": "2"}).View(query.Query{}, &query.Result{TotalHits: 9}).(PagerState)
	assert.Equal(t, PagerState{
		CurrentPage:  2,
		CountPerPage: 2,
		Offset:       2,
		TotalHits:    9,
		TotalPages:   5,
		LastPage:     3,
		PreviousPage: 1,
		NextPage:     3,
		Pages:        []int{1, 2, 3},
	}, state)

	last := p.Bind(Params{"page": "3"}).View(query.Query{}, &query.Result{TotalHits: 9}).(PagerState)
	assert.Equal(t, 2, last.PreviousPage)
	assert.Zero(t, last.NextPage)
}

func TestPager_ViewStateWithoutHits(t *testing.T) {
	p := NewPager("page")

	state := p.Bind(Params{}).View(query.Query{}, &query.Result{}).(PagerState)
	assert.Equal(t, 1, state.CurrentPage)
	assert.Zero(t, state.TotalPages)
	assert.Zero(t, state.PreviousPage)
	assert.Zero(t, state.NextPage)
	assert.Empty(t, state.Pages)
}

func TestPageRange(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		totalPages int
		size       int
		expected   []int
	}{
		{"first page", 1, 10, 3, []int{1, 2, 3}},
		{"centered", 5, 10, 3, []int{4, 5, 6}},
		{"last page", 10, 10, 3, []int{8, 9, 10}},
		{"beyond last page", 12, 10, 3, []int{8, 9, 10}},
		{"fewer pages than window", 2, 2, 3, []int{1, 2}},
		{"even window", 5, 10, 4, []int{3, 4, 5, 6}},
		{"window of one", 7, 10, 1, []int{7}},
		{"no pages", 1, 0, 3, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PageRange(tt.current, tt.totalPages, tt.size))
		})
	}
}
