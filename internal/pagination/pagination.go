// Package pagination windows item sequences into pages and builds the tool envelope.
package pagination

import (
	"context"
	"math"

	"github.com/tranphat180603/canvas-cli/internal/timeutil"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// MaxPageSize is the largest page a caller may request.
const MaxPageSize = 100

// Seq is a forward-only sequence. Next returns false once the sequence is exhausted.
type Seq[T any] interface {
	Next(ctx context.Context) (T, bool, error)
}

// Clamp coerces caller supplied page parameters into range.
func Clamp(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// window returns the item offsets of a page. ok is false when the page lies
// beyond any representable offset, which no sequence can reach.
func window(page, pageSize int) (start, end int, ok bool) {
	if page-1 > (math.MaxInt-pageSize)/pageSize {
		return 0, 0, false
	}
	start = (page - 1) * pageSize
	return start, start + pageSize, true
}

// Slice returns the requested window of items and whether more items follow it.
// page and pageSize must already be clamped.
func Slice[T any](items []T, page, pageSize int) ([]T, bool) {
	start, end, ok := window(page, pageSize)
	if !ok {
		return []T{}, false
	}
	if start > len(items) {
		start = len(items)
	}
	hasMore := len(items) > end
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, hasMore
}

// Take reads the requested window from seq without reading further than
// page*pageSize+1 elements.
func Take[T any](ctx context.Context, seq Seq[T], page, pageSize int) ([]T, bool, error) {
	start, end, ok := window(page, pageSize)
	if !ok {
		return []T{}, false, nil
	}
	out := make([]T, 0, pageSize)
	for i := 0; ; i++ {
		item, ok, err := seq.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return out, false, nil
		}
		if i >= end {
			return out, true, nil
		}
		if i >= start {
			out = append(out, item)
		}
	}
}

// Collect drains seq.
func Collect[T any](ctx context.Context, seq Seq[T]) ([]T, error) {
	var out []T
	for {
		item, ok, err := seq.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}

type filtered[T any] struct {
	seq  Seq[T]
	keep func(T) bool
}

func (f *filtered[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		item, ok, err := f.seq.Next(ctx)
		if err != nil || !ok {
			return item, ok, err
		}
		if f.keep(item) {
			return item, true, nil
		}
	}
}

// Filter yields the elements of seq for which keep returns true.
func Filter[T any](seq Seq[T], keep func(T) bool) Seq[T] {
	return &filtered[T]{seq: seq, keep: keep}
}

type sliceSeq[T any] struct {
	items []T
	pos   int
}

func (s *sliceSeq[T]) Next(context.Context) (T, bool, error) {
	var zero T
	if s.pos >= len(s.items) {
		return zero, false, nil
	}
	item := s.items[s.pos]
	s.pos++
	return item, true, nil
}

// FromSlice adapts a slice to Seq.
func FromSlice[T any](items []T) Seq[T] {
	return &sliceSeq[T]{items: items}
}

// Info builds the pagination block of an envelope.
func Info(page, pageSize int, hasMore bool, total *int) types.Pagination {
	p := types.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}
	if hasMore {
		next := page + 1
		p.NextPage = &next
	}
	return p
}

// Build assembles the envelope for a tool call. ok holds when problems carries
// no fatal entries.
func Build[T any](tool string, items []T, page, pageSize int, hasMore bool, problems types.Problems) types.ToolOutput[T] {
	if items == nil {
		items = []T{}
	}
	errs := problems.Messages
	if errs == nil {
		errs = []string{}
	}
	return types.ToolOutput[T]{
		OK:         problems.Fatal() == 0,
		Source:     types.Source,
		Tool:       tool,
		Items:      items,
		Pagination: Info(page, pageSize, hasMore, nil),
		FetchedAt:  timeutil.Now(),
		Errors:     errs,
		Notices:    problems.Notices,
	}
}
