package query

import (
	"fmt"
	"sort"

	"github.com/rpattn/neoql/internal/domain"
)

// Stream is a pull-based iterator over close approaches. Callers advance
// with Next, read the current element with Value, and check Err once Next
// returns false. Streams are single-use and not safe for concurrent use.
type Stream interface {
	Next() bool
	Value() *domain.CloseApproach
	Err() error
}

// FromSlice returns a stream over the slice in order.
func FromSlice(approaches []*domain.CloseApproach) Stream {
	return &sliceStream{approaches: approaches}
}

type sliceStream struct {
	approaches []*domain.CloseApproach
	pos        int
	current    *domain.CloseApproach
}

func (s *sliceStream) Next() bool {
	if s.pos >= len(s.approaches) {
		return false
	}
	s.current = s.approaches[s.pos]
	s.pos++
	return true
}

func (s *sliceStream) Value() *domain.CloseApproach { return s.current }

func (s *sliceStream) Err() error { return nil }

// Filtered yields the elements of src matching every filter, in source
// order. An empty filter set passes src through unchanged. Elements are
// only examined as the result is pulled.
func Filtered(src Stream, filters []domain.AttributeFilter) Stream {
	if len(filters) == 0 {
		return src
	}
	return &filterStream{src: src, filters: filters}
}

type filterStream struct {
	src     Stream
	filters []domain.AttributeFilter
	current *domain.CloseApproach
	err     error
}

func (f *filterStream) Next() bool {
	if f.err != nil {
		return false
	}
	for f.src.Next() {
		candidate := f.src.Value()
		ok, err := matchesAll(candidate, f.filters)
		if err != nil {
			f.err = err
			return false
		}
		if ok {
			f.current = candidate
			return true
		}
	}
	return false
}

func (f *filterStream) Value() *domain.CloseApproach { return f.current }

func (f *filterStream) Err() error {
	if f.err != nil {
		return f.err
	}
	return f.src.Err()
}

func matchesAll(approach *domain.CloseApproach, filters []domain.AttributeFilter) (bool, error) {
	for _, filter := range filters {
		ok, err := filter.Matches(approach)
		if err != nil {
			return false, fmt.Errorf("filter %s: %w", filter, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Limited yields at most n elements of src. n <= 0 means no limit and
// returns src unchanged. The source is never advanced past the last
// yielded element, so a limited stream terminates even on unbounded
// sources.
func Limited(src Stream, n int) Stream {
	if n <= 0 {
		return src
	}
	return &limitStream{src: src, limit: n}
}

type limitStream struct {
	src   Stream
	limit int
	count int
}

func (l *limitStream) Next() bool {
	if l.count >= l.limit {
		return false
	}
	if !l.src.Next() {
		return false
	}
	l.count++
	return true
}

func (l *limitStream) Value() *domain.CloseApproach { return l.src.Value() }

func (l *limitStream) Err() error { return l.src.Err() }

// Sorted yields the elements of src ordered by s. A zero s returns src
// unchanged. Ordering requires materializing the source, which happens on
// the first call to Next.
func Sorted(src Stream, s domain.Sort) Stream {
	if s.IsZero() {
		return src
	}
	return &sortStream{src: src, sort: s}
}

type sortStream struct {
	src     Stream
	sort    domain.Sort
	items   []*domain.CloseApproach
	loaded  bool
	pos     int
	current *domain.CloseApproach
	err     error
}

func (s *sortStream) Next() bool {
	if !s.loaded {
		s.load()
	}
	if s.err != nil || s.pos >= len(s.items) {
		return false
	}
	s.current = s.items[s.pos]
	s.pos++
	return true
}

func (s *sortStream) load() {
	s.loaded = true
	items, err := Collect(s.src)
	if err != nil {
		s.err = err
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if s.sort.Direction == domain.SortDirectionDesc {
			return s.sort.Less(items[j], items[i])
		}
		return s.sort.Less(items[i], items[j])
	})
	s.items = items
}

func (s *sortStream) Value() *domain.CloseApproach { return s.current }

func (s *sortStream) Err() error { return s.err }

// Collect drains the stream into a slice.
func Collect(s Stream) ([]*domain.CloseApproach, error) {
	var out []*domain.CloseApproach
	for s.Next() {
		out = append(out, s.Value())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
