package content

// Pack is an immutable ordered sequence of items. Display numbering is
// 1-based; indexes are 0-based.
type Pack[T any] struct {
	items []T
}

// NewPack copies items into a new pack.
func NewPack[T any](items ...T) *Pack[T] {
	return &Pack[T]{items: append([]T(nil), items...)}
}

// Len returns the number of items. A nil pack is empty.
func (p *Pack[T]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// At returns the item at index i, or false when i is out of range.
func (p *Pack[T]) At(i int) (T, bool) {
	var zero T
	if p == nil || i < 0 || i >= len(p.items) {
		return zero, false
	}
	return p.items[i], true
}

// Items returns a copy of the items in order.
func (p *Pack[T]) Items() []T {
	if p == nil {
		return nil
	}
	return append([]T(nil), p.items...)
}

// LessonPack is the ordered set of homework questions.
type LessonPack = Pack[*LessonItem]

// FeedbackPack is the ordered set of feedback entries.
type FeedbackPack = Pack[*FeedbackItem]
