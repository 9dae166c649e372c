package query

// DefaultTaskPageSize is the fixed page size of the task list endpoint.
const DefaultTaskPageSize = 10

// Page is 1-based pagination input. The zero value means "first page,
// caller-default size".
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane values, applying defSize when no
// size was given.
func (p Page) Normalize(defSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defSize
	}
	return p
}

// Offset translates the 1-based page number to a 0-based row offset.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Slice applies the page to an already-filtered result set.
func Slice[E any](items []E, p Page) []E {
	off := p.Offset()
	if off >= len(items) {
		return []E{}
	}
	end := off + p.Size
	if p.Size < 1 || end > len(items) {
		end = len(items)
	}
	return items[off:end]
}
