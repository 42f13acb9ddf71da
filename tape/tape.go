package tape

// Tape is a reference-counted handle onto a doubly linked list of pages.
// Multiple Branch values may share a Tape; the shared refs counter is what
// makes copy-on-write possible: a tape with refs == 1 may be mutated in
// place, one with refs > 1 must be privatized (deep-copied) before any
// write. This mirrors the teacher's cowCaptures/sharedCaptures pair (see
// coregex's nfa/pikevm.go), generalized from a flat capture slice to a
// doubly linked, bidirectionally growable page chain.
type Tape struct {
	first *Page
	refs  *int
}

// NewEmpty returns a fresh tape with no pages and refs == 1.
func NewEmpty() *Tape {
	n := 1
	return &Tape{refs: &n}
}

// Share increments the reference count and returns a handle aliasing the
// same page list. Callers must Release exactly once per Share (and once
// for the original handle) when they are done with it.
func (t *Tape) Share() *Tape {
	*t.refs++
	return &Tape{first: t.first, refs: t.refs}
}

// RefCount reports the current number of live handles onto this tape's
// pages. Reads never need to check this; only writes do.
func (t *Tape) RefCount() int {
	return *t.refs
}

// Release decrements the reference count. When it reaches zero the page
// list is discarded (there is nothing further to free explicitly in Go,
// but Release still severs the handle so it cannot be reused).
func (t *Tape) Release() {
	*t.refs--
	if *t.refs <= 0 {
		t.first = nil
	}
}

// MakePrivate returns a deep copy of the tape (refs == 1) along with the
// new head page corresponding to headPage by positional index within the
// chain (the N-th page maps to the N-th new page, per the CoW contract).
// Precondition: t.RefCount() > 1. The caller's old tape handle is released
// as part of this call.
func (t *Tape) MakePrivate(headPage *Page) (*Tape, *Page) {
	var newFirst, newHead, prevNew *Page
	// Another handle may have grown the shared chain to the left without
	// updating this handle's first, so start from the leftmost page.
	start := t.first
	for start != nil && start.prev != nil {
		start = start.prev
	}
	for p := start; p != nil; p = p.next {
		np := clonePage(p)
		np.prev = prevNew
		if prevNew != nil {
			prevNew.next = np
		} else {
			newFirst = np
		}
		if p == headPage {
			newHead = np
		}
		prevNew = np
	}
	t.Release()
	n := 1
	return &Tape{first: newFirst, refs: &n}, newHead
}

// ReadAt returns the cell at page/pos, or Blank if page is nil (the tape is
// logically blank wherever no page has been allocated).
func (t *Tape) ReadAt(page *Page, pos int) Symbol {
	if page == nil {
		return Blank
	}
	return page.At(pos)
}

// WriteAt writes s at page/pos, allocating the first page if necessary.
// Writing Blank with no page allocated is a no-op (it would not change
// anything observable). Returns the (possibly newly allocated) page holding
// the write; a newly allocated page also becomes the tape's first page.
//
// Callers must ensure the tape is private (RefCount() == 1) before calling
// WriteAt; the tape package itself does not perform CoW — that is the
// branch's responsibility, exactly as spec requires ("a branch must
// make_private its tape before any mutation if ref_count > 1").
func (t *Tape) WriteAt(page *Page, pos int, s Symbol) *Page {
	if page == nil {
		if s == Blank {
			return nil
		}
		np := newPage()
		np.Set(pos, s)
		t.first = np
		return np
	}
	if page.At(pos) == s {
		return page
	}
	page.Set(pos, s)
	return page
}

// Move denotes tape head motion.
type Move uint8

const (
	MoveLeft Move = iota
	MoveStay
	MoveRight
)

// String implements fmt.Stringer.
func (m Move) String() string {
	switch m {
	case MoveLeft:
		return "L"
	case MoveStay:
		return "S"
	case MoveRight:
		return "R"
	default:
		return "?"
	}
}

// ParseMove interprets a wire-format move byte. An unrecognized byte is
// treated as MoveStay with ok=false, so the caller can log the anomaly
// without the tape package itself needing to know how to log.
func ParseMove(b byte) (m Move, ok bool) {
	switch b {
	case 'L':
		return MoveLeft, true
	case 'S':
		return MoveStay, true
	case 'R':
		return MoveRight, true
	default:
		return MoveStay, false
	}
}

// MoveHead advances (page, pos) by one step per m, allocating a neighbor
// page on a boundary fault. If page is nil the tape is blank in every
// direction and motion is a no-op (spec's "moving on a branch with no
// allocated page is a no-op").
//
// The guarded boundary-L-fault form is used: a new left neighbor is
// allocated only when pos == 0 AND page.prev == nil (the corrected variant
// called out by the design notes; the alternative allocates whenever
// prev == nil regardless of pos, which over-allocates).
func (t *Tape) MoveHead(page *Page, pos int, m Move) (*Page, int) {
	if page == nil || m == MoveStay {
		return page, pos
	}

	switch m {
	case MoveLeft:
		if pos == 0 {
			if page.prev == nil {
				np := newPage()
				np.next = page
				page.prev = np
				if page == t.first {
					t.first = np
				}
			}
			return page.prev, PageSize - 1
		}
		return page, pos - 1

	case MoveRight:
		if pos == PageSize-1 {
			if page.next == nil {
				np := newPage()
				np.prev = page
				page.next = np
			}
			return page.next, 0
		}
		return page, pos + 1
	}

	return page, pos
}
