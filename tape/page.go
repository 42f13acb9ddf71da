// Package tape implements the paged, copy-on-write Turing machine tape.
//
// A tape is logically infinite in both directions. It is represented as a
// doubly linked list of fixed-size pages, allocated lazily on first write or
// on head motion past an edge. Pages are the unit of copy-on-write sharing
// between branches of the nondeterministic computation tree: forking a
// branch shares the tape (and its pages) until one side writes, at which
// point the writer privatizes its own copy.
package tape

// Symbol is a single tape cell value. BLANK denotes an empty cell.
type Symbol byte

// Blank is the reserved symbol denoting an empty, never-written cell.
const Blank Symbol = '_'

// PageSize is the number of cells per page. A design constant, not an
// invariant: larger pages amortize allocation at the cost of bigger CoW
// copies on write to a shared page.
const PageSize = 256

// Page is a fixed-capacity block of tape cells, the unit of CoW sharing.
// Cells default to Blank until written.
type Page struct {
	cells      [PageSize]Symbol
	prev, next *Page
}

// newPage allocates a page with every cell set to Blank.
func newPage() *Page {
	p := &Page{}
	for i := range p.cells {
		p.cells[i] = Blank
	}
	return p
}

// clonePage returns a byte-for-byte copy of src, with nil neighbor pointers;
// the caller is responsible for relinking prev/next in the cloned chain.
func clonePage(src *Page) *Page {
	p := &Page{}
	p.cells = src.cells
	return p
}

// At returns the cell at index i within the page.
func (p *Page) At(i int) Symbol {
	return p.cells[i]
}

// Set writes the cell at index i within the page.
func (p *Page) Set(i int, s Symbol) {
	p.cells[i] = s
}
