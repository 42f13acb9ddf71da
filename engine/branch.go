package engine

import (
	"github.com/ntmcore/ntmsim/machine"
	"github.com/ntmcore/ntmsim/tape"
)

// branch is a single computation path through the nondeterministic
// machine: its current state, a (possibly shared) tape handle and head
// position, the number of steps already executed, and the transition
// chosen for the next step (nil means "look one up from the current
// cell"). Modeled on the teacher's thread struct in coregex's
// nfa/pikevm.go, generalized from a flat capture slice to a full paged
// tape.
type branch struct {
	state    machine.StateID
	tp       *tape.Tape
	headPage *tape.Page
	headPos  int
	steps    uint64
	pending  *machine.Transition
}

// fork produces a child branch sharing this branch's tape handle (the
// tape's refcount increments) with the given sibling transition pending.
// It does not eagerly copy the tape — per spec.md, copying happens lazily
// on the child's first write via the CoW rule. Mirrors coregex's
// addThread/addThreadToNext split handling, where the right branch clones
// its COW captures handle rather than deep-copying eagerly.
func (b *branch) fork(t machine.Transition) *branch {
	return &branch{
		state:    b.state,
		tp:       b.tp.Share(),
		headPage: b.headPage,
		headPos:  b.headPos,
		steps:    b.steps,
		pending:  &t,
	}
}

// destroy releases the branch's tape handle. Grounded on
// original_source/tm-sim.c's branch_destroy.
func (b *branch) destroy() {
	b.tp.Release()
}

// read returns the cell under the head, or Blank if no page is allocated.
func (b *branch) read() tape.Symbol {
	return b.tp.ReadAt(b.headPage, b.headPos)
}

// write enforces the CoW rule before mutating: if the tape is shared
// (refcount > 1), it is privatized first and the branch's head page
// reference is rebound to the corresponding page in the new tape.
//
// The no-op check comes first, before any privatization: spec.md §4.3's
// write optimization ("if the current cell already equals the value to
// write, the write is a no-op and no privatization occurs") means a
// shared-tape branch rewriting its current symbol must never deep-copy
// the page chain just to discover WriteAt itself would have been a no-op.
func (b *branch) write(s tape.Symbol) {
	if b.read() == s {
		return
	}
	if b.tp.RefCount() > 1 {
		priv, newHead := b.tp.MakePrivate(b.headPage)
		b.tp = priv
		b.headPage = newHead
	}
	b.headPage = b.tp.WriteAt(b.headPage, b.headPos, s)
}

// move advances the head per m without privatizing, unlike write:
// allocating a neighbor page on boundary fault attaches it to whichever
// tape the branch currently holds (shared or private) — per spec.md §5,
// this is safe without privatizing because a freshly allocated neighbor
// does not change any already-readable cell of sibling branches.
func (b *branch) move(m tape.Move) {
	b.headPage, b.headPos = b.tp.MoveHead(b.headPage, b.headPos, m)
}
