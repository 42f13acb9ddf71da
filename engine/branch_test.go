package engine

import (
	"testing"

	"github.com/ntmcore/ntmsim/machine"
	"github.com/ntmcore/ntmsim/tape"
)

func newTestBranch() *branch {
	tp := tape.NewEmpty()
	page := tp.WriteAt(nil, 0, 'a')
	return &branch{state: 0, tp: tp, headPage: page, headPos: 0}
}

func TestForkSharesTapeHandle(t *testing.T) {
	parent := newTestBranch()
	child := parent.fork(machine.Transition{Output: 'b', Move: tape.MoveRight, Next: 1})

	if got := parent.tp.RefCount(); got != 2 {
		t.Fatalf("parent tape refcount after fork = %d, want 2", got)
	}
	if child.pending == nil || child.pending.Next != 1 {
		t.Fatalf("child.pending = %v, want Next=1", child.pending)
	}
	if child.state != parent.state || child.headPos != parent.headPos {
		t.Errorf("fork did not copy scalar fields: child=%+v parent=%+v", child, parent)
	}

	parent.destroy()
	child.destroy()
}

func TestWritePrivatizesSharedTape(t *testing.T) {
	parent := newTestBranch()
	child := parent.fork(machine.Transition{})

	parent.write('z')
	if got := parent.read(); got != 'z' {
		t.Errorf("parent.read() = %q, want 'z'", got)
	}
	if got := child.read(); got != 'a' {
		t.Errorf("child.read() = %q after sibling write, want unchanged 'a'", got)
	}
	if parent.tp.RefCount() != 1 {
		t.Errorf("parent tape refcount after privatizing write = %d, want 1", parent.tp.RefCount())
	}
	if child.tp.RefCount() != 1 {
		t.Errorf("child tape refcount after sibling privatized = %d, want 1", child.tp.RefCount())
	}

	parent.destroy()
	child.destroy()
}

func TestWriteSameValueSkipsPrivatization(t *testing.T) {
	parent := newTestBranch()
	child := parent.fork(machine.Transition{})

	parent.write('a')
	if got := parent.tp.RefCount(); got != 2 {
		t.Errorf("parent tape refcount after same-value write = %d, want 2 (no privatization)", got)
	}
	if got := child.tp.RefCount(); got != 2 {
		t.Errorf("child tape refcount after sibling's same-value write = %d, want 2 (no privatization)", got)
	}
	if got := child.read(); got != 'a' {
		t.Errorf("child.read() = %q after sibling's same-value write, want unchanged 'a'", got)
	}

	parent.destroy()
	child.destroy()
}

func TestMoveAdvancesHead(t *testing.T) {
	b := newTestBranch()
	b.move(tape.MoveRight)
	if b.headPos != 1 {
		t.Errorf("headPos after MoveRight = %d, want 1", b.headPos)
	}
	if got := b.read(); got != tape.Blank {
		t.Errorf("read() at untouched cell = %q, want Blank", got)
	}
	b.destroy()
}
