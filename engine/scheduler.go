package engine

import (
	"github.com/ntmcore/ntmsim/machine"
	"github.com/ntmcore/ntmsim/tape"
)

// Scheduler runs one input string against a fixed machine definition,
// exploring the nondeterministic computation tree with a bounded run
// queue. Grounded on coregex's PikeVM thread-queue loop in
// nfa/pikevm.go (addThread/step double-buffered queues), generalized
// from "queue of threads advancing one input byte per round" to "stack
// or queue of branches advancing one tape-step per pop," per
// original_source/tm-sim.c's rq_push/rq_pop/tm_step.
type Scheduler struct {
	index  *machine.TransitionIndex
	config Config
}

// NewScheduler builds a Scheduler over idx using cfg. The caller must have
// already validated cfg via Config.Validate.
func NewScheduler(idx *machine.TransitionIndex, cfg Config) *Scheduler {
	return &Scheduler{index: idx, config: cfg}
}

// outcome classifies what happened to a branch after one queue pop.
type outcome uint8

const (
	outcomeContinue outcome = iota
	outcomeAccept
	outcomeReject
	outcomePreempt
)

// Run simulates the machine on input and returns the verdict reached.
//
// A branch reaches an accept configuration the instant its state becomes
// (or starts as) an accept state — not only when it later halts with no
// further transitions. spec.md §4.5's prose describes accept as fired at
// halt with zero outgoing transitions, but its own worked machine M1
// pairs an accept state with a perpetual self-loop on BLANK (`1 _ _ S
// 1`), and expects input `b` to accept despite that branch never
// halting; M3's "forces U" machine loops in the same way but in a
// non-accepting state and expects U. The only reading consistent with
// both examples, and with invariant 5 in spec.md §8 ("if any reachable
// path reaches an accept configuration within max_steps, the verdict is
// 1"), is this eager check: accept fires on entry to an accept state,
// whether or not that state later halts. See DESIGN.md for this
// resolution.
//
// If no branch ever reaches an accept configuration, the verdict is
// Undetermined when at least one branch was preempted at its step
// budget, else Reject.
//
// Run never itself fails (spec.md §4.7/§7: malformed definitions are
// tolerated, not rejected, and there is no I/O in the core); the error
// return exists only so callers driving many strings through a shared
// Scheduler (the cmd/ntmsim driver) have one uniform call shape.
func (s *Scheduler) Run(input []byte) (Verdict, error) {
	root := s.newRootBranch(input)
	if s.index.IsAccept(root.state) {
		root.destroy()
		return Accept, nil
	}

	queue := []*branch{root}
	preempted := false

	for len(queue) > 0 {
		var b *branch
		queue, b = s.pop(queue)

		out, children := s.step(b)
		switch out {
		case outcomeAccept:
			b.destroy()
			s.destroyAll(queue)
			return Accept, nil
		case outcomePreempt:
			b.destroy()
			preempted = true
		case outcomeReject:
			b.destroy()
		case outcomeContinue:
			queue = append(queue, children...)
		}
	}

	if preempted {
		return Undetermined, nil
	}
	return Reject, nil
}

// pop removes the next branch per the configured queue discipline: LIFO
// pops from the tail (stack), FIFO pops from the head.
func (s *Scheduler) pop(queue []*branch) ([]*branch, *branch) {
	var b *branch
	if s.config.QueueDiscipline == FIFO {
		b = queue[0]
		queue = queue[1:]
	} else {
		last := len(queue) - 1
		b = queue[last]
		queue = queue[:last]
	}
	return queue, b
}

// newRootBranch builds the initial branch: state 0, a fresh tape with
// input written left-to-right starting at the first page, head reset to
// the first cell written (spec.md §4.5 Initialization).
func (s *Scheduler) newRootBranch(input []byte) *branch {
	tp := tape.NewEmpty()
	var page *tape.Page
	pos := 0
	startPage, startPos := page, pos

	for i, c := range input {
		page = tp.WriteAt(page, pos, tape.Symbol(c))
		if i == 0 {
			startPage, startPos = page, pos
		}
		if i < len(input)-1 {
			page, pos = tp.MoveHead(page, pos, tape.MoveRight)
		}
	}

	return &branch{state: 0, tp: tp, headPage: startPage, headPos: startPos}
}

// step advances b by one run-queue pop, implementing spec.md §4.5's main
// loop body: budget check first, then the pending transition (if any),
// then the eager accept check, then the next-step lookup (halt, single
// continuation, or nondeterministic fan-out).
func (s *Scheduler) step(b *branch) (outcome, []*branch) {
	if b.steps == s.config.MaxSteps {
		return outcomePreempt, nil
	}

	if b.pending != nil {
		t := *b.pending
		b.pending = nil
		b.write(t.Output)
		b.move(t.Move)
		b.state = t.Next
		b.steps++

		if s.index.IsAccept(b.state) {
			return outcomeAccept, nil
		}
	}

	sym := b.read()
	trs := s.index.Lookup(b.state, sym)
	if len(trs) == 0 {
		return outcomeReject, nil
	}

	children := make([]*branch, 0, len(trs))
	b.pending = &trs[0]
	children = append(children, b)
	for _, t := range trs[1:] {
		children = append(children, b.fork(t))
	}
	return outcomeContinue, children
}

func (s *Scheduler) destroyAll(queue []*branch) {
	for _, b := range queue {
		b.destroy()
	}
}
