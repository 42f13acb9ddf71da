package machine

import (
	"fmt"
	"sort"

	"github.com/ntmcore/ntmsim/tape"
)

// TransitionIndex is the finalized, immutable machine definition: a dense
// array of states indexed by StateID, each holding its accept flag and a
// symbol-sorted transition table.
type TransitionIndex struct {
	states []State
}

// MaxState returns the highest state number present in the index.
func (idx *TransitionIndex) MaxState() int {
	return len(idx.states) - 1
}

// IsAccept reports whether state is marked accepting. Out-of-range states
// report false.
func (idx *TransitionIndex) IsAccept(state StateID) bool {
	if int(state) >= len(idx.states) {
		return false
	}
	return idx.states[state].Accept
}

// State returns the given state's data, or ErrInvalidState if it falls
// outside [0, MaxState()]. Unlike Lookup/IsAccept, which silently return
// zero values for the core's hot path, this accessor is for driver-side
// introspection: the parser uses it to log a debug diagnostic when an
// `acc` section names a state number MarkAccept silently ignored.
func (idx *TransitionIndex) State(state StateID) (*State, error) {
	if int(state) >= len(idx.states) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidState, state)
	}
	return &idx.states[state], nil
}

// Lookup returns the transitions applicable at (state, sym), or nil if the
// state is out of range or has no rule for sym. Runs in O(log k) via binary
// search once a state's input table exceeds LinearThreshold entries,
// O(k) linear scan below it.
func (idx *TransitionIndex) Lookup(state StateID, sym tape.Symbol) []Transition {
	if int(state) >= len(idx.states) {
		return nil
	}
	return idx.states[state].lookup(sym)
}

// Builder accumulates transition records incrementally and finalizes them
// into a TransitionIndex. Records sharing (q_in, input) accumulate into the
// same InputEntry (idempotent accumulation, per spec.md §4.1).
type Builder struct {
	byState  map[StateID]map[tape.Symbol][]Transition
	maxState StateID
	seen     bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byState: make(map[StateID]map[tape.Symbol][]Transition)}
}

// AddTransition records one (q_in, input) -> (output, move, q_out) rule.
// Multiple calls sharing (q_in, input) extend that entry's transition list,
// forming the nondeterministic fan-out.
func (b *Builder) AddTransition(qIn StateID, input tape.Symbol, output tape.Symbol, move tape.Move, qOut StateID) {
	b.track(qIn)
	b.track(qOut)

	inputs, ok := b.byState[qIn]
	if !ok {
		inputs = make(map[tape.Symbol][]Transition)
		b.byState[qIn] = inputs
	}
	inputs[input] = append(inputs[input], Transition{Output: output, Move: move, Next: qOut})
}

func (b *Builder) track(q StateID) {
	if !b.seen || q > b.maxState {
		b.maxState = q
		b.seen = true
	}
}

// Build finalizes the accumulated records into a TransitionIndex. Every
// state number in [0, max_state] gets an entry; states never referenced as
// q_in or q_out get an empty, non-accept State.
func (b *Builder) Build() *TransitionIndex {
	size := 0
	if b.seen {
		size = int(b.maxState) + 1
	}
	states := make([]State, size)

	for q, inputs := range b.byState {
		entries := make([]InputEntry, 0, len(inputs))
		for sym, trs := range inputs {
			entries = append(entries, InputEntry{Input: sym, Transitions: trs})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Input < entries[j].Input })
		states[q] = State{Entries: entries}
	}

	return &TransitionIndex{states: states}
}

// MarkAccept flags the given state numbers as accepting. State numbers
// outside [0, max_state] are silently ignored (spec.md §4.1: "accept flags
// on numbers > max_state are silently ignored").
func (idx *TransitionIndex) MarkAccept(states ...int) {
	for _, q := range states {
		if q < 0 || q >= len(idx.states) {
			continue
		}
		idx.states[q].Accept = true
	}
}
