package machine

import "github.com/ntmcore/ntmsim/tape"

// StateID identifies a machine state. States are dense integers in
// [0, max_state]; every number in that range has an entry, even if nothing
// in the definition stream ever names it as a q_in (spec: "states never
// referenced still exist with empty transition set and no accept flag").
type StateID uint32

// InvalidState marks the absence of a state reference.
const InvalidState StateID = 0xFFFFFFFF

// Transition is one outgoing rule: write Output, move the head per Move,
// and continue in state Next.
type Transition struct {
	Output tape.Symbol
	Move   tape.Move
	Next   StateID
}

// InputEntry pairs an input symbol with the (possibly multi-way,
// nondeterministic) list of transitions it fires.
type InputEntry struct {
	Input       tape.Symbol
	Transitions []Transition
}

// State holds one machine state's accept flag and sorted input table.
type State struct {
	Accept  bool
	Entries []InputEntry // sorted ascending by Input
}

// LinearThreshold is the design constant at or below which InputEntry
// lookup uses a linear scan instead of binary search. Small alphabets make the linear
// scan's lower constant factor win; grounded on coregex's hybrid dispatch
// in nfa/charclass_searcher.go and directly on original_source/tm-sim.c's
// MAX_SIZE_LINEAR_SEARCH.
const LinearThreshold = 4

// lookup returns the transition list for sym within this state's entries,
// or nil if none match.
func (s *State) lookup(sym tape.Symbol) []Transition {
	entries := s.Entries
	if len(entries) <= LinearThreshold {
		for i := range entries {
			if entries[i].Input == sym {
				return entries[i].Transitions
			}
		}
		return nil
	}

	lo, hi := 0, len(entries)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case entries[mid].Input == sym:
			return entries[mid].Transitions
		case entries[mid].Input < sym:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return nil
}
