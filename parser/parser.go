// Package parser reads the stdin protocol spec.md §6 defines: four
// ordered sections (tr/acc/max/run) that together describe one machine
// and the strings to run against it. Grounded on original_source/tm-sim.c's
// load_transitions/load_acc scanning loops, reworked into idiomatic Go:
// a bufio.Scanner line reader and explicit error returns in place of the
// source's scanf return-code checking.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ntmcore/ntmsim/machine"
	"github.com/ntmcore/ntmsim/tape"
)

// Machine is the parsed result of the tr/acc/max sections: a built
// TransitionIndex and the step budget to run it with.
type Machine struct {
	Index    *machine.TransitionIndex
	MaxSteps uint64
}

// lineReader wraps a bufio.Scanner with one line of lookahead, so a
// section parser can recognize the next section's keyword without
// consuming it.
type lineReader struct {
	sc      *bufio.Scanner
	peeked  string
	hasPeek bool
	atEOF   bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{sc: bufio.NewScanner(r)}
}

func (lr *lineReader) peek() (string, bool) {
	if !lr.hasPeek && !lr.atEOF {
		if lr.sc.Scan() {
			lr.peeked = lr.sc.Text()
			lr.hasPeek = true
		} else {
			lr.atEOF = true
		}
	}
	return lr.peeked, lr.hasPeek
}

func (lr *lineReader) next() (string, bool) {
	line, ok := lr.peek()
	lr.hasPeek = false
	return line, ok
}

// Parse reads all four sections from r in order and returns the parsed
// machine plus the list of run strings. log receives debug diagnostics
// for invalid move characters (spec.md §7); a nil log discards them.
func Parse(r io.Reader, log *slog.Logger) (Machine, []string, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	lr := newLineReader(r)

	if err := expectKeyword(lr, "tr"); err != nil {
		return Machine{}, nil, err
	}
	b := machine.NewBuilder()
	parseTransitions(lr, b, log)

	// A malformed line ends the tr section early: it and any further lines
	// before the acc keyword are dropped rather than reported as an error.
	for line, ok := lr.peek(); ok && strings.TrimSpace(line) != "acc"; line, ok = lr.peek() {
		log.Debug("malformed transition line ends the tr section, dropping", "line", line)
		lr.next()
	}

	if err := expectKeyword(lr, "acc"); err != nil {
		return Machine{}, nil, err
	}
	accept := parseAccept(lr)

	if err := expectKeyword(lr, "max"); err != nil {
		return Machine{}, nil, err
	}
	maxSteps, err := parseMaxSteps(lr)
	if err != nil {
		return Machine{}, nil, err
	}

	if err := expectKeyword(lr, "run"); err != nil {
		return Machine{}, nil, err
	}
	runs := parseRuns(lr)

	idx := b.Build()
	idx.MarkAccept(accept...)
	logOutOfRangeAccepts(idx, accept, log)

	return Machine{Index: idx, MaxSteps: maxSteps}, runs, nil
}

// logOutOfRangeAccepts logs a debug diagnostic for each "acc" section entry
// MarkAccept silently ignored (spec.md §4.1: numbers outside [0, max_state]
// are dropped, not rejected). idx.State surfaces the out-of-range condition
// that MarkAccept itself never reports.
func logOutOfRangeAccepts(idx *machine.TransitionIndex, accept []int, log *slog.Logger) {
	for _, q := range accept {
		if _, err := idx.State(machine.StateID(q)); err != nil {
			log.Debug("acc section names a state outside the machine's range, ignoring", "state", q, "error", err)
		}
	}
}

func expectKeyword(lr *lineReader, want string) error {
	line, ok := lr.next()
	if !ok {
		return fmt.Errorf("parser: expected %q section keyword: %w", want, io.ErrUnexpectedEOF)
	}
	if got := strings.TrimSpace(line); got != want {
		return fmt.Errorf("parser: expected %q section keyword, got %q: %w", want, got, machine.ErrMalformedLine)
	}
	return nil
}

// parseTransitions reads "<q_in> <c_in> <c_out> <move> <q_out>" lines,
// stopping (without consuming) at the first line that doesn't parse as
// one — per spec.md §7 this silently ends the tr section early rather
// than erroring; Parse then drops the remaining lines up to "acc".
func parseTransitions(lr *lineReader, b *machine.Builder, log *slog.Logger) {
	for {
		line, ok := lr.peek()
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return
		}
		qIn, err := strconv.Atoi(fields[0])
		if err != nil || qIn < 0 || len(fields[1]) != 1 || len(fields[2]) != 1 {
			return
		}
		qOut, err := strconv.Atoi(fields[4])
		if err != nil || qOut < 0 {
			return
		}

		move, recognized := tape.ParseMove(fields[3][0])
		if !recognized {
			log.Debug("invalid move character, treating as stay", "move", fields[3])
		}

		b.AddTransition(machine.StateID(qIn), tape.Symbol(fields[1][0]), tape.Symbol(fields[2][0]), move, machine.StateID(qOut))
		lr.next()
	}
}

// parseAccept reads decimal state numbers, one per line, stopping
// (without consuming) at the first line that isn't one.
func parseAccept(lr *lineReader) []int {
	var out []int
	for {
		line, ok := lr.peek()
		if !ok {
			return out
		}
		q, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return out
		}
		out = append(out, q)
		lr.next()
	}
}

func parseMaxSteps(lr *lineReader) (uint64, error) {
	line, ok := lr.next()
	if !ok {
		return 0, fmt.Errorf("parser: expected max_steps value, got EOF")
	}
	n, err := strconv.ParseUint(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parser: invalid max_steps value: %w", err)
	}
	return n, nil
}

// parseRuns reads every remaining line as a run string, per spec.md §6:
// "end of input terminates the run list."
func parseRuns(lr *lineReader) []string {
	var out []string
	for {
		line, ok := lr.next()
		if !ok {
			return out
		}
		out = append(out, line)
	}
}
