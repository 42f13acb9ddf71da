// Command ntmsim reads a machine definition and a list of input strings
// from stdin (spec.md §6) and writes one verdict character per line to
// stdout. Grounded on the overall shape of original_source/tm-sim.c's
// main(): load transitions, load acceptance states, load the step
// budget, then simulate each run string — reworked into a driver that
// wires the parser, machine.Builder, and a single reused engine.Scheduler
// (spec.md §4.5's "configuration is immutable, per-run state is
// separate" design, carried over from the teacher's PikeVM/PikeVMState
// split).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/ntmcore/ntmsim/engine"
	"github.com/ntmcore/ntmsim/internal/debuglog"
	"github.com/ntmcore/ntmsim/parser"
)

// dumpRing prints the ring buffer's retained diagnostics to stderr. Called
// on failure paths so a non-debug run still surfaces the recent debug-level
// context that led to the failure, without requiring a second -debug run.
func dumpRing(ring *debuglog.RingHandler) {
	for _, r := range ring.Records() {
		fmt.Fprintf(os.Stderr, "ntmsim: [debug] %s\n", r.Message)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin *os.File, stdout *os.File) int {
	fs := flag.NewFlagSet("ntmsim", flag.ContinueOnError)
	debug := fs.Bool("debug", false, "enable debug-level diagnostics on stderr")
	maxStepsOverride := fs.Uint64("max-steps", 0, "override the stdin \"max\" section's step budget (0 = use stdin value)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ring := debuglog.NewRingHandler(256)
	log := debuglog.New(*debug, ring)

	m, runs, err := parser.Parse(stdin, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ntmsim: %v\n", err)
		dumpRing(ring)
		return 1
	}

	cfg := engine.DefaultConfig()
	cfg.MaxSteps = m.MaxSteps
	if *maxStepsOverride > 0 {
		cfg.MaxSteps = *maxStepsOverride
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ntmsim: %v\n", err)
		dumpRing(ring)
		return 1
	}

	scheduler := engine.NewScheduler(m.Index, cfg)

	w := bufio.NewWriter(stdout)
	defer w.Flush()
	for _, s := range runs {
		verdict, err := scheduler.Run([]byte(s))
		if err != nil {
			fmt.Fprintf(os.Stderr, "ntmsim: %v\n", err)
			dumpRing(ring)
			return 1
		}
		fmt.Fprintf(w, "%c\n", verdict.Byte())
	}

	return 0
}
