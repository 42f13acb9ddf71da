package engine

import "fmt"

// Discipline selects the run queue's pop order. spec.md permits either;
// the observable set of reachable verdicts is unaffected, only which
// verdict is witnessed first when more than one is reachable.
type Discipline uint8

const (
	// LIFO pops the most recently pushed branch first (depth-first
	// exploration). This is the source's discipline and the default here.
	LIFO Discipline = iota
	// FIFO pops the oldest pushed branch first (breadth-first exploration).
	FIFO
)

// Config controls Scheduler behavior, grounded on coregex's meta.Config:
// an exported struct, a DefaultConfig constructor, and a Validate method
// that range-checks fields before use.
type Config struct {
	// MaxSteps is the per-branch step budget (spec.md's max_steps). A
	// branch that reaches this many executed transitions is preempted.
	MaxSteps uint64

	// QueueDiscipline selects LIFO or FIFO run-queue order.
	QueueDiscipline Discipline
}

// DefaultConfig returns a Config with LIFO discipline and MaxSteps left at
// zero, a budget under which every branch is preempted before it executes
// a transition (callers reading a machine definition must set MaxSteps
// from the "max" section).
func DefaultConfig() Config {
	return Config{
		QueueDiscipline: LIFO,
	}
}

// Validate range-checks the configuration.
func (c Config) Validate() error {
	if c.QueueDiscipline != LIFO && c.QueueDiscipline != FIFO {
		return fmt.Errorf("engine: invalid queue discipline %d", c.QueueDiscipline)
	}
	return nil
}
