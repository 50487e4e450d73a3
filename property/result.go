package property

import (
	"fmt"
	"strings"
	"time"
)

// Status is the outcome of a property check.
type Status int

const (
	// Satisfied means no sample falsified the property.
	Satisfied Status = iota
	// Falsified means a sample falsified the property.
	Falsified
	// Exhausted means too many samples were discarded by assumptions or
	// filters for the check to be meaningful.
	Exhausted
	// Aborted means the check could not run, e.g. because of an invalid
	// configuration or a generator that cannot produce values.
	Aborted
)

func (s Status) String() string {
	switch s {
	case Satisfied:
		return "SATISFIED"
	case Falsified:
		return "FALSIFIED"
	case Exhausted:
		return "EXHAUSTED"
	case Aborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// Result reports a property check.
type Result struct {
	Property   string
	Status     Status
	Seed       int64
	Generation GenerationMode

	CountTries    int
	CountChecks   int
	CountDiscards int

	OriginalSample any
	ShrunkSample   any
	ShrinkSteps    int
	BoundReached   bool

	// Err is the error that falsified the property or aborted the check.
	Err      error
	Duration time.Duration
}

// Passed reports whether the property was satisfied.
func (r Result) Passed() bool {
	return r.Status == Satisfied
}

func (r Result) String() string {
	var b strings.Builder
	switch r.Status {
	case Satisfied:
		fmt.Fprintf(&b, "property %q satisfied: %d tries, %d checks (%s, seed %d)",
			r.Property, r.CountTries, r.CountChecks, r.Generation, r.Seed)
	case Falsified:
		fmt.Fprintf(&b, "property %q falsified after %d tries (%s, seed %d)",
			r.Property, r.CountTries, r.Generation, r.Seed)
		fmt.Fprintf(&b, "\n  original sample: %v", r.OriginalSample)
		fmt.Fprintf(&b, "\n  shrunk sample:   %v (%d steps)", r.ShrunkSample, r.ShrinkSteps)
		if r.BoundReached {
			b.WriteString("\n  shrinking bound reached")
		}
	case Exhausted:
		fmt.Fprintf(&b, "property %q exhausted: %d of %d samples discarded (seed %d)",
			r.Property, r.CountDiscards, r.CountTries, r.Seed)
	default:
		fmt.Fprintf(&b, "property %q aborted", r.Property)
	}
	if r.Err != nil {
		fmt.Fprintf(&b, "\n  error: %v", r.Err)
	}
	return b.String()
}
