// Package report defines the tagged result/warning bundles every pipeline
// stage returns instead of raising across its boundary.
package report

import "fmt"

// Kind tags the category of a stage failure or warning.
type Kind int

const (
	// InvalidInput marks a fatal, stage-stopping input error: empty cloud,
	// self-intersecting footprint, inverted AABB.
	InvalidInput Kind = iota
	// NumericDegenerate marks a locally-recovered numerical failure: zero
	// variance, collinear RANSAC sample, degenerate triangle.
	NumericDegenerate
	// UnderConstrained marks a smoother component with no Dirichlet vertex.
	UnderConstrained
	// IterationLimit marks an iteration cap reached without convergence.
	IterationLimit
	// OutOfDomain marks a raster/terrain query outside its AABB (clamped).
	OutOfDomain
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case NumericDegenerate:
		return "NumericDegenerate"
	case UnderConstrained:
		return "UnderConstrained"
	case IterationLimit:
		return "IterationLimit"
	case OutOfDomain:
		return "OutOfDomain"
	default:
		return "Unknown"
	}
}

// Error is a fatal stage failure: the stage stops and returns no value.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

// Errorf builds a fatal Error of the given kind.
func Errorf(k Kind, format string, args ...interface{}) error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal event accumulated into a stage's Bundle.
type Warning struct {
	Kind Kind
	Msg  string
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.Kind, w.Msg) }

// Bundle accumulates the non-fatal warnings produced by a stage, alongside
// per-kind counts used by callers that only care about "did anything go
// wrong" without walking the full list.
type Bundle struct {
	Warnings []Warning
	counts   map[Kind]int
}

// NewBundle returns an empty warning bundle.
func NewBundle() *Bundle {
	return &Bundle{counts: make(map[Kind]int)}
}

// Warn records a non-fatal warning of the given kind.
func (b *Bundle) Warn(k Kind, format string, args ...interface{}) {
	if b.counts == nil {
		b.counts = make(map[Kind]int)
	}
	b.Warnings = append(b.Warnings, Warning{Kind: k, Msg: fmt.Sprintf(format, args...)})
	b.counts[k]++
}

// Merge appends o's warnings into b.
func (b *Bundle) Merge(o *Bundle) {
	if o == nil {
		return
	}
	for _, w := range o.Warnings {
		b.Warn(w.Kind, "%s", w.Msg)
	}
}

// Count returns how many warnings of kind k have been recorded.
func (b *Bundle) Count(k Kind) int {
	if b == nil || b.counts == nil {
		return 0
	}
	return b.counts[k]
}

// Empty reports whether no warnings have been recorded.
func (b *Bundle) Empty() bool { return b == nil || len(b.Warnings) == 0 }
