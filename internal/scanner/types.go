package scanner

import (
	"fmt"
	"time"
)

// Kind is the declared type of a discovered resource.
type Kind string

const (
	KindWorkflow Kind = "Workflow"
	KindJob      Kind = "Job"
)

// DiscoverableTypes are the callee names the scanner recognizes on the
// right-hand side of a top-level assignment.
var DiscoverableTypes = map[string]Kind{
	"Workflow": KindWorkflow,
	"Job":      KindJob,
}

type Location struct {
	File   string
	Line   int
	Column int
}

// JobBinding is one entry of a workflow's jobs={...} mapping: the job key as
// it will appear in generated output, and the variable the key is bound to.
type JobBinding struct {
	Key  string
	Var  string
	Line int
}

// Resource is a Workflow or Job discovered in source. Immutable once
// returned by the scanner.
type Resource struct {
	Name     string
	Kind     Kind
	Module   string // file stem, e.g. "ci" for workflows/ci.py
	Location Location

	// Workflow only: jobs mapping entries in declaration order.
	Jobs []JobBinding

	// Job only: raw needs references, verbatim and unevaluated. A dynamic
	// expression in needs position is recorded as one opaque entry.
	Needs     []string
	NeedsLine int

	// Keyword arguments of the declaration, keyed by argument name with the
	// raw source text as value. Expression values are not evaluated.
	RawFields map[string]string
}

// HasField reports whether the declaration supplied the named keyword
// argument.
func (r *Resource) HasField(name string) bool {
	_, ok := r.RawFields[name]
	return ok
}

// FileResult is the outcome of scanning one source file.
type FileResult struct {
	Path      string
	Resources []Resource
	ParseErr  *ParseError
	ScannedAt time.Time
}

// ParseError marks a file whose text could not be structurally analyzed.
// It is a discovery-level entry, not a scan-aborting failure.
type ParseError struct {
	File   string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error", e.File, e.Line, e.Column)
}
