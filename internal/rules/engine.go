// Package rules is the lint layer: a flat registry of independent checks,
// each keyed by a stable rule id. Per-file rules see one scanned file;
// cross-file rules see the symbol index for the whole pass. Rules only
// report; nothing is ever auto-applied.
package rules

import (
	"sort"

	"wirelint/internal/index"
	"wirelint/internal/scanner"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one located rule match. Fixable marks violations with a
// mechanical, information-preserving correction; the base rule set reports
// descriptively only and leaves every fix to the caller.
type Issue struct {
	File       string
	Line       int
	Column     int
	Severity   Severity
	RuleID     string
	Message    string
	Suggestion string
	Fixable    bool
}

// FileRule evaluates one file's scan result.
type FileRule interface {
	ID() string
	Description() string
	CheckFile(file *scanner.FileResult) []Issue
}

// IndexRule evaluates the whole pass once, after every file has been
// scanned.
type IndexRule interface {
	ID() string
	Description() string
	CheckIndex(idx *index.Index) []Issue
}

// Options tune the default rule set.
type Options struct {
	MaxJobsPerFile int
	Disabled       []string
}

type Engine struct {
	fileRules  []FileRule
	indexRules []IndexRule
}

// NewEngine builds an engine holding the default registry, minus any
// disabled rule ids.
func NewEngine(opts Options) *Engine {
	maxJobs := opts.MaxJobsPerFile
	if maxJobs <= 0 {
		maxJobs = DefaultMaxJobsPerFile
	}

	disabled := make(map[string]bool, len(opts.Disabled))
	for _, id := range opts.Disabled {
		disabled[id] = true
	}

	e := &Engine{}
	for _, r := range []FileRule{
		&SizeRule{MaxJobs: maxJobs},
		&RequiredFieldsRule{},
	} {
		if !disabled[r.ID()] {
			e.fileRules = append(e.fileRules, r)
		}
	}
	for _, r := range []IndexRule{
		&DuplicateNameRule{},
		&CycleRule{},
		&DanglingNeedsRule{},
	} {
		if !disabled[r.ID()] {
			e.indexRules = append(e.indexRules, r)
		}
	}
	return e
}

// CheckFile runs every registered per-file rule and merges the results.
func (e *Engine) CheckFile(file *scanner.FileResult) []Issue {
	var issues []Issue
	for _, r := range e.fileRules {
		issues = append(issues, r.CheckFile(file)...)
	}
	SortIssues(issues)
	return issues
}

// CheckIndex runs every cross-file rule once against the pass's index.
func (e *Engine) CheckIndex(idx *index.Index) []Issue {
	var issues []Issue
	for _, r := range e.indexRules {
		issues = append(issues, r.CheckIndex(idx)...)
	}
	SortIssues(issues)
	return issues
}

// FileRules exposes the registry for listing commands.
func (e *Engine) FileRules() []FileRule { return e.fileRules }

// IndexRules exposes the cross-file registry for listing commands.
func (e *Engine) IndexRules() []IndexRule { return e.indexRules }

// SortIssues orders issues by (file, line, column, ruleId) so output is
// reproducible across runs.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.RuleID < b.RuleID
	})
}

// HasErrors reports whether any issue carries error severity.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}
