package rules

import (
	"fmt"
	"strings"

	"wirelint/internal/index"
	"wirelint/internal/jobgraph"
)

// CycleRule reports workflows whose job graph is not a DAG. The issue sits
// at the workflow's declaration and names every job on the cyclic remainder.
type CycleRule struct{}

func (r *CycleRule) ID() string { return "WFL003" }

func (r *CycleRule) Description() string {
	return "flag circular needs dependencies between a workflow's jobs"
}

func (r *CycleRule) CheckIndex(idx *index.Index) []Issue {
	var issues []Issue
	for _, wf := range idx.Workflows() {
		g := jobgraph.Build(wf, idx)
		members := g.CycleMembers()
		if len(members) == 0 {
			continue
		}

		paths := make([]string, 0, 1)
		for _, cyc := range g.Cycles() {
			if len(cyc) == 0 {
				continue
			}
			paths = append(paths, strings.Join(append(cyc, cyc[0]), " -> "))
		}
		suggestion := "break the cycle by removing one of the needs references"
		if len(paths) > 0 {
			suggestion = "break one of: " + strings.Join(paths, "; ")
		}

		issues = append(issues, Issue{
			File:     wf.Location.File,
			Line:     wf.Location.Line,
			Column:   wf.Location.Column,
			Severity: SeverityError,
			RuleID:   r.ID(),
			Message: fmt.Sprintf("workflow %q has a dependency cycle involving: %s",
				wf.Name, strings.Join(members, ", ")),
			Suggestion: suggestion,
		})
	}
	return issues
}
