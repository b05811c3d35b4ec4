package rules

import (
	"fmt"

	"wirelint/internal/index"
	"wirelint/internal/jobgraph"
)

// DanglingNeedsRule reports every needs reference that does not resolve
// within its workflow's job set. One issue per unresolved edge, located at
// the declaring job.
type DanglingNeedsRule struct{}

func (r *DanglingNeedsRule) ID() string { return "WFL004" }

func (r *DanglingNeedsRule) Description() string {
	return "flag needs references that name no job in the workflow"
}

func (r *DanglingNeedsRule) CheckIndex(idx *index.Index) []Issue {
	var issues []Issue
	for _, wf := range idx.Workflows() {
		g := jobgraph.Build(wf, idx)
		for _, edge := range g.Dangling() {
			issues = append(issues, Issue{
				File:     edge.Location.File,
				Line:     edge.Location.Line,
				Column:   edge.Location.Column,
				Severity: SeverityError,
				RuleID:   r.ID(),
				Message: fmt.Sprintf("job %q in workflow %q needs %q, which is not a job of that workflow",
					edge.From, wf.Name, edge.Ref),
				Suggestion: fmt.Sprintf("add %q to the workflow's jobs mapping or fix the reference", edge.Ref),
			})
		}
	}
	return issues
}
