package rules

import (
	"fmt"
	"strings"

	"wirelint/internal/scanner"
)

// SizeRule warns when a single file declares more jobs than MaxJobs and
// proposes a category-based split plan.
type SizeRule struct {
	MaxJobs int
}

func (r *SizeRule) ID() string { return "WFL001" }

func (r *SizeRule) Description() string {
	return fmt.Sprintf("warn when a file declares more than %d jobs", r.MaxJobs)
}

func (r *SizeRule) CheckFile(file *scanner.FileResult) []Issue {
	var jobNames []string
	for _, res := range file.Resources {
		if res.Kind == scanner.KindJob {
			jobNames = append(jobNames, res.Name)
		}
	}
	if len(jobNames) <= r.MaxJobs {
		return nil
	}

	groups := SuggestSplits(jobNames, r.MaxJobs)
	var plan strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&plan, "  %s.py: %s\n", g.Name, strings.Join(g.Jobs, ", "))
	}

	return []Issue{{
		File:     file.Path,
		Line:     1,
		Column:   1,
		Severity: SeverityWarning,
		RuleID:   r.ID(),
		Message: fmt.Sprintf("file declares %d jobs (max %d), consider splitting it",
			len(jobNames), r.MaxJobs),
		Suggestion: "split into:\n" + plan.String(),
	}}
}
