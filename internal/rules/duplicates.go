package rules

import (
	"fmt"
	"strings"

	"wirelint/internal/index"
	"wirelint/internal/scanner"
)

// DuplicateNameRule flags resource names declared more than once within the
// same kind anywhere in the scanned tree. The issue sits at the first
// declaration and its message lists every declaring location.
type DuplicateNameRule struct{}

func (r *DuplicateNameRule) ID() string { return "WFL002" }

func (r *DuplicateNameRule) Description() string {
	return "flag resource names declared more than once across the scanned tree"
}

func (r *DuplicateNameRule) CheckIndex(idx *index.Index) []Issue {
	var issues []Issue
	for _, kind := range []scanner.Kind{scanner.KindWorkflow, scanner.KindJob} {
		for _, dup := range idx.Duplicates(kind) {
			locs := make([]string, len(dup.Locations))
			for i, loc := range dup.Locations {
				locs[i] = fmt.Sprintf("%s:%d", loc.File, loc.Line)
			}
			first := dup.Locations[0]
			issues = append(issues, Issue{
				File:     first.File,
				Line:     first.Line,
				Column:   first.Column,
				Severity: SeverityWarning,
				RuleID:   r.ID(),
				Message: fmt.Sprintf("%s %q declared %d times: %s",
					strings.ToLower(string(dup.Kind)), dup.Name,
					len(dup.Locations), strings.Join(locs, ", ")),
				Suggestion: fmt.Sprintf("rename the later declarations of %q", dup.Name),
			})
		}
	}
	return issues
}
