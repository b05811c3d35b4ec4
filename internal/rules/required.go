package rules

import (
	"fmt"

	"wirelint/internal/scanner"
)

// RequiredFieldsRule warns about workflows missing the arguments a usable
// declaration needs: a trigger (on=) and a jobs mapping.
type RequiredFieldsRule struct{}

func (r *RequiredFieldsRule) ID() string { return "WFL005" }

func (r *RequiredFieldsRule) Description() string {
	return "warn when a workflow declaration is missing required fields"
}

func (r *RequiredFieldsRule) CheckFile(file *scanner.FileResult) []Issue {
	var issues []Issue
	for i := range file.Resources {
		res := &file.Resources[i]
		if res.Kind != scanner.KindWorkflow {
			continue
		}
		for _, field := range []string{"on", "jobs"} {
			if res.HasField(field) {
				continue
			}
			issues = append(issues, Issue{
				File:     res.Location.File,
				Line:     res.Location.Line,
				Column:   res.Location.Column,
				Severity: SeverityWarning,
				RuleID:   r.ID(),
				Message: fmt.Sprintf("workflow %q has no %s= argument",
					res.Name, field),
				Suggestion: fmt.Sprintf("add %s=... to the Workflow declaration", field),
			})
		}
	}
	return issues
}
