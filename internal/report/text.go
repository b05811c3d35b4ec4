// Package report renders analysis results for humans and machines: plain
// text, JSON, SARIF 2.1.0 and graph formats (DOT, Mermaid).
package report

import (
	"fmt"
	"io"
	"strings"

	"wirelint/internal/analyzer"
	"wirelint/internal/rules"
)

// WriteText renders the human-readable lint report.
func WriteText(w io.Writer, result *analyzer.Result) error {
	for _, pe := range result.ParseErrors {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: error: syntax error\n", pe.File, pe.Line, pe.Column); err != nil {
			return err
		}
	}

	for _, issue := range result.Issues {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s [%s] %s\n",
			issue.File, issue.Line, issue.Column, issue.Severity, issue.RuleID, issue.Message); err != nil {
			return err
		}
		if issue.Suggestion != "" {
			for _, line := range strings.Split(issue.Suggestion, "\n") {
				if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
					return err
				}
			}
		}
	}

	errs, warns := 0, 0
	for _, issue := range result.Issues {
		switch issue.Severity {
		case rules.SeverityError:
			errs++
		case rules.SeverityWarning:
			warns++
		}
	}
	errs += len(result.ParseErrors)

	_, err := fmt.Fprintf(w, "\n%d resource(s), %d error(s), %d warning(s)\n",
		len(result.Discovery), errs, warns)
	return err
}

// WriteDiscovery renders the discovered resource inventory as a table.
func WriteDiscovery(w io.Writer, result *analyzer.Result) error {
	for _, rec := range result.Discovery {
		if _, err := fmt.Fprintf(w, "%-10s %-30s %s:%d\n", rec.Kind, rec.Name, rec.File, rec.Line); err != nil {
			return err
		}
	}
	for _, pe := range result.ParseErrors {
		if _, err := fmt.Fprintf(w, "%-10s %-30s %s:%d (syntax error)\n", "error", "-", pe.File, pe.Line); err != nil {
			return err
		}
	}
	return nil
}

// WriteOrders renders per-workflow job orderings, one workflow per block.
func WriteOrders(w io.Writer, orders []analyzer.WorkflowOrder) error {
	for _, o := range orders {
		if o.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: error: %s\n", o.Workflow, o.Err); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", o.Workflow, strings.Join(o.Jobs, " -> ")); err != nil {
			return err
		}
	}
	return nil
}
