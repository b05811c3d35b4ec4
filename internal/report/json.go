package report

import (
	"encoding/json"
	"io"

	"wirelint/internal/analyzer"
	"wirelint/internal/rules"
	"wirelint/internal/scanner"
	"wirelint/internal/version"
)

type jsonIssue struct {
	File       string `json:"file"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Severity   string `json:"severity"`
	RuleID     string `json:"ruleId"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Fixable    bool   `json:"fixable,omitempty"`
}

type jsonParseError struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

type jsonFileIssues struct {
	File   string      `json:"file"`
	Issues []jsonIssue `json:"issues"`
}

type jsonOrder struct {
	Workflow string   `json:"workflow"`
	File     string   `json:"file"`
	Jobs     []string `json:"jobs,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type jsonReport struct {
	Version     string                    `json:"version"`
	Discovery   []analyzer.DiscoveryRecord `json:"discovery"`
	Issues      []jsonIssue               `json:"issues"`
	Files       []jsonFileIssues          `json:"files,omitempty"`
	ParseErrors []jsonParseError          `json:"parseErrors,omitempty"`
	Orders      []jsonOrder               `json:"orders,omitempty"`
	Failed      bool                      `json:"failed"`
}

// WriteJSON renders the full result as one indented JSON document.
func WriteJSON(w io.Writer, result *analyzer.Result) error {
	doc := jsonReport{
		Version:   version.Version,
		Discovery: result.Discovery,
		Issues:    toJSONIssues(result.Issues),
		Failed:    result.Failed(),
	}
	if doc.Discovery == nil {
		doc.Discovery = []analyzer.DiscoveryRecord{}
	}

	for _, fi := range result.PerFileIssues() {
		doc.Files = append(doc.Files, jsonFileIssues{File: fi.File, Issues: toJSONIssues(fi.Issues)})
	}
	for _, pe := range result.ParseErrors {
		doc.ParseErrors = append(doc.ParseErrors, toJSONParseError(pe))
	}
	for _, o := range result.Orders {
		jo := jsonOrder{Workflow: o.Workflow, File: o.File, Jobs: o.Jobs}
		if o.Err != nil {
			jo.Error = o.Err.Error()
		}
		doc.Orders = append(doc.Orders, jo)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func toJSONIssues(issues []rules.Issue) []jsonIssue {
	out := make([]jsonIssue, 0, len(issues))
	for _, issue := range issues {
		out = append(out, jsonIssue{
			File:       issue.File,
			Line:       issue.Line,
			Column:     issue.Column,
			Severity:   string(issue.Severity),
			RuleID:     issue.RuleID,
			Message:    issue.Message,
			Suggestion: issue.Suggestion,
			Fixable:    issue.Fixable,
		})
	}
	return out
}

func toJSONParseError(pe scanner.ParseError) jsonParseError {
	return jsonParseError{File: pe.File, Line: pe.Line, Column: pe.Column, Message: "syntax error"}
}
