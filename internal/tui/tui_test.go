package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"wirelint/internal/analyzer"
	"wirelint/internal/rules"
	"wirelint/internal/scanner"
)

func TestModelInitialView(t *testing.T) {
	m := initialModel()
	if m.Init() != nil {
		t.Error("Init should not schedule commands")
	}

	view := m.View()
	if !strings.Contains(view, "Workflow Lint Monitor") {
		t.Errorf("Missing title in view: %s", view)
	}
	if !strings.Contains(view, "Clean") {
		t.Error("Empty model should render as clean")
	}
}

func TestModelAppliesResult(t *testing.T) {
	result := &analyzer.Result{
		Discovery: []analyzer.DiscoveryRecord{
			{Name: "ci", Kind: scanner.KindWorkflow, File: "ci.py", Line: 1},
		},
		Issues: []rules.Issue{
			{File: "ci.py", Line: 3, Severity: rules.SeverityError, RuleID: "WFL003", Message: "cycle"},
			{File: "ci.py", Line: 5, Severity: rules.SeverityWarning, RuleID: "WFL001", Message: "too big"},
		},
		ParseErrors: []scanner.ParseError{{File: "bad.py", Line: 1, Column: 1}},
		Orders: []analyzer.WorkflowOrder{
			{Workflow: "ci", Jobs: []string{"build", "test"}},
			{Workflow: "broken", Err: errors.New("cycle involving: a, b")},
		},
	}

	updated, _ := initialModel().Update(updateMsg{result: result})
	m := updated.(model)

	if m.errorCount != 1 || m.warnCount != 1 || m.parseErrCnt != 1 {
		t.Errorf("Counts wrong: errors=%d warnings=%d parse=%d", m.errorCount, m.warnCount, m.parseErrCnt)
	}
	if len(m.issueList.Items()) != 3 {
		t.Errorf("Expected 3 issue items, got %d", len(m.issueList.Items()))
	}
	if len(m.workflowList.Items()) != 2 {
		t.Errorf("Expected 2 workflow items, got %d", len(m.workflowList.Items()))
	}

	view := m.View()
	if !strings.Contains(view, "2 errors") {
		t.Errorf("View should merge parse errors into the error count: %s", view)
	}
}

func TestModelPanelSwitch(t *testing.T) {
	m := initialModel()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(model)
	if m.mode != panelWorkflows {
		t.Error("Tab should switch to the workflow panel")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(model)
	if m.mode != panelIssues {
		t.Error("Tab should switch back to the issue panel")
	}
}

func TestModelQuit(t *testing.T) {
	m := initialModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if msg := cmd(); msg == nil {
		t.Error("quit command should produce a message")
	}
}
