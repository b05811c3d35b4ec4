// Package tui is the interactive watch-mode front end: a two-panel terminal
// browser over lint issues and discovered workflows, refreshed on every
// rescan.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wirelint/internal/analyzer"
	"wirelint/internal/rules"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelIssues panelMode = iota
	panelWorkflows
)

type updateMsg struct {
	result *analyzer.Result
}

type model struct {
	issueList    list.Model
	workflowList list.Model
	mode         panelMode

	errorCount  int
	warnCount   int
	resourceCnt int
	parseErrCnt int
	lastUpdate  time.Time
}

func initialModel() model {
	issueList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	issueList.Title = "Lint Issues"
	issueList.SetShowStatusBar(false)
	issueList.SetFilteringEnabled(true)

	workflowList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	workflowList.Title = "Workflows"
	workflowList.SetShowStatusBar(false)
	workflowList.SetFilteringEnabled(true)

	return model{
		issueList:    issueList,
		workflowList: workflowList,
		mode:         panelIssues,
		lastUpdate:   time.Now(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			if m.mode == panelIssues {
				m.mode = panelWorkflows
			} else {
				m.mode = panelIssues
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		m.issueList.SetSize(width, height)
		m.workflowList.SetSize(width, height)
	case updateMsg:
		m = m.applyResult(msg.result)
	}

	var cmd tea.Cmd
	if m.mode == panelIssues {
		m.issueList, cmd = m.issueList.Update(msg)
	} else {
		m.workflowList, cmd = m.workflowList.Update(msg)
	}
	return m, cmd
}

func (m model) applyResult(result *analyzer.Result) model {
	m.lastUpdate = time.Now()
	m.resourceCnt = len(result.Discovery)
	m.parseErrCnt = len(result.ParseErrors)
	m.errorCount, m.warnCount = 0, 0

	items := []list.Item{}
	for _, pe := range result.ParseErrors {
		items = append(items, item{
			title: "Syntax Error",
			desc:  fmt.Sprintf("%s:%d:%d", pe.File, pe.Line, pe.Column),
		})
	}
	for _, issue := range result.Issues {
		switch issue.Severity {
		case rules.SeverityError:
			m.errorCount++
		case rules.SeverityWarning:
			m.warnCount++
		}
		items = append(items, item{
			title: fmt.Sprintf("%s %s", issue.RuleID, issue.Severity),
			desc:  fmt.Sprintf("%s:%d %s", issue.File, issue.Line, issue.Message),
		})
	}
	m.issueList.SetItems(items)

	wfItems := []list.Item{}
	for _, o := range result.Orders {
		desc := strings.Join(o.Jobs, " -> ")
		if o.Err != nil {
			desc = errorStyle.Render(o.Err.Error())
		}
		wfItems = append(wfItems, item{title: o.Workflow, desc: desc})
	}
	if len(wfItems) == 0 {
		for _, rec := range result.Discovery {
			if rec.Kind != "Workflow" {
				continue
			}
			wfItems = append(wfItems, item{
				title: rec.Name,
				desc:  fmt.Sprintf("%s:%d", rec.File, rec.Line),
			})
		}
	}
	m.workflowList.SetItems(wfItems)

	return m
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d resources",
		m.lastUpdate.Format("15:04:05"), m.resourceCnt))

	var summary string
	if m.errorCount == 0 && m.warnCount == 0 && m.parseErrCnt == 0 {
		summary = successStyle.Render("Clean")
	} else {
		summary = fmt.Sprintf("%s | %s",
			errorStyle.Render(fmt.Sprintf("%d errors", m.errorCount+m.parseErrCnt)),
			warnStyle.Render(fmt.Sprintf("%d warnings", m.warnCount)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Workflow Lint Monitor"), status, summary)
	help := statusStyle.Render("tab: switch panel | /: filter | q: quit")

	body := m.issueList.View()
	if m.mode == panelWorkflows {
		body = m.workflowList.View()
	}

	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

// Program wraps the running bubbletea program so the watch loop can push
// fresh results into it.
type Program struct {
	p *tea.Program
}

func NewProgram() *Program {
	return &Program{p: tea.NewProgram(initialModel(), tea.WithAltScreen())}
}

// Push delivers a new analysis result to the UI. Safe from any goroutine.
func (p *Program) Push(result *analyzer.Result) {
	p.p.Send(updateMsg{result: result})
}

// Run blocks until the user quits.
func (p *Program) Run() error {
	_, err := p.p.Run()
	return err
}

// Quit asks the UI to exit.
func (p *Program) Quit() {
	p.p.Quit()
}
