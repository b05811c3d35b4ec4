package rules

// Job categorization for the size rule's split plan. Categories are
// evaluated in a fixed precedence order (ci, deploy, release, security,
// maintenance) with main as the fallback, first keyword match wins. The
// order is part of the rule's contract: the same job list always produces
// the same plan.

import (
	"strconv"
	"strings"
)

const DefaultMaxJobsPerFile = 10

// CategoryMain collects jobs no keyword set claims.
const CategoryMain = "main"

type category struct {
	name     string
	keywords []string
}

var categories = []category{
	{"ci", []string{
		"build", "test", "lint", "format", "check", "validate",
		"typecheck", "type-check", "type_check", "coverage", "analyze",
		"compile", "ci",
	}},
	{"deploy", []string{
		"deploy", "deployment", "staging", "production", "prod",
		"cdk", "terraform", "infrastructure", "infra", "provision",
	}},
	{"release", []string{
		"release", "publish", "upload", "package", "dist", "npm",
		"pypi", "docker", "registry", "tag", "version",
	}},
	{"security", []string{
		"security", "scan", "codeql", "dependabot", "vulnerability",
		"snyk", "trivy", "audit", "sast", "dast",
	}},
	{"maintenance", []string{
		"cleanup", "clean", "stale", "prune", "expire", "archive",
		"schedule", "cron", "nightly", "weekly", "maintenance",
	}},
}

// Categorize maps a job name to exactly one category.
func Categorize(jobName string) string {
	name := strings.ReplaceAll(strings.ToLower(jobName), "-", "_")
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(name, kw) {
				return cat.name
			}
		}
	}
	return CategoryMain
}

// SplitGroup is one suggested target file of a split plan.
type SplitGroup struct {
	Name string // suggested file stem, e.g. "ci" or "ci2"
	Jobs []string
}

// SuggestSplits groups jobs by category, preserving declaration order
// within each group. A category holding more than maxPerFile jobs is
// chunked into numbered files. Groups come back in category precedence
// order, main last.
func SuggestSplits(jobNames []string, maxPerFile int) []SplitGroup {
	if maxPerFile <= 0 {
		maxPerFile = DefaultMaxJobsPerFile
	}

	grouped := make(map[string][]string)
	for _, name := range jobNames {
		cat := Categorize(name)
		grouped[cat] = append(grouped[cat], name)
	}

	order := make([]string, 0, len(categories)+1)
	for _, cat := range categories {
		order = append(order, cat.name)
	}
	order = append(order, CategoryMain)

	var groups []SplitGroup
	for _, cat := range order {
		names := grouped[cat]
		if len(names) == 0 {
			continue
		}
		if len(names) <= maxPerFile {
			groups = append(groups, SplitGroup{Name: cat, Jobs: names})
			continue
		}
		for i, chunk := 0, 1; i < len(names); i, chunk = i+maxPerFile, chunk+1 {
			end := i + maxPerFile
			if end > len(names) {
				end = len(names)
			}
			groups = append(groups, SplitGroup{
				Name: cat + strconv.Itoa(chunk),
				Jobs: names[i:end],
			})
		}
	}
	return groups
}
