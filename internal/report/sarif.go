package report

import (
	"encoding/json"
	"path/filepath"
	"sort"

	"wirelint/internal/rules"
	"wirelint/internal/version"
)

// SARIF v2.1.0 schema, see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// ruleMeta describes each rule id once for the SARIF rules array.
type ruleMeta struct {
	name  string
	desc  string
	level string
}

var sarifRuleMeta = map[string]ruleMeta{
	"WFL001": {"FileTooLarge", "A source file declares more jobs than the configured limit.", "warning"},
	"WFL002": {"DuplicateResourceName", "Two resources of the same kind share a name.", "warning"},
	"WFL003": {"DependencyCycle", "A workflow's job dependencies form a cycle.", "error"},
	"WFL004": {"DanglingNeeds", "A needs reference does not resolve to any job in the workflow.", "error"},
	"WFL005": {"MissingRequiredField", "A resource declaration is missing a required field.", "warning"},
}

// GenerateSARIF builds a SARIF v2.1.0 document from the issue list. File
// URIs are made relative to projectRoot; absolute paths are never included
// so that reports are safe to share.
func GenerateSARIF(projectRoot string, issues []rules.Issue) ([]byte, error) {
	results := make([]sarifResult, 0, len(issues))
	seenRules := make(map[string]bool)

	for _, issue := range issues {
		seenRules[issue.RuleID] = true

		result := sarifResult{
			RuleID:  issue.RuleID,
			Level:   severityToLevel(issue.Severity),
			Message: sarifMessage{Text: issue.Message},
		}
		if issue.File != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(projectRoot, issue.File),
						URIBaseID: "%SRCROOT%",
					},
				},
			}
			if issue.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   issue.Line,
					StartColumn: issue.Column,
				}
			}
			result.Locations = []sarifLocation{loc}
		}
		results = append(results, result)
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "wirelint",
						Version: version.Version,
						Rules:   buildSARIFRules(seenRules),
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(doc, "", "  ")
}

// buildSARIFRules returns metadata for only the rules that actually fired,
// in rule id order.
func buildSARIFRules(seen map[string]bool) []sarifRule {
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]sarifRule, 0, len(ids))
	for _, id := range ids {
		meta, ok := sarifRuleMeta[id]
		if !ok {
			meta = ruleMeta{name: id, desc: "Lint rule " + id + ".", level: "warning"}
		}
		out = append(out, sarifRule{
			ID:               id,
			Name:             meta.name,
			ShortDescription: sarifMessage{Text: meta.desc},
			DefaultConfig:    sarifRuleDefaultConfig{Level: meta.level},
		})
	}
	return out
}

func severityToLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return "error"
	case rules.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. Relative paths pass through unchanged apart from
// slash normalization.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		if rel, err := filepath.Rel(projectRoot, filePath); err == nil {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}
