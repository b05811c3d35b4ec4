package build

import (
	"context"
	"encoding/json"

	"wirelint/internal/jobgraph"
	"wirelint/internal/scanner"
)

// Manifest is the statically derivable shape of one workflow: its job
// order, each job's resolved declaration and needs, and the raw keyword
// fields as written. It contains no evaluated values.
type Manifest struct {
	Workflow string            `json:"workflow"`
	Source   string            `json:"source"`
	Fields   map[string]string `json:"fields,omitempty"`
	Jobs     []ManifestJob     `json:"jobs"`
}

type ManifestJob struct {
	Key      string            `json:"key"`
	Resource string            `json:"resource,omitempty"`
	Needs    []string          `json:"needs,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// ManifestLoader is the default Loader: it builds a Manifest from the scan
// data alone, never evaluating scanned source.
type ManifestLoader struct{}

func (ManifestLoader) Load(_ context.Context, wf scanner.Resource, g *jobgraph.Graph) (any, error) {
	m := &Manifest{
		Workflow: wf.Name,
		Source:   wf.Location.File,
		Fields:   wf.RawFields,
	}
	for _, node := range g.Nodes() {
		job := ManifestJob{Key: node.Name}
		if node.Resolved {
			job.Resource = node.Resource.Name
			job.Needs = node.Resource.Needs
			job.Fields = node.Resource.RawFields
		}
		m.Jobs = append(m.Jobs, job)
	}
	return m, nil
}

// JSONSerializer writes the manifest as indented JSON with jobs rearranged
// into orderer output order.
type JSONSerializer struct{}

func (JSONSerializer) Extension() string { return ".json" }

func (JSONSerializer) Serialize(_ scanner.Resource, orderedJobs []string, loaded any) ([]byte, error) {
	m, ok := loaded.(*Manifest)
	if !ok {
		return json.MarshalIndent(loaded, "", "  ")
	}

	byKey := make(map[string]ManifestJob, len(m.Jobs))
	for _, job := range m.Jobs {
		byKey[job.Key] = job
	}
	ordered := make([]ManifestJob, 0, len(m.Jobs))
	for _, key := range orderedJobs {
		if job, ok := byKey[key]; ok {
			ordered = append(ordered, job)
		}
	}
	m.Jobs = ordered

	return json.MarshalIndent(m, "", "  ")
}
