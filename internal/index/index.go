// Package index accumulates discovered resources for a single scan pass and
// answers name lookups for cross-file analysis. An Index is scoped to one
// scan invocation; there is no persisted cross-run state here.
package index

import (
	"sort"

	"wirelint/internal/scanner"
)

type Index struct {
	resources []scanner.Resource
	byKind    map[scanner.Kind]map[string][]scanner.Resource // kind -> name -> decls
	parseErrs []scanner.ParseError
}

func New() *Index {
	return &Index{
		byKind: map[scanner.Kind]map[string][]scanner.Resource{
			scanner.KindWorkflow: {},
			scanner.KindJob:      {},
		},
	}
}

// AddFile folds one file's scan result into the index.
func (x *Index) AddFile(result *scanner.FileResult) {
	if result == nil {
		return
	}
	if result.ParseErr != nil {
		x.parseErrs = append(x.parseErrs, *result.ParseErr)
		return
	}
	for _, res := range result.Resources {
		x.resources = append(x.resources, res)
		names := x.byKind[res.Kind]
		names[res.Name] = append(names[res.Name], res)
	}
}

// Resources returns every discovered resource sorted by (file, line).
func (x *Index) Resources() []scanner.Resource {
	out := make([]scanner.Resource, len(x.resources))
	copy(out, x.resources)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Location.File != out[j].Location.File {
			return out[i].Location.File < out[j].Location.File
		}
		return out[i].Location.Line < out[j].Location.Line
	})
	return out
}

// Workflows returns discovered workflows sorted by (file, line).
func (x *Index) Workflows() []scanner.Resource {
	var out []scanner.Resource
	for _, res := range x.Resources() {
		if res.Kind == scanner.KindWorkflow {
			out = append(out, res)
		}
	}
	return out
}

// LookupJob resolves a job variable name to its declaration. When the same
// name is declared more than once the first by (file, line) wins; the
// duplicate itself is reported by the duplicate-name rule.
func (x *Index) LookupJob(name string) (scanner.Resource, bool) {
	decls := x.byKind[scanner.KindJob][name]
	if len(decls) == 0 {
		return scanner.Resource{}, false
	}
	best := decls[0]
	for _, d := range decls[1:] {
		if d.Location.File < best.Location.File ||
			(d.Location.File == best.Location.File && d.Location.Line < best.Location.Line) {
			best = d
		}
	}
	return best, true
}

// Duplicates returns, per kind, the names declared more than once together
// with every declaring location. Names are returned in sorted order so
// reports are reproducible.
func (x *Index) Duplicates(kind scanner.Kind) []Duplicate {
	var out []Duplicate
	for name, decls := range x.byKind[kind] {
		if len(decls) < 2 {
			continue
		}
		locs := make([]scanner.Location, 0, len(decls))
		for _, d := range decls {
			locs = append(locs, d.Location)
		}
		sort.Slice(locs, func(i, j int) bool {
			if locs[i].File != locs[j].File {
				return locs[i].File < locs[j].File
			}
			return locs[i].Line < locs[j].Line
		})
		out = append(out, Duplicate{Kind: kind, Name: name, Locations: locs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ParseErrors returns the parse failures recorded during the pass, sorted by
// file path.
func (x *Index) ParseErrors() []scanner.ParseError {
	out := make([]scanner.ParseError, len(x.parseErrs))
	copy(out, x.parseErrs)
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

type Duplicate struct {
	Kind      scanner.Kind
	Name      string
	Locations []scanner.Location
}
