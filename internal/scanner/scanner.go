// Package scanner discovers Workflow and Job declarations in Python source
// without executing it. Recognition is deliberately narrow: a top-level name
// bound to a call whose callee is a known resource type. Anything else
// (nested, conditional, or computed assignments) is invisible to discovery.
package scanner

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Scanner struct {
	pool *ParserPool
}

func New() *Scanner {
	return &Scanner{pool: NewParserPool()}
}

// ScanFile parses one file and extracts its declared resources. A file with
// syntax errors yields a FileResult carrying a ParseError instead of
// resources; the returned error is reserved for infrastructure failures.
func (s *Scanner) ScanFile(path string, content []byte) (*FileResult, error) {
	sp := s.pool.Get()
	defer s.pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.New("parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	result := &FileResult{Path: path, ScannedAt: time.Now()}

	if root.HasError() {
		line, col := firstErrorPosition(root)
		result.ParseErr = &ParseError{File: path, Line: line, Column: col}
		return result, nil
	}

	ext := &extraction{
		source:  content,
		path:    path,
		module:  moduleName(path),
		aliases: make(map[string]Kind),
	}

	for i := uint(0); i < root.ChildCount(); i++ {
		stmt := root.Child(i)
		switch stmt.Kind() {
		case "import_from_statement":
			ext.trackImportAliases(stmt)
		case "expression_statement":
			for j := uint(0); j < stmt.ChildCount(); j++ {
				if child := stmt.Child(j); child.Kind() == "assignment" {
					ext.extractAssignment(child)
				}
			}
		}
	}

	result.Resources = ext.resources
	return result, nil
}

func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// firstErrorPosition locates the first ERROR node so parse errors point at
// the offending line rather than the top of the file.
func firstErrorPosition(node *sitter.Node) (line, col int) {
	if node.Kind() == "ERROR" {
		return int(node.StartPosition().Row) + 1, int(node.StartPosition().Column) + 1
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.HasError() {
			continue
		}
		return firstErrorPosition(child)
	}
	return int(node.StartPosition().Row) + 1, int(node.StartPosition().Column) + 1
}

type extraction struct {
	source    []byte
	path      string
	module    string
	aliases   map[string]Kind // bound name -> resource kind
	resources []Resource
}

func (e *extraction) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(e.source[node.StartByte():node.EndByte()])
}

func (e *extraction) location(node *sitter.Node) Location {
	return Location{
		File:   e.path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

// trackImportAliases records `from x import Workflow as WF` style bindings so
// aliased callees are still recognized.
func (e *extraction) trackImportAliases(node *sitter.Node) {
	seenImport := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "import":
			seenImport = true
		case "dotted_name", "identifier":
			if !seenImport {
				continue // module path, not an imported item
			}
			name := e.text(child)
			if kind, ok := DiscoverableTypes[name]; ok {
				e.aliases[name] = kind
			}
		case "aliased_import":
			name := e.text(child.ChildByFieldName("name"))
			alias := e.text(child.ChildByFieldName("alias"))
			if kind, ok := DiscoverableTypes[name]; ok {
				if alias == "" {
					alias = name
				}
				e.aliases[alias] = kind
			}
		}
	}
}

// extractAssignment handles one top-level assignment node. Only the simple
// shape `name = Callee(...)` is considered; everything else is a discovery
// gap, not an error.
func (e *extraction) extractAssignment(node *sitter.Node) {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil || right == nil {
		return
	}
	if left.Kind() != "identifier" || right.Kind() != "call" {
		return
	}

	kind, ok := e.calleeKind(right.ChildByFieldName("function"))
	if !ok {
		return
	}

	res := Resource{
		Name:      e.text(left),
		Kind:      kind,
		Module:    e.module,
		Location:  e.location(node),
		RawFields: make(map[string]string),
	}

	args := right.ChildByFieldName("arguments")
	if args != nil {
		for i := uint(0); i < args.ChildCount(); i++ {
			kw := args.Child(i)
			if kw.Kind() != "keyword_argument" {
				continue
			}
			name := e.text(kw.ChildByFieldName("name"))
			value := kw.ChildByFieldName("value")
			if name == "" || value == nil {
				continue
			}
			res.RawFields[name] = e.text(value)

			switch {
			case kind == KindWorkflow && name == "jobs":
				res.Jobs = e.extractJobBindings(value)
			case kind == KindJob && name == "needs":
				res.Needs = e.extractNeeds(value)
				res.NeedsLine = int(value.StartPosition().Row) + 1
			}
		}
	}

	e.resources = append(e.resources, res)
}

// calleeKind resolves the called name to a discoverable resource kind.
// Direct names, tracked import aliases, and attribute callees
// (workflow.Workflow) all match.
func (e *extraction) calleeKind(fn *sitter.Node) (Kind, bool) {
	if fn == nil {
		return "", false
	}
	switch fn.Kind() {
	case "identifier":
		name := e.text(fn)
		if kind, ok := e.aliases[name]; ok {
			return kind, true
		}
		if kind, ok := DiscoverableTypes[name]; ok {
			return kind, true
		}
	case "attribute":
		attr := e.text(fn.ChildByFieldName("attribute"))
		if kind, ok := DiscoverableTypes[attr]; ok {
			return kind, true
		}
	}
	return "", false
}

// extractJobBindings reads a jobs={...} mapping in declaration order. Keys
// that are not plain string constants are skipped (under-approximation by
// design); values that are not identifiers keep the key with an empty Var.
func (e *extraction) extractJobBindings(dict *sitter.Node) []JobBinding {
	if dict.Kind() != "dictionary" {
		return nil
	}
	var bindings []JobBinding
	for i := uint(0); i < dict.ChildCount(); i++ {
		pair := dict.Child(i)
		if pair.Kind() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		value := pair.ChildByFieldName("value")
		if key == nil || key.Kind() != "string" {
			continue
		}
		b := JobBinding{
			Key:  stringLiteral(e.text(key)),
			Line: int(pair.StartPosition().Row) + 1,
		}
		if value != nil && value.Kind() == "identifier" {
			b.Var = e.text(value)
		}
		bindings = append(bindings, b)
	}
	return bindings
}

// extractNeeds records a needs= argument verbatim: a single identifier or
// string, an ordered list of them, or, for anything dynamic, one opaque
// unresolved reference.
func (e *extraction) extractNeeds(value *sitter.Node) []string {
	switch value.Kind() {
	case "identifier":
		return []string{e.text(value)}
	case "string":
		return []string{stringLiteral(e.text(value))}
	case "list", "tuple", "set":
		var refs []string
		for i := uint(0); i < value.ChildCount(); i++ {
			elt := value.Child(i)
			switch elt.Kind() {
			case "identifier":
				refs = append(refs, e.text(elt))
			case "string":
				refs = append(refs, stringLiteral(e.text(elt)))
			case "[", "]", "(", ")", "{", "}", ",":
				// punctuation
			default:
				refs = append(refs, e.text(elt))
			}
		}
		return refs
	case "none":
		return nil
	default:
		return []string{e.text(value)}
	}
}

// stringLiteral strips quotes and common prefixes from a python string
// literal's source text.
func stringLiteral(text string) string {
	s := strings.TrimLeft(text, "rbufRBUF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return text
}
