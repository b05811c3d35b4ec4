package scanner

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// pythonLanguage is shared by every parser in the pool. The grammar is
// statically linked, so the pointer stays valid for the process lifetime.
var pythonLanguage = sitter.NewLanguage(tree_sitter_python.Language())

// ParserPool recycles tree-sitter parser instances to avoid the per-file
// allocation overhead of sitter.NewParser() / parser.Close().
//
// Concurrency: safe for use by multiple goroutines simultaneously.
type ParserPool struct {
	pool sync.Pool
}

func NewParserPool() *ParserPool {
	p := &ParserPool{}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			sp.SetLanguage(pythonLanguage)
			return sp
		},
	}
	return p
}

// Get retrieves a parser configured for the python grammar.
func (p *ParserPool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	sp.SetLanguage(pythonLanguage)
	return sp
}

// Put returns a parser to the pool. The parser is reset so no references to
// previous parse trees are retained. Callers must not use sp after Put.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	sp.Reset()
	p.pool.Put(sp)
}
