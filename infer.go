package uecomplete

import (
	"log/slog"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Each pattern is compiled on its own so a node kind missing from the
// grammar drops that pattern only.
var (
	declarationPatterns = []string{
		`(declaration type: (_) @type declarator: (_) @decl)`,
		`(parameter_declaration type: (_) @type declarator: (_) @decl)`,
		`(for_range_loop type: (_) @type declarator: (_) @decl)`,
		`(condition_clause (declaration type: (_) @type declarator: (_) @decl))`,
	}
	assignmentPatterns = []string{
		`(declaration declarator: (init_declarator declarator: (_) @decl value: (_) @value))`,
		`(assignment_expression left: (_) @decl right: (_) @value)`,
	}
)

// queryCache compiles the inference queries once per Engine. A compiled
// sitter.Query is read-only and shared; cursors are per call.
type queryCache struct {
	once         sync.Once
	declarations []*sitter.Query
	assignments  []*sitter.Query
}

func (c *queryCache) load(lang *sitter.Language, logger *slog.Logger) {
	c.once.Do(func() {
		c.declarations = compileQueries(declarationPatterns, lang, logger)
		c.assignments = compileQueries(assignmentPatterns, lang, logger)
	})
}

func (c *queryCache) close() {
	for _, q := range c.declarations {
		q.Close()
	}
	for _, q := range c.assignments {
		q.Close()
	}
}

func compileQueries(patterns []string, lang *sitter.Language, logger *slog.Logger) []*sitter.Query {
	var out []*sitter.Query
	for _, p := range patterns {
		q, err := sitter.NewQuery([]byte(p), lang)
		if err != nil {
			logger.Warn("skipping inference query", "pattern", p, "error", err)
			continue
		}
		out = append(out, q)
	}
	return out
}

// binding is one (declarator, type-or-value) pair found by a query.
type binding struct {
	row  uint32
	decl *sitter.Node
	text string
}

// bindings runs queries over root and returns the pairs in document order
// per query. other names the capture carrying the type or value.
func bindings(queries []*sitter.Query, root *sitter.Node, src []byte, other string) []binding {
	var out []binding
	for _, q := range queries {
		cursor := sitter.NewQueryCursor()
		cursor.Exec(q, root)
		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}
			match = cursor.FilterPredicates(match, src)
			var b binding
			for _, c := range match.Captures {
				switch q.CaptureNameForId(c.Index) {
				case "decl":
					b.decl = c.Node
				case other:
					b.text = c.Node.Content(src)
				}
			}
			if b.decl != nil {
				b.row = b.decl.StartPoint().Row
				out = append(out, b)
			}
		}
		cursor.Close()
	}
	return out
}

// latestBinding returns the binding of name with the greatest row at or
// before cursorRow. On equal rows the later match wins.
func latestBinding(bs []binding, name string, cursorRow uint32, src []byte) (binding, bool) {
	var best binding
	found := false
	for _, b := range bs {
		if b.row > cursorRow || !bindsName(b.decl, name, src) {
			continue
		}
		if !found || b.row >= best.row {
			best = b
			found = true
		}
	}
	return best, found
}

// bindsName reports whether a declarator subtree introduces name. An
// init_declarator binds only through its declarator, never its value, and
// parameter lists of function declarators are not searched. Writes through
// a member, subscript or dereference (obj->Comp = ...) leave obj's type alone.
func bindsName(n *sitter.Node, name string, src []byte) bool {
	switch n.Type() {
	case "identifier", "field_identifier":
		return n.Content(src) == name
	case "init_declarator":
		if d := n.ChildByFieldName("declarator"); d != nil {
			return bindsName(d, name, src)
		}
		return false
	case "parameter_list", "field_expression", "subscript_expression", "pointer_expression":
		return false
	}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		if child := n.NamedChild(i); child != nil && bindsName(child, name, src) {
			return true
		}
	}
	return false
}

// inferVariableType finds the declared type of name as seen from the cursor
// row. A declaration typed auto falls through to the initializer or the
// latest assignment.
func (r *resolver) inferVariableType(name string) string {
	if name == "" {
		return ""
	}
	decls := bindings(r.queries.declarations, r.root, r.src, "type")
	if b, ok := latestBinding(decls, name, r.row, r.src); ok {
		if strings.TrimSpace(b.text) != "auto" {
			return r.cleaner.Clean(b.text)
		}
	}
	return r.inferFromAssignment(name)
}

func (r *resolver) inferFromAssignment(name string) string {
	assigns := bindings(r.queries.assignments, r.root, r.src, "value")
	b, ok := latestBinding(assigns, name, r.row, r.src)
	if !ok {
		return ""
	}
	return r.values.infer(b.text)
}
