package uecomplete

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Context cases, also used as the "case" metric label.
const (
	caseOperator      = "operator"
	caseFieldAccess   = "field_expression"
	caseStaticScope   = "static_scope"
	caseErrorRecovery = "error_recovery"
	caseImplicitThis  = "implicit_this"
	caseNone          = "none"
)

var (
	classKinds = map[string]bool{
		"class_specifier":           true,
		"struct_specifier":          true,
		"unreal_class_declaration":  true,
		"unreal_struct_declaration": true,
	}
	// A compound_statement is the cursor node on a blank position inside a
	// function body.
	implicitThisKinds = map[string]bool{
		"identifier":         true,
		"type_identifier":    true,
		"field_identifier":   true,
		"this":               true,
		"compound_statement": true,
	}
)

func isAccessOperator(kind string) bool {
	return kind == "." || kind == "->" || kind == "::"
}

// classify decides what the cursor node n is completing and returns the
// matching members with the name of the case that fired.
func (r *resolver) classify(ctx context.Context, n *sitter.Node) ([]CompletionItem, string, error) {
	kind := n.Type()
	if kind == ":" {
		if p := n.Parent(); p != nil && p.Type() == "::" {
			n, kind = p, "::"
		}
	}
	if isAccessOperator(kind) || kind == ":" {
		items, err := r.membersAfterOperator(ctx, n)
		return items, caseOperator, err
	}

	for a := n; a != nil; a = a.Parent() {
		switch a.Type() {
		case "field_expression":
			arg := a.ChildByFieldName("argument")
			if arg == nil {
				return nil, caseFieldAccess, nil
			}
			items, err := r.membersOfExpression(ctx, arg)
			return items, caseFieldAccess, err
		case "qualified_identifier":
			scope := a.ChildByFieldName("scope")
			if scope == nil {
				return nil, caseStaticScope, nil
			}
			items, err := r.resolveStaticMembers(ctx, scope.Content(r.src))
			return items, caseStaticScope, err
		case "ERROR":
			if operand := lastAccessOperand(a); operand != nil {
				items, err := r.membersOfExpression(ctx, operand)
				return items, caseErrorRecovery, err
			}
		}
	}

	if implicitThisKinds[kind] {
		if cls := r.enclosingClassName(n); cls != "" {
			items, err := r.resolveAndCollect(ctx, cls)
			if err != nil {
				return nil, caseImplicitThis, err
			}
			if len(items) > 0 {
				return items, caseImplicitThis, nil
			}
		}
	}
	return nil, caseNone, nil
}

// membersAfterOperator types the operand in front of op. An operator that
// error recovery wrapped on its own takes the operand before the wrapper.
func (r *resolver) membersAfterOperator(ctx context.Context, op *sitter.Node) ([]CompletionItem, error) {
	prev := operandBefore(op)
	if prev == nil {
		return nil, nil
	}
	return r.membersOfExpression(ctx, prev)
}

func operandBefore(op *sitter.Node) *sitter.Node {
	prev := prevMeaningfulSibling(op)
	if prev == nil {
		if p := op.Parent(); p != nil && p.Type() == "ERROR" {
			prev = prevMeaningfulSibling(p)
		}
	}
	return prev
}

func (r *resolver) membersOfExpression(ctx context.Context, n *sitter.Node) ([]CompletionItem, error) {
	typ, err := r.expressionType(ctx, n)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("inferred type", "node", n.Type(), "type", typ)
	return r.resolveAndCollect(ctx, typ)
}

// lastAccessOperand scans the direct children of an ERROR node from the
// end for a member-access token with an operand in front of it and returns
// that operand. Operators with nothing before them are passed over.
func lastAccessOperand(errNode *sitter.Node) *sitter.Node {
	for i := int(errNode.ChildCount()) - 1; i >= 0; i-- {
		child := errNode.Child(i)
		if child == nil || !isAccessOperator(child.Type()) {
			continue
		}
		if operand := operandBefore(child); operand != nil {
			return operand
		}
	}
	return nil
}

func prevMeaningfulSibling(n *sitter.Node) *sitter.Node {
	s := n.PrevSibling()
	for s != nil && s.Type() == "comment" {
		s = s.PrevSibling()
	}
	return s
}

// enclosingClassName names the class whose body or out-of-line member
// function contains n, or "".
func (r *resolver) enclosingClassName(n *sitter.Node) string {
	for a := n; a != nil; a = a.Parent() {
		if !classKinds[a.Type()] {
			continue
		}
		if name := a.ChildByFieldName("name"); name != nil {
			return r.cleaner.Clean(name.Content(r.src))
		}
	}
	for a := n; a != nil; a = a.Parent() {
		if a.Type() != "function_definition" {
			continue
		}
		decl := a.ChildByFieldName("declarator")
		if decl == nil {
			continue
		}
		if q := findQualifiedIdentifier(decl); q != nil {
			if cls := qualifierOf(q.Content(r.src)); cls != "" {
				return r.cleaner.Clean(cls)
			}
		}
	}
	return ""
}

// findQualifiedIdentifier searches a declarator for the qualified name of
// the function, skipping its parameters.
func findQualifiedIdentifier(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case "qualified_identifier":
		return n
	case "parameter_list":
		return nil
	}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		if child := n.NamedChild(i); child != nil {
			if q := findQualifiedIdentifier(child); q != nil {
				return q
			}
		}
	}
	return nil
}

// qualifierOf returns everything before the final "::" of a qualified
// name, so "ns::AMyActor::Tick" names "ns::AMyActor".
func qualifierOf(qualified string) string {
	i := strings.LastIndex(qualified, "::")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(qualified[:i], "::"))
}

// pointLess orders tree-sitter points by row, then column.
func pointLess(a, b sitter.Point) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Column < b.Column
}

// descendantForRange returns the deepest node, named or anonymous, that
// spans [start, end]: its end must reach end and pass start, and its start
// must not be after start.
func descendantForRange(root *sitter.Node, start, end sitter.Point) *sitter.Node {
	node := root
	for {
		descended := false
		count := int(node.ChildCount())
		for i := 0; i < count; i++ {
			child := node.Child(i)
			if child == nil {
				continue
			}
			childEnd := child.EndPoint()
			if pointLess(childEnd, end) || !pointLess(start, childEnd) {
				continue
			}
			if pointLess(start, child.StartPoint()) {
				break
			}
			node = child
			descended = true
			break
		}
		if !descended {
			return node
		}
	}
}
