package uecomplete

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
)

var identifierKinds = map[string]bool{
	"identifier":             true,
	"type_identifier":        true,
	"field_identifier":       true,
	"namespace_identifier":   true,
	"scoped_type_identifier": true,
}

// expressionType returns the cleaned type of the expression at n, or "" when
// it cannot be determined. The result is not yet typedef-resolved.
func (r *resolver) expressionType(ctx context.Context, n *sitter.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	kind := n.Type()
	switch {
	case kind == "this":
		return r.enclosingClassName(n), nil

	case identifierKinds[kind]:
		name := n.Content(r.src)
		if typ := r.inferVariableType(name); typ != "" {
			return typ, nil
		}
		if cls := r.enclosingClassName(n); cls != "" {
			typ, err := r.store.FindMemberReturnType(ctx, cls, name)
			if err != nil {
				return "", err
			}
			if typ != "" {
				return typ, nil
			}
		}
		return r.knownTypeName(ctx, name)

	case kind == "qualified_identifier":
		return r.knownTypeName(ctx, n.Content(r.src))

	case kind == "call_expression":
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return "", nil
		}
		if fn.Type() == "field_expression" {
			return r.memberAccessType(ctx, fn)
		}
		cls := r.enclosingClassName(n)
		if cls == "" {
			return "", nil
		}
		return r.store.FindMemberReturnType(ctx, cls, fn.Content(r.src))

	case kind == "field_expression":
		return r.memberAccessType(ctx, n)
	}
	return "", nil
}

// memberAccessType types obj.field and obj->field.
func (r *resolver) memberAccessType(ctx context.Context, fe *sitter.Node) (string, error) {
	objType, err := r.expressionType(ctx, fe.ChildByFieldName("argument"))
	if err != nil || objType == "" {
		return "", err
	}
	field := fe.ChildByFieldName("field")
	if field == nil {
		return "", nil
	}
	return r.store.FindMemberReturnType(ctx, objType, field.Content(r.src))
}

// knownTypeName returns the cleaned name when the symbol table has a class
// row for it, so ClassName:: resolves to the class itself.
func (r *resolver) knownTypeName(ctx context.Context, name string) (string, error) {
	known, err := r.store.IsKnownType(ctx, name)
	if err != nil || !known {
		return "", err
	}
	return r.cleaner.Clean(name), nil
}
