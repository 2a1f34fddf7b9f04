package uecomplete

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/uecomplete/internal/runtime"
	"github.com/jward/uecomplete/internal/store"
	"github.com/jward/uecomplete/internal/typeclean"
)

func parseTest(t *testing.T, src string) *sitter.Node {
	t.Helper()
	tree, err := runtime.Parse(context.Background(), grammarName, []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree.RootNode()
}

func TestPointLess(t *testing.T) {
	t.Parallel()
	assert.True(t, pointLess(sitter.Point{Row: 0, Column: 9}, sitter.Point{Row: 1, Column: 0}))
	assert.True(t, pointLess(sitter.Point{Row: 1, Column: 2}, sitter.Point{Row: 1, Column: 3}))
	assert.False(t, pointLess(sitter.Point{Row: 1, Column: 3}, sitter.Point{Row: 1, Column: 3}))
	assert.False(t, pointLess(sitter.Point{Row: 2, Column: 0}, sitter.Point{Row: 1, Column: 9}))
}

func TestDescendantForRange_OperatorToken(t *testing.T) {
	t.Parallel()
	src := "void F() { a->b; }"
	root := parseTest(t, src)

	// Cursor right after "->" lands on the operator, not on "b".
	n := descendantForRange(root, sitter.Point{Row: 0, Column: 13}, sitter.Point{Row: 0, Column: 14})
	require.NotNil(t, n)
	assert.Equal(t, "->", n.Type())
	assert.Equal(t, "field_expression", n.Parent().Type())
}

func TestDescendantForRange_InsideIdentifier(t *testing.T) {
	t.Parallel()
	src := "int Count;"
	root := parseTest(t, src)

	n := descendantForRange(root, sitter.Point{Row: 0, Column: 6}, sitter.Point{Row: 0, Column: 7})
	require.NotNil(t, n)
	assert.Equal(t, "identifier", n.Type())
	assert.Equal(t, "Count", n.Content([]byte(src)))
}

func TestDescendantForRange_PastEnd(t *testing.T) {
	t.Parallel()
	root := parseTest(t, "int x;\n")

	n := descendantForRange(root, sitter.Point{Row: 9, Column: 0}, sitter.Point{Row: 9, Column: 1})
	require.NotNil(t, n)
	assert.Equal(t, "translation_unit", n.Type())
}

func TestPrevMeaningfulSibling_SkipsComments(t *testing.T) {
	t.Parallel()
	src := "void F() { a /* c */ ->b; }"
	root := parseTest(t, src)

	op := descendantForRange(root, sitter.Point{Row: 0, Column: 22}, sitter.Point{Row: 0, Column: 23})
	require.NotNil(t, op)
	require.Equal(t, "->", op.Type())

	prev := prevMeaningfulSibling(op)
	require.NotNil(t, prev)
	assert.Equal(t, "identifier", prev.Type())
	assert.Equal(t, "a", prev.Content([]byte(src)))
}

func TestQualifierOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"AMyActor::Tick", "AMyActor"},
		{"ns::AMyActor::Tick", "ns::AMyActor"},
		{"Tick", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, qualifierOf(tt.in), tt.in)
	}
}

func TestBindsName(t *testing.T) {
	t.Parallel()
	src := "UFoo* Foo = Other; void G(int Param);"
	root := parseTest(t, src)
	b := []byte(src)

	decl := root.NamedChild(0)
	require.Equal(t, "declaration", decl.Type())
	d := decl.ChildByFieldName("declarator")
	require.NotNil(t, d)
	assert.True(t, bindsName(d, "Foo", b))
	assert.False(t, bindsName(d, "Other", b), "initializer values do not bind")

	fn := root.NamedChild(1)
	require.Equal(t, "declaration", fn.Type())
	fd := fn.ChildByFieldName("declarator")
	require.NotNil(t, fd)
	assert.True(t, bindsName(fd, "G", b))
	assert.False(t, bindsName(fd, "Param", b), "parameters of a prototype do not bind")
}

func collectNodes(n *sitter.Node, kind string, out []*sitter.Node) []*sitter.Node {
	if n.Type() == kind {
		out = append(out, n)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = collectNodes(n.NamedChild(i), kind, out)
	}
	return out
}

func TestBindsName_WritesThroughDoNotBind(t *testing.T) {
	t.Parallel()
	src := "void F() { obj->Comp = x; obj.Comp = x; arr[0] = y; *ptr = z; obj = w; }"
	root := parseTest(t, src)
	b := []byte(src)

	assigns := collectNodes(root, "assignment_expression", nil)
	require.Len(t, assigns, 5)

	lefts := make([]*sitter.Node, len(assigns))
	for i, a := range assigns {
		lefts[i] = a.ChildByFieldName("left")
		require.NotNil(t, lefts[i])
	}
	assert.False(t, bindsName(lefts[0], "obj", b), "obj->Comp")
	assert.False(t, bindsName(lefts[0], "Comp", b), "obj->Comp")
	assert.False(t, bindsName(lefts[1], "obj", b), "obj.Comp")
	assert.False(t, bindsName(lefts[2], "arr", b), "arr[0]")
	assert.False(t, bindsName(lefts[3], "ptr", b), "*ptr")
	assert.True(t, bindsName(lefts[4], "obj", b), "obj")
}

func TestEnclosingClassName(t *testing.T) {
	t.Parallel()
	e := &resolver{cleaner: typeclean.Default()}

	tests := []struct {
		name string
		src  string
		col  uint32
		want string
	}{
		{"class body", "class UFoo { int x; };", 17, "UFoo"},
		{"struct body", "struct FBar { int y; };", 18, "FBar"},
		{"out of line", "void AMyActor::Tick() { x; }", 24, "AMyActor"},
		{"free function", "void Tick() { x; }", 14, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.src = []byte(tt.src)
			root := parseTest(t, tt.src)
			n := descendantForRange(root, sitter.Point{Column: tt.col}, sitter.Point{Column: tt.col + 1})
			require.NotNil(t, n)
			assert.Equal(t, tt.want, e.enclosingClassName(n))
		})
	}
}

func TestLastAccessOperand_SkipsOperatorWithoutOperand(t *testing.T) {
	t.Parallel()
	root := parseTest(t, "->")
	for _, errNode := range collectNodes(root, "ERROR", nil) {
		assert.Nil(t, lastAccessOperand(errNode))
	}
}

func TestLastAccessOperand_ReturnsOperand(t *testing.T) {
	t.Parallel()
	src := "void F() {\n    UFoo f;\n    f.\n}\n"
	root := parseTest(t, src)
	for _, errNode := range collectNodes(root, "ERROR", nil) {
		if operand := lastAccessOperand(errNode); operand != nil {
			assert.Equal(t, "f", operand.Content([]byte(src)))
		}
	}
}

func TestComplete_DanglingOperatorIsEmpty(t *testing.T) {
	e, s := newTestEngine(t)
	foo := insertTestClass(t, s, "UFoo", "", "")
	insertTestMember(t, s, foo, "Bar", store.MemberFunction, "void")

	items := complete(t, e, "->|")
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
