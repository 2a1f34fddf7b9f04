package store

import "go.lsp.dev/protocol"

// Symbol type values in classes.symbol_type.
const (
	SymbolClass   = "class"
	SymbolStruct  = "struct"
	SymbolEnum    = "enum"
	SymbolTypedef = "typedef"
)

// Member type values in members.type.
const (
	MemberFunction = "function"
	MemberVariable = "variable"
	MemberProperty = "property"
	MemberEnumItem = "enum_item"
)

// Symbol database rows

type Class struct {
	ID         int64
	Name       string
	SymbolType string
	BaseClass  string // typedef target; empty for other symbol types
}

type Member struct {
	ID         int64
	ClassID    int64
	Name       string
	Type       string
	ReturnType string
	Access     string
	IsStatic   bool
	Detail     string
}

type Inheritance struct {
	ChildID    int64
	ParentName string
}

type EnumValue struct {
	ID     int64
	EnumID int64
	Name   string
}

// CompletionItem is one entry of a completion response. Every field is
// always serialized.
type CompletionItem struct {
	Label         string                      `json:"label"`
	Kind          protocol.CompletionItemKind `json:"kind"`
	Detail        string                      `json:"detail"`
	Documentation string                      `json:"documentation"`
	InsertText    string                      `json:"insertText"`
}

// KindFor maps a members.type value to its LSP completion item kind.
func KindFor(memberType string) protocol.CompletionItemKind {
	switch memberType {
	case MemberFunction:
		return protocol.CompletionItemKindMethod
	case MemberVariable, MemberProperty:
		return protocol.CompletionItemKindField
	case MemberEnumItem:
		return protocol.CompletionItemKindEnumMember
	default:
		return protocol.CompletionItemKindText
	}
}
