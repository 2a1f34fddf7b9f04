package uecomplete

import "go.lsp.dev/protocol"

// ToProtocol converts completion items to LSP protocol items.
// Documentation is left nil when empty so it is omitted on the wire.
func ToProtocol(items []CompletionItem) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, 0, len(items))
	for _, it := range items {
		pi := protocol.CompletionItem{
			Label:      it.Label,
			Kind:       it.Kind,
			Detail:     it.Detail,
			InsertText: it.InsertText,
		}
		if it.Documentation != "" {
			pi.Documentation = it.Documentation
		}
		out = append(out, pi)
	}
	return out
}
