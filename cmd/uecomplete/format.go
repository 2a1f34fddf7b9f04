package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.lsp.dev/protocol"

	"github.com/jward/uecomplete"
)

// outputItems writes completion items in the --format encoding.
func outputItems(w io.Writer, items []uecomplete.CompletionItem) error {
	if flagFormat == "text" {
		formatItemsText(w, items)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// formatItemsText formats completion items as aligned columns.
func formatItemsText(w io.Writer, items []uecomplete.CompletionItem) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tKIND\tDETAIL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.Label, kindName(it.Kind), it.Detail)
	}
	tw.Flush()
}

// kindName names the completion kinds the store produces.
func kindName(k protocol.CompletionItemKind) string {
	switch k {
	case protocol.CompletionItemKindMethod:
		return "method"
	case protocol.CompletionItemKindField:
		return "field"
	case protocol.CompletionItemKindEnumMember:
		return "enum"
	default:
		return "text"
	}
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
