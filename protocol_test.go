package uecomplete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func TestToProtocol(t *testing.T) {
	t.Parallel()
	items := []CompletionItem{
		{Label: "Bar", Kind: protocol.CompletionItemKindMethod, Detail: "UBar", Documentation: "UBar* Bar()", InsertText: "Bar"},
		{Label: "A", Kind: protocol.CompletionItemKindEnumMember, Detail: "enum item", InsertText: "A"},
	}

	got := ToProtocol(items)
	require.Len(t, got, 2)

	assert.Equal(t, "Bar", got[0].Label)
	assert.Equal(t, protocol.CompletionItemKindMethod, got[0].Kind)
	assert.Equal(t, "UBar", got[0].Detail)
	assert.Equal(t, "UBar* Bar()", got[0].Documentation)
	assert.Equal(t, "Bar", got[0].InsertText)

	assert.Equal(t, protocol.CompletionItemKindEnumMember, got[1].Kind)
	assert.Nil(t, got[1].Documentation)
}

func TestToProtocol_Empty(t *testing.T) {
	t.Parallel()
	got := ToProtocol(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
