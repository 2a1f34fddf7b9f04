package uecomplete

import "github.com/jward/uecomplete/internal/store"

// Public aliases for internal store types used in the Engine API.

type Store = store.Store
type CompletionItem = store.CompletionItem

// Request is one completion request. Line and Column are 0-based grid
// coordinates into Content. FilePath is carried for the host and otherwise
// ignored.
type Request struct {
	Content  string `json:"content"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	FilePath string `json:"file_path,omitempty"`
}
