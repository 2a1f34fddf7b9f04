package runtime

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

// ErrUnsupportedLanguage is returned by Parse for unknown grammar names.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// extToLanguage maps file extensions to canonical language names. Unreal
// sources only ever use the C++ grammar.
var extToLanguage = map[string]string{
	".h":   "cpp",
	".hh":  "cpp",
	".hpp": "cpp",
	".inl": "cpp",
	".cpp": "cpp",
	".cc":  "cpp",
	".cxx": "cpp",
}

// langToGrammar maps language names to tree-sitter Language objects.
// Lazily initialized on first call via sync.Once.
var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		grammar := cpp.GetLanguage()
		langToGrammar = map[string]*sitter.Language{
			"cpp":        grammar,
			"unreal_cpp": grammar,
		}
	})
}

// LanguageForFile returns the canonical language name for a file path based
// on its extension. Returns ("", false) if the extension is not recognized.
func LanguageForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// ParserForLanguage returns the tree-sitter Language for a canonical language
// name. Returns (nil, false) if the language is not supported.
func ParserForLanguage(lang string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := langToGrammar[lang]
	return l, ok
}

// Parse parses src with the named grammar. Syntax errors still produce a
// tree; an error means no tree could be built at all. The caller closes the
// tree.
func Parse(ctx context.Context, lang string, src []byte) (*sitter.Tree, error) {
	grammar, ok := ParserForLanguage(lang)
	if !ok {
		return nil, fmt.Errorf("parse: %w %q", ErrUnsupportedLanguage, lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: tree-sitter: %w", err)
	}
	if tree == nil {
		return nil, errors.New("parse: tree-sitter returned no tree")
	}
	return tree, nil
}
