// Package typeclean reduces raw C++ type spellings, as written in source or
// recorded by the indexer, to the bare class name used for symbol lookups.
package typeclean

import (
	"regexp"
	"strings"
)

// DefaultWrappers are the Unreal handle templates whose members are those of
// their first template argument.
var DefaultWrappers = []string{
	"TObjectPtr",
	"TSharedPtr",
	"TUniquePtr",
	"TWeakObjectPtr",
	"TSubclassOf",
	"TSoftObjectPtr",
	"TSoftClassPtr",
	"TEnumAsByte",
}

// DefaultKeywords are stripped before the bare name is taken.
var DefaultKeywords = []string{
	"const", "typename", "struct", "class", "enum",
	"virtual", "static", "inline", "FORCEINLINE",
}

// apiMacro matches Unreal module visibility macros such as ENGINE_API.
var apiMacro = regexp.MustCompile(`\b[A-Z0-9_]+_API\b`)

var pointerRefs = strings.NewReplacer("*", " ", "&", " ")

// Cleaner is immutable after construction and safe for concurrent use.
type Cleaner struct {
	wrappers map[string]bool
	keywords *regexp.Regexp
}

// New builds a Cleaner that peels the given wrapper templates and strips the
// given keywords. Empty entries are ignored.
func New(wrappers, keywords []string) *Cleaner {
	c := &Cleaner{wrappers: make(map[string]bool, len(wrappers))}
	for _, w := range wrappers {
		if w = strings.TrimSpace(w); w != "" {
			c.wrappers[w] = true
		}
	}

	var quoted []string
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
	}
	if len(quoted) > 0 {
		c.keywords = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return c
}

// Default returns a Cleaner using DefaultWrappers and DefaultKeywords.
func Default() *Cleaner {
	return New(DefaultWrappers, DefaultKeywords)
}

// IsWrapper reports whether name is one of the peeled wrapper templates.
func (c *Cleaner) IsWrapper(name string) bool {
	return c.wrappers[name]
}

// Clean returns the bare type name for raw:
//
//	TObjectPtr<UFoo>             -> UFoo
//	TArray<FFoo>                 -> TArray
//	const ENGINE_API UWorld*     -> UWorld
//	UE::Math::TTransform<double> -> TTransform
//
// The result is stable under repeated application.
func (c *Cleaner) Clean(raw string) string {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return ""
	}

	if start := strings.IndexByte(clean, '<'); start >= 0 {
		if end := strings.LastIndexByte(clean, '>'); end > start {
			wrapper := strings.TrimSpace(clean[:start])
			if c.wrappers[LastSegment(wrapper)] {
				return c.Clean(clean[start+1 : end])
			}
			clean = wrapper
		}
	}

	if c.keywords != nil {
		clean = c.keywords.ReplaceAllString(clean, "")
	}
	clean = apiMacro.ReplaceAllString(clean, "")
	clean = pointerRefs.Replace(clean)

	return LastSegment(clean)
}

// LastSegment returns the last whitespace-separated token of s with any
// namespace qualification removed.
func LastSegment(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	if i := strings.LastIndex(last, "::"); i >= 0 {
		return last[i+2:]
	}
	return last
}
