package uecomplete

import (
	"regexp"
	"strings"

	"github.com/jward/uecomplete/internal/config"
	"github.com/jward/uecomplete/internal/typeclean"
)

var (
	templateCall = regexp.MustCompile(`([a-zA-Z0-9_]+)\s*<\s*([a-zA-Z0-9_:]+)`)
	ctorCall     = regexp.MustCompile(`^([a-zA-Z0-9_:]+)\s*\(`)
)

// valueInferrer types an initializer from its text alone. Only the Unreal
// construction idioms are recognized; anything else yields "".
type valueInferrer struct {
	cleaner   *typeclean.Cleaner
	factory   *regexp.Regexp // nil when no factories are configured
	peelCtors map[string]bool
}

func newValueInferrer(cfg config.ValueInference, cleaner *typeclean.Cleaner) *valueInferrer {
	v := &valueInferrer{
		cleaner:   cleaner,
		peelCtors: make(map[string]bool, len(cfg.PeelConstructors)),
	}
	if len(cfg.SubobjectFactories) > 0 {
		names := make([]string, len(cfg.SubobjectFactories))
		for i, f := range cfg.SubobjectFactories {
			names[i] = regexp.QuoteMeta(f)
		}
		v.factory = regexp.MustCompile(`(?:` + strings.Join(names, "|") + `)\s*<\s*([a-zA-Z0-9_:]+)`)
	}
	for _, c := range cfg.PeelConstructors {
		v.peelCtors[c] = true
	}
	return v
}

// infer applies the shapes in order; the first match wins.
//
//	CreateDefaultSubobject<T>(...)  → T
//	NewObject<T>(...)               → T (any peel constructor)
//	TArray<T>                       → TArray
//	FVector(...)                    → FVector
func (v *valueInferrer) infer(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if v.factory != nil {
		if m := v.factory.FindStringSubmatch(value); m != nil {
			return v.cleaner.Clean(m[1])
		}
	}
	if m := templateCall.FindStringSubmatch(value); m != nil {
		if v.peelCtors[m[1]] {
			return v.cleaner.Clean(m[2])
		}
		return v.cleaner.Clean(m[1])
	}
	if m := ctorCall.FindStringSubmatch(value); m != nil {
		return v.cleaner.Clean(m[1])
	}
	return ""
}
