package uecomplete

import (
	"context"
	"fmt"
)

// Members lists what Type:: would complete to: the members of the type and
// its ancestors after typedef resolution. The result is never nil.
func (e *Engine) Members(ctx context.Context, typ string) ([]CompletionItem, error) {
	r := &resolver{store: e.store, cleaner: e.cleaner, logger: e.logger}
	items, err := r.resolveAndCollect(ctx, typ)
	if err != nil {
		return nil, fmt.Errorf("uecomplete: members of %s: %w", typ, err)
	}
	if items == nil {
		items = []CompletionItem{}
	}
	return items, nil
}

// resolveAndCollect cleans a type name, follows typedefs and assembles the
// members of the class and its ancestors. An unknown or empty type yields
// no items.
func (r *resolver) resolveAndCollect(ctx context.Context, typ string) ([]CompletionItem, error) {
	cleaned := r.cleaner.Clean(typ)
	if cleaned == "" {
		return nil, nil
	}
	resolved, err := r.store.ResolveTypedef(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("resolved type", "type", cleaned, "resolved", resolved)
	return r.store.CollectMembers(ctx, resolved)
}

// resolveStaticMembers completes Scope:: where scope is the text before the
// operator, e.g. an enum or a class with static members.
func (r *resolver) resolveStaticMembers(ctx context.Context, scope string) ([]CompletionItem, error) {
	return r.resolveAndCollect(ctx, scope)
}
