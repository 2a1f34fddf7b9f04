package store

import (
	"context"
	"strings"
)

// CollectMembers returns the members and enum values of the class called
// name and of every ancestor reachable through inheritance, breadth first.
// Parent names are cleaned and typedef-resolved before lookup. Members
// redeclared by a subclass appear once per declaring class.
//
// The walk tracks both visited names and visited row ids, so cyclic or
// self-referencing inheritance terminates. The result is never nil.
func (s *Store) CollectMembers(ctx context.Context, name string) ([]CompletionItem, error) {
	items := []CompletionItem{}
	name = strings.TrimSpace(name)
	if name == "" {
		return items, nil
	}

	queue := []string{name}
	seenNames := make(map[string]bool)
	seenIDs := make(map[int64]bool)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		key := strings.ToLower(current)
		if seenNames[key] {
			continue
		}
		seenNames[key] = true

		id, ok, err := s.ClassIDByName(ctx, current)
		if err != nil {
			return nil, err
		}
		if !ok || seenIDs[id] {
			continue
		}
		seenIDs[id] = true

		members, err := s.FetchMembers(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, members...)

		parents, err := s.ParentsOf(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			resolved, err := s.ResolveTypedef(ctx, p)
			if err != nil {
				return nil, err
			}
			if resolved != "" {
				queue = append(queue, resolved)
			}
		}
	}
	return items, nil
}
