package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// maxTypedefHops bounds ResolveTypedef regardless of database contents.
const maxTypedefHops = 3

// ResolveTypedef follows typedef rows from name to the type they alias,
// cleaning each base_class, for at most maxTypedefHops steps or until a
// fixed point. Names with no typedef row come back cleaned but otherwise
// unchanged; "", "T" and "void" are never looked up.
func (s *Store) ResolveTypedef(ctx context.Context, name string) (string, error) {
	current := s.cleaner.Clean(name)
	if current == "" || current == "T" || current == "void" {
		return current, nil
	}
	for range maxTypedefHops {
		var base sql.NullString
		// Heuristic: when a typedef was recorded more than once, a row with a
		// base_class beats one without.
		err := s.db.QueryRowContext(ctx,
			`SELECT base_class FROM classes WHERE name = ? AND symbol_type = 'typedef'
			 ORDER BY (CASE WHEN base_class IS NOT NULL AND base_class != '' THEN 0 ELSE 1 END) ASC, id ASC
			 LIMIT 1`, current,
		).Scan(&base)
		if err == sql.ErrNoRows {
			break
		}
		if err != nil {
			return "", fmt.Errorf("resolve typedef %q: %w", current, err)
		}
		next := s.cleaner.Clean(base.String)
		if next == "" || next == current {
			break
		}
		current = next
	}
	return current, nil
}

// IsKnownType reports whether any classes row carries the cleaned name,
// compared case-insensitively.
func (s *Store) IsKnownType(ctx context.Context, name string) (bool, error) {
	clean := s.cleaner.Clean(name)
	if clean == "" {
		return false, nil
	}
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM classes WHERE LOWER(name) = LOWER(?) LIMIT 1", clean).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is known type %q: %w", clean, err)
	}
	return true, nil
}

// ClassIDByName resolves a class name to a single row id. Names compare
// case-insensitively.
//
// Heuristic: the indexer records forward declarations as separate rows, so
// among duplicates the row with the most members wins, then the one with the
// most enum values, then the oldest.
func (s *Store) ClassIDByName(ctx context.Context, name string) (int64, bool, error) {
	if name == "" {
		return 0, false, nil
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT c.id FROM classes c LEFT JOIN members m ON c.id = m.class_id
		 WHERE LOWER(c.name) = LOWER(?)
		 GROUP BY c.id
		 ORDER BY COUNT(m.id) DESC,
		          (SELECT COUNT(*) FROM enum_values e WHERE e.enum_id = c.id) DESC,
		          c.id ASC
		 LIMIT 1`, name,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("class id by name %q: %w", name, err)
	}
	return id, true, nil
}

// FindMemberReturnType searches className and then its ancestors, breadth
// first, for a member called member and returns its cleaned return type.
// It returns "" when no class on the way declares an informative one.
func (s *Store) FindMemberReturnType(ctx context.Context, className, member string) (string, error) {
	start, err := s.ResolveTypedef(ctx, className)
	if err != nil {
		return "", err
	}
	member = strings.TrimSpace(member)
	if start == "" || member == "" {
		return "", nil
	}

	queue := []string{start}
	visited := make(map[string]bool)
	for len(queue) > 0 {
		cls := queue[0]
		queue = queue[1:]
		key := strings.ToLower(cls)
		if visited[key] {
			continue
		}
		visited[key] = true

		rt, err := s.memberReturnType(ctx, cls, member)
		if err != nil {
			return "", err
		}
		if cleaned := s.cleaner.Clean(rt); cleaned != "" {
			return cleaned, nil
		}

		parents, err := s.parentsByName(ctx, cls)
		if err != nil {
			return "", err
		}
		for _, p := range parents {
			if p = s.cleaner.Clean(p); p != "" {
				queue = append(queue, p)
			}
		}
	}
	return "", nil
}

// memberReturnType returns the raw return type of cls.member, or "".
//
// Heuristic: overloads and template members often record placeholder
// returns, so an exact-case class match wins first, then any return type
// outside the uninformative set, then the longest spelling.
func (s *Store) memberReturnType(ctx context.Context, cls, member string) (string, error) {
	rank := "0"
	args := []any{cls, member, cls}
	if len(s.uninformative) > 0 {
		rank = "(CASE WHEN m.return_type IN (" + placeholderList(len(s.uninformative)) + ") THEN 1 ELSE 0 END)"
		args = append(args, stringsToArgs(s.uninformative)...)
	}

	var rt string
	err := s.db.QueryRowContext(ctx,
		`SELECT m.return_type FROM members m JOIN classes c ON m.class_id = c.id
		 WHERE LOWER(c.name) = LOWER(?) AND m.name = ?
		   AND m.return_type IS NOT NULL AND m.return_type != ''
		 ORDER BY (CASE WHEN c.name = ? THEN 0 ELSE 1 END) ASC,
		          `+rank+` ASC,
		          length(m.return_type) DESC,
		          m.id ASC
		 LIMIT 1`, args...,
	).Scan(&rt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("member return type %s.%s: %w", cls, member, err)
	}
	return rt, nil
}

// parentsByName lists the parent names of every class row called cls.
func (s *Store) parentsByName(ctx context.Context, cls string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.parent_name FROM inheritance i JOIN classes c ON i.child_id = c.id
		 WHERE LOWER(c.name) = LOWER(?) ORDER BY c.id, i.rowid`, cls,
	)
	if err != nil {
		return nil, fmt.Errorf("parents of %q: %w", cls, err)
	}
	return scanStrings(rows)
}

// ParentsOf lists the direct parent names recorded for classID.
func (s *Store) ParentsOf(ctx context.Context, classID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT parent_name FROM inheritance WHERE child_id = ? ORDER BY rowid", classID,
	)
	if err != nil {
		return nil, fmt.Errorf("parents of class %d: %w", classID, err)
	}
	return scanStrings(rows)
}

// FetchMembers returns classID's members followed by its enum values as
// completion items.
func (s *Store) FetchMembers(ctx context.Context, classID int64) ([]CompletionItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, type, return_type, detail FROM members WHERE class_id = ? ORDER BY id", classID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch members of class %d: %w", classID, err)
	}
	defer rows.Close()

	var items []CompletionItem
	for rows.Next() {
		var name, typ string
		var rt, detail sql.NullString
		if err := rows.Scan(&name, &typ, &rt, &detail); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		items = append(items, CompletionItem{
			Label:         name,
			Kind:          KindFor(typ),
			Detail:        s.cleaner.Clean(rt.String),
			Documentation: detail.String,
			InsertText:    name,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch members of class %d: %w", classID, err)
	}

	erows, err := s.db.QueryContext(ctx, "SELECT name FROM enum_values WHERE enum_id = ? ORDER BY id", classID)
	if err != nil {
		return nil, fmt.Errorf("fetch enum values of %d: %w", classID, err)
	}
	names, err := scanStrings(erows)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		items = append(items, CompletionItem{
			Label:      name,
			Kind:       KindFor(MemberEnumItem),
			Detail:     "enum item",
			InsertText: name,
		})
	}
	return items, nil
}

// scanStrings drains a single-column result set and closes it.
func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
