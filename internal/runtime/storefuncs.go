package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/risor-io/risor/object"

	"github.com/jward/uecomplete/internal/store"
)

// Seed host functions. Risor scripts cannot construct Go struct pointers,
// so these accept Risor maps with primitive values and build the rows on
// the Go side. Writes go through a store.SymbolWriter so a script can fill
// either the database or a BatchedStore.

// insert_class({name, symbol_type, base_class}) → id
func makeInsertClassFn(w store.SymbolWriter) *object.Builtin {
	return object.NewBuiltin("insert_class", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("insert_class", 1, len(args))
		}
		m, err := extractMap(args[0])
		if err != nil {
			return object.Errorf("insert_class: %v", err)
		}
		c := &store.Class{
			Name:       getString(m, "name"),
			SymbolType: getStringDefault(m, "symbol_type", store.SymbolClass),
			BaseClass:  getString(m, "base_class"),
		}
		if c.Name == "" {
			return object.Errorf("insert_class: name is required")
		}
		id, err := w.InsertClass(c)
		if err != nil {
			return object.Errorf("insert_class: %v", err)
		}
		return object.NewInt(id)
	})
}

// insert_member({class_id, name, type, return_type, access, is_static, detail}) → id
func makeInsertMemberFn(w store.SymbolWriter) *object.Builtin {
	return object.NewBuiltin("insert_member", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("insert_member", 1, len(args))
		}
		m, err := extractMap(args[0])
		if err != nil {
			return object.Errorf("insert_member: %v", err)
		}
		classID, ok := getOptionalInt64(m, "class_id")
		if !ok {
			return object.Errorf("insert_member: class_id is required")
		}
		mem := &store.Member{
			ClassID:    classID,
			Name:       getString(m, "name"),
			Type:       getStringDefault(m, "type", store.MemberFunction),
			ReturnType: getString(m, "return_type"),
			Access:     getStringDefault(m, "access", "public"),
			IsStatic:   getBool(m, "is_static"),
			Detail:     getString(m, "detail"),
		}
		id, err := w.InsertMember(mem)
		if err != nil {
			return object.Errorf("insert_member: %v", err)
		}
		return object.NewInt(id)
	})
}

// insert_inheritance(child_id, parent_name) → nil
func makeInsertInheritanceFn(w store.SymbolWriter) *object.Builtin {
	return object.NewBuiltin("insert_inheritance", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("insert_inheritance", 2, len(args))
		}
		childID, err := toInt64(args[0])
		if err != nil {
			return object.Errorf("insert_inheritance: child_id: %v", err)
		}
		parent, err := toString(args[1])
		if err != nil {
			return object.Errorf("insert_inheritance: parent_name: %v", err)
		}
		if err := w.InsertInheritance(&store.Inheritance{ChildID: childID, ParentName: parent}); err != nil {
			return object.Errorf("insert_inheritance: %v", err)
		}
		return object.Nil
	})
}

// insert_enum_value(enum_id, name) → id
func makeInsertEnumValueFn(w store.SymbolWriter) *object.Builtin {
	return object.NewBuiltin("insert_enum_value", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("insert_enum_value", 2, len(args))
		}
		enumID, err := toInt64(args[0])
		if err != nil {
			return object.Errorf("insert_enum_value: enum_id: %v", err)
		}
		name, err := toString(args[1])
		if err != nil {
			return object.Errorf("insert_enum_value: name: %v", err)
		}
		id, err := w.InsertEnumValue(&store.EnumValue{EnumID: enumID, Name: name})
		if err != nil {
			return object.Errorf("insert_enum_value: %v", err)
		}
		return object.NewInt(id)
	})
}

// class_id(name) → id of the oldest row with that name, or nil. Rows still
// buffered in a BatchedStore are visible.
func makeClassIDFn(w store.SymbolWriter) *object.Builtin {
	return object.NewBuiltin("class_id", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("class_id", 1, len(args))
		}
		name, err := toString(args[0])
		if err != nil {
			return object.Errorf("class_id: %v", err)
		}
		classes, err := w.ClassesByName(name)
		if err != nil {
			return object.Errorf("class_id: %v", err)
		}
		if len(classes) == 0 {
			return object.Nil
		}
		return object.NewInt(classes[0].ID)
	})
}

// members_of(name) → the assembled completion items for a committed class.
func makeMembersOfFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("members_of", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("members_of", 1, len(args))
		}
		name, err := toString(args[0])
		if err != nil {
			return object.Errorf("members_of: %v", err)
		}
		resolved, err := s.ResolveTypedef(ctx, name)
		if err != nil {
			return object.Errorf("members_of: %v", err)
		}
		items, err := s.CollectMembers(ctx, resolved)
		if err != nil {
			return object.Errorf("members_of: %v", err)
		}
		results := make([]object.Object, 0, len(items))
		for _, it := range items {
			results = append(results, object.NewMap(map[string]object.Object{
				"label":         object.NewString(it.Label),
				"kind":          object.NewInt(int64(it.Kind)),
				"detail":        object.NewString(it.Detail),
				"documentation": object.NewString(it.Documentation),
				"insertText":    object.NewString(it.InsertText),
			}))
		}
		return object.NewList(results)
	})
}

// db_query(sql, args...) → []map. Only SELECT statements are accepted.
func makeDBQueryFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("db_query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 1 {
			return object.Errorf("db_query: expected at least 1 argument (sql), got %d", len(args))
		}
		sqlStr, err := toString(args[0])
		if err != nil {
			return object.Errorf("db_query: %v", err)
		}
		if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sqlStr)), "SELECT") {
			return object.Errorf("db_query: only SELECT queries are allowed")
		}

		var queryArgs []any
		for _, arg := range args[1:] {
			switch v := arg.(type) {
			case *object.Int:
				queryArgs = append(queryArgs, v.Value())
			case *object.Float:
				queryArgs = append(queryArgs, v.Value())
			case *object.String:
				queryArgs = append(queryArgs, v.Value())
			case *object.Bool:
				queryArgs = append(queryArgs, v.Value())
			case *object.NilType:
				queryArgs = append(queryArgs, nil)
			default:
				queryArgs = append(queryArgs, fmt.Sprintf("%v", arg))
			}
		}

		rows, err := s.DB().QueryContext(ctx, sqlStr, queryArgs...)
		if err != nil {
			return object.Errorf("db_query: %v", err)
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return object.Errorf("db_query: columns: %v", err)
		}

		results := []object.Object{}
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return object.Errorf("db_query: scan: %v", err)
			}
			row := make(map[string]object.Object, len(cols))
			for i, col := range cols {
				row[col] = sqlValueToObject(values[i])
			}
			results = append(results, object.NewMap(row))
		}
		if err := rows.Err(); err != nil {
			return object.Errorf("db_query: rows: %v", err)
		}
		return object.NewList(results)
	})
}

// sqlValueToObject converts a database value to a Risor object.
func sqlValueToObject(v any) object.Object {
	switch val := v.(type) {
	case nil:
		return object.Nil
	case int64:
		return object.NewInt(val)
	case float64:
		return object.NewFloat(val)
	case string:
		return object.NewString(val)
	case bool:
		return object.NewBool(val)
	case []byte:
		return object.NewString(string(val))
	default:
		return object.NewString(fmt.Sprintf("%v", val))
	}
}

// --- Risor argument helpers ---

func extractMap(obj object.Object) (map[string]object.Object, error) {
	m, ok := obj.(*object.Map)
	if !ok {
		return nil, fmt.Errorf("expected map, got %s", obj.Type())
	}
	return m.Value(), nil
}

func getString(m map[string]object.Object, key string) string {
	if s, ok := m[key].(*object.String); ok {
		return s.Value()
	}
	return ""
}

func getStringDefault(m map[string]object.Object, key, def string) string {
	if v := getString(m, key); v != "" {
		return v
	}
	return def
}

func getOptionalInt64(m map[string]object.Object, key string) (int64, bool) {
	switch v := m[key].(type) {
	case *object.Int:
		return v.Value(), true
	case *object.Float:
		return int64(v.Value()), true
	default:
		return 0, false
	}
}

func getBool(m map[string]object.Object, key string) bool {
	if b, ok := m[key].(*object.Bool); ok {
		return b.Value()
	}
	return false
}

func toInt64(obj object.Object) (int64, error) {
	switch v := obj.(type) {
	case *object.Int:
		return v.Value(), nil
	case *object.Float:
		return int64(v.Value()), nil
	}
	return 0, fmt.Errorf("expected int, got %s", obj.Type())
}

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", fmt.Errorf("expected string, got %s", obj.Type())
}
