// Package uecomplete resolves member completions for Unreal-flavored C++.
// Given a source buffer and a cursor position it returns the fields, methods
// and enum items valid at that position, using a SQLite symbol database
// produced by an external indexer.
//
// # Pipeline
//
// Each request runs synchronously:
//
//  1. Parse: the buffer is parsed with tree-sitter's C++ grammar. Syntax
//     errors still produce a tree; completion is best-effort while typing.
//
//  2. Classify: the deepest node covering the cursor decides the context.
//     After a member-access operator (".", "->", "::") the expression before
//     it is typed. Inside a field expression, a qualified name or an error
//     node the enclosing expression is used. A bare identifier inside a class
//     completes with the members of that class.
//
//  3. Infer: expression types come from local declarations, initializer
//     shapes such as NewObject<UFoo>(), and member return types recorded in
//     the database. Types are cleaned of Unreal smart-pointer wrappers and
//     qualifiers and followed through typedefs.
//
//  4. Assemble: members of the resolved class and all of its ancestors are
//     returned as completion items.
//
// # Usage
//
//	e, err := uecomplete.Open("symbols.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	items, err := e.Complete(ctx, uecomplete.Request{
//		Content: src,
//		Line:    12,
//		Column:  9,
//	})
//
// # Seeding
//
// [Engine.SeedFiles] and [Engine.SeedDirectory] fill a database from headers
// with a Risor seed script. The bundled script lives under scripts/seed and
// is embedded in the binary; see the internal/runtime package for the host
// functions scripts can call.
package uecomplete
