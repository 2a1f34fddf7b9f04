package store

// SymbolWriter is the write side used by seed scripts. Both Store (direct
// SQLite) and BatchedStore (in-memory buffering committed in one
// transaction) implement it.
type SymbolWriter interface {
	// Inserts return the assigned ID.
	InsertClass(c *Class) (int64, error)
	InsertMember(m *Member) (int64, error)
	InsertInheritance(inh *Inheritance) error
	InsertEnumValue(ev *EnumValue) (int64, error)

	// ClassesByName lets scripts find classes they or an earlier run wrote.
	ClassesByName(name string) ([]*Class, error)
}

// Compile-time check: *Store satisfies SymbolWriter.
var _ SymbolWriter = (*Store)(nil)
