package store

import (
	"strings"
	"sync"
)

// BatchedStore buffers seed inserts in memory using fake (negative) IDs.
// It implements SymbolWriter so seed scripts can write to it without
// knowing whether they're hitting SQLite or an in-memory buffer.
//
// Thread safety: the mutex protects fake ID allocation and slice appends.
// ClassesByName passes through to the underlying Store for committed rows.
type BatchedStore struct {
	store *Store // for read passthrough
	mu    sync.Mutex

	Classes     []Class
	Members     []Member
	Inheritance []Inheritance
	EnumValues  []EnumValue

	nextFakeID int64 // starts at -1, decrements
}

// Compile-time check: *BatchedStore satisfies SymbolWriter.
var _ SymbolWriter = (*BatchedStore)(nil)

// NewBatchedStore creates a BatchedStore backed by the given Store for read queries.
func NewBatchedStore(s *Store) *BatchedStore {
	return &BatchedStore{
		store:      s,
		nextFakeID: -1,
	}
}

func (b *BatchedStore) allocFakeID() int64 {
	id := b.nextFakeID
	b.nextFakeID--
	return id
}

func (b *BatchedStore) InsertClass(c *Class) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.SymbolType == "" {
		c.SymbolType = SymbolClass
	}
	c.ID = b.allocFakeID()
	b.Classes = append(b.Classes, *c)
	return c.ID, nil
}

func (b *BatchedStore) InsertMember(m *Member) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m.ID = b.allocFakeID()
	b.Members = append(b.Members, *m)
	return m.ID, nil
}

func (b *BatchedStore) InsertInheritance(inh *Inheritance) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Inheritance = append(b.Inheritance, *inh)
	return nil
}

func (b *BatchedStore) InsertEnumValue(ev *EnumValue) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ev.ID = b.allocFakeID()
	b.EnumValues = append(b.EnumValues, *ev)
	return ev.ID, nil
}

// ClassesByName returns committed rows from the database followed by any
// buffered (not yet committed) rows with the same name, compared
// case-insensitively.
func (b *BatchedStore) ClassesByName(name string) ([]*Class, error) {
	classes, err := b.store.ClassesByName(name)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Classes {
		if strings.EqualFold(b.Classes[i].Name, name) {
			c := b.Classes[i]
			classes = append(classes, &c)
		}
	}
	return classes, nil
}

// Len reports how many rows are buffered.
func (b *BatchedStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Classes) + len(b.Members) + len(b.Inheritance) + len(b.EnumValues)
}
