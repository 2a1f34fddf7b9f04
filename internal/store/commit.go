package store

import "fmt"

// CommitBatch inserts all buffered rows from a BatchedStore into SQLite
// within a single transaction. Fake (negative) class IDs are remapped to
// real ones and every reference to them is rewritten. Non-negative IDs
// already point at committed rows and pass through unchanged.
//
// Insert order respects FK dependencies:
//  1. Classes
//  2. Members (class_id)
//  3. Inheritance (child_id)
//  4. EnumValues (enum_id)
func (s *Store) CommitBatch(batch *BatchedStore) error {
	batch.mu.Lock()
	defer batch.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	fakeToReal := make(map[int64]int64)
	remap := func(id int64) (int64, error) {
		if id >= 0 {
			return id, nil
		}
		realID, ok := fakeToReal[id]
		if !ok {
			return 0, fmt.Errorf("class id %d not in batch (have %d classes)", id, len(batch.Classes))
		}
		return realID, nil
	}

	// 1. Classes
	for _, c := range batch.Classes {
		fakeID := c.ID
		realID, err := insertClassTx(tx, &c)
		if err != nil {
			return fmt.Errorf("commit batch: class %q: %w", c.Name, err)
		}
		fakeToReal[fakeID] = realID
	}

	// 2. Members
	for _, m := range batch.Members {
		if m.ClassID, err = remap(m.ClassID); err != nil {
			return fmt.Errorf("commit batch: member %q: %w", m.Name, err)
		}
		if _, err := insertMemberTx(tx, &m); err != nil {
			return fmt.Errorf("commit batch: member %q: %w", m.Name, err)
		}
	}

	// 3. Inheritance
	for _, inh := range batch.Inheritance {
		if inh.ChildID, err = remap(inh.ChildID); err != nil {
			return fmt.Errorf("commit batch: parent %q: %w", inh.ParentName, err)
		}
		if err := insertInheritanceTx(tx, &inh); err != nil {
			return fmt.Errorf("commit batch: parent %q: %w", inh.ParentName, err)
		}
	}

	// 4. EnumValues
	for _, ev := range batch.EnumValues {
		if ev.EnumID, err = remap(ev.EnumID); err != nil {
			return fmt.Errorf("commit batch: enum value %q: %w", ev.Name, err)
		}
		if _, err := insertEnumValueTx(tx, &ev); err != nil {
			return fmt.Errorf("commit batch: enum value %q: %w", ev.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	batch.Classes, batch.Members, batch.Inheritance, batch.EnumValues = nil, nil, nil, nil
	return nil
}
