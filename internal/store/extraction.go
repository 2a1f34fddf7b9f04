package store

import (
	"database/sql"
	"fmt"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// --- Class operations ---

func (s *Store) InsertClass(c *Class) (int64, error) {
	return insertClassTx(s.db, c)
}

func insertClassTx(ex execer, c *Class) (int64, error) {
	if c.SymbolType == "" {
		c.SymbolType = SymbolClass
	}
	res, err := ex.Exec(
		"INSERT INTO classes (name, symbol_type, base_class) VALUES (?, ?, ?)",
		c.Name, c.SymbolType, nullableString(c.BaseClass),
	)
	if err != nil {
		return 0, fmt.Errorf("insert class: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	c.ID = id
	return id, nil
}

func (s *Store) ClassByID(id int64) (*Class, error) {
	c := &Class{}
	var base sql.NullString
	err := s.db.QueryRow(
		"SELECT id, name, symbol_type, base_class FROM classes WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.SymbolType, &base)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("class by id: %w", err)
	}
	c.BaseClass = base.String
	return c, nil
}

// ClassesByName returns every row named name, compared case-insensitively.
func (s *Store) ClassesByName(name string) ([]*Class, error) {
	rows, err := s.db.Query(
		"SELECT id, name, symbol_type, base_class FROM classes WHERE LOWER(name) = LOWER(?) ORDER BY id", name,
	)
	if err != nil {
		return nil, fmt.Errorf("classes by name: %w", err)
	}
	defer rows.Close()
	var classes []*Class
	for rows.Next() {
		c := &Class{}
		var base sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.SymbolType, &base); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		c.BaseClass = base.String
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// --- Member operations ---

func (s *Store) InsertMember(m *Member) (int64, error) {
	return insertMemberTx(s.db, m)
}

func insertMemberTx(ex execer, m *Member) (int64, error) {
	res, err := ex.Exec(
		`INSERT INTO members (class_id, name, type, return_type, access, is_static, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ClassID, m.Name, m.Type, nullableString(m.ReturnType), nullableString(m.Access),
		m.IsStatic, nullableString(m.Detail),
	)
	if err != nil {
		return 0, fmt.Errorf("insert member: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	m.ID = id
	return id, nil
}

func (s *Store) MembersByClass(classID int64) ([]*Member, error) {
	rows, err := s.db.Query(
		`SELECT id, class_id, name, type, return_type, access, is_static, detail
		 FROM members WHERE class_id = ? ORDER BY id`, classID,
	)
	if err != nil {
		return nil, fmt.Errorf("members by class: %w", err)
	}
	defer rows.Close()
	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func scanMember(scanner interface{ Scan(...any) error }) (*Member, error) {
	m := &Member{}
	var rt, access, detail sql.NullString
	var static sql.NullBool
	if err := scanner.Scan(&m.ID, &m.ClassID, &m.Name, &m.Type, &rt, &access, &static, &detail); err != nil {
		return nil, err
	}
	m.ReturnType = rt.String
	m.Access = access.String
	m.IsStatic = static.Bool
	m.Detail = detail.String
	return m, nil
}

// --- Inheritance operations ---

func (s *Store) InsertInheritance(inh *Inheritance) error {
	return insertInheritanceTx(s.db, inh)
}

func insertInheritanceTx(ex execer, inh *Inheritance) error {
	if _, err := ex.Exec(
		"INSERT INTO inheritance (child_id, parent_name) VALUES (?, ?)",
		inh.ChildID, inh.ParentName,
	); err != nil {
		return fmt.Errorf("insert inheritance: %w", err)
	}
	return nil
}

// --- Enum value operations ---

func (s *Store) InsertEnumValue(ev *EnumValue) (int64, error) {
	return insertEnumValueTx(s.db, ev)
}

func insertEnumValueTx(ex execer, ev *EnumValue) (int64, error) {
	res, err := ex.Exec("INSERT INTO enum_values (enum_id, name) VALUES (?, ?)", ev.EnumID, ev.Name)
	if err != nil {
		return 0, fmt.Errorf("insert enum value: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	ev.ID = id
	return id, nil
}

func (s *Store) EnumValuesByEnum(enumID int64) ([]*EnumValue, error) {
	rows, err := s.db.Query("SELECT id, enum_id, name FROM enum_values WHERE enum_id = ? ORDER BY id", enumID)
	if err != nil {
		return nil, fmt.Errorf("enum values by enum: %w", err)
	}
	defer rows.Close()
	var values []*EnumValue
	for rows.Next() {
		ev := &EnumValue{}
		if err := rows.Scan(&ev.ID, &ev.EnumID, &ev.Name); err != nil {
			return nil, fmt.Errorf("scan enum value: %w", err)
		}
		values = append(values, ev)
	}
	return values, rows.Err()
}
