package store

import (
	"errors"
	"fmt"
	"strings"
)

// Schema registers a named database, its version and the tables it holds.
// A shipped version is immutable; a changed layout needs a new version.
type Schema struct {
	Name    string
	Version int
	Tables  []Table
}

// Table declares one table: its columns, primary key and secondary indexes.
type Table struct {
	Name       string
	PrimaryKey string
	Columns    []Column
	Indexes    []string
}

// Column is a column name with its SQLite type.
type Column struct {
	Name string
	Type string
}

// TodoSchema is version 1 of todoDB: one table keyed by id, indexed on completed.
var TodoSchema = Schema{
	Name:    "todoDB",
	Version: 1,
	Tables: []Table{
		{
			Name:       "todos",
			PrimaryKey: "id",
			Columns: []Column{
				{Name: "id", Type: "TEXT"},
				{Name: "text", Type: "TEXT"},
				{Name: "completed", Type: "INTEGER"},
			},
			Indexes: []string{"completed"},
		},
	},
}

// Validate reports the first problem that would keep the schema from being applied.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("schema: empty database name")
	}
	if s.Version < 1 {
		return fmt.Errorf("schema %s: version must be >= 1, got %d", s.Name, s.Version)
	}
	if len(s.Tables) == 0 {
		return fmt.Errorf("schema %s: no tables declared", s.Name)
	}
	seen := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		if t.Name == "" {
			return fmt.Errorf("schema %s: table with empty name", s.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("schema %s: table %s declared twice", s.Name, t.Name)
		}
		seen[t.Name] = true
		if t.PrimaryKey == "" {
			return fmt.Errorf("schema %s: table %s has no primary key", s.Name, t.Name)
		}
		if !t.hasColumn(t.PrimaryKey) {
			return fmt.Errorf("schema %s: primary key %s is not a column of %s", s.Name, t.PrimaryKey, t.Name)
		}
		for _, idx := range t.Indexes {
			if !t.hasColumn(idx) {
				return fmt.Errorf("schema %s: index %s is not a column of %s", s.Name, idx, t.Name)
			}
		}
	}
	return nil
}

func (t Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// IndexName is the name given to the secondary index on column.
func (t Table) IndexName(column string) string {
	return "idx_" + t.Name + "_" + column
}

// DDL renders the statements that create the table and its indexes.
// Every statement is idempotent.
func (t Table) DDL() []string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		def := c.Name + " " + c.Type
		if c.Name == t.PrimaryKey {
			def += " PRIMARY KEY"
		} else {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}
	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(cols, ",\n\t")),
	}
	for _, idx := range t.Indexes {
		stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", t.IndexName(idx), t.Name, idx))
	}
	return stmts
}
