package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/idilsaglam/tododb/internal/model"
)

const selectTodos = `SELECT id, text, completed FROM todos`

// Changes is a partial update. Nil fields are left as they are.
type Changes struct {
	Text      *string
	Completed *bool
}

// Add inserts a new todo. A duplicate id fails with the engine's constraint error.
func (s *Store) Add(ctx context.Context, t model.Todo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (id, text, completed) VALUES (?, ?, ?)`,
		t.ID, t.Text, boolToInt(t.Completed))
	return err
}

// Put inserts a todo or replaces the one with the same id.
func (s *Store) Put(ctx context.Context, t model.Todo) error {
	_, err := s.db.ExecContext(ctx, upsertTodo, t.ID, t.Text, boolToInt(t.Completed))
	return err
}

const upsertTodo = `
	INSERT INTO todos (id, text, completed) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET text = excluded.text, completed = excluded.completed
`

// BulkPut puts every todo inside one transaction; either all land or none.
func (s *Store) BulkPut(ctx context.Context, todos []model.Todo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertTodo)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range todos {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Text, boolToInt(t.Completed)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns the todo with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (model.Todo, error) {
	var t model.Todo
	err := s.db.QueryRowContext(ctx, selectTodos+` WHERE id = ?`, id).Scan(&t.ID, &t.Text, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, ErrNotFound
	}
	if err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

// Update applies ch to the todo with the given id. Returns ErrNotFound when
// there is no such todo.
func (s *Store) Update(ctx context.Context, id string, ch Changes) error {
	var sets []string
	var args []any
	if ch.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *ch.Text)
	}
	if ch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*ch.Completed))
	}
	if len(sets) == 0 {
		_, err := s.Get(ctx, id)
		return err
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, `UPDATE todos SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the todo with the given id. A missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	return err
}

// All returns every todo in id order.
func (s *Store) All(ctx context.Context) ([]model.Todo, error) {
	return s.query(ctx, selectTodos+` ORDER BY id`)
}

// Where returns the todos whose completed flag matches, in id order.
// Served by the completed index.
func (s *Store) Where(ctx context.Context, completed bool) ([]model.Todo, error) {
	return s.query(ctx, selectTodos+` WHERE completed = ? ORDER BY id`, boolToInt(completed))
}

// Count returns the number of stored todos.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&n)
	return n, err
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]model.Todo, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	todos := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
