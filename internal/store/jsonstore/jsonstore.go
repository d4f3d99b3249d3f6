package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/idilsaglam/tododb/internal/model"
)

// JSON snapshots of the todo list. Load also reads the todos.json written by
// the file-backed CLI that predates todoDB, where entries were {title, done}
// and had no id.

// record accepts both layouts.
type record struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`

	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Load reads the todos in path. A missing file yields no todos.
// Entries without an id come back with an empty ID for the caller to fill.
func Load(path string) ([]model.Todo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Todo{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var recs []record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	todos := make([]model.Todo, 0, len(recs))
	for _, r := range recs {
		t := model.Todo{ID: r.ID, Text: r.Text, Completed: r.Completed}
		if t.Text == "" && r.Title != "" {
			t.Text = r.Title
		}
		if r.Done {
			t.Completed = true
		}
		todos = append(todos, t)
	}
	return todos, nil
}

// Save writes todos to path as an indented JSON array.
func Save(path string, todos []model.Todo) error {
	if todos == nil {
		todos = []model.Todo{}
	}
	b, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
