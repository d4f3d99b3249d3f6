package model

import "github.com/google/uuid"

// Todo is the single record kept by the store.
// ID is supplied by the caller and is the primary key.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Stats counts completed and pending todos.
func Stats(todos []Todo) (done, pending int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// NewID returns a time-ordered identifier, so id order is creation order.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
