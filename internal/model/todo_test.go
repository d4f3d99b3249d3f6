package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	done, pending := Stats(nil)
	assert.Zero(t, done)
	assert.Zero(t, pending)

	done, pending = Stats([]Todo{
		{ID: "1", Text: "buy milk", Completed: true},
		{ID: "2", Text: "walk dog"},
		{ID: "3", Text: "call mom"},
	})
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, pending)
}

func TestNewID_Ordered(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b)
}
