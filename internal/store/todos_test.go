package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tododb/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestPutAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	todos := []model.Todo{
		{ID: "a", Text: "buy milk"},
		{ID: "b", Text: "", Completed: true},
		{ID: "c", Text: "unicode ✔ and\nnewlines"},
	}
	for _, td := range todos {
		require.NoError(t, s.Put(ctx, td))
	}
	for _, want := range todos {
		got, err := s.Get(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPut_OverwritesSameID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.Todo{ID: "1", Text: "first"}))
	require.NoError(t, s.Put(ctx, model.Todo{ID: "1", Text: "second", Completed: true}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: "1", Text: "second", Completed: true}, got)
}

func TestAdd_RejectsDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, model.Todo{ID: "1", Text: "first"}))
	err := s.Add(ctx, model.Todo{ID: "1", Text: "second"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Text)
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, model.Todo{ID: "1", Text: "buy milk"}))

	require.NoError(t, s.Update(ctx, "1", Changes{Completed: ptr(true)}))
	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: "1", Text: "buy milk", Completed: true}, got)

	require.NoError(t, s.Update(ctx, "1", Changes{Text: ptr("buy oat milk")}))
	got, err = s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: "1", Text: "buy oat milk", Completed: true}, got)

	require.NoError(t, s.Update(ctx, "1", Changes{Text: ptr("done"), Completed: ptr(false)}))
	got, err = s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: "1", Text: "done"}, got)
}

func TestUpdate_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Update(ctx, "nope", Changes{Completed: ptr(true)}), ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, "nope", Changes{}), ErrNotFound)
}

func TestWhere(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BulkPut(ctx, []model.Todo{
		{ID: "1", Text: "a", Completed: true},
		{ID: "2", Text: "b"},
		{ID: "3", Text: "c", Completed: true},
		{ID: "4", Text: "d"},
	}))
	// last write wins for the index too
	require.NoError(t, s.Update(ctx, "3", Changes{Completed: ptr(false)}))
	require.NoError(t, s.Update(ctx, "4", Changes{Completed: ptr(true)}))

	done, err := s.Where(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids(done))

	pending, err := s.Where(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, ids(pending))
}

func TestWhere_Empty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Where(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, model.Todo{ID: "1", Text: "buy milk"}))

	require.NoError(t, s.Delete(ctx, "1"))
	_, err := s.Get(ctx, "1")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting again is fine
	assert.NoError(t, s.Delete(ctx, "1"))
}

func TestAll_OrderedByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.Put(ctx, model.Todo{ID: id, Text: id}))
	}
	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(all))
}

func TestBulkPut_AllOrNothing(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.BulkPut(ctx, []model.Todo{{ID: "1", Text: "a"}, {ID: "2", Text: "b"}})
	require.Error(t, err)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExampleScenario(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	milk := model.Todo{ID: "1", Text: "buy milk", Completed: false}

	require.NoError(t, s.Put(ctx, milk))

	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, milk, got)

	require.NoError(t, s.Update(ctx, "1", Changes{Completed: ptr(true)}))

	done, err := s.Where(ctx, true)
	require.NoError(t, err)
	assert.Contains(t, ids(done), "1")

	require.NoError(t, s.Delete(ctx, "1"))

	_, err = s.Get(ctx, "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentPuts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.Put(ctx, model.Todo{ID: fmt.Sprintf("%03d", i), Text: "task"})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func ids(todos []model.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, td := range todos {
		out = append(out, td.ID)
	}
	return out
}
