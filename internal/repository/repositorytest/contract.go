// Package repositorytest содержит общий набор проверок для реализаций repository.NoteRepository.
package repositorytest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-backend/internal/model"
	"notes-backend/internal/repository"
)

// Factory создает пустой репозиторий для одного теста
type Factory func(t *testing.T) repository.NoteRepository

func strPtr(s string) *string { return &s }

// Run прогоняет контрактные тесты против реализации
func Run(t *testing.T, newRepo Factory) {
	t.Run("CreateAssignsIDAndTimestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		note, err := repo.Create(ctx, model.Note{Title: "A", Content: "B"})
		require.NoError(t, err)

		assert.NotZero(t, note.ID)
		assert.Equal(t, "A", note.Title)
		assert.Equal(t, "B", note.Content)
		assert.False(t, note.CreatedAt.IsZero())
		assert.False(t, note.UpdatedAt.IsZero())
	})

	t.Run("CreateIgnoresCallerID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Create(ctx, model.Note{Title: "first"})
		require.NoError(t, err)
		second, err := repo.Create(ctx, model.Note{ID: first.ID, Title: "second"})
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "first", got.Title)
	})

	t.Run("GetByIDRoundTrip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, model.Note{Title: "title", Content: "content"})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "title", got.Title)
		assert.Equal(t, "content", got.Content)
	})

	t.Run("GetByIDMissing", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetByID(context.Background(), 4242)
		assert.ErrorIs(t, err, repository.ErrNoteNotFound)
	})

	t.Run("ListInCreationOrder", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		empty, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		a, err := repo.Create(ctx, model.Note{Title: "a"})
		require.NoError(t, err)
		b, err := repo.Create(ctx, model.Note{Title: "b"})
		require.NoError(t, err)
		c, err := repo.Create(ctx, model.Note{Title: "c"})
		require.NoError(t, err)

		notes, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, []int64{a.ID, b.ID, c.ID}, []int64{notes[0].ID, notes[1].ID, notes[2].ID})
	})

	t.Run("UpdateOnlyTouchesGivenFields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, model.Note{Title: "old title", Content: "kept content"})
		require.NoError(t, err)

		updated, err := repo.UpdateByID(ctx, created.ID, model.NoteChanges{Title: strPtr("X")})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "X", updated.Title)
		assert.Equal(t, "kept content", updated.Content)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "X", got.Title)
		assert.Equal(t, "kept content", got.Content)
	})

	t.Run("UpdateCanClearContent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, model.Note{Title: "t", Content: "c"})
		require.NoError(t, err)

		updated, err := repo.UpdateByID(ctx, created.ID, model.NoteChanges{Content: strPtr("")})
		require.NoError(t, err)
		assert.Equal(t, "t", updated.Title)
		assert.Equal(t, "", updated.Content)
	})

	t.Run("UpdateWithoutChangesReturnsCurrent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, model.Note{Title: "t", Content: "c"})
		require.NoError(t, err)

		got, err := repo.UpdateByID(ctx, created.ID, model.NoteChanges{})
		require.NoError(t, err)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Content, got.Content)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.UpdateByID(context.Background(), 99, model.NoteChanges{Title: strPtr("X")})
		assert.ErrorIs(t, err, repository.ErrNoteNotFound)
	})

	t.Run("DeleteReturnsSnapshot", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, model.Note{Title: "A", Content: "B"})
		require.NoError(t, err)

		deleted, err := repo.DeleteByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, deleted.ID)
		assert.Equal(t, created.Title, deleted.Title)
		assert.Equal(t, created.Content, deleted.Content)
		assert.WithinDuration(t, created.CreatedAt, deleted.CreatedAt, time.Millisecond)

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, repository.ErrNoteNotFound)

		_, err = repo.DeleteByID(ctx, created.ID)
		assert.ErrorIs(t, err, repository.ErrNoteNotFound)

		_, err = repo.UpdateByID(ctx, created.ID, model.NoteChanges{Title: strPtr("X")})
		assert.ErrorIs(t, err, repository.ErrNoteNotFound)
	})

	t.Run("IDsAreNotReusedAfterDelete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		// Удаляется заметка с максимальным ID: без AUTOINCREMENT SQLite выдал бы его повторно
		first, err := repo.Create(ctx, model.Note{Title: "first"})
		require.NoError(t, err)
		_, err = repo.DeleteByID(ctx, first.ID)
		require.NoError(t, err)

		second, err := repo.Create(ctx, model.Note{Title: "second"})
		require.NoError(t, err)

		assert.Greater(t, second.ID, first.ID)
		_, err = repo.GetByID(ctx, first.ID)
		assert.ErrorIs(t, err, repository.ErrNoteNotFound)
	})

	t.Run("ConcurrentDeleteHasSingleWinner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Create(ctx, model.Note{Title: "race"})
		require.NoError(t, err)

		const workers = 8
		var wg sync.WaitGroup
		results := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.DeleteByID(ctx, created.ID)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var ok, notFound int
		for err := range results {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, repository.ErrNoteNotFound):
				notFound++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, workers-1, notFound)
	})

	t.Run("Ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(context.Background()))
	})
}
