package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"notes-backend/internal/model"
	"notes-backend/internal/repository"
)

var _ repository.NoteRepository = (*repo)(nil)

type repo struct {
	mu     sync.RWMutex
	notes  map[int64]model.Note
	lastID int64
}

// NewRepository создает новый экземпляр in-memory репозитория на основе map.
// ID выдаются монотонно и не переиспользуются после удаления.
func NewRepository() repository.NoteRepository {
	return &repo{
		notes: make(map[int64]model.Note),
	}
}

// Create создает новую заметку и возвращает созданную заметку с ID
func (r *repo) Create(ctx context.Context, note model.Note) (model.Note, error) {
	if err := ctx.Err(); err != nil {
		return model.Note{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	note.ID = r.lastID

	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	r.notes[note.ID] = note

	return note, nil
}

// GetByID возвращает заметку по её ID
func (r *repo) GetByID(ctx context.Context, id int64) (model.Note, error) {
	if err := ctx.Err(); err != nil {
		return model.Note{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[id]
	if !exists {
		return model.Note{}, repository.ErrNoteNotFound
	}

	return note, nil
}

// List возвращает список всех заметок, отсортированный по ID
func (r *repo) List(ctx context.Context) ([]model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]model.Note, 0, len(r.notes))
	for _, note := range r.notes {
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })

	return notes, nil
}

// UpdateByID применяет изменения под одной блокировкой
func (r *repo) UpdateByID(ctx context.Context, id int64, changes model.NoteChanges) (model.Note, error) {
	if err := ctx.Err(); err != nil {
		return model.Note{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	note, exists := r.notes[id]
	if !exists {
		return model.Note{}, repository.ErrNoteNotFound
	}

	if changes.IsEmpty() {
		return note, nil
	}

	note = changes.Apply(note)
	note.UpdatedAt = time.Now().UTC()
	r.notes[id] = note

	return note, nil
}

// DeleteByID удаляет заметку и возвращает её последнее состояние
func (r *repo) DeleteByID(ctx context.Context, id int64) (model.Note, error) {
	if err := ctx.Err(); err != nil {
		return model.Note{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	note, exists := r.notes[id]
	if !exists {
		return model.Note{}, repository.ErrNoteNotFound
	}

	delete(r.notes, id)

	return note, nil
}

// Ping всегда успешен для in-memory хранилища
func (r *repo) Ping(ctx context.Context) error {
	return ctx.Err()
}
