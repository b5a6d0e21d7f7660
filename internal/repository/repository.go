package repository

import (
	"context"
	"errors"

	"notes-backend/internal/model"
)

// ErrNoteNotFound возвращается, когда заметка с указанным ID отсутствует в хранилище
var ErrNoteNotFound = errors.New("note not found")

// NoteRepository интерфейс для работы с заметками в хранилище.
// Любые ошибки, кроме ErrNoteNotFound, являются ошибками хранилища и возвращаются как есть.
type NoteRepository interface {
	// Create создает новую заметку и возвращает её с ID и временными метками
	Create(ctx context.Context, note model.Note) (model.Note, error)

	// GetByID возвращает заметку по её ID или ErrNoteNotFound
	GetByID(ctx context.Context, id int64) (model.Note, error)

	// List возвращает все заметки в порядке возрастания ID
	List(ctx context.Context) ([]model.Note, error)

	// UpdateByID атомарно применяет изменения к существующей заметке.
	// Если заметки нет, возвращает ErrNoteNotFound.
	UpdateByID(ctx context.Context, id int64, changes model.NoteChanges) (model.Note, error)

	// DeleteByID атомарно удаляет заметку и возвращает её состояние до удаления.
	// Если заметки нет, возвращает ErrNoteNotFound.
	DeleteByID(ctx context.Context, id int64) (model.Note, error)

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error
}
