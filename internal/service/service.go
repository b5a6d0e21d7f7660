package service

import (
	"context"

	"notes-backend/internal/model"
)

// NoteService интерфейс для бизнес-логики работы с заметками
type NoteService interface {
	// Create создает новую заметку с указанными title и content
	Create(ctx context.Context, title, content string) (model.Note, error)

	// List возвращает список всех заметок в порядке создания
	List(ctx context.Context) ([]model.Note, error)

	// Get возвращает заметку по её ID; found == false, если заметки нет
	Get(ctx context.Context, id int64) (note model.Note, found bool, err error)

	// Update применяет частичные изменения к существующей заметке
	Update(ctx context.Context, id int64, changes model.NoteChanges) (model.Note, error)

	// Delete удаляет заметку по ID и возвращает её состояние до удаления
	Delete(ctx context.Context, id int64) (model.Note, error)

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error
}
