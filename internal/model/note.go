package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength максимальная длина заголовка в символах
const MaxTitleLength = 255

// ErrValidation базовая ошибка валидации входных данных
var ErrValidation = errors.New("validation failed")

// Note представляет заметку (доменная модель)
type Note struct {
	ID        int64     // Генерируется хранилищем, не меняется после создания
	Title     string    // Заголовок заметки
	Content   string    // Содержание заметки
	CreatedAt time.Time // Дата создания
	UpdatedAt time.Time // Дата последнего обновления
}

// NoteChanges частичное обновление заметки: nil-поля не изменяются
type NoteChanges struct {
	Title   *string
	Content *string
}

// IsEmpty проверяет, что в изменениях нет ни одного поля
func (c NoteChanges) IsEmpty() bool {
	return c.Title == nil && c.Content == nil
}

// Apply применяет изменения к заметке и возвращает результат
func (c NoteChanges) Apply(note Note) Note {
	if c.Title != nil {
		note.Title = *c.Title
	}
	if c.Content != nil {
		note.Content = *c.Content
	}
	return note
}

// Validate проверяет изменения перед обновлением
func (c NoteChanges) Validate() error {
	if c.IsEmpty() {
		return fmt.Errorf("%w: at least one of title or content must be provided", ErrValidation)
	}
	if c.Title != nil {
		return ValidateTitle(*c.Title)
	}
	return nil
}

// ValidateTitle проверяет заголовок: не пустой и не длиннее MaxTitleLength
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrValidation, MaxTitleLength)
	}
	return nil
}
