package database

import (
	"time"

	"notes-backend/internal/model"
)

// noteEntity GORM модель таблицы notes, отделенная от доменной модели
type noteEntity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"size:255;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName фиксирует имя таблицы
func (noteEntity) TableName() string {
	return "notes"
}

func (e noteEntity) toModel() model.Note {
	return model.Note{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		CreatedAt: e.CreatedAt.UTC(),
		UpdatedAt: e.UpdatedAt.UTC(),
	}
}

func entityFromModel(note model.Note) noteEntity {
	return noteEntity{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
