package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"notes-backend/internal/model"
	"notes-backend/internal/repository"
)

var _ repository.NoteRepository = (*repo)(nil)

type repo struct {
	db *gorm.DB
}

// NewRepository создает репозиторий заметок поверх GORM
func NewRepository(db *gorm.DB) repository.NoteRepository {
	return &repo{db: db}
}

// Create вставляет заметку; ID и временные метки проставляет БД/GORM
func (r *repo) Create(ctx context.Context, note model.Note) (model.Note, error) {
	e := entityFromModel(note)
	e.ID = 0
	e.CreatedAt, e.UpdatedAt = e.CreatedAt.UTC(), e.UpdatedAt.UTC()

	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return model.Note{}, err
	}

	return e.toModel(), nil
}

// GetByID возвращает заметку по её ID
func (r *repo) GetByID(ctx context.Context, id int64) (model.Note, error) {
	var e noteEntity
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return model.Note{}, translateError(err)
	}

	return e.toModel(), nil
}

// List возвращает все заметки в порядке создания
func (r *repo) List(ctx context.Context) ([]model.Note, error) {
	var entities []noteEntity
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}

	notes := make([]model.Note, 0, len(entities))
	for _, e := range entities {
		notes = append(notes, e.toModel())
	}

	return notes, nil
}

// UpdateByID блокирует строку, применяет изменения и перечитывает её в одной транзакции
func (r *repo) UpdateByID(ctx context.Context, id int64, changes model.NoteChanges) (model.Note, error) {
	var e noteEntity
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, id).Error; err != nil {
			return translateError(err)
		}

		if changes.IsEmpty() {
			return nil
		}

		updates := make(map[string]any, 2)
		if changes.Title != nil {
			updates["title"] = *changes.Title
		}
		if changes.Content != nil {
			updates["content"] = *changes.Content
		}

		res := tx.Model(&noteEntity{ID: id}).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNoteNotFound
		}

		return tx.First(&e, id).Error
	})
	if err != nil {
		return model.Note{}, err
	}

	return e.toModel(), nil
}

// DeleteByID удаляет заметку и возвращает снимок, прочитанный в той же транзакции
func (r *repo) DeleteByID(ctx context.Context, id int64) (model.Note, error) {
	var e noteEntity
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, id).Error; err != nil {
			return translateError(err)
		}

		res := tx.Delete(&noteEntity{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNoteNotFound
		}
		return nil
	})
	if err != nil {
		return model.Note{}, err
	}

	return e.toModel(), nil
}

// Ping проверяет соединение с БД
func (r *repo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translateError заменяет gorm.ErrRecordNotFound на доменную ошибку, остальные возвращает как есть
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNoteNotFound
	}
	return err
}
