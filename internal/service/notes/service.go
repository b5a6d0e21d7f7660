package notes

import (
	"context"
	"errors"

	"notes-backend/internal/events"
	"notes-backend/internal/model"
	"notes-backend/internal/repository"
	svc "notes-backend/internal/service"
)

var _ svc.NoteService = (*service)(nil)

type service struct {
	noteRepository repository.NoteRepository
	publisher      events.Publisher
}

// NewNoteService создает новый экземпляр сервиса для работы с заметками.
// publisher может быть nil, тогда события не рассылаются.
func NewNoteService(noteRepository repository.NoteRepository, publisher events.Publisher) svc.NoteService {
	return &service{
		noteRepository: noteRepository,
		publisher:      publisher,
	}
}

// Create создает новую заметку. Ошибки хранилища возвращаются без изменений.
func (s *service) Create(ctx context.Context, title, content string) (model.Note, error) {
	note, err := s.noteRepository.Create(ctx, model.Note{
		Title:   title,
		Content: content,
	})
	if err != nil {
		return model.Note{}, err
	}

	s.publish(ctx, model.EventCreated, note)
	return note, nil
}

// List возвращает список всех заметок
func (s *service) List(ctx context.Context) ([]model.Note, error) {
	notes, err := s.noteRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []model.Note{}
	}

	return notes, nil
}

// Get возвращает заметку по её ID. Отсутствие заметки не считается ошибкой.
func (s *service) Get(ctx context.Context, id int64) (model.Note, bool, error) {
	note, err := s.noteRepository.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return model.Note{}, false, nil
	}
	if err != nil {
		return model.Note{}, false, err
	}

	return note, true, nil
}

// Update обновляет заметку одним атомарным вызовом репозитория.
// Если заметки нет, возвращает repository.ErrNoteNotFound.
func (s *service) Update(ctx context.Context, id int64, changes model.NoteChanges) (model.Note, error) {
	note, err := s.noteRepository.UpdateByID(ctx, id, changes)
	if err != nil {
		return model.Note{}, err
	}

	s.publish(ctx, model.EventUpdated, note)
	return note, nil
}

// Delete удаляет заметку и возвращает её снимок до удаления.
// Если заметки нет, возвращает repository.ErrNoteNotFound.
func (s *service) Delete(ctx context.Context, id int64) (model.Note, error) {
	note, err := s.noteRepository.DeleteByID(ctx, id)
	if err != nil {
		return model.Note{}, err
	}

	s.publish(ctx, model.EventDeleted, note)
	return note, nil
}

// Ping проверяет доступность хранилища
func (s *service) Ping(ctx context.Context) error {
	return s.noteRepository.Ping(ctx)
}

func (s *service) publish(ctx context.Context, eventType model.EventType, note model.Note) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, model.NewNoteEvent(eventType, note))
}
