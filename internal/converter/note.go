package converter

import (
	"notes-backend/internal/model"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// ModelToAPI конвертирует доменную модель Note в API
func ModelToAPI(note model.Note) *notesv1.Note {
	return &notesv1.Note{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// ModelsToAPI конвертирует слайс доменных моделей; результат никогда не nil
func ModelsToAPI(notes []model.Note) []*notesv1.Note {
	apiNotes := make([]*notesv1.Note, len(notes))
	for i, note := range notes {
		apiNotes[i] = ModelToAPI(note)
	}

	return apiNotes
}

// EventToAPI конвертирует событие
func EventToAPI(event model.NoteEvent) *notesv1.NoteEvent {
	return &notesv1.NoteEvent{
		Type:       string(event.Type),
		Note:       ModelToAPI(event.Note),
		OccurredAt: event.OccurredAt,
	}
}

// UpdateRequestToChanges извлекает частичные изменения из запроса
func UpdateRequestToChanges(req *notesv1.UpdateNoteRequest) model.NoteChanges {
	if req == nil {
		return model.NoteChanges{}
	}
	return model.NoteChanges{
		Title:   req.Title,
		Content: req.Content,
	}
}
