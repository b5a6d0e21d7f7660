package notesv1

import "time"

// Note заметка в формате API
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateNoteRequest запрос на создание заметки
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r *CreateNoteRequest) GetTitle() string {
	if r == nil {
		return ""
	}
	return r.Title
}

func (r *CreateNoteRequest) GetContent() string {
	if r == nil {
		return ""
	}
	return r.Content
}

type CreateNoteResponse struct {
	Note *Note `json:"note"`
}

// GetNoteRequest запрос заметки по ID
type GetNoteRequest struct {
	ID int64 `json:"id"`
}

func (r *GetNoteRequest) GetID() int64 {
	if r == nil {
		return 0
	}
	return r.ID
}

type GetNoteResponse struct {
	Note *Note `json:"note"`
}

type ListNotesRequest struct{}

type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

// UpdateNoteRequest частичное обновление: отсутствующие поля не меняются
type UpdateNoteRequest struct {
	ID      int64   `json:"id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (r *UpdateNoteRequest) GetID() int64 {
	if r == nil {
		return 0
	}
	return r.ID
}

type UpdateNoteResponse struct {
	Note *Note `json:"note"`
}

type DeleteNoteRequest struct {
	ID int64 `json:"id"`
}

func (r *DeleteNoteRequest) GetID() int64 {
	if r == nil {
		return 0
	}
	return r.ID
}

// DeleteNoteResponse содержит заметку в состоянии до удаления
type DeleteNoteResponse struct {
	Note *Note `json:"note"`
}

type WatchNotesRequest struct{}

// NoteEvent событие изменения заметки: created, updated или deleted
type NoteEvent struct {
	Type       string    `json:"type"`
	Note       *Note     `json:"note"`
	OccurredAt time.Time `json:"occurredAt"`
}
