package model

import "time"

// EventType тип события изменения заметки
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// NoteEvent событие об изменении заметки.
// Для deleted содержит состояние заметки до удаления.
type NoteEvent struct {
	Type       EventType
	Note       Note
	OccurredAt time.Time
}

// NewNoteEvent создает событие с текущим временем
func NewNoteEvent(eventType EventType, note Note) NoteEvent {
	return NoteEvent{
		Type:       eventType,
		Note:       note,
		OccurredAt: time.Now().UTC(),
	}
}
