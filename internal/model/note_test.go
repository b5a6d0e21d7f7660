package model

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{name: "ok", title: "Shopping list"},
		{name: "empty", title: "", wantErr: true},
		{name: "whitespace", title: "   \t", wantErr: true},
		{name: "max length", title: strings.Repeat("я", MaxTitleLength)},
		{name: "too long", title: strings.Repeat("a", MaxTitleLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTitle(%q) error = %v, wantErr %v", tt.title, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestNoteChanges(t *testing.T) {
	title := "X"
	note := Note{ID: 1, Title: "old", Content: "body"}

	changed := NoteChanges{Title: &title}.Apply(note)
	if changed.Title != "X" || changed.Content != "body" {
		t.Errorf("Unexpected result: %+v", changed)
	}

	if err := (NoteChanges{}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for empty changes, got %v", err)
	}

	blank := " "
	if err := (NoteChanges{Title: &blank}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for blank title, got %v", err)
	}

	empty := ""
	if err := (NoteChanges{Content: &empty}).Validate(); err != nil {
		t.Errorf("Clearing content should be valid, got %v", err)
	}
}
