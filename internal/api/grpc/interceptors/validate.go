package interceptors

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"notes-backend/internal/model"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// ValidateUnaryInterceptor проверяет входящие запросы NotesService.
// При нарушениях возвращает InvalidArgument с errdetails.BadRequest.
func ValidateUnaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if violations := validateRequest(req); len(violations) > 0 {
		st := status.New(codes.InvalidArgument, "validation failed: "+violations[0].GetDescription())
		if detailed, err := st.WithDetails(&errdetails.BadRequest{FieldViolations: violations}); err == nil {
			st = detailed
		}
		return nil, st.Err()
	}

	return handler(ctx, req)
}

func validateRequest(req any) []*errdetails.BadRequest_FieldViolation {
	var violations []*errdetails.BadRequest_FieldViolation
	add := func(field string, err error) {
		violations = append(violations, &errdetails.BadRequest_FieldViolation{
			Field:       field,
			Description: stripValidation(err),
		})
	}

	switch r := req.(type) {
	case *notesv1.CreateNoteRequest:
		if err := model.ValidateTitle(r.GetTitle()); err != nil {
			add("title", err)
		}
	case *notesv1.GetNoteRequest:
		if r.GetID() <= 0 {
			add("id", errors.New("id must be positive"))
		}
	case *notesv1.DeleteNoteRequest:
		if r.GetID() <= 0 {
			add("id", errors.New("id must be positive"))
		}
	case *notesv1.UpdateNoteRequest:
		if r.GetID() <= 0 {
			add("id", errors.New("id must be positive"))
		}
		changes := model.NoteChanges{Title: r.Title, Content: r.Content}
		if err := changes.Validate(); err != nil {
			field := "title"
			if changes.IsEmpty() {
				field = "title,content"
			}
			add(field, err)
		}
	}

	return violations
}

// stripValidation убирает общий префикс ErrValidation из текста ошибки
func stripValidation(err error) string {
	return strings.TrimPrefix(err.Error(), model.ErrValidation.Error()+": ")
}
