package grpc

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"notes-backend/internal/converter"
	"notes-backend/internal/events"
	"notes-backend/internal/model"
	"notes-backend/internal/repository"
	svc "notes-backend/internal/service"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// errorDomain домен для errdetails.ErrorInfo
const errorDomain = "notes.v1"

// Handler реализует gRPC сервер для NotesService
type Handler struct {
	notesv1.UnimplementedNotesServiceServer

	noteService svc.NoteService
	subscriber  events.Subscriber

	// serverCtx отменяется при shutdown, чтобы WatchNotes завершались до GracefulStop
	serverCtx context.Context
}

// NewHandler создает новый экземпляр gRPC хэндлера
func NewHandler(serverCtx context.Context, noteService svc.NoteService, subscriber events.Subscriber) *Handler {
	return &Handler{
		noteService: noteService,
		subscriber:  subscriber,
		serverCtx:   serverCtx,
	}
}

// CreateNote создает новую заметку
func (h *Handler) CreateNote(ctx context.Context, req *notesv1.CreateNoteRequest) (*notesv1.CreateNoteResponse, error) {
	note, err := h.noteService.Create(ctx, req.GetTitle(), req.GetContent())
	if err != nil {
		return nil, handleError(err)
	}

	return &notesv1.CreateNoteResponse{
		Note: converter.ModelToAPI(note),
	}, nil
}

// GetNote возвращает заметку по ID
func (h *Handler) GetNote(ctx context.Context, req *notesv1.GetNoteRequest) (*notesv1.GetNoteResponse, error) {
	note, found, err := h.noteService.Get(ctx, req.GetID())
	if err != nil {
		return nil, handleError(err)
	}
	if !found {
		return nil, notFoundError(req.GetID(), fmt.Sprintf("Note with ID %d was searched but not found in DB", req.GetID()))
	}

	return &notesv1.GetNoteResponse{
		Note: converter.ModelToAPI(note),
	}, nil
}

// ListNotes возвращает список всех заметок
func (h *Handler) ListNotes(ctx context.Context, _ *notesv1.ListNotesRequest) (*notesv1.ListNotesResponse, error) {
	notes, err := h.noteService.List(ctx)
	if err != nil {
		return nil, handleError(err)
	}

	return &notesv1.ListNotesResponse{
		Notes: converter.ModelsToAPI(notes),
	}, nil
}

// UpdateNote частично обновляет существующую заметку
func (h *Handler) UpdateNote(ctx context.Context, req *notesv1.UpdateNoteRequest) (*notesv1.UpdateNoteResponse, error) {
	note, err := h.noteService.Update(ctx, req.GetID(), converter.UpdateRequestToChanges(req))
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, notFoundError(req.GetID(), fmt.Sprintf("Note with ID %d does not exist and cannot be updated", req.GetID()))
		}
		return nil, handleError(err)
	}

	return &notesv1.UpdateNoteResponse{
		Note: converter.ModelToAPI(note),
	}, nil
}

// DeleteNote удаляет заметку и возвращает её последнее состояние
func (h *Handler) DeleteNote(ctx context.Context, req *notesv1.DeleteNoteRequest) (*notesv1.DeleteNoteResponse, error) {
	note, err := h.noteService.Delete(ctx, req.GetID())
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, notFoundError(req.GetID(), fmt.Sprintf("Note with ID %d does not exist and cannot be deleted", req.GetID()))
		}
		return nil, handleError(err)
	}

	return &notesv1.DeleteNoteResponse{
		Note: converter.ModelToAPI(note),
	}, nil
}

// WatchNotes стримит события изменения заметок до отмены клиентом или остановки сервера
func (h *Handler) WatchNotes(_ *notesv1.WatchNotesRequest, stream notesv1.WatchNotesServerStream) error {
	ch := h.subscriber.Subscribe()
	defer h.subscriber.Unsubscribe(ch)

	for {
		select {
		case <-stream.Context().Done():
			return stream.Context().Err()
		case <-h.serverCtx.Done():
			return status.Error(codes.Unavailable, "server is shutting down")
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.Send(converter.EventToAPI(ev)); err != nil {
				return err
			}
		}
	}
}

// notFoundError строит NotFound статус с errdetails.ErrorInfo
func notFoundError(id int64, reason string) error {
	st := status.New(codes.NotFound, "note not found")
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: "NOTE_NOT_FOUND",
		Domain: errorDomain,
		Metadata: map[string]string{
			"note_id":     strconv.FormatInt(id, 10),
			"description": reason,
		},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// handleError конвертирует внутренние ошибки в gRPC статусы с детализацией
func handleError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, repository.ErrNoteNotFound) {
		st, _ := status.New(codes.NotFound, "note not found").WithDetails(&errdetails.ErrorInfo{
			Reason: "NOTE_NOT_FOUND",
			Domain: errorDomain,
		})
		return st.Err()
	}

	if errors.Is(err, model.ErrValidation) {
		st, _ := status.New(codes.InvalidArgument, err.Error()).WithDetails(&errdetails.ErrorInfo{
			Reason: "VALIDATION_ERROR",
			Domain: errorDomain,
		})
		return st.Err()
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}

	// Все остальные ошибки - ошибки хранилища, наружу без подробностей
	st, _ := status.New(codes.Internal, "internal error").WithDetails(&errdetails.ErrorInfo{
		Reason: "INTERNAL_ERROR",
		Domain: errorDomain,
	})
	return st.Err()
}
