package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	log "github.com/sirupsen/logrus"

	"notes-backend/internal/converter"
	"notes-backend/internal/events"
	"notes-backend/internal/model"
	"notes-backend/internal/repository"
	svc "notes-backend/internal/service"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

var marshaler = &runtime.JSONBuiltin{}

type noteResponse struct {
	Message string        `json:"message"`
	Note    *notesv1.Note `json:"note"`
}

type notesResponse struct {
	Message string          `json:"message"`
	Notes   []*notesv1.Note `json:"notes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type createNoteBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateNoteBody struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type notesHandler struct {
	ctx         context.Context
	noteService svc.NoteService
	subscriber  events.Subscriber
	logger      *log.Logger
}

func (h *notesHandler) register(mux *runtime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodGet, "/notes", h.listNotes},
		{http.MethodPost, "/notes", h.createNote},
		{http.MethodGet, "/notes/{id}", h.getNote},
		{http.MethodPatch, "/notes/{id}", h.updateNote},
		{http.MethodDelete, "/notes/{id}", h.deleteNote},
		{http.MethodGet, "/events", h.watchNotes},
		{http.MethodGet, "/healthz", h.health},
	}

	for _, route := range routes {
		if err := mux.HandlePath(route.method, route.pattern, route.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *notesHandler) listNotes(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	notes, err := h.noteService.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to fetch notes")
		writeError(w, http.StatusInternalServerError, "Failed to fetch notes")
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{
		Message: "Notes fetched successfully",
		Notes:   converter.ModelsToAPI(notes),
	})
}

func (h *notesHandler) createNote(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var body createNoteBody
	if err := marshaler.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := model.ValidateTitle(body.Title); err != nil {
		writeValidationError(w, err)
		return
	}

	note, err := h.noteService.Create(r.Context(), body.Title, body.Content)
	if err != nil {
		h.logger.WithError(err).Error("failed to create note")
		writeError(w, http.StatusInternalServerError, "Failed to create note")
		return
	}

	writeJSON(w, http.StatusCreated, noteResponse{
		Message: "Note created successfully",
		Note:    converter.ModelToAPI(note),
	})
}

func (h *notesHandler) getNote(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, ok := parseID(w, params)
	if !ok {
		return
	}

	note, found, err := h.noteService.Get(r.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("note_id", id).Error("failed to fetch note")
		writeError(w, http.StatusInternalServerError, "Failed to fetch note")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{
		Message: "Note fetched successfully",
		Note:    converter.ModelToAPI(note),
	})
}

func (h *notesHandler) updateNote(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, ok := parseID(w, params)
	if !ok {
		return
	}

	var body updateNoteBody
	if err := marshaler.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	changes := model.NoteChanges{Title: body.Title, Content: body.Content}
	if err := changes.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	note, err := h.noteService.Update(r.Context(), id, changes)
	if err != nil {
		h.writeServiceError(w, err, id, "Failed to update note")
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{
		Message: "Note updated successfully",
		Note:    converter.ModelToAPI(note),
	})
}

func (h *notesHandler) deleteNote(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, ok := parseID(w, params)
	if !ok {
		return
	}

	note, err := h.noteService.Delete(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, id, "Failed to delete note")
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{
		Message: "Note deleted successfully",
		Note:    converter.ModelToAPI(note),
	})
}

// watchNotes отдает события построчно (NDJSON) до закрытия соединения или остановки сервера
func (h *notesHandler) watchNotes(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	ch := h.subscriber.Subscribe()
	defer h.subscriber.Unsubscribe(ch)

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flush(w)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			line, err := marshaler.Marshal(converter.EventToAPI(ev))
			if err != nil {
				h.logger.WithError(err).Warn("failed to encode note event")
				continue
			}
			if _, err := w.Write(append(line, '\n')); err != nil {
				return
			}
			flush(w)
		}
	}
}

func (h *notesHandler) health(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if err := h.noteService.Ping(r.Context()); err != nil {
		h.logger.WithError(err).Warn("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *notesHandler) writeServiceError(w http.ResponseWriter, err error, id int64, message string) {
	if errors.Is(err, repository.ErrNoteNotFound) {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	h.logger.WithError(err).WithField("note_id", id).Error(strings.ToLower(message))
	writeError(w, http.StatusInternalServerError, message)
}

func parseID(w http.ResponseWriter, params map[string]string) (int64, bool) {
	id, err := strconv.ParseInt(params["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid note id")
		return 0, false
	}
	return id, true
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), model.ErrValidation.Error()+": "))
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := marshaler.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", marshaler.ContentType(v))
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
