package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-backend/internal/config"
	"notes-backend/internal/events"
	"notes-backend/internal/model"
	"notes-backend/internal/repository/memory"
	"notes-backend/internal/service/notes"
	svc "notes-backend/internal/service"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

type testEnv struct {
	handler http.Handler
	broker  *events.Broker
}

func testConfig() *config.ConfigGateway {
	return &config.ConfigGateway{
		CORSAllowedOrigins: "*",
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
		SwaggerEnabled:     true,
	}
}

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newEnv(t *testing.T, token string) *testEnv {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	broker := events.NewBroker(8)
	t.Cleanup(func() {
		cancel()
		broker.Close()
	})

	handler, err := NewHandler(ctx, notes.NewNoteService(memory.NewRepository(), broker), broker, Options{
		Config:    testConfig(),
		AuthToken: token,
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	return &testEnv{handler: handler, broker: broker}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type noteEnvelope struct {
	Message string       `json:"message"`
	Note    notesv1.Note `json:"note"`
	Error   string       `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestListNotes_Empty(t *testing.T) {
	env := newEnv(t, "")

	rec := env.do(t, http.MethodGet, "/notes", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Notes fetched successfully","notes":[]}`, rec.Body.String())
}

func TestCreateNote(t *testing.T) {
	env := newEnv(t, "")

	rec := env.do(t, http.MethodPost, "/notes", `{"title":"Buy milk","content":"2 liters"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[noteEnvelope](t, rec)
	assert.Equal(t, "Note created successfully", resp.Message)
	assert.Positive(t, resp.Note.ID)
	assert.Equal(t, "Buy milk", resp.Note.Title)
	assert.Equal(t, "2 liters", resp.Note.Content)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestCreateNote_BadRequests(t *testing.T) {
	env := newEnv(t, "")

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"title":`},
		{name: "blank title", body: `{"title":"   ","content":"x"}`},
		{name: "missing title", body: `{"content":"x"}`},
		{name: "title too long", body: `{"title":"` + strings.Repeat("a", model.MaxTitleLength+1) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/notes", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[noteEnvelope](t, rec).Error)
		})
	}

	list := env.do(t, http.MethodGet, "/notes", "")
	assert.JSONEq(t, `{"message":"Notes fetched successfully","notes":[]}`, list.Body.String())
}

func TestNoteLifecycle(t *testing.T) {
	env := newEnv(t, "")

	created := decode[noteEnvelope](t, env.do(t, http.MethodPost, "/notes", `{"title":"Buy milk","content":"2 liters"}`))
	path := "/notes/" + jsonNumber(created.Note.ID)

	got := env.do(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, "Note fetched successfully", decode[noteEnvelope](t, got).Message)

	updated := env.do(t, http.MethodPatch, path, `{"content":"1 liter"}`)
	require.Equal(t, http.StatusOK, updated.Code)
	updatedNote := decode[noteEnvelope](t, updated)
	assert.Equal(t, "Note updated successfully", updatedNote.Message)
	assert.Equal(t, "Buy milk", updatedNote.Note.Title)
	assert.Equal(t, "1 liter", updatedNote.Note.Content)

	deleted := env.do(t, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, deleted.Code)
	deletedNote := decode[noteEnvelope](t, deleted)
	assert.Equal(t, "Note deleted successfully", deletedNote.Message)
	assert.Equal(t, "1 liter", deletedNote.Note.Content)

	missing := env.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, `{"error":"Note not found"}`, missing.Body.String())
}

func TestListNotes_CreationOrder(t *testing.T) {
	env := newEnv(t, "")
	for _, title := range []string{"first", "second", "third"} {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/notes", `{"title":"`+title+`"}`).Code)
	}

	rec := env.do(t, http.MethodGet, "/notes", "")

	var resp struct {
		Notes []notesv1.Note `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Notes, 3)
	assert.Equal(t, "first", resp.Notes[0].Title)
	assert.Equal(t, "second", resp.Notes[1].Title)
	assert.Equal(t, "third", resp.Notes[2].Title)
}

func TestNoteByID_Errors(t *testing.T) {
	env := newEnv(t, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "get bad id", method: http.MethodGet, path: "/notes/abc", want: http.StatusBadRequest},
		{name: "get zero id", method: http.MethodGet, path: "/notes/0", want: http.StatusBadRequest},
		{name: "update missing", method: http.MethodPatch, path: "/notes/99", body: `{"title":"x"}`, want: http.StatusNotFound},
		{name: "update empty body", method: http.MethodPatch, path: "/notes/99", body: `{}`, want: http.StatusBadRequest},
		{name: "update blank title", method: http.MethodPatch, path: "/notes/99", body: `{"title":""}`, want: http.StatusBadRequest},
		{name: "delete missing", method: http.MethodDelete, path: "/notes/99", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, decode[noteEnvelope](t, rec).Error)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newEnv(t, "")

	rec := env.do(t, http.MethodGet, "/unknown", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
}

func TestHealthAndSwagger(t *testing.T) {
	env := newEnv(t, "")

	health := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.JSONEq(t, `{"status":"ok"}`, health.Body.String())

	doc := env.do(t, http.MethodGet, "/swagger.json", "")
	assert.Equal(t, http.StatusOK, doc.Code)
	assert.Contains(t, doc.Body.String(), `"/notes/{id}"`)
}

func TestSwagger_CORSFromMiddleware(t *testing.T) {
	cfg := testConfig()
	cfg.CORSAllowedOrigins = "https://app.example.com"
	handler, err := NewHandler(context.Background(), &failingService{}, events.NewBroker(1), Options{
		Config: cfg,
		Logger: quietLogger(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/swagger.json", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAuthToken(t *testing.T) {
	env := newEnv(t, "s3cret")

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/notes", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// failingService отдает ошибку хранилища на любой вызов
type failingService struct{ svc.NoteService }

var errStore = errors.New("store is down")

func (failingService) List(context.Context) ([]model.Note, error) { return nil, errStore }
func (failingService) Ping(context.Context) error                { return errStore }
func (failingService) Delete(context.Context, int64) (model.Note, error) {
	return model.Note{}, errStore
}

func TestStoreFailures(t *testing.T) {
	handler, err := NewHandler(context.Background(), failingService{}, events.NewBroker(1), Options{
		Config: testConfig(),
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	env := &testEnv{handler: handler}

	list := env.do(t, http.MethodGet, "/notes", "")
	assert.Equal(t, http.StatusInternalServerError, list.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch notes"}`, list.Body.String())

	del := env.do(t, http.MethodDelete, "/notes/1", "")
	assert.Equal(t, http.StatusInternalServerError, del.Code)
	assert.NotContains(t, del.Body.String(), errStore.Error())

	health := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, health.Code)
}

func TestWatchNotes_StreamsEvents(t *testing.T) {
	env := newEnv(t, "")
	server := httptest.NewServer(env.handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))
	require.Eventually(t, func() bool { return env.broker.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/notes", `{"title":"watched"}`).Code)

	line, err := bufio.NewReader(resp.Body).ReadBytes('\n')
	require.NoError(t, err)

	var ev notesv1.NoteEvent
	require.NoError(t, json.Unmarshal(line, &ev))
	assert.Equal(t, string(model.EventCreated), ev.Type)
	assert.Equal(t, "watched", ev.Note.Title)
}

func jsonNumber(id int64) string {
	return strconv.FormatInt(id, 10)
}
