package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"notes-backend/internal/events"
	"notes-backend/internal/model"
	"notes-backend/internal/repository"
	"notes-backend/internal/repository/memory"
	"notes-backend/internal/service/notes"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// mockNoteService - мок сервиса для тестирования handler
type mockNoteService struct {
	createFunc func(ctx context.Context, title, content string) (model.Note, error)
	getFunc    func(ctx context.Context, id int64) (model.Note, bool, error)
	listFunc   func(ctx context.Context) ([]model.Note, error)
	updateFunc func(ctx context.Context, id int64, changes model.NoteChanges) (model.Note, error)
	deleteFunc func(ctx context.Context, id int64) (model.Note, error)
}

func (m *mockNoteService) Create(ctx context.Context, title, content string) (model.Note, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, title, content)
	}
	return model.Note{}, nil
}

func (m *mockNoteService) Get(ctx context.Context, id int64) (model.Note, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return model.Note{}, false, nil
}

func (m *mockNoteService) List(ctx context.Context) ([]model.Note, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []model.Note{}, nil
}

func (m *mockNoteService) Update(ctx context.Context, id int64, changes model.NoteChanges) (model.Note, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, changes)
	}
	return model.Note{}, nil
}

func (m *mockNoteService) Delete(ctx context.Context, id int64) (model.Note, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return model.Note{}, nil
}

func (m *mockNoteService) Ping(context.Context) error {
	return nil
}

func newTestHandler(svc *mockNoteService) *Handler {
	return NewHandler(context.Background(), svc, events.NewBroker(1))
}

func errorInfo(t *testing.T, st *status.Status) *errdetails.ErrorInfo {
	t.Helper()
	require.Len(t, st.Details(), 1, "Expected exactly one detail in error")
	info, ok := st.Details()[0].(*errdetails.ErrorInfo)
	require.True(t, ok, "Expected detail to be of type ErrorInfo")
	return info
}

func TestGetNote_NotFoundWithDetails(t *testing.T) {
	// Arrange
	handler := newTestHandler(&mockNoteService{
		getFunc: func(ctx context.Context, id int64) (model.Note, bool, error) {
			return model.Note{}, false, nil
		},
	})

	// Act
	_, err := handler.GetNote(context.Background(), &notesv1.GetNoteRequest{ID: 42})

	// Assert
	require.Error(t, err, "Expected error for non-existent note")

	st := status.Convert(err)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Contains(t, st.Message(), "note not found")

	info := errorInfo(t, st)
	assert.Equal(t, "NOTE_NOT_FOUND", info.GetReason())
	assert.Equal(t, "42", info.GetMetadata()["note_id"])
	assert.Contains(t, info.GetMetadata()["description"], "was searched but not found")
}

func TestGetNote_Success(t *testing.T) {
	// Arrange
	expected := model.Note{ID: 7, Title: "Test Title", Content: "Test Content"}
	handler := newTestHandler(&mockNoteService{
		getFunc: func(ctx context.Context, id int64) (model.Note, bool, error) {
			if id == expected.ID {
				return expected, true, nil
			}
			return model.Note{}, false, nil
		},
	})

	// Act
	resp, err := handler.GetNote(context.Background(), &notesv1.GetNoteRequest{ID: expected.ID})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resp.Note)
	assert.Equal(t, expected.ID, resp.Note.ID)
	assert.Equal(t, expected.Title, resp.Note.Title)
	assert.Equal(t, expected.Content, resp.Note.Content)
}

func TestListNotes_EmptyIsNotNil(t *testing.T) {
	handler := newTestHandler(&mockNoteService{})

	resp, err := handler.ListNotes(context.Background(), &notesv1.ListNotesRequest{})

	require.NoError(t, err)
	assert.NotNil(t, resp.Notes)
	assert.Empty(t, resp.Notes)
}

func TestUpdateNote_PassesPartialChanges(t *testing.T) {
	var got model.NoteChanges
	handler := newTestHandler(&mockNoteService{
		updateFunc: func(ctx context.Context, id int64, changes model.NoteChanges) (model.Note, error) {
			got = changes
			return model.Note{ID: id, Title: "kept", Content: *changes.Content}, nil
		},
	})

	content := "new body"
	resp, err := handler.UpdateNote(context.Background(), &notesv1.UpdateNoteRequest{ID: 3, Content: &content})

	require.NoError(t, err)
	assert.Nil(t, got.Title)
	require.NotNil(t, got.Content)
	assert.Equal(t, "new body", *got.Content)
	assert.Equal(t, "kept", resp.Note.Title)
}

func TestDeleteNote_NotFound(t *testing.T) {
	handler := newTestHandler(&mockNoteService{
		deleteFunc: func(ctx context.Context, id int64) (model.Note, error) {
			return model.Note{}, repository.ErrNoteNotFound
		},
	})

	_, err := handler.DeleteNote(context.Background(), &notesv1.DeleteNoteRequest{ID: 9})

	st := status.Convert(err)
	assert.Equal(t, codes.NotFound, st.Code())
	info := errorInfo(t, st)
	assert.Equal(t, "9", info.GetMetadata()["note_id"])
	assert.Contains(t, info.GetMetadata()["description"], "cannot be deleted")
}

func TestDeleteNote_ReturnsSnapshot(t *testing.T) {
	handler := newTestHandler(&mockNoteService{
		deleteFunc: func(ctx context.Context, id int64) (model.Note, error) {
			return model.Note{ID: id, Title: "gone"}, nil
		},
	})

	resp, err := handler.DeleteNote(context.Background(), &notesv1.DeleteNoteRequest{ID: 5})

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Note.ID)
	assert.Equal(t, "gone", resp.Note.Title)
}

func TestHandleError_NotFound(t *testing.T) {
	st := status.Convert(handleError(fmt.Errorf("wrap: %w", repository.ErrNoteNotFound)))

	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, "NOTE_NOT_FOUND", errorInfo(t, st).GetReason())
}

func TestHandleError_ValidationError(t *testing.T) {
	st := status.Convert(handleError(model.ValidateTitle("  ")))

	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "VALIDATION_ERROR", errorInfo(t, st).GetReason())
}

func TestHandleError_InternalError(t *testing.T) {
	st := status.Convert(handleError(errors.New("connection refused")))

	assert.Equal(t, codes.Internal, st.Code())
	assert.NotContains(t, st.Message(), "connection refused", "Store errors must not leak to clients")
	assert.Equal(t, "INTERNAL_ERROR", errorInfo(t, st).GetReason())
}

func TestHandleError_Canceled(t *testing.T) {
	st := status.Convert(handleError(context.Canceled))

	assert.Equal(t, codes.Canceled, st.Code())
}

const testToken = "secret"

type testEnv struct {
	client notesv1.NotesServiceClient
	health healthpb.HealthClient
	broker *events.Broker
}

// startServer поднимает полный стек поверх bufconn
func startServer(t *testing.T) *testEnv {
	t.Helper()

	logger := log.New()
	logger.SetOutput(io.Discard)

	broker := events.NewBroker(8)
	service := notes.NewNoteService(memory.NewRepository(), broker)

	serverCtx, cancel := context.WithCancel(context.Background())
	server, _ := NewServer(NewHandler(serverCtx, service, broker), ServerOptions{
		Logger:    logger,
		AuthToken: testToken,
	})

	lis := bufconn.Listen(1 << 20)
	go func() { _ = server.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		cancel()
		_ = conn.Close()
		server.Stop()
		broker.Close()
	})

	return &testEnv{
		client: notesv1.NewNotesServiceClient(conn),
		health: healthpb.NewHealthClient(conn),
		broker: broker,
	}
}

func authorized(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+testToken)
}

func TestServer_RoundTrip(t *testing.T) {
	env := startServer(t)
	ctx, cancel := context.WithTimeout(authorized(context.Background()), 5*time.Second)
	defer cancel()

	created, err := env.client.CreateNote(ctx, &notesv1.CreateNoteRequest{Title: "Buy milk", Content: "2 liters"})
	require.NoError(t, err)
	assert.Positive(t, created.Note.ID)

	got, err := env.client.GetNote(ctx, &notesv1.GetNoteRequest{ID: created.Note.ID})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Note.Title)
	assert.Equal(t, "2 liters", got.Note.Content)

	title := "Buy oat milk"
	updated, err := env.client.UpdateNote(ctx, &notesv1.UpdateNoteRequest{ID: created.Note.ID, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Note.Title)
	assert.Equal(t, "2 liters", updated.Note.Content)

	list, err := env.client.ListNotes(ctx, &notesv1.ListNotesRequest{})
	require.NoError(t, err)
	require.Len(t, list.Notes, 1)

	deleted, err := env.client.DeleteNote(ctx, &notesv1.DeleteNoteRequest{ID: created.Note.ID})
	require.NoError(t, err)
	assert.Equal(t, title, deleted.Note.Title)

	_, err = env.client.GetNote(ctx, &notesv1.GetNoteRequest{ID: created.Note.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_RejectsMissingToken(t *testing.T) {
	env := startServer(t)

	_, err := env.client.ListNotes(context.Background(), &notesv1.ListNotesRequest{})

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_HealthIsPublic(t *testing.T) {
	env := startServer(t)

	resp, err := env.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: notesv1.ServiceName})

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestServer_ValidationDetails(t *testing.T) {
	env := startServer(t)

	_, err := env.client.CreateNote(authorized(context.Background()), &notesv1.CreateNoteRequest{Title: "   "})

	st := status.Convert(err)
	require.Equal(t, codes.InvalidArgument, st.Code())
	require.Len(t, st.Details(), 1)
	badRequest, ok := st.Details()[0].(*errdetails.BadRequest)
	require.True(t, ok)
	require.Len(t, badRequest.GetFieldViolations(), 1)
	assert.Equal(t, "title", badRequest.GetFieldViolations()[0].GetField())
}

func TestServer_WatchNotes(t *testing.T) {
	env := startServer(t)
	ctx, cancel := context.WithTimeout(authorized(context.Background()), 5*time.Second)
	defer cancel()

	stream, err := env.client.WatchNotes(ctx, &notesv1.WatchNotesRequest{})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return env.broker.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	created, err := env.client.CreateNote(ctx, &notesv1.CreateNoteRequest{Title: "watched"})
	require.NoError(t, err)

	ev, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, string(model.EventCreated), ev.Type)
	assert.Equal(t, created.Note.ID, ev.Note.ID)
}
