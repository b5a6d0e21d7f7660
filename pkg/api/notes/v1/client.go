package notesv1

import (
	"context"

	"google.golang.org/grpc"
)

// NotesServiceClient клиент NotesService
type NotesServiceClient interface {
	CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*CreateNoteResponse, error)
	GetNote(ctx context.Context, in *GetNoteRequest, opts ...grpc.CallOption) (*GetNoteResponse, error)
	ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error)
	UpdateNote(ctx context.Context, in *UpdateNoteRequest, opts ...grpc.CallOption) (*UpdateNoteResponse, error)
	DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error)
	WatchNotes(ctx context.Context, in *WatchNotesRequest, opts ...grpc.CallOption) (WatchNotesClientStream, error)
}

// WatchNotesClientStream поток событий со стороны клиента
type WatchNotesClientStream interface {
	Recv() (*NoteEvent, error)
	grpc.ClientStream
}

type notesServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewNotesServiceClient создает клиент поверх соединения
func NewNotesServiceClient(cc grpc.ClientConnInterface) NotesServiceClient {
	return &notesServiceClient{cc: cc}
}

func withJSON(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(ContentSubtype)}, opts...)
}

func (c *notesServiceClient) CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*CreateNoteResponse, error) {
	out := new(CreateNoteResponse)
	if err := c.cc.Invoke(ctx, CreateNoteFullMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) GetNote(ctx context.Context, in *GetNoteRequest, opts ...grpc.CallOption) (*GetNoteResponse, error) {
	out := new(GetNoteResponse)
	if err := c.cc.Invoke(ctx, GetNoteFullMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error) {
	out := new(ListNotesResponse)
	if err := c.cc.Invoke(ctx, ListNotesFullMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) UpdateNote(ctx context.Context, in *UpdateNoteRequest, opts ...grpc.CallOption) (*UpdateNoteResponse, error) {
	out := new(UpdateNoteResponse)
	if err := c.cc.Invoke(ctx, UpdateNoteFullMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error) {
	out := new(DeleteNoteResponse)
	if err := c.cc.Invoke(ctx, DeleteNoteFullMethod, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) WatchNotes(ctx context.Context, in *WatchNotesRequest, opts ...grpc.CallOption) (WatchNotesClientStream, error) {
	stream, err := c.cc.NewStream(ctx, &NotesServiceDesc.Streams[0], WatchNotesFullMethod, withJSON(opts)...)
	if err != nil {
		return nil, err
	}
	x := &watchNotesClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type watchNotesClient struct {
	grpc.ClientStream
}

func (x *watchNotesClient) Recv() (*NoteEvent, error) {
	m := new(NoteEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
