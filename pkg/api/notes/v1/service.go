package notesv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "notes.v1.NotesService"

	CreateNoteFullMethod = "/notes.v1.NotesService/CreateNote"
	GetNoteFullMethod    = "/notes.v1.NotesService/GetNote"
	ListNotesFullMethod  = "/notes.v1.NotesService/ListNotes"
	UpdateNoteFullMethod = "/notes.v1.NotesService/UpdateNote"
	DeleteNoteFullMethod = "/notes.v1.NotesService/DeleteNote"
	WatchNotesFullMethod = "/notes.v1.NotesService/WatchNotes"
)

// NotesServiceServer серверная часть NotesService
type NotesServiceServer interface {
	CreateNote(context.Context, *CreateNoteRequest) (*CreateNoteResponse, error)
	GetNote(context.Context, *GetNoteRequest) (*GetNoteResponse, error)
	ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error)
	UpdateNote(context.Context, *UpdateNoteRequest) (*UpdateNoteResponse, error)
	DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error)
	WatchNotes(*WatchNotesRequest, WatchNotesServerStream) error
}

// WatchNotesServerStream поток событий со стороны сервера
type WatchNotesServerStream interface {
	Send(*NoteEvent) error
	grpc.ServerStream
}

// UnimplementedNotesServiceServer возвращает Unimplemented для всех методов
type UnimplementedNotesServiceServer struct{}

func (UnimplementedNotesServiceServer) CreateNote(context.Context, *CreateNoteRequest) (*CreateNoteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateNote not implemented")
}

func (UnimplementedNotesServiceServer) GetNote(context.Context, *GetNoteRequest) (*GetNoteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetNote not implemented")
}

func (UnimplementedNotesServiceServer) ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListNotes not implemented")
}

func (UnimplementedNotesServiceServer) UpdateNote(context.Context, *UpdateNoteRequest) (*UpdateNoteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateNote not implemented")
}

func (UnimplementedNotesServiceServer) DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteNote not implemented")
}

func (UnimplementedNotesServiceServer) WatchNotes(*WatchNotesRequest, WatchNotesServerStream) error {
	return status.Error(codes.Unimplemented, "method WatchNotes not implemented")
}

// RegisterNotesServiceServer регистрирует реализацию на gRPC сервере
func RegisterNotesServiceServer(s grpc.ServiceRegistrar, srv NotesServiceServer) {
	s.RegisterService(&NotesServiceDesc, srv)
}

// unaryHandler строит grpc.MethodHandler для унарного метода
func unaryHandler[Req, Resp any](fullMethod string, call func(NotesServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NotesServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(NotesServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchNotesHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchNotesRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(NotesServiceServer).WatchNotes(in, &watchNotesServer{stream})
}

type watchNotesServer struct {
	grpc.ServerStream
}

func (x *watchNotesServer) Send(m *NoteEvent) error {
	return x.ServerStream.SendMsg(m)
}

// NotesServiceDesc описание сервиса для grpc.Server
var NotesServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NotesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateNote",
			Handler:    unaryHandler(CreateNoteFullMethod, NotesServiceServer.CreateNote),
		},
		{
			MethodName: "GetNote",
			Handler:    unaryHandler(GetNoteFullMethod, NotesServiceServer.GetNote),
		},
		{
			MethodName: "ListNotes",
			Handler:    unaryHandler(ListNotesFullMethod, NotesServiceServer.ListNotes),
		},
		{
			MethodName: "UpdateNote",
			Handler:    unaryHandler(UpdateNoteFullMethod, NotesServiceServer.UpdateNote),
		},
		{
			MethodName: "DeleteNote",
			Handler:    unaryHandler(DeleteNoteFullMethod, NotesServiceServer.DeleteNote),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchNotes",
			Handler:       watchNotesHandler,
			ServerStreams: true,
		},
	},
	Metadata: "notes/v1/notes.proto",
}
