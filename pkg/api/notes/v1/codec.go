package notesv1

import (
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/encoding"
)

// ContentSubtype имя кодека, под которым сообщения ходят по gRPC
const ContentSubtype = "json"

// jsonCodec кодек gRPC на базе JSON маршалера grpc-gateway
type jsonCodec struct {
	marshaler runtime.JSONBuiltin
}

func (jsonCodec) Name() string {
	return ContentSubtype
}

func (c jsonCodec) Marshal(v any) ([]byte, error) {
	return c.marshaler.Marshal(v)
}

func (c jsonCodec) Unmarshal(data []byte, v any) error {
	return c.marshaler.Unmarshal(data, v)
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
