package swagger

import (
	_ "embed"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
)

// notesDocument OpenAPI документ HTTP API
//
//go:embed notes.swagger.json
var notesDocument []byte

// Register добавляет маршрут GET /swagger.json в runtime.ServeMux.
// CORS заголовки выставляет внешний middleware.
func Register(mux *runtime.ServeMux) error {
	return mux.HandlePath(http.MethodGet, "/swagger.json", func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(notesDocument)
	})
}
