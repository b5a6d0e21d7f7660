package middleware

import (
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
)

var marshaler = &runtime.JSONBuiltin{}

// writeError отвечает JSON телом {"error": message}
func writeError(w http.ResponseWriter, code int, message string) {
	body, _ := marshaler.Marshal(map[string]string{"error": message})
	w.Header().Set("Content-Type", marshaler.ContentType(nil))
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
