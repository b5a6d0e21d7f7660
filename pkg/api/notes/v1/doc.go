// Package notesv1 описывает gRPC API сервиса заметок notes.v1.NotesService.
//
// Сообщения передаются в JSON (content-subtype "json"), поэтому сервис
// описан вручную через grpc.ServiceDesc без генерации кода из .proto.
// Клиент, созданный через NewNotesServiceClient, выбирает JSON кодек сам.
//
// Файловый дескриптор notes/v1/notes.proto не регистрируется: gRPC reflection
// (server.use_reflection) только перечисляет сервис, describe для него не работает.
// Поэтому reflection по умолчанию выключен.
package notesv1
