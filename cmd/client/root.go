package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	notesv1 "notes-backend/pkg/api/notes/v1"
)

const defaultAddress = "localhost:50051"

var (
	verbose    bool
	address    string
	token      string
	timeout    time.Duration
	outputJSON bool

	logger = log.New()
)

// rootCmd базовая команда клиента
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Command line client for the notes gRPC API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(log.WarnLevel)
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

// Execute запускает корневую команду
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&address, "addr", envOr("SERVER_ADDRESS", defaultAddress), "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("AUTH_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// connect открывает соединение и возвращает клиент вместе с функцией закрытия
func connect() (notesv1.NotesServiceClient, func()) {
	logger.WithField("addr", address).Debug("connecting to gRPC server")

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fatal("Error creating client", err)
	}

	return notesv1.NewNotesServiceClient(conn), func() { _ = conn.Close() }
}

// requestContext добавляет токен авторизации в metadata
func requestContext(base context.Context) context.Context {
	if token == "" {
		return base
	}
	return metadata.AppendToOutgoingContext(base, "authorization", "Bearer "+token)
}

func printNote(note *notesv1.Note) {
	if outputJSON {
		printJSON(note)
		return
	}
	fmt.Printf("%d\t%s\n", note.ID, note.Title)
	if note.Content != "" {
		fmt.Printf("\t%s\n", note.Content)
	}
}

func printJSON(v any) {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("Error encoding JSON", err)
	}
	fmt.Println(string(out))
}

// describeError раскрывает детали gRPC статуса
func describeError(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return err.Error()
	}

	msg := fmt.Sprintf("%s: %s", st.Code(), st.Message())
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			msg += fmt.Sprintf(" [%s]", d.GetReason())
			if desc := d.GetMetadata()["description"]; desc != "" {
				msg += " " + desc
			}
		case *errdetails.BadRequest:
			for _, v := range d.GetFieldViolations() {
				msg += fmt.Sprintf(" [%s: %s]", v.GetField(), v.GetDescription())
			}
		}
	}
	return msg
}
