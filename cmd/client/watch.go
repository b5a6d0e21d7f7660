package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	notesv1 "notes-backend/pkg/api/notes/v1"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream note events until interrupted",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, closeConn := connect()
		defer closeConn()

		stream, err := client.WatchNotes(requestContext(cmd.Context()), &notesv1.WatchNotesRequest{})
		if err != nil {
			fatal("Error subscribing", err)
		}
		logger.Debug("subscribed to note events")

		for {
			ev, err := stream.Recv()
			if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
				return
			}
			if err != nil {
				fatal("Error receiving event", err)
			}

			if outputJSON {
				printJSON(ev)
				continue
			}
			fmt.Printf("%s %-7s %d\t%s\n", ev.OccurredAt.Format(time.RFC3339), ev.Type, ev.Note.ID, ev.Note.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
