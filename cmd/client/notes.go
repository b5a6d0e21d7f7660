package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	notesv1 "notes-backend/pkg/api/notes/v1"
)

var (
	noteTitle   string
	noteContent string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes in creation order",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, closeConn := connect()
		defer closeConn()

		ctx, cancel := context.WithTimeout(requestContext(cmd.Context()), timeout)
		defer cancel()

		resp, err := client.ListNotes(ctx, &notesv1.ListNotesRequest{})
		if err != nil {
			fatal("Error listing notes", err)
		}

		if outputJSON {
			printJSON(resp.Notes)
			return
		}
		for _, note := range resp.Notes {
			printNote(note)
		}
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, closeConn := connect()
		defer closeConn()

		ctx, cancel := context.WithTimeout(requestContext(cmd.Context()), timeout)
		defer cancel()

		resp, err := client.CreateNote(ctx, &notesv1.CreateNoteRequest{Title: noteTitle, Content: noteContent})
		if err != nil {
			fatal("Error creating note", err)
		}
		printNote(resp.Note)
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		client, closeConn := connect()
		defer closeConn()

		ctx, cancel := context.WithTimeout(requestContext(cmd.Context()), timeout)
		defer cancel()

		resp, err := client.GetNote(ctx, &notesv1.GetNoteRequest{ID: id})
		if err != nil {
			fatal("Error fetching note", err)
		}
		printNote(resp.Note)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update title and/or content of a note",
	Long:  `Only the flags that are set are sent; other fields keep their current values.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		req := &notesv1.UpdateNoteRequest{ID: id}
		if cmd.Flags().Changed("title") {
			req.Title = &noteTitle
		}
		if cmd.Flags().Changed("content") {
			req.Content = &noteContent
		}

		client, closeConn := connect()
		defer closeConn()

		ctx, cancel := context.WithTimeout(requestContext(cmd.Context()), timeout)
		defer cancel()

		resp, err := client.UpdateNote(ctx, req)
		if err != nil {
			fatal("Error updating note", err)
		}
		printNote(resp.Note)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		client, closeConn := connect()
		defer closeConn()

		ctx, cancel := context.WithTimeout(requestContext(cmd.Context()), timeout)
		defer cancel()

		resp, err := client.DeleteNote(ctx, &notesv1.DeleteNoteRequest{ID: id})
		if err != nil {
			fatal("Error deleting note", err)
		}

		if outputJSON {
			printJSON(resp.Note)
			return
		}
		fmt.Printf("Note deleted: %d (%s)\n", resp.Note.ID, resp.Note.Title)
	},
}

func parseID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fatal("Invalid note id", err)
	}
	return id
}

func init() {
	rootCmd.AddCommand(listCmd, createCmd, getCmd, updateCmd, deleteCmd)

	createCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
	createCmd.Flags().StringVarP(&noteContent, "content", "c", "", "Note content")
	_ = createCmd.MarkFlagRequired("title")

	updateCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "New title")
	updateCmd.Flags().StringVarP(&noteContent, "content", "c", "", "New content")
}
