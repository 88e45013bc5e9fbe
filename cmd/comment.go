// ABOUTME: Comment commands: add, edit and delete
// ABOUTME: Bodies are trimmed and validated before any request is sent

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/validate"
)

var commentBody string

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Add, edit or delete comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <thread-id>",
	Short: "Comment on a thread",
	Args:  cobra.ExactArgs(1),
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, args []string) int {
		return runCommentAdd(ctx, w, e.client, args[0], commentBody)
	}),
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <comment-id>",
	Short: "Edit one of your comments",
	Args:  cobra.ExactArgs(1),
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, args []string) int {
		return runCommentEdit(ctx, w, e.client, args[0], commentBody)
	}),
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(1),
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, args []string) int {
		return runCommentDelete(ctx, w, e.client, args[0], assumeYes)
	}),
}

func init() {
	for _, c := range []*cobra.Command{commentAddCmd, commentEditCmd} {
		c.Flags().StringVar(&commentBody, "body", "", "Comment text (1-3000 characters)")
	}
	commentDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	commentCmd.AddCommand(commentAddCmd, commentEditCmd, commentDeleteCmd)
	rootCmd.AddCommand(commentCmd)
}

func runCommentAdd(ctx context.Context, w io.Writer, c *client.Client, threadID, body string) int {
	body = strings.TrimSpace(body)
	if err := validate.CommentBody(body); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	comment, err := c.CreateComment(ctx, threadID, body)
	if err != nil {
		return reportError(w, err)
	}
	if IsJSONOutput() {
		printJSON(w, comment)
		return 0
	}
	fmt.Fprintf(w, "Created comment %s\n", comment.ID)
	return 0
}

func runCommentEdit(ctx context.Context, w io.Writer, c *client.Client, id, body string) int {
	body = strings.TrimSpace(body)
	if err := validate.CommentBody(body); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := c.UpdateComment(ctx, id, body); err != nil {
		return reportError(w, err)
	}
	fmt.Fprintf(w, "Updated comment %s\n", id)
	return 0
}

func runCommentDelete(ctx context.Context, w io.Writer, c *client.Client, id string, yes bool) int {
	if !yes {
		ok, err := confirm(fmt.Sprintf("Delete comment %s?", id))
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled")
			return 0
		}
	}
	if err := c.DeleteComment(ctx, id); err != nil {
		return reportError(w, err)
	}
	fmt.Fprintf(w, "Deleted comment %s\n", id)
	return 0
}
