// ABOUTME: Thread authoring commands: post, edit and delete
// ABOUTME: Input is validated locally and tags are normalized before sending

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/validate"
)

var (
	postTitle string
	postBody  string
	postTags  []string
	assumeYes bool
	clearTags bool
)

// confirm asks a yes/no question. Replaced in tests.
var confirm = func(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().Title(question).Affirmative("Delete").Negative("Cancel").Value(&ok).Run()
	return ok, err
}

var postCmd = &cobra.Command{
	Use:     "post",
	Short:   "Create a thread",
	Example: `  forum post --title "Flaky build" --body "CI fails on main" --tag bug --tag "build system"`,
	Args:    cobra.NoArgs,
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, _ []string) int {
		return runPost(ctx, w, e.client, client.ThreadInput{Title: postTitle, Body: postBody, Tags: postTags})
	}),
}

var editCmd = &cobra.Command{
	Use:   "edit <thread-id>",
	Short: "Edit one of your threads",
	Long:  "Edit one of your threads. Fields that are not given keep their current value.",
	Args:  cobra.ExactArgs(1),
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, args []string) int {
		return runEdit(ctx, w, e.client, args[0], threadEdit{
			title:     postTitle,
			body:      postBody,
			tags:      postTags,
			clearTags: clearTags,
		})
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <thread-id>",
	Short: "Delete one of your threads",
	Args:  cobra.ExactArgs(1),
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, args []string) int {
		return runDeleteThread(ctx, w, e.client, args[0], assumeYes)
	}),
}

func init() {
	for _, c := range []*cobra.Command{postCmd, editCmd} {
		c.Flags().StringVar(&postTitle, "title", "", "Thread title (1-100 characters)")
		c.Flags().StringVar(&postBody, "body", "", "Thread body (1-3000 characters)")
		c.Flags().StringArrayVar(&postTags, "tag", nil, "Tag (repeatable, at most 3)")
	}
	editCmd.Flags().BoolVar(&clearTags, "clear-tags", false, "Remove all tags")
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(postCmd, editCmd, deleteCmd)
}

func runPost(ctx context.Context, w io.Writer, c *client.Client, input client.ThreadInput) int {
	input.Title = strings.TrimSpace(input.Title)
	input.Body = strings.TrimSpace(input.Body)
	input.Tags = validate.NormalizeTags(input.Tags)
	if err := validate.Thread(input.Title, input.Body); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	thread, err := c.CreateThread(ctx, input)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, thread)
		return 0
	}
	fmt.Fprintf(w, "Created thread %s\n", thread.ID)
	return 0
}

type threadEdit struct {
	title     string
	body      string
	tags      []string
	clearTags bool
}

func runEdit(ctx context.Context, w io.Writer, c *client.Client, id string, edit threadEdit) int {
	current, err := c.GetThread(ctx, id)
	if err != nil {
		return reportError(w, err)
	}

	input := client.ThreadInput{Title: current.Title, Body: current.Body, Tags: current.Tags}
	if edit.title != "" {
		input.Title = edit.title
	}
	if edit.body != "" {
		input.Body = edit.body
	}
	if len(edit.tags) > 0 {
		input.Tags = edit.tags
	}
	if edit.clearTags {
		input.Tags = nil
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Body = strings.TrimSpace(input.Body)
	input.Tags = validate.NormalizeTags(input.Tags)

	if err := validate.Thread(input.Title, input.Body); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := c.UpdateThread(ctx, id, input); err != nil {
		return reportError(w, err)
	}
	fmt.Fprintf(w, "Updated thread %s\n", id)
	return 0
}

func runDeleteThread(ctx context.Context, w io.Writer, c *client.Client, id string, yes bool) int {
	if !yes {
		ok, err := confirm(fmt.Sprintf("Delete thread %s and all its comments?", id))
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled")
			return 0
		}
	}

	if err := c.DeleteThread(ctx, id); err != nil {
		return reportError(w, err)
	}
	fmt.Fprintf(w, "Deleted thread %s\n", id)
	return 0
}
