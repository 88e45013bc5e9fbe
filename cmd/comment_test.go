// ABOUTME: Tests for the comment add, edit and delete commands
// ABOUTME: Runs against the fake backend with a logged-in user

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/validate"
)

func TestRunCommentAdd(t *testing.T) {
	e, fake := testEnv(t, "ann")
	fake.AddThread(client.Thread{ID: "t1", Title: "Hi", Body: "Body", Creator: "bob"})

	var buf bytes.Buffer
	if code := runCommentAdd(context.Background(), &buf, e.client, "t1", "  nice post  "); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	comments := fake.Comments()
	if len(comments) != 1 || comments[0].Body != "nice post" || comments[0].Creator != "ann" {
		t.Errorf("unexpected comments %+v", comments)
	}
	if fake.Threads()[0].NumComments != 1 {
		t.Errorf("expected comment count 1, got %d", fake.Threads()[0].NumComments)
	}
}

func TestRunCommentAdd_BlankBody(t *testing.T) {
	e, fake := testEnv(t, "ann")

	var buf bytes.Buffer
	if code := runCommentAdd(context.Background(), &buf, e.client, "t1", " \n "); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(buf.String(), validate.MsgCommentBody) {
		t.Errorf("expected comment message, got %q", buf.String())
	}
	if len(fake.Requests()) != 0 {
		t.Errorf("expected no requests, got %v", fake.Requests())
	}
}

func TestRunCommentAdd_MissingThread(t *testing.T) {
	e, _ := testEnv(t, "ann")

	var buf bytes.Buffer
	if code := runCommentAdd(context.Background(), &buf, e.client, "nope", "hello"); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Thread does not exist") {
		t.Errorf("expected backend message, got %q", buf.String())
	}
}

func TestRunCommentEditAndDelete(t *testing.T) {
	e, fake := testEnv(t, "ann")
	fake.AddThread(client.Thread{ID: "t1", Title: "Hi", Body: "Body", Creator: "bob"})
	fake.AddComment(client.Comment{ID: "c1", ThreadID: "t1", Body: "first", Creator: "ann"})
	stubConfirm(t, true, nil)

	var buf bytes.Buffer
	if code := runCommentEdit(context.Background(), &buf, e.client, "c1", "second"); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if got := fake.Comments()[0].Body; got != "second" {
		t.Errorf("expected edited body, got %q", got)
	}

	buf.Reset()
	if code := runCommentDelete(context.Background(), &buf, e.client, "c1", false); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if len(fake.Comments()) != 0 {
		t.Error("expected comment deleted")
	}
	if fake.Threads()[0].NumComments != 0 {
		t.Errorf("expected comment count 0, got %d", fake.Threads()[0].NumComments)
	}
}

func TestRunCommentDelete_NotOwner(t *testing.T) {
	e, fake := testEnv(t, "ann")
	fake.AddThread(client.Thread{ID: "t1", Title: "Hi", Body: "Body", Creator: "bob"})
	fake.AddComment(client.Comment{ID: "c1", ThreadID: "t1", Body: "bob's", Creator: "bob"})

	var buf bytes.Buffer
	if code := runCommentDelete(context.Background(), &buf, e.client, "c1", true); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "No permission to delete comment") {
		t.Errorf("expected permission message, got %q", buf.String())
	}
}
