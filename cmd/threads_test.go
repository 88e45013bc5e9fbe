// ABOUTME: Tests for the threads and thread commands
// ABOUTME: Covers search, sort, paging, locations and comment loading

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/forumtest"
	"github.com/markalston/forum-client/internal/listquery"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedThreads(fake *forumtest.Server, n int, tags ...string) {
	for i := 0; i < n; i++ {
		fake.AddThread(client.Thread{
			ID:          fmt.Sprintf("t%02d", i),
			Title:       fmt.Sprintf("Thread %02d", i),
			Body:        "body",
			Creator:     "ann",
			CreatedTime: baseTime.Add(time.Duration(i) * time.Minute),
			UpdatedTime: baseTime.Add(time.Duration(i) * time.Minute),
			Tags:        tags,
		})
	}
}

func TestRunThreads_FirstPage(t *testing.T) {
	e, fake := testEnv(t, "")
	seedThreads(fake, 12)

	var buf bytes.Buffer
	code := runThreads(context.Background(), &buf, e.client, threadListOptions{sort: listquery.DefaultSortLabel, page: 1, pages: 1})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	if !strings.Contains(out, "Thread 11") || strings.Contains(out, "Thread 01") {
		t.Errorf("expected newest ten threads, got %s", out)
	}
	if !strings.Contains(out, "Page 1 of 2") {
		t.Errorf("expected page summary, got %s", out)
	}
}

func TestRunThreads_LocationTagSearch(t *testing.T) {
	e, fake := testEnv(t, "")
	seedThreads(fake, 3, "bug")
	fake.AddThread(client.Thread{ID: "other", Title: "Unrelated", Body: "x", Creator: "bob", Tags: []string{"help"}})

	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	code := runThreads(context.Background(), &buf, e.client, threadListOptions{
		page: 1, pages: 1, location: "/?q=tag%3Abug&order=created_time_asc",
	})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}

	var got threadListJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got.Threads) != 3 || got.Threads[0].ID != "t00" {
		t.Errorf("expected three bug threads oldest first, got %+v", got.Threads)
	}
	if got.Sort != "Oldest first" {
		t.Errorf("expected Oldest first, got %s", got.Sort)
	}
	want := "GET /api/v1/thread?order=created_time_asc&p=1&q=tag%3Abug"
	if reqs := fake.Requests(); len(reqs) != 1 || reqs[0] != want {
		t.Errorf("expected single request %s, got %v", want, reqs)
	}
}

func TestRunThreads_PagesAppend(t *testing.T) {
	e, fake := testEnv(t, "")
	seedThreads(fake, 25)

	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	code := runThreads(context.Background(), &buf, e.client, threadListOptions{sort: "Oldest first", page: 2, pages: 5})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	var got threadListJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Page != 3 || got.TotalPages != 3 {
		t.Errorf("expected page 3 of 3, got %d of %d", got.Page, got.TotalPages)
	}
	if len(got.Threads) != 15 || got.Threads[0].ID != "t10" {
		t.Errorf("expected pages two and three, got %d threads starting %s", len(got.Threads), got.Threads[0].ID)
	}
}

func TestRunThreads_UnknownSort(t *testing.T) {
	e, fake := testEnv(t, "")

	var buf bytes.Buffer
	code := runThreads(context.Background(), &buf, e.client, threadListOptions{sort: "Alphabetical", page: 1, pages: 1})
	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(buf.String(), "Newest first") {
		t.Errorf("expected valid choices listed, got %s", buf.String())
	}
	if len(fake.Requests()) != 0 {
		t.Error("expected no requests for unknown sort")
	}
}

func TestRunThreads_Empty(t *testing.T) {
	e, _ := testEnv(t, "")

	var buf bytes.Buffer
	code := runThreads(context.Background(), &buf, e.client, threadListOptions{query: "nothing", sort: listquery.DefaultSortLabel, page: 1, pages: 1})
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "No threads found.") {
		t.Errorf("expected empty message, got %s", buf.String())
	}
}

func TestRunThreads_BackendError(t *testing.T) {
	e, fake := testEnv(t, "")
	fake.Fail("GET /api/v1/thread", 500, "database unavailable")

	var buf bytes.Buffer
	code := runThreads(context.Background(), &buf, e.client, threadListOptions{sort: listquery.DefaultSortLabel, page: 1, pages: 1})
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "database unavailable") {
		t.Errorf("expected backend message, got %s", buf.String())
	}
}

func TestRunThread_WithComments(t *testing.T) {
	e, fake := testEnv(t, "")
	fake.AddThread(client.Thread{ID: "t1", Title: "Hello", Body: "First post", Creator: "ann", Tags: []string{"intro"}})
	for i := 0; i < 12; i++ {
		fake.AddComment(client.Comment{
			ID:          fmt.Sprintf("c%02d", i),
			ThreadID:    "t1",
			Body:        fmt.Sprintf("reply %02d", i),
			Creator:     "bob",
			CreatedTime: baseTime.Add(time.Duration(i) * time.Minute),
		})
	}

	var buf bytes.Buffer
	code := runThread(context.Background(), &buf, e.client, "t1", "Oldest first", 1)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"Hello", "[intro]", "12 comments (oldest first)", "reply 00", "--comment-pages 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %s", want, out)
		}
	}
	if strings.Contains(out, "reply 10") {
		t.Errorf("expected only the first comment page, got %s", out)
	}

	buf.Reset()
	if code := runThread(context.Background(), &buf, e.client, "t1", "Oldest first", 2); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "reply 11") {
		t.Errorf("expected second page appended, got %s", buf.String())
	}
}

func TestRunThread_NotFound(t *testing.T) {
	e, _ := testEnv(t, "")

	var buf bytes.Buffer
	if code := runThread(context.Background(), &buf, e.client, "missing", listquery.DefaultSortLabel, 1); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Thread not found") {
		t.Errorf("expected not found message, got %s", buf.String())
	}
}

func TestFormatThreadHuman_NoTags(t *testing.T) {
	thread := &client.Thread{Title: "Bare", Creator: "ann", Body: "text"}
	out := formatThreadHuman(thread, listquery.State[client.Comment]{SortKey: "Newest first"})
	if !strings.Contains(out, "Tags: None") {
		t.Errorf("expected Tags: None, got %s", out)
	}
}
