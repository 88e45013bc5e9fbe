// ABOUTME: Tests for login, signup, logout and whoami
// ABOUTME: Checks local validation, token storage, and backend rejections

package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/markalston/forum-client/internal/validate"
)

func TestRunAuth_LoginStoresSession(t *testing.T) {
	e, fake := testEnv(t, "")
	fake.AddUser("ann", "secret1")

	var buf bytes.Buffer
	code := runAuth(context.Background(), &buf, e, e.client.Login, "ann", "secret1")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Logged in as ann") {
		t.Errorf("expected login message, got %q", buf.String())
	}
	if s := e.session.Snapshot(); !s.IsAuthenticated || s.Username != "ann" {
		t.Errorf("expected authenticated session for ann, got %+v", s)
	}
}

func TestRunAuth_ShortPasswordSendsNothing(t *testing.T) {
	e, fake := testEnv(t, "")

	var buf bytes.Buffer
	code := runAuth(context.Background(), &buf, e, e.client.Login, "ann", "12345")
	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(buf.String(), validate.MsgPassword) {
		t.Errorf("expected password message, got %q", buf.String())
	}
	if reqs := fake.Requests(); len(reqs) != 0 {
		t.Errorf("expected no requests, got %v", reqs)
	}
}

func TestRunAuth_WrongPassword(t *testing.T) {
	e, fake := testEnv(t, "")
	fake.AddUser("ann", "secret1")

	var buf bytes.Buffer
	code := runAuth(context.Background(), &buf, e, e.client.Login, "ann", "wrong-password")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Incorrect username/password") {
		t.Errorf("expected backend message, got %q", buf.String())
	}
	if e.session.Snapshot().IsAuthenticated {
		t.Error("expected session to stay logged out")
	}
}

func TestRunAuth_SignupDuplicate(t *testing.T) {
	e, fake := testEnv(t, "")
	fake.AddUser("ann", "secret1")

	var buf bytes.Buffer
	code := runAuth(context.Background(), &buf, e, e.client.Signup, "ann", "another1")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Username already exists") {
		t.Errorf("expected duplicate message, got %q", buf.String())
	}
}

func TestRunAuth_PromptsForMissing(t *testing.T) {
	e, fake := testEnv(t, "")
	fake.AddUser("bob", "hunter22")

	orig := promptCredentials
	defer func() { promptCredentials = orig }()
	var prompted bool
	promptCredentials = func(username, password *string) error {
		prompted = true
		*password = "hunter22"
		return nil
	}

	var buf bytes.Buffer
	if code := runAuth(context.Background(), &buf, e, e.client.Login, "bob", ""); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !prompted {
		t.Error("expected prompt for missing password")
	}
}

func TestRunAuth_PromptError(t *testing.T) {
	e, _ := testEnv(t, "")

	orig := promptCredentials
	defer func() { promptCredentials = orig }()
	promptCredentials = func(username, password *string) error {
		return errors.New("user aborted")
	}

	var buf bytes.Buffer
	if code := runAuth(context.Background(), &buf, e, e.client.Login, "", ""); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestRunLogoutAndWhoami(t *testing.T) {
	e, _ := testEnv(t, "ann")

	var buf bytes.Buffer
	runWhoami(&buf, e)
	if !strings.Contains(buf.String(), "Logged in as ann") {
		t.Errorf("expected whoami to show ann, got %q", buf.String())
	}

	buf.Reset()
	if code := runLogout(context.Background(), &buf, e); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}

	buf.Reset()
	runWhoami(&buf, e)
	if strings.TrimSpace(buf.String()) != "Not logged in" {
		t.Errorf("expected not logged in, got %q", buf.String())
	}
}

func TestRunWhoami_JSON(t *testing.T) {
	e, _ := testEnv(t, "")
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	runWhoami(&buf, e)
	if !strings.Contains(buf.String(), `"logged_in": false`) {
		t.Errorf("expected logged_in false, got %s", buf.String())
	}
	if strings.Contains(buf.String(), "expires_at") {
		t.Errorf("expected no expiry when logged out, got %s", buf.String())
	}
}
