// ABOUTME: Tests for client-side input rules
// ABOUTME: Checks boundaries, exact messages, and tag normalization

package validate

import (
	"reflect"
	"strings"
	"testing"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single char", "a", false},
		{"thirty chars", strings.Repeat("u", 30), false},
		{"unicode counts runes", strings.Repeat("é", 30), false},
		{"empty", "", true},
		{"too long", strings.Repeat("u", 31), true},
		{"contains space", "ann lee", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Username(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected error=%v, got %v", tc.wantErr, err)
			}
			if err != nil && err.Error() != MsgUsername {
				t.Errorf("expected %q, got %q", MsgUsername, err.Error())
			}
		})
	}
}

func TestPassword(t *testing.T) {
	if err := Password("secret"); err != nil {
		t.Errorf("expected 6 chars to pass, got %v", err)
	}
	for _, pw := range []string{"", "12345"} {
		err := Password(pw)
		if err == nil {
			t.Fatalf("expected %q to fail", pw)
		}
		if err.Error() != MsgPassword {
			t.Errorf("expected %q, got %q", MsgPassword, err.Error())
		}
	}
}

func TestCredentials_ShortPasswordScenario(t *testing.T) {
	err := Credentials("ann", "12345")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if err.Error() != "Password must be at least 6 characters long" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCredentials_UsernameCheckedFirst(t *testing.T) {
	err := Credentials("", "")
	if err == nil || err.Error() != MsgUsername {
		t.Errorf("expected username message first, got %v", err)
	}
}

func TestThread(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		body    string
		wantMsg string
	}{
		{"valid", "Hello", "World", ""},
		{"blank title", "   ", "body", MsgThreadTitle},
		{"long title", strings.Repeat("t", 101), "body", MsgThreadTitle},
		{"max title", strings.Repeat("t", 100), "body", ""},
		{"blank body", "title", "\n\t", MsgThreadBody},
		{"long body", "title", strings.Repeat("b", 3001), MsgThreadBody},
		{"trimmed body fits", "title", " " + strings.Repeat("b", 3000) + " ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Thread(tc.title, tc.body)
			if tc.wantMsg == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.wantMsg {
				t.Errorf("expected %q, got %v", tc.wantMsg, err)
			}
		})
	}
}

func TestCommentBody(t *testing.T) {
	if err := CommentBody("nice post"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := CommentBody("  "); err == nil || err.Error() != MsgCommentBody {
		t.Errorf("expected %q, got %v", MsgCommentBody, err)
	}
	if err := CommentBody(strings.Repeat("c", 3001)); err == nil {
		t.Error("expected too-long comment to fail")
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"lowercases and hyphenates", []string{"Go Lang", "Web  Dev"}, []string{"go-lang", "web-dev"}},
		{"drops empty", []string{"", "  ", "bug"}, []string{"bug"}},
		{"caps at three", []string{"a", "b", "c", "d"}, []string{"a", "b", "c"}},
		{"nil", nil, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTags(tc.input); !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("Bug, help wanted ,,UI")
	want := []string{"bug", "help-wanted", "ui"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
