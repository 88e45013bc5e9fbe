// ABOUTME: Client-side input rules for credentials, threads, comments and tags
// ABOUTME: Failures carry the exact message shown to users and block the request

package validate

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// User-facing messages.
const (
	MsgUsername    = "Username must be between 1 and 30 characters long and cannot contain spaces"
	MsgPassword    = "Password must be at least 6 characters long"
	MsgThreadTitle = "Title must be between 1 and 100 characters."
	MsgThreadBody  = "Body must be between 1 and 3000 characters."
	MsgCommentBody = "Comment must be between 1 and 3000 characters."
	MaxTags        = 3
	maxUsername    = 30
	minPassword    = 6
	maxTitle       = 100
	maxBody        = 3000
)

var (
	noSpaces   = regexp.MustCompile(`^[^ ]*$`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Username checks a login or signup username.
func Username(username string) error {
	return validation.Validate(username,
		validation.Required.Error(MsgUsername),
		validation.RuneLength(1, maxUsername).Error(MsgUsername),
		validation.Match(noSpaces).Error(MsgUsername),
	)
}

// Password checks a login or signup password.
func Password(password string) error {
	return validation.Validate(password,
		validation.Required.Error(MsgPassword),
		validation.RuneLength(minPassword, 0).Error(MsgPassword),
	)
}

// Credentials checks username then password and returns the first failure.
func Credentials(username, password string) error {
	if err := Username(username); err != nil {
		return err
	}
	return Password(password)
}

// ThreadTitle checks a title after trimming surrounding whitespace.
func ThreadTitle(title string) error {
	return boundedText(title, maxTitle, MsgThreadTitle)
}

// ThreadBody checks a thread body after trimming surrounding whitespace.
func ThreadBody(body string) error {
	return boundedText(body, maxBody, MsgThreadBody)
}

// Thread checks title then body.
func Thread(title, body string) error {
	if err := ThreadTitle(title); err != nil {
		return err
	}
	return ThreadBody(body)
}

// CommentBody checks a comment after trimming surrounding whitespace.
func CommentBody(body string) error {
	return boundedText(body, maxBody, MsgCommentBody)
}

func boundedText(s string, max int, msg string) error {
	return validation.Validate(strings.TrimSpace(s),
		validation.Required.Error(msg),
		validation.RuneLength(1, max).Error(msg),
	)
}

// NormalizeTags trims tags, drops empty ones, keeps at most MaxTags, and
// lower-cases them with whitespace runs replaced by "-".
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, MaxTags)
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, strings.ToLower(whitespace.ReplaceAllString(tag, "-")))
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// SplitTags splits a comma separated tag list and normalizes it.
func SplitTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}
