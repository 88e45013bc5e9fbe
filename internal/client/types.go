// ABOUTME: Wire types exchanged with the forum backend
// ABOUTME: Field names follow the backend's JSON exactly

package client

import "time"

// Thread is a forum thread as returned by the backend.
type Thread struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Creator     string    `json:"creator"`
	CreatedTime time.Time `json:"created_time"`
	UpdatedTime time.Time `json:"updated_time"`
	NumComments int       `json:"num_comments"`
	Tags        []string  `json:"tags"`
}

// Edited reports whether the thread was changed after creation.
func (t Thread) Edited() bool {
	return t.UpdatedTime.After(t.CreatedTime)
}

// Comment is a reply on a thread.
type Comment struct {
	ID          string    `json:"id"`
	Body        string    `json:"body"`
	Creator     string    `json:"creator"`
	ThreadID    string    `json:"thread_id"`
	CreatedTime time.Time `json:"created_time"`
	UpdatedTime time.Time `json:"updated_time"`
}

// Edited reports whether the comment was changed after creation.
func (c Comment) Edited() bool {
	return c.UpdatedTime.After(c.CreatedTime)
}

// ThreadPage is one page of search results.
type ThreadPage struct {
	Threads      []Thread `json:"threads"`
	TotalThreads int      `json:"total_threads"`
}

// CommentPage is one page of a thread's comments.
type CommentPage struct {
	Comments []Comment `json:"comments"`
	Count    int       `json:"count"`
}

// Credentials is the login and signup request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the issued bearer token.
type AuthResponse struct {
	Username string `json:"username,omitempty"`
	Token    string `json:"token"`
}

// ThreadInput is the create and update request body for threads.
type ThreadInput struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

// CommentInput is the create and update request body for comments.
// ThreadID is only sent on create.
type CommentInput struct {
	ThreadID string `json:"thread_id,omitempty"`
	Body     string `json:"body"`
}
