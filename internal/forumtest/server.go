// ABOUTME: In-memory fake of the forum REST backend built on chi
// ABOUTME: Mirrors the real routes, plain-text errors, search syntax and paging

package forumtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/markalston/forum-client/internal/client"
)

const pageSize = 10

var threadOrders = []string{"created_time_asc", "created_time_desc", "num_comments_asc", "num_comments_desc"}

// Server is a fake backend. Exported fields may be changed between requests
// while holding no locks; use the helper methods for data.
type Server struct {
	Secret string
	Now    func() time.Time

	mu       sync.Mutex
	users    map[string]string
	threads  []client.Thread
	comments []client.Comment
	requests []string
	failures map[string]failure
	delays   map[string]time.Duration
}

type failure struct {
	status  int
	message string
}

// New returns an empty fake backend.
func New() *Server {
	return &Server{
		Secret:   DefaultSecret,
		Now:      time.Now,
		users:    make(map[string]string),
		failures: make(map[string]failure),
		delays:   make(map[string]time.Duration),
	}
}

// Start serves s on an httptest server that is closed when t ends.
func Start(t testing.TB, s *Server) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// Handler returns the chi router for the fake backend.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/user/login", s.login)
		r.Post("/user/create", s.signup)

		r.Get("/thread", s.searchThreads)
		r.Post("/thread/create", s.createThread)
		r.Get("/thread/{id}", s.getThread)
		r.Put("/thread/{id}", s.updateThread)
		r.Delete("/thread/{id}", s.deleteThread)
		r.Get("/thread/{id}/comments", s.listComments)

		r.Post("/comment/create", s.createComment)
		r.Put("/comment/{id}", s.updateComment)
		r.Delete("/comment/{id}", s.deleteComment)
	})
	return r
}

// AddUser registers an account.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// Token mints a valid token for username.
func (s *Server) Token(username string) string {
	token, err := MintToken(s.Secret, username, s.Now(), TokenTTL)
	if err != nil {
		panic(err)
	}
	return token
}

// AddThread stores a thread, filling in ID and timestamps when empty.
func (s *Server) AddThread(t client.Thread) client.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedTime.IsZero() {
		t.CreatedTime = s.Now()
	}
	if t.UpdatedTime.IsZero() {
		t.UpdatedTime = t.CreatedTime
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	s.threads = append(s.threads, t)
	return t
}

// AddComment stores a comment and bumps the thread's comment count.
func (s *Server) AddComment(c client.Comment) client.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedTime.IsZero() {
		c.CreatedTime = s.Now()
	}
	if c.UpdatedTime.IsZero() {
		c.UpdatedTime = c.CreatedTime
	}
	s.comments = append(s.comments, c)
	if i := s.threadIndex(c.ThreadID); i >= 0 {
		s.threads[i].NumComments++
	}
	return c
}

// Fail makes every request to "METHOD /path" answer with status and message.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Delay holds requests to "METHOD /path" for d before answering.
func (s *Server) Delay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[route] = d
}

// Requests lists "METHOD /path?query" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Threads returns a copy of the stored threads.
func (s *Server) Threads() []client.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.Thread(nil), s.threads...)
}

// Comments returns a copy of the stored comments.
func (s *Server) Comments() []client.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.Comment(nil), s.comments...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		entry := route
		if r.URL.RawQuery != "" {
			entry += "?" + r.URL.RawQuery
		}

		s.mu.Lock()
		s.requests = append(s.requests, entry)
		f, failing := s.failures[route]
		delay := s.delays[route]
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			writeText(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(message))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// authorize returns the verified username or writes a 401.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		writeText(w, http.StatusUnauthorized, "Invalid JWT token")
		return "", false
	}
	username, err := VerifyToken(s.Secret, raw)
	if err != nil {
		writeText(w, http.StatusUnauthorized, "Invalid JWT token")
		return "", false
	}
	return username, true
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds client.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid data")
		return
	}

	s.mu.Lock()
	password, ok := s.users[creds.Username]
	s.mu.Unlock()
	if !ok || password != creds.Password {
		writeText(w, http.StatusUnauthorized, "Incorrect username/password")
		return
	}
	writeJSON(w, client.AuthResponse{Username: creds.Username, Token: s.Token(creds.Username)})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var creds client.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid data")
		return
	}
	if creds.Username == "" || len(creds.Username) > 30 || strings.Contains(creds.Username, " ") || len(creds.Password) < 6 {
		writeText(w, http.StatusBadRequest, "Incorrect username/password")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[creds.Username]; exists {
		s.mu.Unlock()
		writeText(w, http.StatusBadRequest, "Username already exists")
		return
	}
	s.users[creds.Username] = creds.Password
	s.mu.Unlock()

	writeJSON(w, client.AuthResponse{Username: creds.Username, Token: s.Token(creds.Username)})
}

func (s *Server) searchThreads(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	order := params.Get("order")
	if !slices.Contains(threadOrders, order) {
		order = "created_time_desc"
	}
	keywords, tags := parseSearch(params.Get("q"))

	s.mu.Lock()
	var matched []client.Thread
	for _, t := range s.threads {
		if matchesThread(t, keywords, tags) {
			matched = append(matched, t)
		}
	}
	s.mu.Unlock()

	sortThreads(matched, order)
	page := paginate(matched, params.Get("p"))
	if page == nil {
		page = []client.Thread{}
	}
	writeJSON(w, client.ThreadPage{Threads: page, TotalThreads: len(matched)})
}

func (s *Server) getThread(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i := s.threadIndex(chi.URLParam(r, "id"))
	var t client.Thread
	if i >= 0 {
		t = s.threads[i]
	}
	s.mu.Unlock()

	if i < 0 {
		writeText(w, http.StatusNotFound, "Thread not found")
		return
	}
	writeJSON(w, t)
}

func (s *Server) createThread(w http.ResponseWriter, r *http.Request) {
	var in client.ThreadInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeText(w, http.StatusBadRequest, "Malformed JSON")
		return
	}
	if !validThread(in) {
		writeText(w, http.StatusBadRequest, "Invalid data")
		return
	}
	username, ok := s.authorize(w, r)
	if !ok {
		return
	}

	t := s.AddThread(client.Thread{
		Title:   strings.TrimSpace(in.Title),
		Body:    strings.TrimSpace(in.Body),
		Creator: username,
		Tags:    in.Tags,
	})
	writeJSON(w, t)
}

func (s *Server) updateThread(w http.ResponseWriter, r *http.Request) {
	var in client.ThreadInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid data")
		return
	}
	if !validThread(in) {
		writeText(w, http.StatusBadRequest, "Invalid data")
		return
	}
	username, ok := s.authorize(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.threadIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeText(w, http.StatusNotFound, "Thread not found")
		return
	}
	if s.threads[i].Creator != username {
		writeText(w, http.StatusForbidden, "No permission to update thread")
		return
	}
	s.threads[i].Title = strings.TrimSpace(in.Title)
	s.threads[i].Body = strings.TrimSpace(in.Body)
	s.threads[i].Tags = in.Tags
	s.threads[i].UpdatedTime = s.Now()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) deleteThread(w http.ResponseWriter, r *http.Request) {
	username, ok := s.authorize(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := s.threadIndex(id)
	if i < 0 {
		writeText(w, http.StatusNotFound, "Thread not found")
		return
	}
	if s.threads[i].Creator != username {
		writeText(w, http.StatusForbidden, "No permission to delete thread")
		return
	}
	s.threads = slices.Delete(s.threads, i, i+1)
	s.comments = slices.DeleteFunc(s.comments, func(c client.Comment) bool { return c.ThreadID == id })
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order := r.URL.Query().Get("order")

	s.mu.Lock()
	var matched []client.Comment
	for _, c := range s.comments {
		if c.ThreadID == id {
			matched = append(matched, c)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(matched, func(a, b int) bool {
		if order == "created_time_asc" {
			return matched[a].CreatedTime.Before(matched[b].CreatedTime)
		}
		return matched[a].CreatedTime.After(matched[b].CreatedTime)
	})
	page := paginate(matched, r.URL.Query().Get("p"))
	if page == nil {
		page = []client.Comment{}
	}
	writeJSON(w, client.CommentPage{Comments: page, Count: len(matched)})
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var in client.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeText(w, http.StatusBadRequest, "Malformed JSON")
		return
	}
	body := strings.TrimSpace(in.Body)
	if body == "" || len(body) > 3000 {
		writeText(w, http.StatusBadRequest, "Invalid data")
		return
	}
	username, ok := s.authorize(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	exists := s.threadIndex(in.ThreadID) >= 0
	s.mu.Unlock()
	if !exists {
		writeText(w, http.StatusBadRequest, "Thread does not exist")
		return
	}

	c := s.AddComment(client.Comment{Body: body, Creator: username, ThreadID: in.ThreadID})
	writeJSON(w, c)
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	var in client.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid data")
		return
	}
	body := strings.TrimSpace(in.Body)
	if body == "" || len(body) > 3000 {
		writeText(w, http.StatusBadRequest, "Invalid data")
		return
	}
	username, ok := s.authorize(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.commentIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeText(w, http.StatusNotFound, "Comment not found")
		return
	}
	if s.comments[i].Creator != username {
		writeText(w, http.StatusForbidden, "No permission to update comment")
		return
	}
	s.comments[i].Body = body
	s.comments[i].UpdatedTime = s.Now()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	username, ok := s.authorize(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.commentIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeText(w, http.StatusNotFound, "Comment not found")
		return
	}
	if s.comments[i].Creator != username {
		writeText(w, http.StatusForbidden, "No permission to delete comment")
		return
	}
	if t := s.threadIndex(s.comments[i].ThreadID); t >= 0 {
		s.threads[t].NumComments--
	}
	s.comments = slices.Delete(s.comments, i, i+1)
	w.WriteHeader(http.StatusOK)
}

// threadIndex must be called with mu held.
func (s *Server) threadIndex(id string) int {
	return slices.IndexFunc(s.threads, func(t client.Thread) bool { return t.ID == id })
}

// commentIndex must be called with mu held.
func (s *Server) commentIndex(id string) int {
	return slices.IndexFunc(s.comments, func(c client.Comment) bool { return c.ID == id })
}

// parseSearch splits a query into keywords and "tag:" filters.
func parseSearch(q string) (keywords, tags []string) {
	for _, word := range strings.Fields(q) {
		if tag, ok := strings.CutPrefix(word, "tag:"); ok {
			tags = append(tags, strings.ToLower(tag))
		} else {
			keywords = append(keywords, strings.ToLower(word))
		}
	}
	return keywords, tags
}

func matchesThread(t client.Thread, keywords, tags []string) bool {
	for _, tag := range tags {
		if !slices.Contains(t.Tags, tag) {
			return false
		}
	}
	text := strings.ToLower(t.Title + " " + t.Body)
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

func sortThreads(threads []client.Thread, order string) {
	sort.SliceStable(threads, func(a, b int) bool {
		ta, tb := threads[a], threads[b]
		switch order {
		case "created_time_asc":
			return ta.CreatedTime.Before(tb.CreatedTime)
		case "num_comments_desc":
			return ta.NumComments > tb.NumComments
		case "num_comments_asc":
			return ta.NumComments < tb.NumComments
		default:
			return ta.CreatedTime.After(tb.CreatedTime)
		}
	})
}

func paginate[T any](items []T, p string) []T {
	page, err := strconv.Atoi(p)
	if err != nil || page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}

func validThread(in client.ThreadInput) bool {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	var tags int
	for _, tag := range in.Tags {
		if strings.TrimSpace(tag) != "" {
			tags++
		}
	}
	return tags <= 3 && title != "" && body != "" && len(title) <= 100 && len(body) <= 3000
}
