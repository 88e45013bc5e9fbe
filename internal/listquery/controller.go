// ABOUTME: Search, sort and pagination state for a paged remote list
// ABOUTME: Commits issue numbered requests; only the latest commit's result is applied

package listquery

import (
	"context"
	"net/url"
	"sync"
)

// Mode says how a fetched page is merged into the list.
type Mode int

const (
	// Replace swaps the current items for the fetched page.
	Replace Mode = iota
	// Append adds the fetched page after the current items.
	Append
)

func (m Mode) String() string {
	if m == Append {
		return "append"
	}
	return "replace"
}

// Query is what gets sent to the backend.
type Query struct {
	Text  string
	Order string
	Page  int
}

// Page is one page of results plus the total item count across all pages.
type Page[T any] struct {
	Items []T
	Total int
}

// Fetcher loads one page of items.
type Fetcher[T any] func(ctx context.Context, q Query) (Page[T], error)

// State is a snapshot of the controller.
type State[T any] struct {
	PendingText string
	ActiveText  string
	SortKey     string
	Page        int
	TotalPages  int
	Items       []T
	IsLoading   bool
	Err         error
}

// Request is an issued fetch. Run it anywhere and hand the result to Apply.
// Pages is the number of consecutive pages fetched starting at Query.Page.
type Request[T any] struct {
	Seq   uint64
	Query Query
	Mode  Mode
	Pages int
	fetch Fetcher[T]
}

// Run performs the fetch. A multi-page request concatenates its pages and
// reports the total from the last one.
func (r *Request[T]) Run(ctx context.Context) Result[T] {
	res := Result[T]{Seq: r.Seq, Mode: r.Mode}
	q := r.Query
	for i := 0; i < max(r.Pages, 1); i++ {
		page, err := r.fetch(ctx, q)
		if err != nil {
			res.Page = Page[T]{}
			res.Err = err
			return res
		}
		res.Page.Items = append(res.Page.Items, page.Items...)
		res.Page.Total = page.Total
		q.Page++
	}
	return res
}

// Result is the outcome of a Request.
type Result[T any] struct {
	Seq  uint64
	Mode Mode
	Page Page[T]
	Err  error
}

// Controller keeps a list's query, its location and its loaded pages consistent.
type Controller[T any] struct {
	fetch Fetcher[T]
	sorts SortTable

	mu    sync.Mutex
	state State[T]
	seq   uint64

	// Items span pages first..shown. reqFirst is the first page of the
	// request in flight.
	first    int
	shown    int
	reqFirst int
}

// New creates a controller in its initial state: empty text, default sort,
// page 1, no items. Nothing is fetched until the first commit.
func New[T any](fetch Fetcher[T], sorts SortTable) *Controller[T] {
	return &Controller[T]{
		fetch: fetch,
		sorts: sorts,
		first: 1,
		shown: 1,
		state: State[T]{
			SortKey:    sorts.Default().Label,
			Page:       1,
			TotalPages: 1,
		},
	}
}

// Sorts returns the controller's sort table.
func (c *Controller[T]) Sorts() SortTable {
	return c.sorts
}

// State returns a copy of the current state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = append([]T(nil), c.state.Items...)
	return s
}

// SetPending records in-progress search text without fetching.
func (c *Controller[T]) SetPending(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingText = text
}

// CommitSearch makes text the active search and reloads from page 1.
func (c *Controller[T]) CommitSearch(text string) *Request[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingText = text
	c.state.ActiveText = text
	c.state.Page = 1
	return c.issue(Replace)
}

// CommitSort switches the sort order and reloads from page 1.
// key may be a label or an order token.
func (c *Controller[T]) CommitSort(key string) (*Request[T], error) {
	opt, err := c.sorts.Resolve(key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SortKey = opt.Label
	c.state.Page = 1
	return c.issue(Replace), nil
}

// LoadMore fetches the next page and appends it. It returns nil when the
// last page is already loaded or a fetch is in flight.
func (c *Controller[T]) LoadMore() *Request[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.IsLoading || c.state.Page >= c.state.TotalPages {
		return nil
	}
	c.state.Page++
	return c.issue(Append)
}

// GoToPage replaces the items with page n, clamped to the known range.
func (c *Controller[T]) GoToPage(n int) *Request[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if n > c.state.TotalPages {
		n = c.state.TotalPages
	}
	c.state.Page = n
	return c.issue(Replace)
}

// Refresh re-fetches the loaded pages with the current text and sort.
// Pages added by LoadMore are fetched again so the list keeps its length.
func (c *Controller[T]) Refresh() *Request[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.first >= c.state.Page {
		return c.issue(Replace)
	}
	req := c.issueFrom(Replace, c.first)
	req.Pages = c.state.Page - c.first + 1
	return req
}

// Clear resets text and sort to their defaults and reloads page 1.
func (c *Controller[T]) Clear() *Request[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingText = ""
	c.state.ActiveText = ""
	c.state.SortKey = c.sorts.Default().Label
	c.state.Page = 1
	return c.issue(Replace)
}

// OnLocationChange syncs state to an externally supplied location. It
// returns nil when q and order already match the current state.
// An unknown or missing order falls back to the default sort.
func (c *Controller[T]) OnLocationChange(values url.Values) *Request[T] {
	text := values.Get("q")
	opt, err := c.sorts.Resolve(values.Get("order"))
	if err != nil {
		opt = c.sorts.Default()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if text == c.state.ActiveText && opt.Label == c.state.SortKey {
		return nil
	}
	c.state.ActiveText = text
	c.state.PendingText = text
	c.state.SortKey = opt.Label
	c.state.Page = 1
	return c.issue(Replace)
}

// Location renders the active text and sort as a location string.
func (c *Controller[T]) Location() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FormatLocation(c.state.ActiveText, c.orderToken())
}

// Apply merges a result into the state. Results from superseded requests
// are dropped and Apply reports false.
func (c *Controller[T]) Apply(res Result[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res.Seq != c.seq {
		return false
	}
	c.state.IsLoading = false

	if res.Err != nil {
		// The items on screen are unchanged, so is their page.
		c.state.Err = res.Err
		c.state.Page = c.shown
		return true
	}

	if res.Mode == Append {
		c.state.Items = append(c.state.Items, res.Page.Items...)
	} else {
		c.state.Items = append([]T(nil), res.Page.Items...)
		c.first = c.reqFirst
	}
	c.state.TotalPages = TotalPages(res.Page.Total)
	if c.state.Page > c.state.TotalPages {
		c.state.Page = c.state.TotalPages
	}
	c.first = min(c.first, c.state.Page)
	c.shown = c.state.Page
	c.state.Err = nil
	return true
}

// Do runs req and applies its result. A nil req is a no-op.
func (c *Controller[T]) Do(ctx context.Context, req *Request[T]) State[T] {
	if req != nil {
		c.Apply(req.Run(ctx))
	}
	return c.State()
}

// issue must be called with mu held.
func (c *Controller[T]) issue(mode Mode) *Request[T] {
	return c.issueFrom(mode, c.state.Page)
}

func (c *Controller[T]) issueFrom(mode Mode, page int) *Request[T] {
	c.seq++
	c.state.IsLoading = true
	if mode == Replace {
		c.reqFirst = page
	}
	return &Request[T]{
		Seq:   c.seq,
		Mode:  mode,
		Pages: 1,
		fetch: c.fetch,
		Query: Query{
			Text:  c.state.ActiveText,
			Order: c.orderToken(),
			Page:  page,
		},
	}
}

func (c *Controller[T]) orderToken() string {
	opt, err := c.sorts.Resolve(c.state.SortKey)
	if err != nil {
		return c.sorts.Default().Token
	}
	return opt.Token
}
