// ABOUTME: Sort tables mapping human labels to backend order tokens
// ABOUTME: Threads sort by time or comment count; comments by time only

package listquery

import (
	"errors"
	"fmt"
)

// ErrUnknownSort is returned when a sort key is not in the table.
var ErrUnknownSort = errors.New("unknown sort")

// DefaultSortLabel is the sort every list starts with.
const DefaultSortLabel = "Newest first"

// SortOption pairs a label shown to users with the backend's order token.
type SortOption struct {
	Label string
	Token string
}

// SortTable is an ordered set of sort options. The first entry is the default.
type SortTable []SortOption

// ThreadSorts are the orders the thread search endpoint accepts.
var ThreadSorts = SortTable{
	{Label: "Newest first", Token: "created_time_desc"},
	{Label: "Oldest first", Token: "created_time_asc"},
	{Label: "Most comments first", Token: "num_comments_desc"},
	{Label: "Least comments first", Token: "num_comments_asc"},
}

// CommentSorts are the orders the comment listing endpoint accepts.
var CommentSorts = SortTable{
	{Label: "Newest first", Token: "created_time_desc"},
	{Label: "Oldest first", Token: "created_time_asc"},
}

// Default returns the first option.
func (t SortTable) Default() SortOption {
	return t[0]
}

// Resolve finds an option by label or by token.
func (t SortTable) Resolve(key string) (SortOption, error) {
	for _, opt := range t {
		if opt.Label == key || opt.Token == key {
			return opt, nil
		}
	}
	return SortOption{}, fmt.Errorf("%w: %q", ErrUnknownSort, key)
}

// Labels lists the option labels in table order.
func (t SortTable) Labels() []string {
	labels := make([]string, len(t))
	for i, opt := range t {
		labels[i] = opt.Label
	}
	return labels
}
