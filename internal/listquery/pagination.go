// ABOUTME: Page size and total-page arithmetic shared by every paged list
// ABOUTME: A list always has at least one page, even when empty

package listquery

// PageSize is the number of items the backend returns per page.
const PageSize = 10

// TotalPages returns max(1, ceil(total/PageSize)).
func TotalPages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}
