// ABOUTME: Location strings of the form /?q=<text>&order=<token>
// ABOUTME: Stands in for the browser address so searches can be shared and restored

package listquery

import (
	"fmt"
	"net/url"
	"strings"
)

// FormatLocation renders a location for the given search text and order token.
func FormatLocation(text, order string) string {
	return "/?q=" + url.QueryEscape(text) + "&order=" + url.QueryEscape(order)
}

// ParseLocation extracts the query values from a location.
// A bare query ("q=go&order=...") and a full path ("/?q=go") are both accepted.
func ParseLocation(loc string) (url.Values, error) {
	loc = strings.TrimSpace(loc)
	if i := strings.IndexByte(loc, '?'); i >= 0 {
		loc = loc[i+1:]
	} else if strings.HasPrefix(loc, "/") {
		return url.Values{}, nil
	}
	values, err := url.ParseQuery(loc)
	if err != nil {
		return nil, fmt.Errorf("invalid location: %w", err)
	}
	return values, nil
}

// TagLocation is the location a tag chip navigates to.
func TagLocation(tag, order string) string {
	return FormatLocation("tag:"+tag, order)
}
