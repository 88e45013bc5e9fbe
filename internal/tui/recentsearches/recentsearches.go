// ABOUTME: Keeps the most recent thread searches for the TUI search box
// ABOUTME: Persists them as JSON in the forum config directory

package recentsearches

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// MaxRecent is the maximum number of searches kept
const MaxRecent = 5

const fileName = "recent_searches.json"

// RecentSearches manages the list of recently committed searches
type RecentSearches struct {
	configDir string
	searches  []string
}

type recentData struct {
	Searches []string `json:"searches"`
}

// New creates a RecentSearches manager backed by configDir
func New(configDir string) *RecentSearches {
	return &RecentSearches{configDir: configDir}
}

func (rs *RecentSearches) configFile() string {
	return filepath.Join(rs.configDir, fileName)
}

// Load reads the list from disk. A missing or corrupt file yields an empty list.
func (rs *RecentSearches) Load() ([]string, error) {
	data, err := os.ReadFile(rs.configFile())
	if os.IsNotExist(err) {
		rs.searches = []string{}
		return rs.searches, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		rs.searches = []string{}
		return rs.searches, nil
	}
	rs.searches = recent.Searches
	if len(rs.searches) > MaxRecent {
		rs.searches = rs.searches[:MaxRecent]
	}
	return rs.searches, nil
}

// Save writes the list to disk, keeping at most MaxRecent entries
func (rs *RecentSearches) Save(searches []string) error {
	if err := os.MkdirAll(rs.configDir, 0700); err != nil {
		return err
	}
	if len(searches) > MaxRecent {
		searches = searches[:MaxRecent]
	}
	rs.searches = searches

	data, err := json.MarshalIndent(recentData{Searches: searches}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rs.configFile(), data, 0600)
}

// Add moves query to the front of the list. Blank queries are ignored.
func (rs *RecentSearches) Add(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if rs.searches == nil {
		if _, err := rs.Load(); err != nil {
			rs.searches = []string{}
		}
	}

	next := make([]string, 0, len(rs.searches)+1)
	next = append(next, query)
	for _, s := range rs.searches {
		if s != query {
			next = append(next, s)
		}
	}
	return rs.Save(next)
}

// List returns the current searches, most recent first
func (rs *RecentSearches) List() []string {
	if rs.searches == nil {
		rs.Load()
	}
	return rs.searches
}
