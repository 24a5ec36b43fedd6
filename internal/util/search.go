package util

import (
	"regexp"
	"strings"
)

// SearchQuery represents the parsed components of a task filter string,
// e.g. "state:failed state:errored backup".
type SearchQuery struct {
	State []string
	Text  []string
}

var stateRegex = regexp.MustCompile(`state:(\w+)`)

// ParseSearchQuery breaks down a raw query string into its structured components.
func ParseSearchQuery(query string) SearchQuery {
	sq := SearchQuery{}
	for _, match := range stateRegex.FindAllStringSubmatch(query, -1) {
		sq.State = append(sq.State, strings.ToLower(match[1]))
	}
	query = stateRegex.ReplaceAllString(query, "")
	for _, word := range strings.Fields(query) {
		sq.Text = append(sq.Text, strings.ToLower(word))
	}
	return sq
}

// Empty reports whether the query matches everything.
func (q SearchQuery) Empty() bool {
	return len(q.State) == 0 && len(q.Text) == 0
}

// Matches reports whether a row with the given state and name satisfies the
// query: any listed state, and every text word as a substring of the name.
func (q SearchQuery) Matches(state, name string) bool {
	if len(q.State) > 0 {
		found := false
		for _, s := range q.State {
			if strings.EqualFold(s, state) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	lower := strings.ToLower(name)
	for _, word := range q.Text {
		if !strings.Contains(lower, word) {
			return false
		}
	}
	return true
}
