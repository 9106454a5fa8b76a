package store

import (
	"strings"

	"github.com/aanand-mishra/students-roster/internal/types"
)

// Matches reports whether rec matches the search term: the term appears,
// ignoring case, in the first name, last name or college name. An empty
// term matches every record; an empty field never matches a non-empty term.
func Matches(rec types.Student, term string) bool {
	return matchesLower(&rec, strings.ToLower(term))
}

// matchesLower expects needle to be lower-cased already.
func matchesLower(rec *types.Student, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{rec.FirstName, rec.LastName, rec.CollegeName} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
