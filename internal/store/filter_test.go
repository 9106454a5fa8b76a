package store

import (
	"testing"

	"github.com/aanand-mishra/students-roster/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	rec := types.Student{ID: "1", StudentInput: types.StudentInput{
		FirstName:   "Ann",
		LastName:    "Lee",
		CollegeName: "Xavier Institute",
		Email:       "zz@example.com",
	}}

	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"an", true},
		{"ANN", true},
		{"ee", true},
		{"institute", true},
		{"zz", false},
		{"ann lee", false},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(rec, tt.term))
		})
	}
}

func TestMatchesEmptyFields(t *testing.T) {
	var empty types.Student

	assert.True(t, Matches(empty, ""))
	assert.False(t, Matches(empty, "a"))
}
