package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
		ok       bool
	}{
		{"Not Started", StatusNotStarted, true},
		{"NotStarted", StatusNotStarted, true},
		{"In Progress", StatusInProgress, true},
		{"InProgress", StatusInProgress, true},
		{"Completed", StatusCompleted, true},
		{"completed", "", false},
		{"in progress", "", false},
		{"Done", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, ok := ParseStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestStatusFromLabel(t *testing.T) {
	assert.Equal(t, StatusInProgress, StatusFromLabel("InProgress"))
	assert.Equal(t, StatusCompleted, StatusFromLabel("Completed"))
	assert.Equal(t, Status("Blocked"), StatusFromLabel("Blocked"))
	assert.Equal(t, Status("completed"), StatusFromLabel("completed"), "case is kept")
}
