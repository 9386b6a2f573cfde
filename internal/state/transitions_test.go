package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransitionAllowed(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		want bool
	}{
		{"idle starts the add flow", StateIdle, StateAddName, true},
		{"name to phone", StateAddName, StateAddPhone, true},
		{"phone to amount", StateAddPhone, StateAddAmount, true},
		{"amount to currency", StateAddAmount, StateAddCurrency, true},
		{"currency to due date", StateAddCurrency, StateAddDueDate, true},
		{"due date to note", StateAddDueDate, StateAddNote, true},
		{"note to confirm", StateAddNote, StateAddConfirm, true},
		{"confirm back to idle", StateAddConfirm, StateIdle, true},

		{"cannot skip ahead", StateAddName, StateAddAmount, false},
		{"cannot go backwards", StateAddAmount, StateAddName, false},
		{"idle cannot jump into confirm", StateIdle, StateAddConfirm, false},

		{"error is reachable from anywhere", StateAddDueDate, StateError, true},
		{"idle is reachable from anywhere", StateAddPhone, StateIdle, true},
		{"error recovers to idle", StateError, StateIdle, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransitionAllowed(tt.from, tt.to))
		})
	}
}
