package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockTime(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "far from duration words",
			text: "Tempo totale 1:23:45\n" + strings.Repeat("-", 60) + "\nInizio 07:15",
			want: "07:15",
		},
		{name: "single digit hour is padded", text: "7:05\nCorsa", want: "07:05"},
		{name: "hour out of range", text: "25:30", want: ""},
		{name: "next to an exclude word", text: "Durata 12:30", want: ""},
		{name: "two colons is never a clock", text: "1:10:00", want: ""},
		{name: "empty", text: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClockTime(tt.text, ClockExcludeWords))
		})
	}
}

func TestClockTime_MovementLabel(t *testing.T) {
	assert.Equal(t, "", ClockTime("Movimento\n45:10", ClockExcludeWords))
}

func TestClockTime_SkipsClaimed(t *testing.T) {
	text := "12:30\n" + strings.Repeat("x", 60) + "\n07:15"
	assert.Equal(t, "12:30", clockTime(text, ClockExcludeWords, DefaultClockWindow, nil))
	assert.Equal(t, "07:15", clockTime(text, ClockExcludeWords, DefaultClockWindow, map[int]bool{0: true}))
}

func TestClockTime_CustomExclude(t *testing.T) {
	assert.Equal(t, "", ClockTime("Inizio 07:15", []string{"INIZIO"}))
	assert.Equal(t, "12:30", ClockTime("Durata 12:30", nil))
}
