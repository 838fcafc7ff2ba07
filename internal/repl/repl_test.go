package repl

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 1},
		{"hi", 1},
		{"hello", 2},
		{strings.Repeat("a", 400), 100},
	}
	for _, tt := range tests {
		if got := estimateTokens(tt.input); got != tt.want {
			t.Errorf("estimateTokens(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseCommand(t *testing.T) {
	r := &REPL{}

	tests := []struct {
		input string
		isCmd bool
		cmd   string
		args  string
	}{
		{"hello there", false, "", ""},
		{"/help", true, "/help", ""},
		{"/PLAN pro", true, "/plan", "pro"},
		{"/key   sk-abc123  ", true, "/key", "sk-abc123"},
	}
	for _, tt := range tests {
		isCmd, cmd, args := r.parseCommand(tt.input)
		if isCmd != tt.isCmd || cmd != tt.cmd || args != tt.args {
			t.Errorf("parseCommand(%q) = (%v, %q, %q), want (%v, %q, %q)",
				tt.input, isCmd, cmd, args, tt.isCmd, tt.cmd, tt.args)
		}
	}
}

func TestMaskKey(t *testing.T) {
	if got := maskKey("sk-1234567890"); got != "*********7890" {
		t.Errorf("maskKey long = %q", got)
	}
	if got := maskKey("abc"); got != "***" {
		t.Errorf("maskKey short = %q", got)
	}
}
