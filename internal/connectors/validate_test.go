package connectors

import (
	"strings"
	"testing"
)

func TestValidDomain(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"example.com", true},
		{"sub.example.co.uk", true},
		{"xn--nxasmq6b.example", true},
		{"", false},
		{"no-tld", false},
		{"-leading.example.com", false},
		{"spaces in.example.com", false},
		{strings.Repeat("a", 250) + ".com", false},
	}
	for _, tt := range tests {
		if got := validDomain(tt.input); got != tt.want {
			t.Errorf("validDomain(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"not-an-email", false},
		{"missing@tld", false},
		{"@example.com", false},
	}
	for _, tt := range tests {
		if got := validEmail(tt.input); got != tt.want {
			t.Errorf("validEmail(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"+12025550198", true},
		{"202-5550198", true},
		{"  +447911123456  ", true},
		{"", false},
		{"phone", false},
	}
	for _, tt := range tests {
		if got := validPhone(tt.input); got != tt.want {
			t.Errorf("validPhone(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidUsername(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"alice", true},
		{"alice.bob-99_x", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
		{strings.Repeat("a", 31), false},
		{strings.Repeat("a", 30), true},
	}
	for _, tt := range tests {
		if got := validUsername(tt.input); got != tt.want {
			t.Errorf("validUsername(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com/img.jpg", true},
		{"http://example.com", true},
		{"ftp://example.com/file", false},
		{"example.com/no-scheme", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validURL(tt.input); got != tt.want {
			t.Errorf("validURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFillTemplate(t *testing.T) {
	got := fillTemplate("users/{username}/posts", map[string]string{"username": "alice"})
	if got != "users/alice/posts" {
		t.Errorf("fillTemplate = %q", got)
	}

	// Values are path-escaped so they cannot smuggle extra segments.
	got = fillTemplate("users/{username}", map[string]string{"username": "a/b"})
	if got != "users/a%2Fb" {
		t.Errorf("fillTemplate escaped = %q", got)
	}

	got = fillTemplate("dns/{domain}/{record_type}", map[string]string{
		"domain":      "example.com",
		"record_type": "MX",
	})
	if got != "dns/example.com/MX" {
		t.Errorf("fillTemplate multi = %q", got)
	}
}
