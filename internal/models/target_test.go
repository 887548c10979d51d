package models

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John Doe", "john-doe"},
		{"  Acme  Corp  ", "acme-corp"},
		{"example.com", "example-com"},
		{"UPPER CASE", "upper-case"},
		{"already-slugged", "already-slugged"},
		{"trailing punctuation!!!", "trailing-punctuation"},
		{"---", ""},
		{"", ""},
		{"unicode Ünïcode", "unicode-ünïcode"},
		{"a1 b2 c3", "a1-b2-c3"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
