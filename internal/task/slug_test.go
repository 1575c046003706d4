package task

import (
	"strings"
	"testing"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Water the plants", "water-the-plants"},
		{"Müll rausbringen!", "muell-rausbringen"},
		{"Café résumé", "cafe-resume"},
		{"???", "task"},
		{strings.Repeat("word ", 20), "word-word-word-word-word-word-word-word-word-word"},
	}
	for _, tt := range tests {
		if got := GenerateSlug(tt.title); got != tt.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestGenerateFilename(t *testing.T) {
	if got := GenerateFilename(7, "water-plants"); got != "007-water-plants.md" {
		t.Errorf("got %q", got)
	}
	if got := GenerateFilename(1234, "x"); got != "1234-x.md" {
		t.Errorf("got %q", got)
	}
}
