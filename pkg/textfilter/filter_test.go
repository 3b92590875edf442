package textfilter

import (
	"testing"
)

func TestProfanityFilter_FilterText(t *testing.T) {
	filter := NewProfanityFilter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple replacement",
			input:    "What the hell is a transformer?",
			expected: "What the heck is a transformer?",
		},
		{
			name:     "multiple words",
			input:    "This damn resume is crap!",
			expected: "This dang resume is crud!",
		},
		{
			name:     "uppercase",
			input:    "DAMN that's a good offer!",
			expected: "DANG that's a good offer!",
		},
		{
			name:     "title case",
			input:    "Hell yes, you're hired",
			expected: "Heck yes, you're hired",
		},
		{
			name:     "longer word wins",
			input:    "My old boss was an asshole.",
			expected: "My old boss was an jerk.",
		},
		{
			name:     "word boundaries",
			input:    "I love classical assessment methods",
			expected: "I love classical assessment methods",
		},
		{
			name:     "clean text untouched",
			input:    "Focus on fundamentals first.",
			expected: "Focus on fundamentals first.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.FilterText(tt.input); got != tt.expected {
				t.Errorf("FilterText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestProfanityFilter_ContainsProfanity(t *testing.T) {
	filter := NewProfanityFilter()

	if !filter.ContainsProfanity("well, crap") {
		t.Error("Expected profanity to be detected")
	}
	if filter.ContainsProfanity("classic assessment") {
		t.Error("Partial matches should not count")
	}
}

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims", "  Welcome!  \n", "Welcome!"},
		{"speaker prefix", "Sarah: Welcome to TechCorp!", "Welcome to TechCorp!"},
		{"bold speaker prefix", "**Dr. Chen**: Study the basics.", "Study the basics."},
		{"wrapping quotes", `"Nice to meet you."`, "Nice to meet you."},
		{"inner quotes kept", `"Read" the "paper"`, `"Read" the "paper"`},
		{"collapses spaces", "Hello   there,\tfriend", "Hello there, friend"},
		{"collapses blank lines", "One.\n\n\n\nTwo.", "One.\n\nTwo."},
		{"sentence with colon kept", "here is my advice: practice", "here is my advice: practice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanReply(tt.input); got != tt.expected {
				t.Errorf("CleanReply(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizer(t *testing.T) {
	s := NewSanitizer()
	if got := s.Sanitize(`Alex: "Damn, your portfolio is great."`); got != "Dang, your portfolio is great." {
		t.Errorf("Unexpected sanitized reply %q", got)
	}
	if got := s.Sanitize("  Classic   assessment ahead.  "); got != "Classic assessment ahead." {
		t.Errorf("Clean reply should only be normalized, got %q", got)
	}
	if got := s.Sanitize(`""`); got != "" {
		t.Errorf("Bare quotes should sanitize to empty, got %q", got)
	}
}
