package util

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "collapses whitespace runs",
			input: "hello   \t world",
			want:  "hello world",
		},
		{
			name:  "single newline becomes space",
			input: "hello\nworld",
			want:  "hello world",
		},
		{
			name:  "blank line becomes single newline",
			input: "para one\n\n\npara two",
			want:  "para one\npara two",
		},
		{
			name:  "drops invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
		{
			name:  "drops non printable runes",
			input: "hel\x00\x01lo",
			want:  "hello",
		},
		{
			name:  "trims leading whitespace",
			input: "  \n hello",
			want:  "hello",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanText(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected cleaned text: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMin(t *testing.T) {
	if got := Min(3, 5); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := Min(5, 3); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}
