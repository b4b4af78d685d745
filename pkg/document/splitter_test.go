package document

import (
	"strings"
	"testing"
)

func TestNewSplitter(t *testing.T) {
	tests := []struct {
		name    string
		params  NewSplitterParams
		wantErr bool
	}{
		{
			name:   "valid character splitter",
			params: NewSplitterParams{ChunkSize: 200, ChunkOverlap: 40},
		},
		{
			name:    "zero chunk size",
			params:  NewSplitterParams{ChunkSize: 0, ChunkOverlap: 0},
			wantErr: true,
		},
		{
			name:    "negative overlap",
			params:  NewSplitterParams{ChunkSize: 100, ChunkOverlap: -1},
			wantErr: true,
		},
		{
			name:    "overlap equals chunk size",
			params:  NewSplitterParams{ChunkSize: 100, ChunkOverlap: 100},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			params:  NewSplitterParams{Mode: "words", ChunkSize: 100, ChunkOverlap: 10},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSplitter(tt.params)
			if tt.wantErr && err == nil {
				t.Fatal("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSplitCharacterMode(t *testing.T) {
	t.Run("empty text yields no chunks", func(t *testing.T) {
		s := mustSplitter(t, NewSplitterParams{ChunkSize: 100, ChunkOverlap: 10})
		if chunks := s.Split(""); len(chunks) != 0 {
			t.Fatalf("expected no chunks, got %d", len(chunks))
		}
	})

	t.Run("short text yields one chunk", func(t *testing.T) {
		s := mustSplitter(t, NewSplitterParams{ChunkSize: 100, ChunkOverlap: 10})
		chunks := s.Split("short text")
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0] != "short text" {
			t.Fatalf("unexpected chunk content: %q", chunks[0])
		}
	})

	t.Run("3000 chars with size 1000 overlap 100 yields 4 chunks", func(t *testing.T) {
		s := mustSplitter(t, NewSplitterParams{ChunkSize: 1000, ChunkOverlap: 100})
		chunks := s.Split(strings.Repeat("a", 3000))
		if len(chunks) != 4 {
			t.Fatalf("expected 4 chunks, got %d", len(chunks))
		}
		for i, chunk := range chunks {
			if len(chunk) > 1000 {
				t.Fatalf("chunk %d exceeds chunk size: %d chars", i, len(chunk))
			}
		}
	})

	t.Run("consecutive chunks share the overlap", func(t *testing.T) {
		s := mustSplitter(t, NewSplitterParams{ChunkSize: 10, ChunkOverlap: 4})
		text := "abcdefghijklmnopqrstuvwxyz"
		chunks := s.Split(text)
		for i := 1; i < len(chunks); i++ {
			prevTail := chunks[i-1][len(chunks[i-1])-4:]
			head := chunks[i][:4]
			if prevTail != head {
				t.Fatalf("chunk %d does not overlap: tail %q, head %q", i, prevTail, head)
			}
		}
	})

	t.Run("chunk count matches the closed formula", func(t *testing.T) {
		cases := []struct {
			length, size, overlap int
		}{
			{3000, 1000, 100},
			{1000, 1000, 100},
			{1001, 1000, 100},
			{50, 200, 40},
			{200, 200, 40},
			{201, 200, 40},
			{10000, 200, 40},
		}
		for _, tc := range cases {
			s := mustSplitter(t, NewSplitterParams{ChunkSize: tc.size, ChunkOverlap: tc.overlap})
			chunks := s.Split(strings.Repeat("x", tc.length))

			want := 1
			if tc.length > tc.size {
				step := tc.size - tc.overlap
				want = (tc.length - tc.overlap + step - 1) / step
			}
			if len(chunks) != want {
				t.Fatalf("L=%d c=%d o=%d: expected %d chunks, got %d",
					tc.length, tc.size, tc.overlap, want, len(chunks))
			}
		}
	})

	t.Run("handles multibyte runes", func(t *testing.T) {
		s := mustSplitter(t, NewSplitterParams{ChunkSize: 4, ChunkOverlap: 1})
		chunks := s.Split("äöüßäöüß")
		joined := strings.Join(chunks, "")
		if !strings.Contains(joined, "äöüß") {
			t.Fatalf("multibyte runes were split incorrectly: %q", chunks)
		}
	})
}

func mustSplitter(t *testing.T, params NewSplitterParams) *Splitter {
	t.Helper()
	s, err := NewSplitter(params)
	if err != nil {
		t.Fatalf("failed to create splitter: %v", err)
	}
	return s
}
