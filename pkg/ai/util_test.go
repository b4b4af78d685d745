package ai

import (
	"testing"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestUnmarshalFlexible(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  testPayload
	}{
		{
			name:  "plain json",
			input: `{"name": "alpha", "count": 2}`,
			want:  testPayload{Name: "alpha", Count: 2},
		},
		{
			name:  "double encoded json",
			input: `"{\"name\": \"beta\", \"count\": 3}"`,
			want:  testPayload{Name: "beta", Count: 3},
		},
		{
			name:  "duplicate leading brace",
			input: `{{"name": "gamma", "count": 4}`,
			want:  testPayload{Name: "gamma", Count: 4},
		},
		{
			name:  "repairable json",
			input: `{"name": 'delta', "count": 5,}`,
			want:  testPayload{Name: "delta", Count: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got testPayload
			if err := UnmarshalFlexible(tt.input, &got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected payload: got %+v, want %+v", got, tt.want)
			}
		})
	}

	t.Run("unrecoverable input fails", func(t *testing.T) {
		var got testPayload
		if err := UnmarshalFlexible("not json at all [", &got); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no fence",
			input: "MATCH (n) RETURN n",
			want:  "MATCH (n) RETURN n",
		},
		{
			name:  "fence without language",
			input: "```\nMATCH (n) RETURN n\n```",
			want:  "MATCH (n) RETURN n",
		},
		{
			name:  "fence with language tag",
			input: "```cypher\nMATCH (n) RETURN n\n```",
			want:  "MATCH (n) RETURN n",
		},
		{
			name:  "surrounding whitespace",
			input: "  ```cypher\nMATCH (n) RETURN n\n```  ",
			want:  "MATCH (n) RETURN n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripCodeFence(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected result: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema(testPayload{})
	if schema == nil {
		t.Fatal("expected a schema")
	}

	schemaPtr := GenerateSchema(&testPayload{})
	if schemaPtr == nil {
		t.Fatal("expected a schema for pointer input")
	}
}
