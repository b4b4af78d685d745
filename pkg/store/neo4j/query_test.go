package neo4j

import (
	"strings"
	"testing"

	"github.com/okralabs/graphive/pkg/graph"
)

func TestEscapeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Document", "`Document`"},
		{"WORKS_AT", "`WORKS_AT`"},
		{"weird`name", "`weird``name`"},
	}
	for _, tt := range tests {
		if got := escapeName(tt.input); got != tt.want {
			t.Fatalf("escapeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMergeNodesQuery(t *testing.T) {
	query := mergeNodesQuery("PERSON")
	if !strings.Contains(query, "MERGE (n:`PERSON` {id: row.id})") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "SET n += row.props") {
		t.Fatalf("missing property merge: %s", query)
	}
}

func TestMergeRelationshipsQuery(t *testing.T) {
	query := mergeRelationshipsQuery("WORKS_AT")
	if !strings.Contains(query, "MERGE (s)-[r:`WORKS_AT`]->(t)") {
		t.Fatalf("unexpected query: %s", query)
	}
}

func TestMergeSourceQuery(t *testing.T) {
	query := mergeSourceQuery("Document")
	if !strings.Contains(query, "MERGE (d:`Document` {id: $id})") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "MERGE (d)-[:MENTIONS]->(n)") {
		t.Fatalf("missing mentions edge: %s", query)
	}
}

func TestVectorIndexQuery(t *testing.T) {
	query := vectorIndexQuery("vector_index", "Document", "embedding", 1536)
	if !strings.Contains(query, "CREATE VECTOR INDEX `vector_index` IF NOT EXISTS") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "`vector.dimensions`: 1536") {
		t.Fatalf("missing dimension: %s", query)
	}
	if !strings.Contains(query, "FOR (n:`Document`) ON (n.`embedding`)") {
		t.Fatalf("missing label or property: %s", query)
	}
}

func TestFulltextIndexQuery(t *testing.T) {
	query := fulltextIndexQuery("keyword_index", "Document", []string{"text", "source"})
	if !strings.Contains(query, "CREATE FULLTEXT INDEX `keyword_index` IF NOT EXISTS") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "ON EACH [n.`text`, n.`source`]") {
		t.Fatalf("missing properties: %s", query)
	}
}

func TestNodeRowsByLabel(t *testing.T) {
	grouped := nodeRowsByLabel([]graph.Node{
		{ID: "A", Type: "PERSON"},
		{ID: "B", Type: "PERSON", Properties: map[string]any{"description": "b"}},
		{ID: "C", Type: "LOCATION"},
		{ID: "D"},
	})

	if len(grouped["PERSON"]) != 2 {
		t.Fatalf("expected 2 PERSON rows, got %d", len(grouped["PERSON"]))
	}
	if len(grouped["LOCATION"]) != 1 {
		t.Fatalf("expected 1 LOCATION row, got %d", len(grouped["LOCATION"]))
	}
	if len(grouped["Entity"]) != 1 {
		t.Fatalf("expected untyped node under Entity, got %v", grouped)
	}

	row := grouped["PERSON"][1].(map[string]any)
	if row["id"] != "B" {
		t.Fatalf("unexpected row id: %v", row["id"])
	}
	props := row["props"].(map[string]any)
	if props["description"] != "b" {
		t.Fatalf("unexpected props: %v", props)
	}
}

func TestRelationshipRowsByType(t *testing.T) {
	grouped := relationshipRowsByType([]graph.Relationship{
		{SourceID: "A", TargetID: "B", Type: "KNOWS"},
		{SourceID: "B", TargetID: "C", Type: "KNOWS"},
		{SourceID: "A", TargetID: "C", Type: "WORKS_AT"},
	})

	if len(grouped["KNOWS"]) != 2 || len(grouped["WORKS_AT"]) != 1 {
		t.Fatalf("unexpected grouping: %v", grouped)
	}

	row := grouped["WORKS_AT"][0].(map[string]any)
	if row["source"] != "A" || row["target"] != "C" {
		t.Fatalf("unexpected row: %v", row)
	}
}
