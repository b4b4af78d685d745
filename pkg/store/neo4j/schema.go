package neo4j

import (
	"context"
	"fmt"
	"strings"

	"github.com/okralabs/graphive/pkg/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Schema returns a textual description of the graph schema: node labels and
// their properties, relationship types and their properties, and the
// relationship patterns present in the data.
func (s *Store) Schema(ctx context.Context) (string, error) {
	nodeRows, err := s.run(ctx, neo4j.AccessModeRead, nodePropertiesQuery, nil)
	if err != nil {
		return "", &store.StoreError{Op: "read node schema", Err: err}
	}

	relRows, err := s.run(ctx, neo4j.AccessModeRead, relPropertiesQuery, nil)
	if err != nil {
		return "", &store.StoreError{Op: "read relationship schema", Err: err}
	}

	patternRows, err := s.run(ctx, neo4j.AccessModeRead, relPatternsQuery, nil)
	if err != nil {
		return "", &store.StoreError{Op: "read relationship patterns", Err: err}
	}

	var sb strings.Builder

	sb.WriteString("Node properties:\n")
	writeProperties(&sb, nodeRows, "nodeType")

	sb.WriteString("Relationship properties:\n")
	writeProperties(&sb, relRows, "relType")

	sb.WriteString("The relationships:\n")
	for _, row := range patternRows {
		from := firstLabel(row["from"])
		to := firstLabel(row["to"])
		relType, _ := row["type"].(string)
		if from == "" || to == "" || relType == "" {
			continue
		}
		fmt.Fprintf(&sb, "(:%s)-[:%s]->(:%s)\n", from, relType, to)
	}

	return sb.String(), nil
}

// writeProperties groups schema rows by their type column and writes one
// line per type listing its properties.
func writeProperties(sb *strings.Builder, rows []map[string]any, typeKey string) {
	grouped := make(map[string][]string)
	var order []string

	for _, row := range rows {
		typeName, _ := row[typeKey].(string)
		propName, _ := row["propertyName"].(string)
		if typeName == "" || propName == "" {
			continue
		}

		propType := "ANY"
		if types, ok := row["propertyTypes"].([]any); ok && len(types) > 0 {
			if t, ok := types[0].(string); ok {
				propType = t
			}
		}

		if _, seen := grouped[typeName]; !seen {
			order = append(order, typeName)
		}
		grouped[typeName] = append(grouped[typeName], fmt.Sprintf("%s: %s", propName, propType))
	}

	for _, typeName := range order {
		fmt.Fprintf(sb, "%s {%s}\n", typeName, strings.Join(grouped[typeName], ", "))
	}
}

func firstLabel(value any) string {
	labels, ok := value.([]any)
	if !ok || len(labels) == 0 {
		return ""
	}
	label, _ := labels[0].(string)
	return label
}
