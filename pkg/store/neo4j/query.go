package neo4j

import (
	"fmt"
	"strings"
)

const clearQuery = `MATCH (n) DETACH DELETE n`

// escapeName quotes a label, relationship type or index name for safe use
// in Cypher. Names cannot be passed as query parameters.
func escapeName(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func mergeNodesQuery(label string) string {
	return fmt.Sprintf(
		"UNWIND $rows AS row MERGE (n:%s {id: row.id}) SET n += row.props",
		escapeName(label),
	)
}

func mergeRelationshipsQuery(relType string) string {
	return fmt.Sprintf(
		"UNWIND $rows AS row "+
			"MATCH (s {id: row.source}) "+
			"MATCH (t {id: row.target}) "+
			"MERGE (s)-[r:%s]->(t) SET r += row.props",
		escapeName(relType),
	)
}

func mergeSourceQuery(sourceLabel string) string {
	return fmt.Sprintf(
		"MERGE (d:%s {id: $id}) "+
			"SET d.text = $text, d.source = $source, d.seq = $seq "+
			"WITH d UNWIND $nodeIds AS nid "+
			"MATCH (n {id: nid}) "+
			"MERGE (d)-[:MENTIONS]->(n)",
		escapeName(sourceLabel),
	)
}

func vectorIndexQuery(indexName string, nodeLabel string, embeddingProperty string, dimension int) string {
	return fmt.Sprintf(
		"CREATE VECTOR INDEX %s IF NOT EXISTS "+
			"FOR (n:%s) ON (n.%s) "+
			"OPTIONS {indexConfig: {`vector.dimensions`: %d, `vector.similarity_function`: 'cosine'}}",
		escapeName(indexName),
		escapeName(nodeLabel),
		escapeName(embeddingProperty),
		dimension,
	)
}

func fulltextIndexQuery(indexName string, nodeLabel string, textProperties []string) string {
	props := make([]string, 0, len(textProperties))
	for _, p := range textProperties {
		props = append(props, "n."+escapeName(p))
	}

	return fmt.Sprintf(
		"CREATE FULLTEXT INDEX %s IF NOT EXISTS FOR (n:%s) ON EACH [%s]",
		escapeName(indexName),
		escapeName(nodeLabel),
		strings.Join(props, ", "),
	)
}

// missingEmbeddingsQuery fetches a batch of nodes that have text but no
// embedding yet. The node text is the concatenation of the configured text
// properties.
func missingEmbeddingsQuery(nodeLabel string, embeddingProperty string) string {
	return fmt.Sprintf(
		"MATCH (n:%s) WHERE n.%s IS NULL "+
			"WITH n, reduce(acc = '', p IN $props | acc + coalesce(n[p], '') + '\\n') AS text "+
			"WHERE trim(text) <> '' "+
			"RETURN n.id AS id, text LIMIT $limit",
		escapeName(nodeLabel),
		escapeName(embeddingProperty),
	)
}

func setEmbeddingsQuery(nodeLabel string) string {
	return fmt.Sprintf(
		"UNWIND $rows AS row MATCH (n:%s {id: row.id}) "+
			"CALL db.create.setNodeVectorProperty(n, $prop, row.embedding)",
		escapeName(nodeLabel),
	)
}

const vectorSearchQuery = `
CALL db.index.vector.queryNodes($index, $k, $embedding) YIELD node, score
RETURN node.id AS id, coalesce(node[$prop], '') AS text, score`

const fulltextSearchQuery = `
CALL db.index.fulltext.queryNodes($index, $query, {limit: $k}) YIELD node, score
RETURN node.id AS id, coalesce(node[$prop], '') AS text, score`

const nodePropertiesQuery = `
CALL db.schema.nodeTypeProperties()
YIELD nodeType, propertyName, propertyTypes
RETURN nodeType, propertyName, propertyTypes`

const relPropertiesQuery = `
CALL db.schema.relTypeProperties()
YIELD relType, propertyName, propertyTypes
RETURN relType, propertyName, propertyTypes`

const relPatternsQuery = `
MATCH (a)-[r]->(b)
RETURN DISTINCT labels(a) AS from, type(r) AS type, labels(b) AS to
LIMIT 100`
