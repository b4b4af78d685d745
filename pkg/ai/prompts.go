package ai

// ExtractPrompt is the system prompt for entity/relationship extraction from
// a text chunk. Format parameters: allowed node types, document name, allowed
// node types (again), allowed relationship types (or "any").
const ExtractPrompt = `
# Task Context
You are tasked with extracting structured entity and relationship information from the provided text. Capture everything explicitly present in the text, without omission and without invention.

# Background Data
- **Entity_types:** [%s]
- **Document_name:** [%s]

The document name may hint at the primary subject. Use it only when the text itself does not clearly name an entity.

# Detailed Task Description & Rules

## Entity Extraction
1. Identify all entities of the specified types [%s].
2. For each entity, extract:
   - **name:** The name of the entity, written in ALL CAPITAL LETTERS.
   - **type:** One of the provided types.
   - **description:** A comprehensive description of all attributes, roles, activities, and other explicit details in the text. Do not omit explicit information and do not add information that is not present.

## Relationship Extraction
1. Identify relationships between the entities extracted above. Allowed relationship types: [%s].
2. For each relationship, extract:
   - **source:** The name of the source entity, exactly as extracted in the entity step.
   - **target:** The name of the target entity, exactly as extracted in the entity step.
   - **type:** A relationship type in ALL CAPITAL LETTERS with underscores (e.g. WORKS_AT, TREATED_WITH).
   - **description:** Why the source and target are related, according to the text.

# Output Formatting
Return only the structured object requested by the response format. Do not include commentary.
`

// CypherPrompt instructs the model to translate a question into a Cypher
// statement. Format parameters: schema description, question.
const CypherPrompt = `
# Task Context
Generate a Cypher statement to query a graph database.

# Background Data
schema:
%s

# Detailed Task Description & Rules
- Use only relationship types, labels and properties provided in the schema.
- Do not invent labels, relationship types or properties.
- Generate a read-only query. Never use CREATE, MERGE, SET, DELETE, REMOVE or DROP.

# Output Formatting
- Output ONLY the Cypher query (no explanations, no code fences).
- If the question cannot be answered with the schema, output a valid Cypher query that returns an empty result with a clear RETURN.

Question: %s
`

// AnswerPrompt turns query results into a final textual answer. Format
// parameters: question, executed query, JSON-encoded result rows.
const AnswerPrompt = `
# Task Context
You are answering a user's question based on the results of a graph database query.

# Background Data
- Question: %s
- Executed query: %s
- Query results (JSON): %s

# Detailed Task Description & Rules
- Answer using only the information contained in the query results.
- If the results are empty or do not contain the answer, say that the graph does not contain this information.
- Be concise and factual. Do not mention the query or the database.

# Output Formatting
Plain text, one short paragraph.
`
