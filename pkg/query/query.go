// Package query answers natural language questions by translating them into
// Cypher, executing the statement against the graph store and synthesizing
// an answer from the result rows.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/okralabs/graphive/internal/util"
	"github.com/okralabs/graphive/pkg/ai"
)

const maxAnswerRows = 50

// ErrWriteQuery is returned when the generated statement contains write
// clauses. Generated queries are never allowed to modify the graph.
var ErrWriteQuery = errors.New("generated query contains write clauses")

var writeClausePattern = regexp.MustCompile(
	`(?i)\b(CREATE|MERGE|DELETE|DETACH|REMOVE|SET|DROP)\b`,
)

// ExecutionError is returned when a generated query fails to execute. It
// carries the offending query for diagnostics.
type ExecutionError struct {
	Query string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// GraphQuerier is the part of the graph store the answerer needs: the schema
// for query generation and read query execution.
type GraphQuerier interface {
	Schema(ctx context.Context) (string, error)
	Execute(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Result is the outcome of answering a single question.
type Result struct {
	Answer string
	Query  string
	Rows   []map[string]any
}

// Answerer answers questions against the knowledge graph.
type Answerer struct {
	client   ai.ChatClient
	store    GraphQuerier
	maxTries int
}

// NewAnswererParams defines the configuration for creating an Answerer.
// MaxTries is the number of query generation attempts and defaults to 1, a
// single attempt without retries.
type NewAnswererParams struct {
	Client   ai.ChatClient
	Store    GraphQuerier
	MaxTries int
}

// NewAnswerer creates an answerer.
func NewAnswerer(params NewAnswererParams) *Answerer {
	maxTries := params.MaxTries
	if maxTries <= 0 {
		maxTries = 1
	}

	return &Answerer{
		client:   params.Client,
		store:    params.Store,
		maxTries: maxTries,
	}
}

// Answer translates the question into Cypher, executes it and synthesizes a
// textual answer from the rows. A query that fails to execute returns an
// ExecutionError carrying the generated query.
func (a *Answerer) Answer(ctx context.Context, question string) (Result, error) {
	schema, err := a.store.Schema(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read graph schema: %w", err)
	}

	cypher, err := a.generateQuery(ctx, schema, question)
	if err != nil {
		return Result{}, err
	}

	rows, err := a.store.Execute(ctx, cypher, nil)
	if err != nil {
		return Result{Query: cypher}, &ExecutionError{Query: cypher, Err: err}
	}

	answer, err := a.synthesizeAnswer(ctx, question, cypher, rows)
	if err != nil {
		return Result{Query: cypher, Rows: rows}, err
	}

	return Result{
		Answer: answer,
		Query:  cypher,
		Rows:   rows,
	}, nil
}

// generateQuery asks the model for a Cypher statement and rejects anything
// containing write clauses. Rejected or empty statements fail the attempt;
// further attempts only happen when MaxTries allows them.
func (a *Answerer) generateQuery(ctx context.Context, schema string, question string) (string, error) {
	prompt := fmt.Sprintf(ai.CypherPrompt, schema, question)

	return util.RetryWithContext(ctx, a.maxTries, func(ctx context.Context) (string, error) {
		completion, err := a.client.GenerateCompletion(
			ctx,
			prompt,
			ai.WithTemperature(0.0),
		)
		if err != nil {
			return "", err
		}

		cypher := strings.TrimSpace(ai.StripCodeFence(completion))
		if cypher == "" {
			return "", fmt.Errorf("model returned an empty query")
		}
		if writeClausePattern.MatchString(cypher) {
			return "", fmt.Errorf("%w: %s", ErrWriteQuery, cypher)
		}

		return cypher, nil
	})
}

func (a *Answerer) synthesizeAnswer(
	ctx context.Context,
	question string,
	cypher string,
	rows []map[string]any,
) (string, error) {
	if len(rows) > maxAnswerRows {
		rows = rows[:maxAnswerRows]
	}

	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("failed to encode query results: %w", err)
	}

	prompt := fmt.Sprintf(ai.AnswerPrompt, question, cypher, string(rowsJSON))
	answer, err := a.client.GenerateCompletion(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize answer: %w", err)
	}

	return strings.TrimSpace(answer), nil
}
